package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// PDFWriter lays the summary out with a core font, so its input must be ISO-8859-1.
type PDFWriter struct{}

func (PDFWriter) Ext() string         { return "pdf" }
func (PDFWriter) ContentType() string { return "application/pdf" }

func (PDFWriter) Write(s Summary) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(s.Title, false)
	pdf.AddPage()
	// core fonts are cp1252; translate the UTF-8 encoded latin-1 text
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(s.Title), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	for _, r := range s.Rows {
		pdf.MultiCell(0, 7, tr(r.Label+": "+r.Value), "", "L", false)
	}

	section := func(title, body string) {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 7, tr(body), "", "L", false)
	}
	if s.Notes != "" {
		section("Notes", s.Notes)
	}
	if s.Valuation != "" {
		section("Estimated Value & Rent Analysis", s.Valuation)
	}
	if s.Range != "" {
		section("Estimated Value Range", s.Range)
	}
	if len(s.Exchanges) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Questions & Answers", "", 1, "L", false, 0, "")
		for _, qa := range s.Exchanges {
			pdf.SetFont("Arial", "B", 11)
			pdf.MultiCell(0, 7, tr("Q: "+qa.Question), "", "L", false)
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 7, tr(qa.Who+": "+qa.Answer), "", "L", false)
			pdf.Ln(2)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf layout: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}
