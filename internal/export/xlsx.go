package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter puts the summary on one "Summary" sheet: label in A, value in B.
type XLSXWriter struct{}

func (XLSXWriter) Ext() string { return "xlsx" }
func (XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXWriter) Write(s Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	row := 1
	write := func(label, value string) {
		a, _ := excelize.CoordinatesToCellName(1, row)
		b, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheet, a, label)
		_ = f.SetCellValue(sheet, b, value)
		row++
	}

	write(s.Title, "")
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", "A1", bold)
	}
	row++

	for _, r := range s.Rows {
		write(r.Label, r.Value)
	}
	if s.Notes != "" {
		write("Notes", s.Notes)
	}
	if s.Valuation != "" {
		write("Estimated Value & Rent Analysis", s.Valuation)
	}
	if s.Range != "" {
		write("Estimated Value Range", s.Range)
	}
	for _, qa := range s.Exchanges {
		write("Q ("+qa.Who+")", qa.Question)
		write("A", qa.Answer)
	}

	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "B", 90)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
