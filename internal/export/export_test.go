package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/reasoning"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

type captureWriter struct{ got Summary }

func (c *captureWriter) Write(s Summary) ([]byte, error) { c.got = s; return []byte("ok"), nil }
func (c *captureWriter) Ext() string                     { return "txt" }
func (c *captureWriter) ContentType() string             { return "text/plain" }

func messyRecord() record.Record {
	b := record.NewBuilder()
	b.Set(record.PropertyAddress, record.Scalar("12 Oak Lane — Unit “B”"))
	b.Set(record.OtherFees, record.Mapping(
		record.Pair{Key: "parking_fee", Value: record.Scalar("$50")},
		record.Pair{Key: "amenities", Value: record.Mapping(record.Pair{Key: "gym", Value: record.Scalar("$30")})},
	))
	b.Set(record.Utilities, record.Sequence(record.Scalar("water"), record.Scalar("trash"), record.Scalar("gas")))
	b.Set(record.Notes, record.Scalar("🏠 Tenant’s notes… 租金 • ok"))
	b.Set(record.DocumentType, record.Scalar("lease"))
	return b.Build()
}

func assertLatin1(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		_, ok := charmap.ISO8859_1.EncodeRune(r)
		require.True(t, ok, "rune %q in %q", r, s)
	}
}

func TestAssemblePDFMessyRecord(t *testing.T) {
	a, err := NewAssembler("pdf", nil)
	require.NoError(t, err)

	p, err := a.Assemble(messyRecord(), "## Estimate\n\n- **Value:** $400k–$450k\n- Rent is *near* market")
	require.NoError(t, err)
	assert.Equal(t, "lease_summary.pdf", p.Filename)
	assert.Equal(t, "application/pdf", p.ContentType)
	require.NotEmpty(t, p.Data)
	assert.True(t, bytes.HasPrefix(p.Data, []byte("%PDF")))
}

func TestAssembleXLSX(t *testing.T) {
	a, err := NewAssembler("xlsx", nil)
	require.NoError(t, err)

	ex := []reasoning.Exchange{{Question: "Pets?", Persona: reasoning.Agent, Answer: "One cat is allowed."}}
	p, err := a.Assemble(messyRecord(), "", WithExchanges(ex), WithRange(reasoning.Range{Low: 1, Mid: 2, High: 3}))
	require.NoError(t, err)
	assert.Equal(t, "lease_summary.xlsx", p.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(p.Data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Summary")
	require.NoError(t, err)

	var flat []string
	for _, r := range rows {
		flat = append(flat, strings.Join(r, "|"))
	}
	joined := strings.Join(flat, "\n")
	assert.Contains(t, joined, "Lease Summary")
	assert.Contains(t, joined, "Property Address|12 Oak Lane - Unit \"B\"")
	assert.Contains(t, joined, "Other Fees|Parking Fee: $50; Amenities: (Gym: $30)")
	assert.Contains(t, joined, "Utilities|water, trash, gas")
	assert.Contains(t, joined, "Q (Alex Morgan)|Pets?")
	assert.Contains(t, joined, "Estimated Value Range|")
}

func TestAssembleFilenames(t *testing.T) {
	tests := map[string]string{
		"lease":              "lease_summary.txt",
		"purchase_agreement": "purchase_agreement_summary.txt",
		"other":              "document_summary.txt",
		"":                   "document_summary.txt",
	}
	for dt, want := range tests {
		b := record.NewBuilder()
		b.Set(record.DocumentType, record.Scalar(dt))
		p, err := NewAssemblerWithWriter(&captureWriter{}, nil).Assemble(b.Build(), "")
		require.NoError(t, err)
		assert.Equal(t, want, p.Filename, dt)
	}
}

func TestAssembleOnlyExportSafeText(t *testing.T) {
	w := &captureWriter{}
	_, err := NewAssemblerWithWriter(w, nil).Assemble(messyRecord(), "Value “high” — **estimate** only…",
		WithExchanges([]reasoning.Exchange{{Question: "¿Qué? 你好", Persona: reasoning.Neutral, Answer: "— n/a —"}}),
		WithRange(reasoning.Range{}))
	require.NoError(t, err)

	s := w.got
	assertLatin1(t, s.Title)
	for _, r := range s.Rows {
		assertLatin1(t, r.Label)
		assertLatin1(t, r.Value)
	}
	assertLatin1(t, s.Notes)
	assertLatin1(t, s.Valuation)
	for _, qa := range s.Exchanges {
		assertLatin1(t, qa.Question)
		assertLatin1(t, qa.Answer)
	}
	assert.Equal(t, `Value "high" - estimate only...`, s.Valuation)
	assert.Equal(t, "Unavailable", s.Range)
	assert.Equal(t, "-", s.Rows[1].Value, "empty landlord renders as export placeholder")
}

func TestAssembleEmptyRecord(t *testing.T) {
	w := &captureWriter{}
	_, err := NewAssemblerWithWriter(w, nil).Assemble(record.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "Document Summary", w.got.Title)
	assert.Empty(t, w.got.Notes)
	assert.Empty(t, w.got.Valuation)
	assert.Empty(t, w.got.Range)
	assert.Len(t, w.got.Rows, len(record.Fields())-2)
}

func TestNewAssemblerUnknownFormat(t *testing.T) {
	_, err := NewAssembler("docx", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
}

func TestFlattenMarkdown(t *testing.T) {
	md := "# Value\n\nRoughly **$450k**, see _comps_.\n\n1. Location\n2. Size\n\n- a\n- b\n\n```\ncode line\n```"
	got := FlattenMarkdown(md)
	assert.Contains(t, got, "Value\n")
	assert.Contains(t, got, "Roughly $450k, see comps.")
	assert.Contains(t, got, "1. Location")
	assert.Contains(t, got, "2. Size")
	assert.Contains(t, got, "* a")
	assert.Contains(t, got, "code line")
	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "#")
	assert.Equal(t, "", FlattenMarkdown("  "))
}
