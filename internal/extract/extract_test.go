package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/lease-analyzer/constants"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

type fakeCompleter struct {
	response string
	err      error
	requests []llm.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.response, f.err
}

func (f *fakeCompleter) Name() string { return "fake" }

func assertFullyKeyed(t *testing.T, rec record.Record) {
	t.Helper()
	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	for _, name := range record.FieldNames() {
		assert.Contains(t, string(data), `"`+name+`":`)
	}
}

func TestExtractEndToEnd(t *testing.T) {
	fake := &fakeCompleter{response: `{"landlord":"Jane Doe","tenant":"John Roe","monthly_rent":"$2,000"}`}
	e := NewExtractor(fake, Config{Model: "gpt-4o-mini", Temperature: 0.1}, nil)

	res := e.Extract(context.Background(), "Landlord: Jane Doe\nTenant: John Roe\nMonthly Rent: $2,000")

	assert.Equal(t, constants.ExtractStatusOK, res.Status)
	assert.Equal(t, "Jane Doe", res.Record.Get(record.Landlord).Str())
	assert.Equal(t, "John Roe", res.Record.Get(record.Tenant).Str())
	assert.Equal(t, "$2,000", res.Record.Get(record.MonthlyRent).Str())
	assert.ElementsMatch(t, []record.Field{record.Landlord, record.Tenant, record.MonthlyRent}, res.Record.Filled())
	assertFullyKeyed(t, res.Record)
	assert.Empty(t, res.SchemaWarnings)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.True(t, req.JSON)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Contains(t, req.User, "Monthly Rent: $2,000")
}

func TestExtractFencedEqualsBare(t *testing.T) {
	bare := `{"property_address":"123 Main St"}`
	fenced := "```json\n" + bare + "\n```"

	a := NewExtractor(&fakeCompleter{response: bare}, Config{}, nil).Extract(context.Background(), "doc")
	b := NewExtractor(&fakeCompleter{response: fenced}, Config{}, nil).Extract(context.Background(), "doc")

	assert.True(t, a.Record.Equal(b.Record))
	assert.Equal(t, "123 Main St", b.Record.Get(record.PropertyAddress).Str())
	assertFullyKeyed(t, b.Record)
}

func TestExtractProseDegradesToNotes(t *testing.T) {
	prose := "Sorry, I can't identify structured terms in this document."
	res := NewExtractor(&fakeCompleter{response: prose}, Config{}, nil).Extract(context.Background(), "doc")

	assert.Equal(t, constants.ExtractStatusDegraded, res.Status)
	assert.Equal(t, prose, res.Record.Get(record.Notes).Str())
	assert.Equal(t, []record.Field{record.Notes}, res.Record.Filled())
	assertFullyKeyed(t, res.Record)
}

func TestExtractDegradedKeepsRawUncleaned(t *testing.T) {
	raw := "```json\nnot actually json\n```"
	res := NewExtractor(&fakeCompleter{response: raw}, Config{}, nil).Extract(context.Background(), "doc")
	assert.Equal(t, constants.ExtractStatusDegraded, res.Status)
	assert.Equal(t, raw, res.Record.Get(record.Notes).Str())
}

func TestExtractBackendErrorFallsBackToKeywords(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("connection refused")}
	res := NewExtractor(fake, Config{}, nil).Extract(context.Background(), "RESIDENTIAL LEASE\nLandlord: Jane Doe\nTenant: John Roe")

	assert.Equal(t, constants.ExtractStatusKeyword, res.Status)
	assert.Equal(t, "Jane Doe", res.Record.Get(record.Landlord).Str())
	assert.Equal(t, "lease", res.Record.Get(record.DocumentType).Str())
	assertFullyKeyed(t, res.Record)
}

func TestExtractWithoutBackend(t *testing.T) {
	res := NewExtractor(nil, Config{}, nil).Extract(context.Background(), "")
	assert.Equal(t, constants.ExtractStatusKeyword, res.Status)
	assert.True(t, res.Record.IsEmpty())
	assertFullyKeyed(t, res.Record)
}

func TestExtractRepairedAndDropped(t *testing.T) {
	fake := &fakeCompleter{response: `{"tenant": "John Roe", "mood": "happy",}`}
	res := NewExtractor(fake, Config{}, nil).Extract(context.Background(), "doc")

	assert.Equal(t, constants.ExtractStatusRepaired, res.Status)
	assert.Equal(t, "John Roe", res.Record.Get(record.Tenant).Str())
	assert.Equal(t, []string{"mood"}, res.Dropped)
}

func TestExtractRepairWithoutFieldsDegrades(t *testing.T) {
	replies := []string{
		`{I could not find any lease terms in this document.}`,
		`{The landlord is Jane Doe and rent is $2,000}`,
		`{"summary": "Landlord Jane Doe"`,
	}
	for _, reply := range replies {
		t.Run(reply, func(t *testing.T) {
			res := NewExtractor(&fakeCompleter{response: reply}, Config{}, nil).Extract(context.Background(), "doc")

			assert.Equal(t, constants.ExtractStatusDegraded, res.Status)
			assert.Equal(t, reply, res.Record.Get(record.Notes).Str())
			assert.Equal(t, []record.Field{record.Notes}, res.Record.Filled())
			assert.Empty(t, res.Dropped)
			assertFullyKeyed(t, res.Record)
		})
	}
}

func TestExtractNestedFlatFieldIsKeptWithWarning(t *testing.T) {
	fake := &fakeCompleter{response: `{"other_fees":{"parking":"$50","storage":"$20"}}`}
	res := NewExtractor(fake, Config{}, nil).Extract(context.Background(), "doc")

	assert.Equal(t, constants.ExtractStatusOK, res.Status)
	assert.Equal(t, record.KindMapping, res.Record.Get(record.OtherFees).Kind())
	assert.NotEmpty(t, res.SchemaWarnings)
}

func TestExtractTruncatesPromptText(t *testing.T) {
	fake := &fakeCompleter{response: `{}`}
	text := strings.Repeat("a", 50)
	NewExtractor(fake, Config{Budget: 10}, nil).Extract(context.Background(), text)

	require.Len(t, fake.requests, 1)
	assert.True(t, strings.HasSuffix(fake.requests[0].User, "\n"+strings.Repeat("a", 10)))
}

func TestKeywordFallback(t *testing.T) {
	text := strings.Join([]string{
		"RESIDENTIAL LEASE AGREEMENT",
		"Property Address: 12 Oak Lane, Albany NY",
		"Landlord - Acme Holdings LLC",
		"Tenant: John Roe",
		"Monthly Rent: $2,000",
		"Security Deposit: $4,000",
		"Late fee = $75 after the 5th",
		"Pets: one cat allowed",
	}, "\n")

	rec := KeywordFallback(text)
	assert.Equal(t, "12 Oak Lane, Albany NY", rec.Get(record.PropertyAddress).Str())
	assert.Equal(t, "Acme Holdings LLC", rec.Get(record.Landlord).Str())
	assert.Equal(t, "John Roe", rec.Get(record.Tenant).Str())
	assert.Equal(t, "$2,000", rec.Get(record.MonthlyRent).Str())
	assert.Equal(t, "$4,000", rec.Get(record.SecurityDeposit).Str())
	assert.Equal(t, "$75 after the 5th", rec.Get(record.LateFee).Str())
	assert.Equal(t, "one cat allowed", rec.Get(record.PetPolicy).Str())
	assert.Equal(t, "lease", rec.Get(record.DocumentType).Str())
	assert.True(t, rec.Get(record.Buyer).IsEmpty())
}

func TestKeywordFallbackPurchaseAgreement(t *testing.T) {
	rec := KeywordFallback("PURCHASE AGREEMENT\nBuyer: Ann Lee\nSeller: Bob Kim\nPurchase Price: $450,000")
	assert.Equal(t, "purchase_agreement", rec.Get(record.DocumentType).Str())
	assert.Equal(t, "Ann Lee", rec.Get(record.Buyer).Str())
	assert.Equal(t, "$450,000", rec.Get(record.PurchasePrice).Str())
}
