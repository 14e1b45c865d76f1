package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

func TestCleanJSONResponse(t *testing.T) {
	bare := `{"property_address":"123 Main St"}`
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", bare, bare},
		{"json fence", "```json\n" + bare + "\n```", bare},
		{"upper fence", "```JSON\n" + bare + "\n```", bare},
		{"plain fence", "```\n" + bare + "\n```", bare},
		{"padded", "  \n```json\n" + bare + "\n```  \n", bare},
		{"single line fence", "```json " + bare + " ```", bare},
		{"prose untouched", "I could not find a lease.", "I could not find a lease."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONResponse(tt.in))
		})
	}
}

func TestDecodeObjectStrictKeepsOrder(t *testing.T) {
	pairs, repaired, err := DecodeObject(`{"tenant":"John","landlord":"Jane","other_fees":{"parking":"$50","pet":"$25"}}`)
	require.NoError(t, err)
	assert.False(t, repaired)
	require.Len(t, pairs, 3)
	assert.Equal(t, "tenant", pairs[0].Key)
	fees := pairs[2].Value.Pairs()
	require.Len(t, fees, 2)
	assert.Equal(t, "parking", fees[0].Key)
}

func TestDecodeObjectRepairsTrailingComma(t *testing.T) {
	pairs, repaired, err := DecodeObject(`{"tenant": "John Roe", "monthly_rent": "$2,000",}`)
	require.NoError(t, err)
	assert.True(t, repaired)
	require.Len(t, pairs, 2)
	assert.Equal(t, "John Roe", pairs[0].Value.Str())
}

func TestDecodeObjectRejectsProseAndArrays(t *testing.T) {
	for _, in := range []string{
		"The document appears to be a lease between Jane and John.",
		`["a","b"]`,
		`"just a string"`,
		"",
	} {
		_, _, err := DecodeObject(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrUnparseable), in)
	}
}

func TestMergeIntoRecord(t *testing.T) {
	pairs, _, err := DecodeObject(`{"landlord":"Jane Doe","Address":"1 Elm St","rent":"$900","monthly_rent":"$1,000","type":"Residential Lease","favorite_color":"blue"}`)
	require.NoError(t, err)

	rec, dropped := MergeIntoRecord(pairs)
	assert.Equal(t, "Jane Doe", rec.Get(record.Landlord).Str())
	assert.Equal(t, "1 Elm St", rec.Get(record.PropertyAddress).Str())
	assert.Equal(t, "$1,000", rec.Get(record.MonthlyRent).Str(), "alias never overwrites canonical key")
	assert.Equal(t, "lease", rec.Get(record.DocumentType).Str())
	assert.Equal(t, []string{"rent", "favorite_color"}, dropped[len(dropped)-2:])
	assert.True(t, rec.Get(record.Tenant).IsEmpty())
}

func TestMergeIntoRecordDocumentTypeVocabulary(t *testing.T) {
	tests := map[string]string{
		"purchase_agreement": "purchase_agreement",
		"Sales Contract":     "purchase_agreement",
		"memo":               "other",
	}
	for in, want := range tests {
		rec, _ := MergeIntoRecord([]record.Pair{{Key: "document_type", Value: record.Scalar(in)}})
		assert.Equal(t, want, rec.Get(record.DocumentType).Str(), in)
	}
}

func TestValidateRecord(t *testing.T) {
	rec, _ := MergeIntoRecord([]record.Pair{
		{Key: "tenant", Value: record.Scalar("John")},
		{Key: "utilities", Value: record.Scalar("Water included")},
	})
	assert.NoError(t, ValidateRecord(rec))

	nested, _ := MergeIntoRecord([]record.Pair{
		{Key: "utilities", Value: record.Mapping(record.Pair{Key: "water", Value: record.Scalar("included")})},
	})
	err := ValidateRecord(nested)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json does not match schema")
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"low": map[string]any{"type": "number"}},
		"required":   []string{"low"},
	}
	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{"low": 1}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"low": "x"}`)))
}

func TestExtractionPrompts(t *testing.T) {
	sys := BuildExtractionSystemPrompt()
	for _, f := range record.FieldNames() {
		assert.Contains(t, sys, f)
	}
	assert.Contains(t, sys, "Do not nest JSON")
	assert.Contains(t, sys, "purchase_agreement")
	assert.Contains(t, sys, `"additionalProperties": false`)

	user := BuildExtractionUserPrompt("Tenant: John Roe")
	assert.True(t, strings.HasSuffix(user, "Tenant: John Roe"))
}

func TestSendJSON(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	ctx := common.WithRequestID(context.Background(), "req-1")
	raw, code, err := SendJSON(ctx, srv.Client(), srv.URL, map[string]any{"model": "m"}, map[string]string{"Authorization": "Bearer k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, "Bearer k", gotAuth)
	assert.Equal(t, "m", gotBody["model"])
}

func TestSendJSONNon2xx(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad model", http.StatusBadRequest)
	}))
	defer srv.Close()

	raw, code, err := SendJSON(context.Background(), srv.Client(), srv.URL, map[string]any{}, nil, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(raw), "bad model")
	assert.Equal(t, 1, calls)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.False(t, se.Transient())
	assert.False(t, errors.Is(err, common.ErrProviderUnavailable))
}

func TestSendJSONDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	raw, code, err := SendJSON(context.Background(), srv.Client(), srv.URL, map[string]any{}, nil, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, string(raw), "overloaded")
	assert.Equal(t, 1, calls)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Transient())
	assert.True(t, errors.Is(err, common.ErrProviderUnavailable))
}

func TestDecodeObjectLenientSyntax(t *testing.T) {
	in := "{\n  tenant: \"John Roe\"\n  landlord: \"Jane Doe\"\n}"
	pairs, repaired, err := DecodeObject(in)
	require.NoError(t, err)
	assert.True(t, repaired)
	rec, _ := MergeIntoRecord(pairs)
	assert.False(t, rec.IsEmpty())
}
