package llm

import (
	"encoding/json"
	"strings"

	"github.com/joseph-ayodele/lease-analyzer/constants"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

// BuildExtractionSystemPrompt frames the extraction call: field names, flattening rule,
// document type vocabulary and the JSON schema.
func BuildExtractionSystemPrompt() string {
	flat := make([]string, 0, len(record.FlattenedFields))
	for _, f := range record.FlattenedFields {
		flat = append(flat, string(f))
	}

	parts := []string{
		"You are an assistant that extracts structured data from real estate leases and purchase agreements.",
		"Always return a single valid JSON object and nothing else.",
		"Use exactly these keys: " + strings.Join(record.FieldNames(), ", ") + ".",
		"If a value is not present in the document, use an empty string.",
		"Do not nest JSON for " + strings.Join(flat, ", ") + "; flatten sub-values into one descriptive string (e.g. \"Water and trash included; tenant pays electric\").",
		"Set document_type to one of: " + strings.Join(constants.DocumentTypes(), ", ") + ".",
		"Copy names, dates and amounts as written; do not invent values.",
		"Put anything important that does not fit another key into notes.",
		"JSON Schema:\n" + mustJSON(record.JSONSchema()),
	}
	return strings.Join(parts, "\n")
}

// BuildExtractionUserPrompt embeds the (already truncated) document text.
func BuildExtractionUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract key information from this document and return the JSON object.\n\n")
	b.WriteString("Document text:\n")
	b.WriteString(text)
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
