package record

import "github.com/joseph-ayodele/lease-analyzer/constants"

// flatFields should be plain strings; the model is told not to nest them.
var flatFields = map[Field]struct{}{
	PropertyAddress: {},
	Landlord:        {},
	Tenant:          {},
	Buyer:           {},
	Seller:          {},
	LeaseStart:      {},
	LeaseEnd:        {},
	DocumentType:    {},
}

// FlattenedFields are the fields most often returned nested; prompts carry an explicit
// flattening rule for them.
var FlattenedFields = []Field{OtherFees, Utilities, LateFee, TerminationClause, PetPolicy}

// IsFlat reports whether f is expected to be a plain scalar.
func IsFlat(f Field) bool {
	_, ok := flatFields[f]
	return ok
}

// JSONSchema returns the record contract as a JSON-Schema (draft 2020-12 subset) map.
// It is sent to the model as a shape hint and used locally for lenient validation.
func JSONSchema() map[string]any {
	props := make(map[string]any, len(allFields))
	for _, f := range allFields {
		if IsFlat(f) {
			props[string(f)] = map[string]any{"type": []string{"string", "number", "null"}}
			continue
		}
		props[string(f)] = map[string]any{
			"type": []string{"string", "number", "boolean", "object", "array", "null"},
		}
	}
	enum := []any{"", nil}
	for _, dt := range constants.DocumentTypes() {
		enum = append(enum, dt)
	}
	props[string(DocumentType)] = map[string]any{
		"type": []string{"string", "null"},
		"enum": enum,
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             FieldNames(),
	}
}
