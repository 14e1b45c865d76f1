package llm

import (
	"strings"

	"github.com/joseph-ayodele/lease-analyzer/constants"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

// keyAliases folds keys models commonly use instead of the schema name.
var keyAliases = map[string]record.Field{
	"address": record.PropertyAddress,
	"rent":    record.MonthlyRent,
	"deposit": record.SecurityDeposit,
	"lessor":  record.Landlord,
	"lessee":  record.Tenant,
	"price":   record.PurchasePrice,
	"type":    record.DocumentType,
}

// MergeIntoRecord overlays decoded pairs onto the all-empty record. Known keys overwrite,
// aliases fill a field only when its canonical key is absent, and everything else is
// dropped and reported. document_type is folded onto the closed vocabulary.
func MergeIntoRecord(pairs []record.Pair) (record.Record, []string) {
	b := record.NewBuilder()
	canonical := make(map[record.Field]bool, len(pairs))
	for _, p := range pairs {
		if f, ok := record.ParseField(normalizeKey(p.Key)); ok {
			canonical[f] = true
		}
	}

	var dropped []string
	for _, p := range pairs {
		key := normalizeKey(p.Key)
		if f, ok := record.ParseField(key); ok {
			b.Set(f, sanitizeValue(f, p.Value))
			continue
		}
		if f, ok := keyAliases[key]; ok && !canonical[f] {
			b.Set(f, sanitizeValue(f, p.Value))
			continue
		}
		dropped = append(dropped, p.Key)
	}
	return b.Build(), dropped
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}

func sanitizeValue(f record.Field, v record.Value) record.Value {
	if f != record.DocumentType || v.Kind() != record.KindScalar {
		return v
	}
	s := strings.TrimSpace(v.Str())
	if s == "" {
		return record.Empty()
	}
	dt, _ := constants.Canonicalize(s)
	return record.Scalar(string(dt))
}
