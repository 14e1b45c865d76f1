package extract

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/lease-analyzer/constants"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

type fieldKeywords struct {
	field    record.Field
	keywords []string // most specific first
}

var keywordTable = []fieldKeywords{
	{record.PropertyAddress, []string{"property address", "premises address", "premises", "address"}},
	{record.Landlord, []string{"landlord", "lessor", "owner"}},
	{record.Tenant, []string{"tenant", "lessee", "resident"}},
	{record.Buyer, []string{"buyer", "purchaser"}},
	{record.Seller, []string{"seller", "vendor"}},
	{record.LeaseStart, []string{"lease start", "start date", "commencement date", "commencing"}},
	{record.LeaseEnd, []string{"lease end", "end date", "expiration date", "expires"}},
	{record.MonthlyRent, []string{"monthly rent", "base rent", "rent amount", "rent"}},
	{record.SecurityDeposit, []string{"security deposit", "damage deposit"}},
	{record.PurchasePrice, []string{"purchase price", "sale price", "sales price"}},
	{record.EarnestMoney, []string{"earnest money", "escrow deposit"}},
	{record.LateFee, []string{"late fee", "late charge"}},
	{record.Utilities, []string{"utilities"}},
	{record.PetPolicy, []string{"pet policy", "pets"}},
	{record.TerminationClause, []string{"early termination", "termination"}},
	{record.OtherFees, []string{"other fees", "additional fees", "parking fee"}},
}

var keywordPatterns = func() map[string]*regexp.Regexp {
	out := map[string]*regexp.Regexp{}
	for _, fk := range keywordTable {
		for _, kw := range fk.keywords {
			out[kw] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b\s*[:=\-]?\s*(.*)$`)
		}
	}
	return out
}()

var (
	reLeaseSignal    = regexp.MustCompile(`(?i)\b(lease|rent|tenant)\b`)
	rePurchaseSignal = regexp.MustCompile(`(?i)\b(purchase|buyer|seller)\b`)
)

// KeywordFallback fills fields from the first line mentioning one of the field's keywords,
// taking the text after the keyword (and an optional ':', '-' or '=' separator).
// document_type is inferred from the whole text. Every other field stays empty.
func KeywordFallback(text string) record.Record {
	lines := strings.Split(text, "\n")
	b := record.NewBuilder()
	for _, fk := range keywordTable {
		if v, ok := firstKeywordValue(lines, fk.keywords); ok {
			b.Set(fk.field, record.Scalar(v))
		}
	}
	if dt, ok := inferDocumentType(text); ok {
		b.Set(record.DocumentType, record.Scalar(string(dt)))
	}
	return b.Build()
}

func firstKeywordValue(lines []string, keywords []string) (string, bool) {
	for _, line := range lines {
		for _, kw := range keywords {
			m := keywordPatterns[kw].FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if v := strings.TrimSpace(m[1]); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

func inferDocumentType(text string) (constants.DocumentType, bool) {
	lease := len(reLeaseSignal.FindAllStringIndex(text, -1))
	purchase := len(rePurchaseSignal.FindAllStringIndex(text, -1))
	switch {
	case lease == 0 && purchase == 0:
		return "", false
	case purchase > lease:
		return constants.PurchaseAgreement, true
	default:
		return constants.Lease, true
	}
}
