package constants

import (
	"strings"
)

type DocumentType string

const (
	Lease             DocumentType = "lease"
	PurchaseAgreement DocumentType = "purchase_agreement"
	OtherDocument     DocumentType = "other"
)

var allDocumentTypes = []DocumentType{
	Lease,
	PurchaseAgreement,
	OtherDocument,
}

func DocumentTypes() []string {
	result := make([]string, len(allDocumentTypes))
	for i, dt := range allDocumentTypes {
		result[i] = string(dt)
	}
	return result
}

// Canonicalize maps a free-form document type label from the model onto the closed vocabulary.
func Canonicalize(input string) (DocumentType, bool) {
	if input == "" {
		return OtherDocument, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)

	synonyms := map[string]DocumentType{
		"lease":                Lease,
		"lease agreement":      Lease,
		"rental agreement":     Lease,
		"residential lease":    Lease,
		"commercial lease":     Lease,
		"sublease":             Lease,
		"tenancy agreement":    Lease,
		"purchase agreement":   PurchaseAgreement,
		"purchase and sale":    PurchaseAgreement,
		"sales contract":       PurchaseAgreement,
		"sale agreement":       PurchaseAgreement,
		"real estate purchase": PurchaseAgreement,
		"purchase contract":    PurchaseAgreement,
		"offer to purchase":    PurchaseAgreement,
		"contract of sale":     PurchaseAgreement,
		"other":                OtherDocument,
	}

	if dt, ok := synonyms[normalized]; ok {
		return dt, true
	}
	switch {
	case strings.Contains(normalized, "lease"), strings.Contains(normalized, "rental"):
		return Lease, true
	case strings.Contains(normalized, "purchase"), strings.Contains(normalized, "sale"):
		return PurchaseAgreement, true
	}
	return OtherDocument, false
}

// SummaryBaseName is the export file stem for a document type.
func (d DocumentType) SummaryBaseName() string {
	switch d {
	case Lease:
		return "lease_summary"
	case PurchaseAgreement:
		return "purchase_agreement_summary"
	default:
		return "document_summary"
	}
}

// Title is the heading used on exported summaries.
func (d DocumentType) Title() string {
	switch d {
	case Lease:
		return "Lease Summary"
	case PurchaseAgreement:
		return "Purchase Agreement Summary"
	default:
		return "Document Summary"
	}
}
