package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in     string
		want   DocumentType
		wantOK bool
	}{
		{"lease", Lease, true},
		{"Residential Lease Agreement", Lease, true},
		{"rental_agreement", Lease, true},
		{"Purchase and Sale", PurchaseAgreement, true},
		{"purchase-agreement", PurchaseAgreement, true},
		{"", OtherDocument, false},
		{"deed of trust", OtherDocument, false},
	}
	for _, tt := range tests {
		got, ok := Canonicalize(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestSummaryBaseName(t *testing.T) {
	assert.Equal(t, "lease_summary", Lease.SummaryBaseName())
	assert.Equal(t, "purchase_agreement_summary", PurchaseAgreement.SummaryBaseName())
	assert.Equal(t, "document_summary", OtherDocument.SummaryBaseName())
	assert.Equal(t, "document_summary", DocumentType("").SummaryBaseName())
}

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapExtToFormat(".PDF"))
	assert.Equal(t, DOCX, MapExtToFormat("docx"))
	assert.Equal(t, HTML, MapExtToFormat(".htm"))
	assert.Equal(t, TXT, MapExtToFormat(".md"))
	assert.Equal(t, "", MapExtToFormat(".doc"))
	assert.True(t, IsAllowedExt(".txt"))
	assert.False(t, IsAllowedExt(".jpg"))
}
