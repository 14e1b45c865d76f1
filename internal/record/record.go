package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field names one slot of the canonical document record.
type Field string

const (
	PropertyAddress   Field = "property_address"
	Landlord          Field = "landlord"
	Tenant            Field = "tenant"
	Buyer             Field = "buyer"
	Seller            Field = "seller"
	LeaseStart        Field = "lease_start"
	LeaseEnd          Field = "lease_end"
	MonthlyRent       Field = "monthly_rent"
	SecurityDeposit   Field = "security_deposit"
	PurchasePrice     Field = "purchase_price"
	EarnestMoney      Field = "earnest_money"
	LateFee           Field = "late_fee"
	Utilities         Field = "utilities"
	PetPolicy         Field = "pet_policy"
	TerminationClause Field = "termination_clause"
	OtherFees         Field = "other_fees"
	Notes             Field = "notes"
	DocumentType      Field = "document_type"
)

// allFields is the schema order; serialization and display follow it.
var allFields = []Field{
	PropertyAddress,
	Landlord,
	Tenant,
	Buyer,
	Seller,
	LeaseStart,
	LeaseEnd,
	MonthlyRent,
	SecurityDeposit,
	PurchasePrice,
	EarnestMoney,
	LateFee,
	Utilities,
	PetPolicy,
	TerminationClause,
	OtherFees,
	Notes,
	DocumentType,
}

var fieldSet = func() map[Field]struct{} {
	m := make(map[Field]struct{}, len(allFields))
	for _, f := range allFields {
		m[f] = struct{}{}
	}
	return m
}()

// Fields returns every schema field in schema order.
func Fields() []Field {
	return append([]Field(nil), allFields...)
}

// FieldNames returns the schema field names in schema order.
func FieldNames() []string {
	out := make([]string, len(allFields))
	for i, f := range allFields {
		out[i] = string(f)
	}
	return out
}

// ParseField reports whether name is a schema field.
func ParseField(name string) (Field, bool) {
	f := Field(name)
	_, ok := fieldSet[f]
	return f, ok
}

// Record is the canonical, immutable extraction result for one document.
// Every schema field is always readable; absent fields are Empty.
type Record struct {
	values map[Field]Value
}

// New returns a record with every field empty.
func New() Record {
	return NewBuilder().Build()
}

// Get returns the value for f, Empty when unset.
func (r Record) Get(f Field) Value {
	return r.values[f]
}

// Filled lists the non-empty fields in schema order.
func (r Record) Filled() []Field {
	var out []Field
	for _, f := range allFields {
		if !r.values[f].IsEmpty() {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty reports whether no field carries a value.
func (r Record) IsEmpty() bool {
	return len(r.Filled()) == 0
}

// Equal compares every field.
func (r Record) Equal(o Record) bool {
	for _, f := range allFields {
		if !r.Get(f).Equal(o.Get(f)) {
			return false
		}
	}
	return true
}

// MarshalJSON writes every field in schema order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range allFields {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", string(f))
		if err := r.Get(f).writeJSON(&buf); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Indented returns the record as indented JSON, stable key order.
func (r Record) Indented() string {
	raw, _ := r.MarshalJSON()
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}

// Builder assembles a Record. Build copies, so later Sets never leak into built records.
type Builder struct {
	values map[Field]Value
}

func NewBuilder() *Builder {
	return &Builder{values: make(map[Field]Value, len(allFields))}
}

// Set stores v for f. Non-schema fields are ignored and reported false.
func (b *Builder) Set(f Field, v Value) bool {
	if _, ok := fieldSet[f]; !ok {
		return false
	}
	b.values[f] = v
	return true
}

// Has reports whether f was set to a non-empty value.
func (b *Builder) Has(f Field) bool {
	v, ok := b.values[f]
	return ok && !v.IsEmpty()
}

func (b *Builder) Build() Record {
	values := make(map[Field]Value, len(allFields))
	for _, f := range allFields {
		values[f] = b.values[f]
	}
	return Record{values: values}
}

// FromJSON rebuilds a record from its JSON form. Unknown keys are returned, not kept.
func FromJSON(data []byte) (Record, []string, error) {
	pairs, err := DecodeObject(data)
	if err != nil {
		return Record{}, nil, err
	}
	b := NewBuilder()
	var unknown []string
	for _, p := range pairs {
		f, ok := ParseField(p.Key)
		if !ok {
			unknown = append(unknown, p.Key)
			continue
		}
		b.Set(f, p.Value)
	}
	return b.Build(), unknown, nil
}
