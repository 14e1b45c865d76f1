package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind tags the shape held by a Value.
type Kind int

const (
	KindEmpty Kind = iota
	KindScalar
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "empty"
	}
}

// Pair is one labelled entry of a Mapping. Pair order is preserved.
type Pair struct {
	Key   string
	Value Value
}

// Value is the closed set of shapes a record field can take:
// Empty, Scalar(string), Mapping(ordered pairs) or Sequence(ordered values).
// Numbers and booleans are kept as their JSON text inside a Scalar.
type Value struct {
	kind   Kind
	scalar string
	pairs  []Pair
	items  []Value
}

func Empty() Value { return Value{} }

func Scalar(s string) Value { return Value{kind: KindScalar, scalar: s} }

// Mapping builds a mapping value; a mapping without pairs is Empty.
func Mapping(pairs ...Pair) Value {
	if len(pairs) == 0 {
		return Empty()
	}
	return Value{kind: KindMapping, pairs: append([]Pair(nil), pairs...)}
}

// Sequence builds a sequence value; a sequence without items is Empty.
func Sequence(items ...Value) Value {
	if len(items) == 0 {
		return Empty()
	}
	return Value{kind: KindSequence, items: append([]Value(nil), items...)}
}

func (v Value) Kind() Kind { return v.kind }

// Str returns the scalar text; "" for any other kind.
func (v Value) Str() string { return v.scalar }

func (v Value) Pairs() []Pair { return append([]Pair(nil), v.pairs...) }

func (v Value) Items() []Value { return append([]Value(nil), v.items...) }

// IsEmpty reports whether the value carries no information: Empty, a blank scalar,
// or a mapping/sequence whose members are all empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindScalar:
		return strings.TrimSpace(v.scalar) == ""
	case KindMapping:
		for _, p := range v.pairs {
			if !p.Value.IsEmpty() {
				return false
			}
		}
		return true
	case KindSequence:
		for _, it := range v.items {
			if !it.IsEmpty() {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Equal compares two values structurally, including mapping order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.scalar == o.scalar
	case KindMapping:
		if len(v.pairs) != len(o.pairs) {
			return false
		}
		for i := range v.pairs {
			if v.pairs[i].Key != o.pairs[i].Key || !v.pairs[i].Value.Equal(o.pairs[i].Value) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON writes Empty as null, scalars as strings, mappings as objects in pair order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindScalar:
		b, err := json.Marshal(v.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindMapping:
		buf.WriteByte('{')
		for i, p := range v.pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(p.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := p.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindSequence:
		buf.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("null")
	}
	return nil
}

// ErrNotObject is returned when a JSON document decodes to something other than an object.
var ErrNotObject = errors.New("json value is not an object")

// DecodeObject decodes a JSON object into its top-level pairs, preserving key order at
// every depth. Trailing data after the object is an error.
func DecodeObject(data []byte) ([]Pair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}
	pairs, err := decodePairs(dec)
	if err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode object: trailing data after object")
	}
	return pairs, nil
}

// decodePairs reads object members until the closing brace (already past the opening one).
func decodePairs(dec *json.Decoder) ([]Pair, error) {
	var pairs []Pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return pairs, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			pairs, err := decodePairs(dec)
			if err != nil {
				return Value{}, err
			}
			return Mapping(pairs...), nil
		case '[':
			var items []Value
			for dec.More() {
				it, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, it)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return Value{}, err
			}
			return Sequence(items...), nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return Scalar(t), nil
	case json.Number:
		return Scalar(t.String()), nil
	case bool:
		if t {
			return Scalar("true"), nil
		}
		return Scalar("false"), nil
	case nil:
		return Empty(), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}
