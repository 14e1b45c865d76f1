// Package render turns record values into display and export strings.
package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

// Placeholder is shown for fields with no usable value.
const Placeholder = "—"

// placeholderWords are scalar values models emit to mean "nothing".
var placeholderWords = map[string]struct{}{
	"":          {},
	"none":      {},
	"null":      {},
	"nil":       {},
	"n/a":       {},
	"na":        {},
	Placeholder: {},
}

// Render formats v for display. Mappings become "Key: value; Key: value", sequences are
// joined with ", ", nested mappings are wrapped in parentheses. Render(Scalar(Render(v)))
// equals Render(v).
func Render(v record.Value) string {
	switch v.Kind() {
	case record.KindScalar:
		return scalar(v.Str())
	case record.KindMapping:
		var parts []string
		for _, p := range v.Pairs() {
			s := inner(p.Value)
			if s == "" {
				continue
			}
			parts = append(parts, keyLabel(p.Key)+": "+s)
		}
		return orPlaceholder(strings.Join(parts, "; "))
	case record.KindSequence:
		return orPlaceholder(joinItems(v.Items()))
	default:
		return Placeholder
	}
}

// RenderString applies the scalar rules to free text such as model answers.
func RenderString(s string) string {
	return Render(record.Scalar(s))
}

// Label is the display name of a field: "monthly_rent" -> "Monthly Rent".
func Label(f record.Field) string {
	return keyLabel(string(f))
}

// inner renders a value nested inside a mapping or sequence; empty values yield "".
func inner(v record.Value) string {
	switch v.Kind() {
	case record.KindScalar:
		s := scalar(v.Str())
		if s == Placeholder {
			return ""
		}
		return s
	case record.KindMapping:
		var parts []string
		for _, p := range v.Pairs() {
			if s := inner(p.Value); s != "" {
				parts = append(parts, keyLabel(p.Key)+": "+s)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case record.KindSequence:
		return joinItems(v.Items())
	default:
		return ""
	}
}

func joinItems(items []record.Value) string {
	var parts []string
	for _, it := range items {
		if s := inner(it); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func scalar(s string) string {
	s = strings.TrimFunc(s, isBlank)
	if _, ok := placeholderWords[strings.ToLower(s)]; ok {
		return Placeholder
	}
	return s
}

func orPlaceholder(s string) string {
	s = strings.TrimFunc(s, isBlank)
	if s == "" {
		return Placeholder
	}
	return s
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\u200b' || r == '\ufeff'
}

func keyLabel(key string) string {
	key = strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(key))
	// Casers keep state; one per call.
	return cases.Title(language.English).String(key)
}
