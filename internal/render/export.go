package render

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

var typographic = strings.NewReplacer(
	"\u2014", "-", "\u2013", "-", "\u2012", "-", "\u2015", "-", "\u2212", "-", "\u2010", "-", "\u2011", "-",
	"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u201b", "'", "\u2032", "'",
	"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u201f", `"`, "\u2033", `"`,
	"\u2026", "...",
	"\u2022", "*", "\u2023", "*", "\u25e6", "*",
	"\u2002", " ", "\u2003", " ", "\u2009", " ", "\u202f", " ",
)

// RenderForExport is Render restricted to ISO-8859-1, for writers using core PDF fonts.
// Typographic punctuation is transliterated and anything else outside the charset
// becomes '?'.
func RenderForExport(v record.Value) string {
	return latin1(Render(v))
}

// RenderStringForExport applies RenderForExport's rules to free text.
func RenderStringForExport(s string) string {
	return latin1(RenderString(s))
}

// Latin1 makes arbitrary text safe for ISO-8859-1 writers without the value rules.
func Latin1(s string) string {
	return latin1(s)
}

func latin1(s string) string {
	s = norm.NFC.String(s)
	s = typographic.Replace(s)
	enc := charmap.ISO8859_1
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, ok := enc.EncodeRune(r); ok {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
