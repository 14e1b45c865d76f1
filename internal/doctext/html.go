package doctext

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var blockElements = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "tr": {}, "table": {}, "section": {}, "article": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {}, "header": {}, "footer": {},
	"ul": {}, "ol": {}, "blockquote": {}, "pre": {},
}

// htmlText returns the visible text of an HTML document, one line per block element.
func htmlText(raw []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, template").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	var b strings.Builder
	walkHTML(root, &b)
	return b.String(), nil
}

func walkHTML(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if name == "#text" {
			b.WriteString(s.Text())
			return
		}
		if name == "td" || name == "th" {
			b.WriteString("  ")
		}
		walkHTML(s, b)
		if _, ok := blockElements[name]; ok {
			b.WriteString("\n")
		}
	})
}

// plainText decodes bytes as UTF-8, dropping invalid sequences.
func plainText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "")
}
