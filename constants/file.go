package constants

import "strings"

// Document formats understood by the text readers.
const (
	PDF  = "PDF"
	DOCX = "DOCX"
	HTML = "HTML"
	TXT  = "TXT"
)

// FileTypes holds the formats a document can be analyzed from.
var FileTypes = []string{PDF, DOCX, HTML, TXT}

// AllowedExtensions holds the file extensions accepted for analysis and by the inbox watcher.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"html": {},
	"htm":  {},
	"txt":  {},
	"md":   {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension (with or without the dot) to a document format.
// Unknown extensions map to "".
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "docx":
		return DOCX
	case "html", "htm":
		return HTML
	case "txt", "md":
		return TXT
	default:
		return ""
	}
}

// IsAllowedExt reports whether files with this extension can be analyzed.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
