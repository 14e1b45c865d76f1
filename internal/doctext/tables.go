package doctext

import (
	"regexp"
	"strings"
)

var reColumnGap = regexp.MustCompile(`\s{2,}`)

// DetectTables finds tables in layout text: runs of at least two consecutive lines that
// split into two or more columns on gaps of 2+ spaces. The first row is the header.
func DetectTables(layout string, page int) []Table {
	var (
		tables []Table
		run    [][]string
	)
	flush := func() {
		if len(run) >= 2 {
			tables = append(tables, newTable(run, page))
		}
		run = nil
	}
	for _, line := range strings.Split(layout, "\n") {
		cells := splitColumns(line)
		if len(cells) < 2 {
			flush()
			continue
		}
		run = append(run, cells)
	}
	flush()
	return tables
}

func splitColumns(line string) []string {
	line = strings.TrimSpace(strings.ReplaceAll(line, "\t", "  "))
	if line == "" {
		return nil
	}
	return reColumnGap.Split(line, -1)
}

func newTable(rows [][]string, page int) Table {
	header := rows[0]
	t := Table{Page: page, Header: header}
	for _, r := range rows[1:] {
		switch {
		case len(r) < len(header):
			padded := make([]string, len(header))
			copy(padded, r)
			r = padded
		case len(r) > len(header):
			tail := strings.Join(r[len(header)-1:], " ")
			r = append(append([]string(nil), r[:len(header)-1]...), tail)
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}
