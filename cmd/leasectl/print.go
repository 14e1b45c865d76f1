package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/joseph-ayodele/lease-analyzer/internal/doctext"
	"github.com/joseph-ayodele/lease-analyzer/internal/pipeline"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
	"github.com/joseph-ayodele/lease-analyzer/internal/render"
)

func printAnalysis(w io.Writer, a *pipeline.Analysis) {
	fmt.Fprintf(w, "%s (%s, %d page(s)) status=%s\n\n", a.Filename, a.Format, a.Pages, a.Result.Status)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rec := a.Result.Record
	for _, f := range record.Fields() {
		if f == record.Notes {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", render.Label(f), render.Render(rec.Get(f)))
	}
	_ = tw.Flush()

	if notes := rec.Get(record.Notes); !notes.IsEmpty() {
		fmt.Fprintf(w, "\nNotes:\n%s\n", render.Render(notes))
	}
	for _, warn := range a.Result.SchemaWarnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	if len(a.Result.Dropped) > 0 {
		fmt.Fprintf(w, "ignored keys: %s\n", strings.Join(a.Result.Dropped, ", "))
	}
}

func printTables(w io.Writer, tables []doctext.Table) {
	if len(tables) == 0 {
		fmt.Fprintln(w, "no tables found")
		return
	}
	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Table %d (page %d)\n", i+1, t.Page)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(t.Header, "\t"))
		for _, row := range t.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		_ = tw.Flush()
	}
}
