// Package export assembles an analyzed document into a downloadable summary (PDF or XLSX).
// Everything that reaches a Writer has been through render's export rules.
package export

import (
	"github.com/joseph-ayodele/lease-analyzer/constants"
	"github.com/joseph-ayodele/lease-analyzer/internal/reasoning"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
	"github.com/joseph-ayodele/lease-analyzer/internal/render"
)

// Row is one labelled field of the summary.
type Row struct {
	Label string
	Value string
}

// QA is one exported question/answer pair.
type QA struct {
	Who      string
	Question string
	Answer   string
}

// Summary is the writer-facing view of an analysis. All strings are ISO-8859-1 safe.
type Summary struct {
	Title     string
	Rows      []Row
	Notes     string // empty when the record has no notes
	Valuation string // empty when no valuation was produced
	Range     string // empty when no range was requested
	Exchanges []QA
}

// summaryFields is every field shown as a row; notes and document_type are rendered apart.
func summaryFields() []record.Field {
	var out []record.Field
	for _, f := range record.Fields() {
		if f == record.Notes || f == record.DocumentType {
			continue
		}
		out = append(out, f)
	}
	return out
}

func documentType(rec record.Record) constants.DocumentType {
	dt, _ := constants.Canonicalize(rec.Get(record.DocumentType).Str())
	return dt
}

func buildSummary(rec record.Record, valuation string, o options) Summary {
	s := Summary{Title: render.Latin1(documentType(rec).Title())}
	for _, f := range summaryFields() {
		s.Rows = append(s.Rows, Row{
			Label: render.Latin1(render.Label(f)),
			Value: render.RenderForExport(rec.Get(f)),
		})
	}
	if notes := rec.Get(record.Notes); !notes.IsEmpty() {
		if out := render.RenderForExport(notes); out != render.RenderStringForExport("") {
			s.Notes = out
		}
	}
	if flat := FlattenMarkdown(valuation); flat != "" {
		s.Valuation = render.RenderStringForExport(flat)
	}
	if o.rng != nil {
		s.Range = render.Latin1(o.rng.String())
	}
	for _, ex := range o.exchanges {
		s.Exchanges = append(s.Exchanges, QA{
			Who:      render.Latin1(ex.Persona.DisplayName()),
			Question: render.RenderStringForExport(ex.Question),
			Answer:   render.RenderStringForExport(FlattenMarkdown(ex.Answer)),
		})
	}
	return s
}

type options struct {
	exchanges []reasoning.Exchange
	rng       *reasoning.Range
}

// Option customizes Assemble.
type Option func(*options)

// WithExchanges appends a Q&A transcript section.
func WithExchanges(ex []reasoning.Exchange) Option {
	return func(o *options) { o.exchanges = append(o.exchanges, ex...) }
}

// WithRange adds the numeric valuation range; an unavailable range prints "Unavailable".
func WithRange(r reasoning.Range) Option {
	return func(o *options) { o.rng = &r }
}
