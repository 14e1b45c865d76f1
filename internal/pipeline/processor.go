package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/lease-analyzer/constants"
	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/doctext"
	"github.com/joseph-ayodele/lease-analyzer/internal/export"
	"github.com/joseph-ayodele/lease-analyzer/internal/extract"
	"github.com/joseph-ayodele/lease-analyzer/internal/reasoning"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
	"github.com/joseph-ayodele/lease-analyzer/internal/repository"
	"github.com/joseph-ayodele/lease-analyzer/internal/session"
)

// Processor coordinates read, normalize and extract for one document at a time, then
// answers valuation, question and export calls against the session's current document.
type Processor struct {
	Logger    *slog.Logger
	Reader    *doctext.Reader
	Extractor *extract.Extractor
	Reasoner  *reasoning.Reasoner
	Session   *session.Session
	Analyses  repository.AnalysisRepository // nil disables history

	exportFormat string
	reuse        bool
}

type Option func(*Processor)

// WithAnalyses enables persisting every extraction outcome.
func WithAnalyses(repo repository.AnalysisRepository) Option {
	return func(p *Processor) { p.Analyses = repo }
}

// WithExportFormat sets the format Export uses when the caller names none.
func WithExportFormat(format string) Option {
	return func(p *Processor) { p.exportFormat = format }
}

// WithHistoryReuse makes Analyze reuse a stored backend record for byte-identical files
// instead of calling the backend again. Degraded and keyword outcomes are never reused.
func WithHistoryReuse() Option {
	return func(p *Processor) { p.reuse = true }
}

func NewProcessor(logger *slog.Logger, reader *doctext.Reader, extractor *extract.Extractor, reasoner *reasoning.Reasoner, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		Logger:       logger,
		Reader:       reader,
		Extractor:    extractor,
		Reasoner:     reasoner,
		Session:      session.New(),
		exportFormat: "pdf",
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Analysis is what Analyze reports back about a document.
type Analysis struct {
	DocumentID  uuid.UUID
	Filename    string
	Format      string
	Pages       int
	ContentHash string
	Result      extract.Result
	Reused      bool
}

// Analyze reads path, extracts its record and makes it the session's current document.
// Only read failures are returned; extraction always produces a record.
func (p *Processor) Analyze(ctx context.Context, path string) (*Analysis, error) {
	if err := p.Session.Begin(); err != nil {
		return nil, err
	}
	defer p.Session.End()

	ctx, _ = common.EnsureRequestID(ctx)
	ctx = common.WithSessionID(ctx, p.Session.ID())
	log := common.LoggerFrom(ctx, p.Logger)
	start := time.Now()

	doc, err := p.Reader.ReadText(ctx, path)
	if err != nil {
		log.Error("processor.read.failed", "path", path, "err", err)
		return nil, err
	}
	text := doctext.Normalize(doc.Text)
	log.Info("processor.read.ok",
		"file", doc.Filename,
		"format", doc.Format,
		"pages", doc.Pages,
		"text_len", len(text),
	)

	out := &Analysis{
		DocumentID:  uuid.New(),
		Filename:    doc.Filename,
		Format:      doc.Format,
		Pages:       doc.Pages,
		ContentHash: doc.ContentHash,
	}

	if res, ok := p.fromHistory(ctx, doc.ContentHash); ok {
		out.Result = res
		out.Reused = true
	} else {
		out.Result = p.Extractor.Extract(ctx, text)
		if id, ok := p.persist(ctx, doc, out.Result); ok {
			out.DocumentID = id
		}
	}

	p.Session.Replace(session.State{
		DocumentID:  out.DocumentID,
		Filename:    doc.Filename,
		ContentHash: doc.ContentHash,
		Text:        text,
		Record:      out.Result.Record,
		Status:      out.Result.Status,
		AnalyzedAt:  time.Now().UTC(),
	})
	log.Info("processor.analyze.ok",
		"document_id", out.DocumentID,
		"status", out.Result.Status,
		"reused", out.Reused,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (p *Processor) fromHistory(ctx context.Context, hash string) (extract.Result, bool) {
	if !p.reuse || p.Analyses == nil || hash == "" {
		return extract.Result{}, false
	}
	log := common.LoggerFrom(ctx, p.Logger)
	prev, err := p.Analyses.FindByContentHash(ctx, hash)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Warn("processor.history.lookup_failed", "err", err)
		}
		return extract.Result{}, false
	}
	status := constants.ExtractStatus(prev.Status)
	if status != constants.ExtractStatusOK && status != constants.ExtractStatusRepaired {
		return extract.Result{}, false
	}
	rec, _, err := record.FromJSON(prev.RecordJSON)
	if err != nil {
		log.Warn("processor.history.bad_record", "analysis_id", prev.ID, "err", err)
		return extract.Result{}, false
	}
	log.Info("processor.history.reused", "analysis_id", prev.ID)
	return extract.Result{
		Record: rec,
		Status: status,
		Raw:    prev.RawResponse,
		Model:  prev.Model,
	}, true
}

// persist stores the outcome; failures are logged and never fail the analysis.
func (p *Processor) persist(ctx context.Context, doc doctext.Document, res extract.Result) (uuid.UUID, bool) {
	if p.Analyses == nil {
		return uuid.Nil, false
	}
	log := common.LoggerFrom(ctx, p.Logger)
	recJSON, err := res.Record.MarshalJSON()
	if err != nil {
		log.Warn("processor.persist.marshal_failed", "err", err)
		return uuid.Nil, false
	}
	a, err := p.Analyses.Create(ctx, repository.Analysis{
		Filename:    doc.Filename,
		ContentHash: doc.ContentHash,
		Status:      string(res.Status),
		RecordJSON:  recJSON,
		RawResponse: res.Raw,
		Model:       res.Model,
		ElapsedMS:   res.Elapsed.Milliseconds(),
	})
	if err != nil {
		log.Warn("processor.persist.failed", "err", err)
		return uuid.Nil, false
	}
	return a.ID, true
}

// Current returns the session's current document.
func (p *Processor) Current() (session.State, error) {
	st, ok := p.Session.Current()
	if !ok {
		return session.State{}, common.ErrNoDocument
	}
	return st, nil
}

// Estimate produces the narrative valuation for the current document and keeps it for export.
func (p *Processor) Estimate(ctx context.Context) (string, error) {
	st, err := p.Current()
	if err != nil {
		return "", err
	}
	narrative, err := p.Reasoner.NarrativeValuation(ctx, st.Record, st.Text)
	if err != nil {
		return "", err
	}
	if !p.Session.Update(st.DocumentID, func(s *session.State) { s.Valuation = narrative }) {
		p.Logger.Warn("processor.estimate.stale", "document_id", st.DocumentID)
	}
	return narrative, nil
}

// EstimateRange produces the numeric valuation range; an unavailable range is the zero Range.
func (p *Processor) EstimateRange(ctx context.Context) (reasoning.Range, error) {
	st, err := p.Current()
	if err != nil {
		return reasoning.Range{}, err
	}
	rng, err := p.Reasoner.RangedValuation(ctx, st.Record, st.Text)
	if err != nil {
		return reasoning.Range{}, err
	}
	p.Session.Update(st.DocumentID, func(s *session.State) { s.Range = rng })
	return rng, nil
}

// Ask answers question about the current document in the voice of persona.
func (p *Processor) Ask(ctx context.Context, question string, persona reasoning.Persona) (reasoning.Exchange, error) {
	st, err := p.Current()
	if err != nil {
		return reasoning.Exchange{}, err
	}
	ex, err := p.Reasoner.Ask(ctx, question, st.Record, st.Text, persona)
	if err != nil {
		return reasoning.Exchange{}, err
	}
	p.Session.Update(st.DocumentID, func(s *session.State) { s.Exchanges = append(s.Exchanges, ex) })
	return ex, nil
}

// Export renders the current document, its valuation and any Q&A into a downloadable
// payload. An empty format uses the processor's default.
func (p *Processor) Export(ctx context.Context, format string) (export.Payload, error) {
	st, err := p.Current()
	if err != nil {
		return export.Payload{}, err
	}
	if format == "" {
		format = p.exportFormat
	}
	asm, err := export.NewAssembler(format, common.LoggerFrom(ctx, p.Logger))
	if err != nil {
		return export.Payload{}, err
	}
	opts := []export.Option{export.WithExchanges(st.Exchanges)}
	if st.Range.Available() {
		opts = append(opts, export.WithRange(st.Range))
	}
	payload, err := asm.Assemble(st.Record, st.Valuation, opts...)
	if err != nil {
		return export.Payload{}, fmt.Errorf("export %s: %w", st.Filename, err)
	}
	return payload, nil
}

// Tables lists the tables detected in path without touching the session.
func (p *Processor) Tables(ctx context.Context, path string) ([]doctext.Table, error) {
	return p.Reader.ReadTables(ctx, path)
}

// History lists recent analyses, newest first.
func (p *Processor) History(ctx context.Context, limit int) ([]*repository.Analysis, error) {
	if p.Analyses == nil {
		return nil, fmt.Errorf("%w: history store is disabled", common.ErrInvalidInput)
	}
	return p.Analyses.ListRecent(ctx, limit)
}

// Reset forgets the current document.
func (p *Processor) Reset() {
	p.Session.Clear()
}
