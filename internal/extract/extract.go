// Package extract turns normalized document text into a fully keyed record using a language
// model backend, degrading to keyword matching when the backend is unavailable.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/lease-analyzer/constants"
	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/doctext"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

// Result is the record plus how it was obtained.
type Result struct {
	Record         record.Record
	Status         constants.ExtractStatus
	Raw            string   // backend response as received; empty for keyword fallback
	Dropped        []string // response keys outside the schema
	SchemaWarnings []string
	Model          string
	Elapsed        time.Duration
}

type Config struct {
	Model       string
	Temperature float64
	Budget      int // characters of text sent to the backend; <= 0 sends everything
}

type Extractor struct {
	completer llm.Completer
	cfg       Config
	logger    *slog.Logger
}

// NewExtractor builds an Extractor. A nil completer means every call uses keyword fallback.
func NewExtractor(completer llm.Completer, cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Budget == 0 {
		cfg.Budget = doctext.ExtractionBudget
	}
	return &Extractor{completer: completer, cfg: cfg, logger: logger}
}

// Extract never fails: backend errors fall back to keywords, unparseable responses degrade
// to a record whose notes hold the raw response.
func (e *Extractor) Extract(ctx context.Context, text string) Result {
	ctx, _ = common.EnsureRequestID(ctx)
	log := common.LoggerFrom(ctx, e.logger)
	start := time.Now()

	if e.completer == nil {
		log.Warn("extract.no_backend", "fallback", "keyword")
		return e.keyword(text, start)
	}

	prompt := doctext.Truncate(text, e.cfg.Budget)
	log.Info("extract.start",
		"backend", e.completer.Name(),
		"model", e.cfg.Model,
		"text_len", len(text),
		"prompt_text_len", len(prompt),
	)

	raw, err := e.completer.Complete(ctx, llm.Request{
		System:      llm.BuildExtractionSystemPrompt(),
		User:        llm.BuildExtractionUserPrompt(prompt),
		JSON:        true,
		Schema:      record.JSONSchema(),
		Model:       e.cfg.Model,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		log.Warn("extract.backend_error",
			"error", err,
			"fallback", "keyword",
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return e.keyword(text, start)
	}

	res := Result{Raw: raw, Model: e.cfg.Model}
	pairs, repaired, err := llm.DecodeObject(llm.CleanJSONResponse(raw))
	if err != nil {
		return degraded(log, res, err, start)
	}

	res.Record, res.Dropped = llm.MergeIntoRecord(pairs)
	if repaired && res.Record.IsEmpty() {
		// a repair that recovered no field keeps nothing of the reply
		return degraded(log, res, fmt.Errorf("%w: repaired reply has no known fields (dropped %v)", llm.ErrUnparseable, res.Dropped), start)
	}
	res.Status = constants.ExtractStatusOK
	if repaired {
		res.Status = constants.ExtractStatusRepaired
	}
	if verr := llm.ValidateRecord(res.Record); verr != nil {
		res.SchemaWarnings = append(res.SchemaWarnings, verr.Error())
		log.Warn("extract.schema_warning", "error", verr)
	}
	if len(res.Dropped) > 0 {
		log.Warn("extract.dropped_keys", "keys", res.Dropped)
	}
	res.Elapsed = time.Since(start)

	log.Info("extract.ok",
		"status", res.Status,
		"filled", len(res.Record.Filled()),
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res
}

// degraded keeps the whole reply verbatim in notes.
func degraded(log *slog.Logger, res Result, cause error, start time.Time) Result {
	b := record.NewBuilder()
	b.Set(record.Notes, record.Scalar(res.Raw))
	res.Record = b.Build()
	res.Dropped = nil
	res.Status = constants.ExtractStatusDegraded
	res.Elapsed = time.Since(start)
	log.Warn("extract.degraded",
		"error", cause,
		"raw_len", len(res.Raw),
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res
}

func (e *Extractor) keyword(text string, start time.Time) Result {
	rec := KeywordFallback(text)
	res := Result{
		Record:  rec,
		Status:  constants.ExtractStatusKeyword,
		Model:   "keyword",
		Elapsed: time.Since(start),
	}
	e.logger.Info("extract.keyword.ok",
		"filled", len(rec.Filled()),
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res
}
