// Package app wires configuration into a ready Processor for the daemon and the CLI.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/doctext"
	"github.com/joseph-ayodele/lease-analyzer/internal/extract"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm/provider"
	"github.com/joseph-ayodele/lease-analyzer/internal/pipeline"
	"github.com/joseph-ayodele/lease-analyzer/internal/reasoning"
	"github.com/joseph-ayodele/lease-analyzer/internal/repository"
)

// App owns the Processor and the resources behind it.
type App struct {
	Processor *pipeline.Processor
	DB        *repository.DB // nil when history is disabled
	Completer llm.Completer  // nil when no provider is configured
}

type Options struct {
	// NoHistory skips opening the history store even when a DSN is configured.
	NoHistory bool
	// ReuseHistory reuses stored records for byte-identical files.
	ReuseHistory bool
}

// New builds the App. A provider without credentials is not an error: extraction falls back
// to keywords and reasoning calls report common.ErrProviderUnavailable.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger, o Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	completer, err := provider.NewCompleter(ctx, cfg.LLM, logger)
	switch {
	case errors.Is(err, common.ErrProviderUnavailable):
		logger.Warn("llm provider unavailable, using keyword extraction", "provider", cfg.LLM.Provider, "error", err)
		completer = nil
	case err != nil:
		return nil, err
	default:
		logger.Info("llm provider initialized",
			"provider", completer.Name(),
			"extraction_model", cfg.LLM.ExtractionModel,
			"reasoning_model", cfg.LLM.ReasoningModel,
		)
	}

	a := &App{Completer: completer}
	opts := []pipeline.Option{pipeline.WithExportFormat(cfg.Export.Format)}
	if !o.NoHistory && cfg.Store.DSN != "" {
		db, err := repository.Open(ctx, repository.Config{
			DSN:             cfg.Store.DSN,
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		}, logger)
		if err != nil {
			logger.Error("failed to open history store", "error", err)
			return nil, err
		}
		a.DB = db
		opts = append(opts, pipeline.WithAnalyses(repository.NewAnalysisRepository(db, logger)))
		if o.ReuseHistory {
			opts = append(opts, pipeline.WithHistoryReuse())
		}
	}

	reader := doctext.NewReader(doctext.Config{
		Pdftotext: cfg.Reader.Pdftotext,
		MaxPages:  cfg.Reader.MaxPages,
	}, logger)
	extractor := extract.NewExtractor(completer, extract.Config{
		Model:       cfg.LLM.ExtractionModel,
		Temperature: cfg.LLM.ExtractionTemperature,
		Budget:      cfg.Budgets.Extraction,
	}, logger)
	reasoner := reasoning.NewReasoner(completer, reasoning.Config{
		Model:                cfg.LLM.ReasoningModel,
		AnswerTemperature:    cfg.LLM.AnswerTemperature,
		ValuationTemperature: cfg.LLM.ValuationTemperature,
		AnswerBudget:         cfg.Budgets.Answer,
		ValuationBudget:      cfg.Budgets.Valuation,
	}, logger)

	a.Processor = pipeline.NewProcessor(logger, reader, extractor, reasoner, opts...)
	return a, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
