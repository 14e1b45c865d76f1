// Package provider builds the configured llm.Completer.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm/compat"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm/gemini"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm/openai"
)

// NewCompleter selects a provider by cfg.Provider. A missing API key yields
// common.ErrProviderUnavailable; callers fall back to keyword extraction.
func NewCompleter(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (llm.Completer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Provider {
	case "", "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", common.ErrProviderUnavailable)
		}
		return openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.ExtractionModel,
			Timeout: cfg.Timeout,
		}, logger), nil
	case "gemini":
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.GeminiKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.ExtractionModel,
			Timeout: cfg.Timeout,
		}, logger)
	case "compat":
		return compat.NewClient(compat.Config{
			APIKey:  cfg.CompatKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.ExtractionModel,
			Timeout: cfg.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", common.ErrInvalidInput, cfg.Provider)
	}
}
