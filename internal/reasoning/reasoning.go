// Package reasoning asks the backend grounded questions about an extracted document:
// valuations and free-form Q&A.
package reasoning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/doctext"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

// Disclosure is appended to narrative valuations that do not call themselves estimates.
const Disclosure = "Disclosure: this is an automated estimate for information only, not an appraisal."

type Config struct {
	Model                string
	AnswerTemperature    float64
	ValuationTemperature float64
	AnswerBudget         int
	ValuationBudget      int
}

// Exchange is one question and its answer. It is never persisted.
type Exchange struct {
	Question string
	Persona  Persona
	Answer   string
}

type Reasoner struct {
	completer llm.Completer
	cfg       Config
	logger    *slog.Logger
}

// NewReasoner builds a Reasoner. With a nil completer every call fails with
// common.ErrProviderUnavailable.
func NewReasoner(completer llm.Completer, cfg Config, logger *slog.Logger) *Reasoner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AnswerBudget == 0 {
		cfg.AnswerBudget = doctext.AnswerBudget
	}
	if cfg.ValuationBudget == 0 {
		cfg.ValuationBudget = doctext.ValuationBudget
	}
	return &Reasoner{completer: completer, cfg: cfg, logger: logger}
}

// NarrativeValuation returns a free-text value and rent assessment.
func (r *Reasoner) NarrativeValuation(ctx context.Context, rec record.Record, text string) (string, error) {
	sys := "You are a real estate pricing assistant giving rough value and rent estimates. " +
		"Your answers are estimates, not appraisals."
	user := groundedPrompt(rec, text, r.cfg.ValuationBudget) + "\n\n" + strings.Join([]string{
		"1. Estimate a value range for the property.",
		"2. Say whether the rent (if any) is above or below market.",
		"3. Note 2-3 factors that influence the value.",
		"End with a one-line disclosure that this is an estimate, not an appraisal.",
	}, "\n")

	out, err := r.complete(ctx, "valuation", llm.Request{
		System:      sys,
		User:        user,
		Model:       r.cfg.Model,
		Temperature: r.cfg.ValuationTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("reasoning: valuation: %w", err)
	}
	if !strings.Contains(strings.ToLower(out), "estimate") {
		out = strings.TrimSpace(out + "\n\n" + Disclosure)
	}
	return out, nil
}

// Answer responds to a question grounded in the record and the raw text.
func (r *Reasoner) Answer(ctx context.Context, question string, rec record.Record, text string, persona Persona) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: empty question", common.ErrInvalidInput)
	}
	if persona == "" {
		persona = Neutral
	}
	if persona != Neutral && persona != Agent {
		return "", fmt.Errorf("%w: unknown persona %q", common.ErrInvalidInput, persona)
	}

	user := groundedPrompt(rec, text, r.cfg.AnswerBudget) +
		"\n\nQuestion: " + question +
		"\nAnswer only from the information above. If unsure, say you cannot be certain rather than guessing."

	out, err := r.complete(ctx, "answer", llm.Request{
		System:      persona.systemPrompt(),
		User:        user,
		Model:       r.cfg.Model,
		Temperature: r.cfg.AnswerTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("reasoning: answer: %w", err)
	}
	return out, nil
}

// Ask is Answer returning the whole exchange.
func (r *Reasoner) Ask(ctx context.Context, question string, rec record.Record, text string, persona Persona) (Exchange, error) {
	ans, err := r.Answer(ctx, question, rec, text, persona)
	if err != nil {
		return Exchange{}, err
	}
	if persona == "" {
		persona = Neutral
	}
	return Exchange{Question: strings.TrimSpace(question), Persona: persona, Answer: ans}, nil
}

func (r *Reasoner) complete(ctx context.Context, op string, req llm.Request) (string, error) {
	if r.completer == nil {
		return "", common.ErrProviderUnavailable
	}
	ctx, _ = common.EnsureRequestID(ctx)
	log := common.LoggerFrom(ctx, r.logger)
	start := time.Now()

	log.Info("reasoning.start", "op", op, "backend", r.completer.Name(), "model", req.Model)
	out, err := r.completer.Complete(ctx, req)
	if err != nil {
		log.Error("reasoning.error", "op", op, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}
	out = strings.TrimSpace(out)
	log.Info("reasoning.ok", "op", op, "chars", len(out), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}

// groundedPrompt is the shared grounding: the full record as indented JSON in schema order,
// then a bounded prefix of the document text.
func groundedPrompt(rec record.Record, text string, budget int) string {
	var b strings.Builder
	b.WriteString("Structured document data:\n")
	b.WriteString(rec.Indented())
	b.WriteString("\n\nDocument text:\n")
	b.WriteString(doctext.Truncate(text, budget))
	return b.String()
}
