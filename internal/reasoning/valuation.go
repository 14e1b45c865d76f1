package reasoning

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

// Range is a numeric value estimate in US dollars. The zero Range means unavailable.
type Range struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

func (r Range) Available() bool {
	return r != Range{}
}

func (r Range) String() string {
	if !r.Available() {
		return "Unavailable"
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("Low $%.0f / Mid $%.0f / High $%.0f", r.Low, r.Mid, r.High)
}

// valid rejects negative or non-finite members. Ordering is only checked when all
// three are non-zero.
func (r Range) valid() bool {
	for _, v := range []float64{r.Low, r.Mid, r.High} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if r.Low == 0 || r.Mid == 0 || r.High == 0 {
		return true
	}
	return r.Low <= r.Mid && r.Mid <= r.High
}

var reMoneyNoise = regexp.MustCompile(`(?i)[$,\s]|usd`)

// RangedValuation asks for {"low","mid","high"}. Anything unusable in the response yields
// the zero Range without an error; backend errors are returned.
func (r *Reasoner) RangedValuation(ctx context.Context, rec record.Record, text string) (Range, error) {
	sys := "You are a real estate pricing assistant giving rough value estimates, not appraisals. " +
		`Return ONLY a JSON object of the form {"low": number, "mid": number, "high": number} in US dollars.`
	user := groundedPrompt(rec, text, r.cfg.ValuationBudget) +
		"\n\nEstimate the property's market value range."

	out, err := r.complete(ctx, "valuation_range", llm.Request{
		System:      sys,
		User:        user,
		JSON:        true,
		Model:       r.cfg.Model,
		Temperature: r.cfg.ValuationTemperature,
	})
	if err != nil {
		return Range{}, fmt.Errorf("reasoning: valuation range: %w", err)
	}

	rng, perr := parseRange(out)
	if perr != nil {
		common.LoggerFrom(ctx, r.logger).Warn("reasoning.range.degraded", "error", perr, "raw_len", len(out))
		return Range{}, nil
	}
	return rng, nil
}

var rangeKeys = []string{"low", "mid", "high"}

// rangeSchema checks the decoded reply. Decoded scalars are strings, so nested or
// missing members fail here and the amounts are parsed afterwards.
var rangeSchema = map[string]any{
	"type":     "object",
	"required": rangeKeys,
	"properties": map[string]any{
		"low":  map[string]any{"type": "string", "minLength": 1},
		"mid":  map[string]any{"type": "string", "minLength": 1},
		"high": map[string]any{"type": "string", "minLength": 1},
	},
}

func parseRange(raw string) (Range, error) {
	pairs, _, err := llm.DecodeObject(llm.CleanJSONResponse(raw))
	if err != nil {
		return Range{}, err
	}
	var picked []record.Pair
	for _, p := range pairs {
		key := strings.ToLower(strings.TrimSpace(p.Key))
		if slices.Contains(rangeKeys, key) {
			picked = append(picked, record.Pair{Key: key, Value: p.Value})
		}
	}
	data, err := record.Mapping(picked...).MarshalJSON()
	if err != nil {
		return Range{}, err
	}
	if err := llm.ValidateJSONAgainstSchema(rangeSchema, data); err != nil {
		return Range{}, err
	}

	vals := map[string]float64{}
	for _, p := range picked {
		f, err := parseAmount(p.Value)
		if err != nil {
			return Range{}, fmt.Errorf("%s: %w", p.Key, err)
		}
		vals[p.Key] = f
	}
	rng := Range{Low: vals["low"], Mid: vals["mid"], High: vals["high"]}
	if !rng.valid() {
		return Range{}, fmt.Errorf("invalid range %+v", rng)
	}
	return rng, nil
}

func parseAmount(v record.Value) (float64, error) {
	if v.Kind() != record.KindScalar {
		return 0, fmt.Errorf("not a number: %s", v.Kind())
	}
	s := reMoneyNoise.ReplaceAllString(v.Str(), "")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	return strconv.ParseFloat(s, 64)
}
