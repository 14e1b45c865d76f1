package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm"
)

// Config for the Gemini client.
type Config struct {
	APIKey  string
	BaseURL string // empty = SDK default
	Model   string // e.g. "gemini-2.0-flash"
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	sdk    *genai.Client
	logger *slog.Logger
}

var _ llm.Completer = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key not set", common.ErrProviderUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	sdk, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{cfg: cfg, sdk: sdk, logger: logger}, nil
}

func (c *Client) Name() string { return "gemini" }

// Complete implements llm.Completer over generateContent.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	log := common.LoggerFrom(ctx, c.logger)
	start := time.Now()
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	ctx, cancel := common.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	log.Info("llm.gemini.request", "model", model, "json", req.JSON, "user_len", len(req.User))
	result, err := c.sdk.Models.GenerateContent(ctx, model, genai.Text(req.User), config)
	if err != nil {
		log.Error("llm.gemini.error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		log.Error("llm.gemini.empty", "elapsed_ms", time.Since(start).Milliseconds())
		return "", errors.New("empty gemini response")
	}
	log.Info("llm.gemini.ok", "chars", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}
