package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm"
)

var _ llm.Completer = (*Client)(nil)

func (c *Client) Name() string { return "openai" }

// Complete implements llm.Completer over chat completions.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	log := common.LoggerFrom(ctx, c.logger)
	start := time.Now()
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	log.Info("llm.openai.request",
		"model", model,
		"temp", req.Temperature,
		"json", req.JSON,
		"system_len", len(req.System),
		"user_len", len(req.User),
	)
	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		log.Error("llm.openai.error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}
	if len(resp.Choices) == 0 {
		log.Error("llm.openai.no_choices", "elapsed_ms", time.Since(start).Milliseconds())
		return "", errors.New("no choices in openai response")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Info("llm.openai.ok",
		"model", resp.Model,
		"chars", len(content),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
