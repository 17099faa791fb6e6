package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BitmanAlan/xiaohongshu/common/logger"
)

type anthropicClient struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float64
}

func newAnthropicClient(cfg Config) *anthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	// the Zhipu default only applies to the OpenAI-compatible provider
	if cfg.BaseURL != "" && cfg.BaseURL != defaultZhipuBaseURL {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" || model == "glm-4-plus" {
		model = "claude-sonnet-4-5"
	}

	return &anthropicClient{
		client:      anthropic.NewClient(opts...),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

const defaultZhipuBaseURL = "https://open.bigmodel.cn/api/paas/v4/"

// Complete ignores Request.Schema; structured output is requested through
// the prompt and recovered by the caller's parser.
func (c *anthropicClient) Complete(ctx context.Context, req Request) (*Response, error) {
	sc := logger.StartSpan(ctx, "llm.complete",
		attribute.String("llm.provider", ProviderAnthropic),
		attribute.String("llm.model", c.model))
	defer sc.End()
	ctx = sc.Context()

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	if maxTokens == 0 {
		maxTokens = 2000
	}

	temperature := c.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	// Anthropic caps temperature at 1.0
	temperature = min(temperature, 1.0)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
		Temperature: anthropic.Float(temperature),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	slog.DebugContext(ctx, "llm completion finished",
		"provider", ProviderAnthropic,
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason)

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	text := joinText(parts)
	if text == "" {
		sc.RecordError(ErrEmptyResponse)
		return nil, fmt.Errorf("anthropic messages: %w", ErrEmptyResponse)
	}

	return &Response{
		Text:             text,
		FinishReason:     string(resp.StopReason),
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}, nil
}

func (c *anthropicClient) Model() string    { return c.model }
func (c *anthropicClient) Provider() string { return ProviderAnthropic }
