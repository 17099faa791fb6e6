package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BitmanAlan/xiaohongshu/common/logger"
)

type openaiClient struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
}

func newOpenAIClient(cfg Config) *openaiClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// one attempt per call; the caller falls back on failure
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "glm-4-plus"
	}

	return &openaiClient{
		client:      openai.NewClient(opts...),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (c *openaiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	sc := logger.StartSpan(ctx, "llm.complete",
		attribute.String("llm.provider", ProviderOpenAI),
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

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(c.temperature),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		sc.RecordError(ErrEmptyResponse)
		return nil, fmt.Errorf("openai chat: no choices: %w", ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	slog.DebugContext(ctx, "llm completion finished",
		"provider", ProviderOpenAI,
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", choice.FinishReason)

	text := joinText([]string{choice.Message.Content})
	if text == "" {
		sc.RecordError(ErrEmptyResponse)
		return nil, fmt.Errorf("openai chat: %w", ErrEmptyResponse)
	}

	return &Response{
		Text:             text,
		FinishReason:     string(choice.FinishReason),
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

func (c *openaiClient) Model() string    { return c.model }
func (c *openaiClient) Provider() string { return ProviderOpenAI }
