// Package llm is a thin completion client over OpenAI-compatible and
// Anthropic chat APIs. It returns raw assistant text; callers own parsing.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	// ErrNotConfigured is returned by every call on a client built without an API key.
	ErrNotConfigured = errors.New("llm: provider not configured")
	// ErrEmptyResponse is returned when the provider answers with no text.
	ErrEmptyResponse = errors.New("llm: empty response")
)

type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Model() string
	Provider() string
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	// SchemaName and Schema request structured output when the provider
	// supports it. Ignored when Schema is nil.
	SchemaName  string
	Schema      any
	MaxTokens   int
	Temperature *float64 // nil = client default
}

type Response struct {
	Text             string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

type Config struct {
	Provider    string // "openai" (any OpenAI-compatible endpoint) or "anthropic"
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// New builds a client for cfg.Provider. Without an API key it returns a
// client whose calls fail with ErrNotConfigured, so callers take their
// fallback path instead of failing at startup.
func New(cfg Config) (Client, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	if cfg.APIKey == "" {
		return &unavailableClient{provider: provider, model: cfg.Model}, nil
	}

	switch provider {
	case ProviderOpenAI:
		return newOpenAIClient(cfg), nil
	case ProviderAnthropic:
		return newAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

type unavailableClient struct {
	provider string
	model    string
}

func (c *unavailableClient) Complete(ctx context.Context, _ Request) (*Response, error) {
	slog.DebugContext(ctx, "llm call skipped, no api key", "provider", c.provider)
	return nil, ErrNotConfigured
}

func (c *unavailableClient) Model() string    { return c.model }
func (c *unavailableClient) Provider() string { return c.provider }

// GenerateSchema reflects a strict JSON schema for T.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func Temp(t float64) *float64 {
	return &t
}

// StatusCode extracts the HTTP status of a provider API error, or 0.
func StatusCode(err error) int {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode
	}
	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return anErr.StatusCode
	}
	return 0
}

// IsAuthError reports whether the provider rejected our credentials.
func IsAuthError(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// Classify maps an error to a short label for metrics and logs.
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case IsAuthError(err):
		return "auth"
	}
	switch code := StatusCode(err); {
	case code == http.StatusTooManyRequests:
		return "rate_limited"
	case code >= 500:
		return "server_error"
	case code >= 400:
		return "client_error"
	}
	return "network"
}

func joinText(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, ""))
}
