// Package client is the typed facade over the copywriter HTTP API used by
// the terminal client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
)

const defaultTimeout = 90 * time.Second

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%d)", e.Message, e.Details, e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// IsAuth reports whether err is a rejected or missing credential.
func IsAuth(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Config struct {
	// BaseURL includes the service prefix, e.g. http://localhost:8080/copywriter.
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
	}, nil
}

// WithToken returns a copy of c that sends token as its bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body dto.ErrorResponse
		if json.Unmarshal(raw, &body) == nil && body.Error != "" {
			apiErr.Message = body.Error
			apiErr.Details = body.Details
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
			if dest != nil {
				// some endpoints report failure with their regular body
				_ = json.Unmarshal(raw, dest)
			}
		}
		slog.DebugContext(ctx, "api request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"request_id", resp.Header.Get(dto.RequestIDHeader))
		return apiErr
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
