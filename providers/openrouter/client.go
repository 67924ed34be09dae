package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aliqajarian/tg-chatbot/llm"
)

const (
	// Keys shipped in config templates that were never replaced.
	placeholderAPIKey = "YOUR_OPENROUTER_API_KEY"

	excerptMaxLen = 200
)

type Client struct {
	BaseURL string
	APIKey  string
	Referer string
	HTTP    *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// ConfigError reports a missing or placeholder setting, detected before any
// network call is made.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "openrouter config: " + e.Reason }

// TransportError wraps a connection-level failure (dial, TLS, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "openrouter transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx HTTP response. Excerpt holds at most 200
// characters of the raw body.
type StatusError struct {
	StatusCode int
	Excerpt    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openrouter http %d: %s", e.StatusCode, e.Excerpt)
}

// ParseError reports a body that is not valid JSON.
type ParseError struct {
	Err     error
	Excerpt string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("openrouter parse: %v: %s", e.Err, e.Excerpt)
}
func (e *ParseError) Unwrap() error { return e.Err }

// UpstreamError is an explicit error object inside a well-formed response.
type UpstreamError struct {
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("openrouter api error (code: %s): %s", e.Code, e.Message)
}

// FormatError reports a well-formed body of an unrecognized shape.
type FormatError struct {
	Excerpt string
}

func (e *FormatError) Error() string { return "openrouter unexpected format: " + e.Excerpt }

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []llm.Message `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	start := time.Now()

	key := strings.TrimSpace(c.APIKey)
	if key == "" || key == placeholderAPIKey {
		return llm.Result{}, &ConfigError{Reason: "api key is not configured"}
	}
	if strings.TrimSpace(req.Model) == "" {
		return llm.Result{}, &ConfigError{Reason: "model is not configured"}
	}

	b, err := json.Marshal(chatCompletionRequest{
		Model:     req.Model,
		Messages:  req.Messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return llm.Result{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return llm.Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)
	if ref := strings.TrimSpace(c.Referer); ref != "" {
		httpReq.Header.Set("HTTP-Referer", ref)
		httpReq.Header.Set("X-Title", ref)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return llm.Result{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Result{}, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return llm.Result{}, &StatusError{StatusCode: resp.StatusCode, Excerpt: excerpt(raw)}
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return llm.Result{}, &ParseError{Err: err, Excerpt: excerpt(raw)}
	}

	if out.Error != nil {
		return llm.Result{}, &UpstreamError{
			Code:    rawCodeString(out.Error.Code),
			Message: strings.TrimSpace(out.Error.Message),
		}
	}

	if len(out.Choices) == 0 {
		dump, _ := json.Marshal(out)
		return llm.Result{}, &FormatError{Excerpt: excerpt(dump)}
	}

	// The completion text is passed through verbatim.
	return llm.Result{
		Text: out.Choices[0].Message.Content,
		Usage: llm.Usage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
			TotalTokens:  out.Usage.TotalTokens,
		},
		Duration: time.Since(start),
	}, nil
}

type listModelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels fetches the model catalog. Used by connectivity checks only.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	key := strings.TrimSpace(c.APIKey)
	if key == "" || key == placeholderAPIKey {
		return nil, &ConfigError{Reason: "api key is not configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/models", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Excerpt: excerpt(raw)}
	}

	var out listModelsResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ParseError{Err: err, Excerpt: excerpt(raw)}
	}
	ids := make([]string, 0, len(out.Data))
	for _, m := range out.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func excerpt(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) <= excerptMaxLen {
		return s
	}
	return s[:excerptMaxLen] + "..."
}

func rawCodeString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "Unknown"
	}
	return strings.Trim(s, `"`)
}
