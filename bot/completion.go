package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aliqajarian/tg-chatbot/internal/outputfmt"
	"github.com/aliqajarian/tg-chatbot/llm"
	"github.com/aliqajarian/tg-chatbot/providers/openrouter"
)

// CompleterConfig carries the per-request completion settings.
type CompleterConfig struct {
	Model              string
	SystemInstructions string
	MaxTokens          int
}

// Completer turns a question into text fit for a chat message. Failures are
// not surfaced as errors: the only consumer of a failure is the chat itself,
// so every failure kind is flattened into a distinct, prefixed display string
// an operator can triage from the transcript alone.
type Completer struct {
	client llm.Client
	cfg    CompleterConfig
}

func NewCompleter(client llm.Client, cfg CompleterConfig) *Completer {
	return &Completer{client: client, cfg: cfg}
}

func (c *Completer) Complete(ctx context.Context, question string) string {
	if strings.TrimSpace(question) == "" {
		return "⚠️ No question provided."
	}

	var messages []llm.Message
	if strings.TrimSpace(c.cfg.SystemInstructions) != "" {
		messages = append(messages, llm.Message{Role: "system", Content: c.cfg.SystemInstructions})
	}
	messages = append(messages, llm.Message{Role: "user", Content: question})

	result, err := c.client.Chat(ctx, llm.Request{
		Model:     c.cfg.Model,
		Messages:  messages,
		MaxTokens: c.cfg.MaxTokens,
	})
	if err != nil {
		return displayError(err)
	}
	return result.Text
}

func displayError(err error) string {
	var (
		cfgErr       *openrouter.ConfigError
		transportErr *openrouter.TransportError
		statusErr    *openrouter.StatusError
		parseErr     *openrouter.ParseError
		upstreamErr  *openrouter.UpstreamError
		formatErr    *openrouter.FormatError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "⚠️ OpenRouter " + cfgErr.Reason + ". Please check the bot configuration."
	case errors.As(err, &transportErr):
		return "❌ API Connection Error: " + outputfmt.SanitizeErrorText(transportErr.Err.Error())
	case errors.As(err, &statusErr):
		return fmt.Sprintf("❌ API Error (HTTP %d): %s", statusErr.StatusCode, statusErr.Excerpt)
	case errors.As(err, &parseErr):
		return fmt.Sprintf("❌ JSON Parse Error: %s - Response: %s",
			outputfmt.SanitizeErrorText(parseErr.Err.Error()), parseErr.Excerpt)
	case errors.As(err, &upstreamErr):
		return fmt.Sprintf("❌ OpenRouter API Error (Code: %s): %s", upstreamErr.Code, upstreamErr.Message)
	case errors.As(err, &formatErr):
		return "❌ Unexpected API Response Format: " + formatErr.Excerpt
	default:
		return "❌ API Connection Error: " + outputfmt.SanitizeErrorText(err.Error())
	}
}
