package openrouter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aliqajarian/tg-chatbot/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() llm.Request {
	return llm.Request{
		Model: "test/model",
		Messages: []llm.Message{
			{Role: "user", Content: "what is 2+2?"},
		},
	}
}

func TestChatSuccess(t *testing.T) {
	var gotAuth string
	var gotBody chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  4  "}},
			},
			"usage": map[string]any{
				"prompt_tokens":     12,
				"completion_tokens": 3,
				"total_tokens":      15,
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-or-test", time.Second)
	result, err := c.Chat(t.Context(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "  4  ", result.Text, "completion text must pass through untouched")
	assert.Equal(t, "Bearer sk-or-test", gotAuth)
	assert.Equal(t, "test/model", gotBody.Model)
	assert.Equal(t, 15, result.Usage.TotalTokens)
}

func TestChatMissingKeySkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	for _, key := range []string{"", "   ", placeholderAPIKey} {
		c := New(srv.URL, key, time.Second)
		_, err := c.Chat(t.Context(), testRequest())

		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr, "key %q", key)
		assert.Equal(t, "api key is not configured", cfgErr.Reason)
	}
	assert.False(t, called, "misconfiguration must be detected before any request")
}

func TestChatMissingModel(t *testing.T) {
	c := New("http://127.0.0.1:1", "sk-or-test", time.Second)
	req := testRequest()
	req.Model = "  "

	_, err := c.Chat(t.Context(), req)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "model is not configured", cfgErr.Reason)
}

func TestChatHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-or-test", time.Second)
	_, err := c.Chat(t.Context(), testRequest())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, `{"error":{"message":"rate limited"}}`, statusErr.Excerpt)
}

func TestChatHTTPErrorBodyTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-or-test", time.Second)
	_, err := c.Chat(t.Context(), testRequest())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, strings.Repeat("x", excerptMaxLen)+"...", statusErr.Excerpt)
}

func TestChatStatusCheckedBeforeParse(t *testing.T) {
	// A 500 with an HTML body must surface as a status error, not a parse
	// error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-or-test", time.Second)
	_, err := c.Chat(t.Context(), testRequest())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
}

func TestChatParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-or-test", time.Second)
	_, err := c.Chat(t.Context(), testRequest())

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "<html>not json</html>", parseErr.Excerpt)
}

func TestChatUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":402,"message":"insufficient credits"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-or-test", time.Second)
	_, err := c.Chat(t.Context(), testRequest())

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "402", upErr.Code)
	assert.Equal(t, "insufficient credits", upErr.Message)
}

func TestChatUpstreamErrorStringCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":"model_not_found","message":"no such model"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-or-test", time.Second)
	_, err := c.Chat(t.Context(), testRequest())

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "model_not_found", upErr.Code)
}

func TestChatEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-or-test", time.Second)
	_, err := c.Chat(t.Context(), testRequest())

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestChatTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	c := New(srv.URL, "sk-or-test", time.Second)
	_, err := c.Chat(t.Context(), testRequest())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestChatRefererHeaders(t *testing.T) {
	var gotReferer, gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-or-test", time.Second)
	c.Referer = "https://example.com/bot"
	_, err := c.Chat(t.Context(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/bot", gotReferer)
	assert.Equal(t, "https://example.com/bot", gotTitle)
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"a/one"},{"id":"b/two"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-or-test", time.Second)
	models, err := c.ListModels(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one", "b/two"}, models)
}
