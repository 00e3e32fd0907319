package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intakedocs/internal/config"
	"intakedocs/internal/extract"
	"intakedocs/internal/extract/claude"
	"intakedocs/internal/port"
)

func testCfg() *config.ChatProviderConfig {
	return &config.ChatProviderConfig{
		Provider:     "claude",
		APIKey:       "test-key",
		DefaultModel: "claude-sonnet-4-20250514",
	}
}

func TestComplete_Success(t *testing.T) {
	var gotKey, gotVersion string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "{\"extractedFields\":{}}"}],
			"stop_reason": "end_turn"
		}`))
	}))
	defer server.Close()

	client := claude.NewClientWithEndpoint(testCfg(), server.URL)
	out, err := client.Complete(context.Background(), port.ChatRequest{System: "sys prompt", User: "doc text"})

	require.NoError(t, err)
	assert.Equal(t, `{"extractedFields":{}}`, out.Content)
	assert.Equal(t, "claude-sonnet-4-20250514", out.Model)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, "sys prompt", gotBody["system"])

	messages := gotBody["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]interface{})["role"])
}

func TestComplete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := claude.NewClientWithEndpoint(testCfg(), server.URL)
	out, err := client.Complete(context.Background(), port.ChatRequest{User: "doc text"})

	assert.Nil(t, out)
	require.Error(t, err)

	var rlErr *extract.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, float64(15), rlErr.RetryAfter.Seconds())
}

func TestComplete_TruncatedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "{\"partial"}], "stop_reason": "max_tokens"}`))
	}))
	defer server.Close()

	client := claude.NewClientWithEndpoint(testCfg(), server.URL)
	_, err := client.Complete(context.Background(), port.ChatRequest{User: "doc text"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}

func TestComplete_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": [], "stop_reason": "end_turn"}`))
	}))
	defer server.Close()

	client := claude.NewClientWithEndpoint(testCfg(), server.URL)
	_, err := client.Complete(context.Background(), port.ChatRequest{User: "doc text"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
