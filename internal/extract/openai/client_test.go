package openai_test

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
	"intakedocs/internal/extract/openai"
	"intakedocs/internal/port"
)

func testCfg() *config.ChatProviderConfig {
	return &config.ChatProviderConfig{
		Provider:     "openai",
		APIKey:       "test-key",
		DefaultModel: "gpt-4o",
	}
}

func TestComplete_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "{\"extractedFields\":{}}"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	client := openai.NewClientWithEndpoint(testCfg(), server.URL)
	out, err := client.Complete(context.Background(), port.ChatRequest{System: "sys prompt", User: "doc text"})

	require.NoError(t, err)
	assert.Equal(t, `{"extractedFields":{}}`, out.Content)
	assert.Equal(t, "gpt-4o", out.Model)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o", gotBody["model"])

	messages := gotBody["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])
}

func TestComplete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := openai.NewClientWithEndpoint(testCfg(), server.URL)
	out, err := client.Complete(context.Background(), port.ChatRequest{User: "doc text"})

	assert.Nil(t, out)
	require.Error(t, err)

	var rlErr *extract.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, float64(30), rlErr.RetryAfter.Seconds())
}

func TestComplete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := openai.NewClientWithEndpoint(testCfg(), server.URL)
	_, err := client.Complete(context.Background(), port.ChatRequest{User: "doc text"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestComplete_TruncatedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "{\"partial"}, "finish_reason": "length"}]}`))
	}))
	defer server.Close()

	client := openai.NewClientWithEndpoint(testCfg(), server.URL)
	_, err := client.Complete(context.Background(), port.ChatRequest{User: "doc text"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "finish_reason: length")
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := openai.NewClientWithEndpoint(testCfg(), server.URL)
	_, err := client.Complete(context.Background(), port.ChatRequest{User: "doc text"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestNewClient_DefaultModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "gpt-4o", body["model"])
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "{}"}, "finish_reason": "stop"}]}`))
	}))
	defer server.Close()

	cfg := &config.ChatProviderConfig{Provider: "openai", APIKey: "k"}
	client := openai.NewClientWithEndpoint(cfg, server.URL)
	_, err := client.Complete(context.Background(), port.ChatRequest{User: "x"})

	assert.NoError(t, err)
}
