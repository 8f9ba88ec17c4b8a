package llmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wxcopilot/src/aisdk"
)

func TestCreateChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req aisdk.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)

		resp := aisdk.ChatCompletionResponse{
			Model: req.Model,
			Choices: []aisdk.Choice{
				{Message: aisdk.Message{Role: "assistant", Content: "hello"}, FinishReason: "stop"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	mc := client.Model("gpt-test")

	resp, err := mc.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{
		Messages: []*aisdk.Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)

	msg, err := resp.FirstMessage()
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
}

func TestCreateChatCompletionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(aisdk.ErrorResponse{
			Error: aisdk.Error{Message: "bad key", Code: "invalid_api_key"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "wrong", BaseURL: server.URL})

	_, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "gpt-test"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.True(t, apiErr.IsAuthError())
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCreateChatCompletionMissingAPIKey(t *testing.T) {
	client := NewClient(Config{})

	_, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "gpt-test"})
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestCreateChatCompletionEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(aisdk.ChatCompletionResponse{Model: "gpt-test"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "gpt-test"})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCreateChatCompletionRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "20")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(aisdk.ErrorResponse{
			Error: aisdk.Error{Message: "slow down", Code: "rate_limit_exceeded"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "gpt-test"})
	require.ErrorIs(t, err, ErrRateLimited)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsRateLimit())
	assert.Equal(t, "20", apiErr.Details["retry_after"])
}

func TestCreateChatCompletionRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(aisdk.ChatCompletionResponse{
			Choices: []aisdk.Choice{{Message: aisdk.Message{Role: "assistant", Content: "ok"}}},
		})
	}))
	defer server.Close()

	client := NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		RetryCount: 3,
		RetryDelay: time.Millisecond,
	})

	resp, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "gpt-test"})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)

	msg, err := resp.FirstMessage()
	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Content)
}
