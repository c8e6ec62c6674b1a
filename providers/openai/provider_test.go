package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/roundtable/llm"
	"github.com/BaSui01/roundtable/providers"
	"github.com/BaSui01/roundtable/types"
)

func TestOpenAIProvider_Name(t *testing.T) {
	provider := NewOpenAIProvider(providers.OpenAIConfig{}, zap.NewNop())
	assert.Equal(t, "openai", provider.Name())
}

func TestOpenAIProvider_Completion(t *testing.T) {
	var gotAuth string
	var gotReq openAIRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(openAIResponse{
			ID:    "chatcmpl-1",
			Model: gotReq.Model,
			Choices: []openAIChoice{{
				Index:        0,
				FinishReason: "stop",
				Message:      openAIMessage{Role: "assistant", Content: "Paris"},
			}},
			Usage: &openAIUsage{PromptTokens: 12, CompletionTokens: 1, TotalTokens: 13},
		})
	}))
	defer server.Close()

	provider := NewOpenAIProvider(providers.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
	}, zap.NewNop())

	resp, err := provider.Completion(context.Background(), &llm.ChatRequest{
		Messages: []types.Message{
			types.NewSystemMessage("You are terse."),
			types.NewUserMessage("Capital of France?"),
		},
		Temperature: 0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)

	assert.Equal(t, "Paris", resp.Text())
	assert.Equal(t, "openai", resp.Provider)
	assert.Equal(t, 13, resp.Usage.TotalTokens)
}

func TestOpenAIProvider_ModelPriority(t *testing.T) {
	t.Parallel()

	// request model wins
	assert.Equal(t, "gpt-4", providers.ChooseModel(&llm.ChatRequest{Model: "gpt-4"}, "gpt-4o-mini", "fallback"))
	// config model next
	assert.Equal(t, "gpt-4o-mini", providers.ChooseModel(&llm.ChatRequest{}, "gpt-4o-mini", "fallback"))
	// default last
	assert.Equal(t, "fallback", providers.ChooseModel(nil, "", "fallback"))
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  types.ErrorCode
		retryable bool
	}{
		{"unauthorized", 401, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, types.ErrUnauthorized, false},
		{"rate limited", 429, `{"error":{"message":"slow down","type":"rate_limit_error"}}`, types.ErrRateLimited, true},
		{"quota", 429, `{"error":{"message":"you exceeded your quota","type":"insufficient_quota"}}`, types.ErrQuotaExceeded, false},
		{"context too long", 400, `{"error":{"message":"maximum context length exceeded","type":"invalid_request_error"}}`, types.ErrContextTooLong, false},
		{"bad request", 400, `{"error":{"message":"bad","type":"invalid_request_error"}}`, types.ErrInvalidRequest, false},
		{"server error", 503, `{"error":{"message":"down","type":"server_error"}}`, types.ErrUpstreamError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewOpenAIProvider(providers.OpenAIConfig{
				APIKey:  "sk-test",
				BaseURL: server.URL,
			}, zap.NewNop())

			_, err := provider.Completion(context.Background(), &llm.ChatRequest{
				Messages: []types.Message{types.NewUserMessage("hi")},
			})
			require.Error(t, err)

			var typed *types.Error
			require.ErrorAs(t, err, &typed)
			assert.Equal(t, tt.wantCode, typed.Code)
			assert.Equal(t, tt.retryable, typed.Retryable)
			assert.Equal(t, "openai", typed.Provider)
		})
	}
}

func TestOpenAIProvider_Stream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			`data: {"id":"c1","model":"gpt-4o-mini","choices":[{"index":0,"delta":{"content":"Pa"}}]}` + "\n\n" +
				`data: {"id":"c1","model":"gpt-4o-mini","choices":[{"index":0,"delta":{"content":"ris"},"finish_reason":"stop"}]}` + "\n\n" +
				"data: [DONE]\n\n",
		))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(providers.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL,
	}, zap.NewNop())

	stream, err := provider.Stream(context.Background(), &llm.ChatRequest{
		Messages: []types.Message{types.NewUserMessage("Capital of France?")},
	})
	require.NoError(t, err)

	var content string
	var finish string
	for chunk := range stream {
		require.Nil(t, chunk.Err)
		content += chunk.Delta.Content
		if chunk.FinishReason != "" {
			finish = chunk.FinishReason
		}
	}

	assert.Equal(t, "Paris", content)
	assert.Equal(t, "stop", finish)
}

func TestOpenAIProvider_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(providers.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL,
	}, zap.NewNop())

	status, err := provider.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Greater(t, status.Latency, time.Duration(0))
}
