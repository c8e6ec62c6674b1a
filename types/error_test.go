package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	t.Parallel()

	err := NewError(ErrRateLimited, "too many requests")
	assert.Equal(t, "[RATE_LIMITED] too many requests", err.Error())
}

func TestError_FormatWithCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewError(ErrUpstreamError, "request failed").WithCause(cause)

	assert.Equal(t, "[UPSTREAM_ERROR] request failed: connection reset", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestError_BuilderChain(t *testing.T) {
	t.Parallel()

	err := NewError(ErrModelOverloaded, "overloaded").
		WithHTTPStatus(529).
		WithProvider("anthropic").
		WithRetryable(true)

	assert.Equal(t, 529, err.HTTPStatus)
	assert.Equal(t, "anthropic", err.Provider)
	assert.True(t, err.Retryable)
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRetryable(NewError(ErrRateLimited, "slow down").WithRetryable(true)))
	assert.False(t, IsRetryable(NewError(ErrInvalidRequest, "bad request")))
	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestCodeOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, ErrAgentNotFound, CodeOf(NewError(ErrAgentNotFound, "missing")))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain error")))
}

func TestTokenUsage_Add(t *testing.T) {
	t.Parallel()

	u := TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, Cost: 0.01}
	u.Add(TokenUsage{PromptTokens: 3, CompletionTokens: 7, TotalTokens: 10, Cost: 0.02})

	assert.Equal(t, 13, u.PromptTokens)
	assert.Equal(t, 12, u.CompletionTokens)
	assert.Equal(t, 25, u.TotalTokens)
	assert.InDelta(t, 0.03, u.Cost, 1e-9)
}
