package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BaSui01/roundtable/types"
)

func TestEstimator_CountTokens(t *testing.T) {
	t.Parallel()

	e := NewEstimator()

	assert.Equal(t, 0, e.CountTokens(""))
	// never rounds down to zero for non-empty input
	assert.Equal(t, 1, e.CountTokens("a"))
	// ASCII ~4 chars/token
	assert.Equal(t, 10, e.CountTokens("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
}

func TestEstimator_CJKWeighting(t *testing.T) {
	t.Parallel()

	e := NewEstimator()

	ascii := e.CountTokens("hello world, how are you today")
	cjk := e.CountTokens("你好世界你好世界你好世界你好世界你好世界你好世界")
	// CJK text of fewer runes should still cost more tokens per rune
	assert.Greater(t, cjk, ascii/2)
}

func TestEstimator_MessageOverhead(t *testing.T) {
	t.Parallel()

	e := NewEstimator()

	msg := types.NewUserMessage("hello there, general")
	content := e.CountTokens(msg.Content)
	assert.Equal(t, content+perMessageOverhead, e.CountMessageTokens(msg))

	named := msg.WithName("narrator")
	assert.Greater(t, e.CountMessageTokens(named), e.CountMessageTokens(msg))
}

func TestEstimator_MessagesTokens(t *testing.T) {
	t.Parallel()

	e := NewEstimator()

	assert.Equal(t, 0, e.CountMessagesTokens(nil))

	msgs := []types.Message{
		types.NewSystemMessage("you are terse"),
		types.NewUserMessage("hi"),
	}
	want := e.CountMessageTokens(msgs[0]) + e.CountMessageTokens(msgs[1]) + 3
	assert.Equal(t, want, e.CountMessagesTokens(msgs))
}

func TestForModel_Selection(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &Tiktoken{}, ForModel("gpt-4o-mini"))
	assert.IsType(t, &Estimator{}, ForModel("claude-sonnet-4-20250514"))
	assert.IsType(t, &Estimator{}, ForModel(""))
}

func TestTiktoken_FallbackOnUnknownEncoding(t *testing.T) {
	t.Parallel()

	tok := NewTiktoken("no_such_encoding")
	est := NewEstimator()

	text := "fallback behaves like the estimator"
	assert.Equal(t, est.CountTokens(text), tok.CountTokens(text))
	assert.Equal(t, 0, tok.CountTokens(""))
}
