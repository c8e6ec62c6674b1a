package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/BaSui01/roundtable/types"
)

// Tiktoken 为 OpenAI 系模型提供精确计数，编码器懒加载。
// 加载失败时退回 CJK 估算器，不向调用方暴露错误。
type Tiktoken struct {
	encoding string
	once     sync.Once
	enc      *tiktoken.Tiktoken
	fallback *Estimator
}

// modelEncodings maps model names to their tiktoken encoding.
var modelEncodings = map[string]string{
	"gpt-4o":        "o200k_base",
	"gpt-4o-mini":   "o200k_base",
	"gpt-4-turbo":   "cl100k_base",
	"gpt-4":         "cl100k_base",
	"gpt-3.5-turbo": "cl100k_base",
}

// NewTiktoken creates a tiktoken-backed tokenizer for the given encoding
// (e.g. "cl100k_base", "o200k_base").
func NewTiktoken(encoding string) *Tiktoken {
	return &Tiktoken{
		encoding: encoding,
		fallback: NewEstimator(),
	}
}

// ForModel returns a tokenizer appropriate for the model: tiktoken for
// known OpenAI-family models, the estimator otherwise.
func ForModel(model string) types.Tokenizer {
	if encoding, ok := modelEncodings[model]; ok {
		return NewTiktoken(encoding)
	}
	return NewEstimator()
}

func (t *Tiktoken) init() {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err == nil {
			t.enc = enc
		}
	})
}

func (t *Tiktoken) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	t.init()
	if t.enc == nil {
		return t.fallback.CountTokens(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

func (t *Tiktoken) CountMessageTokens(msg types.Message) int {
	tokens := perMessageOverhead + t.CountTokens(msg.Content)
	if msg.Name != "" {
		tokens += t.CountTokens(msg.Name)
	}
	return tokens
}

func (t *Tiktoken) CountMessagesTokens(msgs []types.Message) int {
	total := 0
	for _, msg := range msgs {
		total += t.CountMessageTokens(msg)
	}
	if total > 0 {
		total += 3
	}
	return total
}
