package agent

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/roundtable/llm"
	"github.com/BaSui01/roundtable/llm/tokenizer"
	"github.com/BaSui01/roundtable/types"
)

// Config Agent 配置
type Config struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Model        string            `json:"model,omitempty" yaml:"model,omitempty"`
	SystemPrompt string            `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
	MaxTokens    int               `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Temperature  float32           `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP         float32           `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Reply 一次交互的结果
type Reply struct {
	Content      string           `json:"content"`
	FinishReason string           `json:"finish_reason,omitempty"`
	Usage        types.TokenUsage `json:"usage,omitempty"`
	Duration     time.Duration    `json:"duration"`
}

// Agent 持有人设与只追加的对话转写。
// 转写不做裁剪、摘要或持久化；每次 Chat 将完整历史发给 Provider。
type Agent struct {
	config   Config
	provider llm.Provider

	mu         sync.Mutex
	transcript []types.Message
	usage      types.TokenUsage

	tokenizer types.Tokenizer
	logger    *zap.Logger
}

// NewAgent 创建 Agent。provider 不可为空；ID 为空时自动生成。
func NewAgent(cfg Config, provider llm.Provider, logger *zap.Logger) (*Agent, error) {
	if provider == nil {
		return nil, types.NewError(types.ErrProviderNotSet, "agent requires an llm provider")
	}
	if strings.TrimSpace(cfg.ID) == "" {
		cfg.ID = uuid.NewString()
	}
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = cfg.ID
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		config:    cfg,
		provider:  provider,
		tokenizer: tokenizer.ForModel(cfg.Model),
		logger: logger.With(
			zap.String("component", "agent"),
			zap.String("agent_id", cfg.ID),
			zap.String("agent_name", cfg.Name),
		),
	}, nil
}

// ID 返回 Agent 的唯一标识。
func (a *Agent) ID() string { return a.config.ID }

// Name 返回 Agent 的名称。
func (a *Agent) Name() string { return a.config.Name }

// Config 返回配置副本。
func (a *Agent) Config() Config { return a.config }

// Provider 返回底层 Provider。
func (a *Agent) Provider() llm.Provider { return a.provider }

// Chat 发送一条用户消息并返回回复。
// 请求 = 系统提示词 + 完整转写 + 新消息；成功后用户与助手两条消息
// 均追加到转写。失败的交互不改变转写。
func (a *Agent) Chat(ctx context.Context, content string) (*Reply, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	userMsg := types.NewUserMessage(content)
	messages := a.buildMessages(userMsg)

	req := &llm.ChatRequest{
		Model:       a.config.Model,
		Messages:    messages,
		MaxTokens:   a.config.MaxTokens,
		Temperature: a.config.Temperature,
		TopP:        a.config.TopP,
	}

	start := time.Now()
	resp, err := a.provider.Completion(ctx, req)
	duration := time.Since(start)
	if err != nil {
		a.logger.Warn("chat failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	reply := &Reply{
		Content:  resp.Text(),
		Usage:    resp.Usage,
		Duration: duration,
	}
	if len(resp.Choices) > 0 {
		reply.FinishReason = resp.Choices[0].FinishReason
	}

	a.transcript = append(a.transcript, userMsg)
	a.transcript = append(a.transcript, types.NewAssistantMessage(reply.Content).WithName(a.config.Name))
	a.usage.Add(resp.Usage)

	a.logger.Debug("chat completed",
		zap.Int("transcript_len", len(a.transcript)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", duration),
	)

	return reply, nil
}

// buildMessages 组装请求消息。调用方必须持有 a.mu。
func (a *Agent) buildMessages(userMsg types.Message) []types.Message {
	messages := make([]types.Message, 0, len(a.transcript)+2)
	if a.config.SystemPrompt != "" {
		messages = append(messages, types.NewSystemMessage(a.config.SystemPrompt))
	}
	messages = append(messages, a.transcript...)
	messages = append(messages, userMsg)
	return messages
}

// History 返回转写的副本。
func (a *Agent) History() []types.Message {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]types.Message, len(a.transcript))
	copy(out, a.transcript)
	return out
}

// Len 返回转写中的消息数。
func (a *Agent) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.transcript)
}

// Usage 返回累计 Token 用量。
func (a *Agent) Usage() types.TokenUsage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usage
}

// TranscriptTokens 返回当前转写（含系统提示词）的估算 Token 数。
func (a *Agent) TranscriptTokens() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	msgs := a.transcript
	if a.config.SystemPrompt != "" {
		msgs = append([]types.Message{types.NewSystemMessage(a.config.SystemPrompt)}, msgs...)
	}
	return a.tokenizer.CountMessagesTokens(msgs)
}

// Reset 清空转写与用量统计。
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transcript = nil
	a.usage = types.TokenUsage{}
	a.logger.Debug("transcript reset")
}
