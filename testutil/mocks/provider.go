// MockProvider 的 LLM 提供商测试模拟实现。
//
// 支持固定响应、脚本化响应序列、流式输出与错误注入场景。
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/BaSui01/roundtable/llm"
	"github.com/BaSui01/roundtable/types"
)

// MockProvider 是 llm.Provider 的模拟实现。
type MockProvider struct {
	mu sync.Mutex

	name      string
	responses []string // 脚本化响应，按序消费；耗尽后重复最后一条
	cursor    int

	err     error // 注入的错误；非 nil 时每次调用都失败
	latency time.Duration

	// 调用记录
	requests []*llm.ChatRequest
}

// NewMockProvider 创建 MockProvider。
func NewMockProvider(responses ...string) *MockProvider {
	if len(responses) == 0 {
		responses = []string{"mock response"}
	}
	return &MockProvider{
		name:      "mock",
		responses: responses,
	}
}

// WithName 设置 Provider 名称。
func (m *MockProvider) WithName(name string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = name
	return m
}

// WithError 注入错误。
func (m *MockProvider) WithError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithLatency 模拟响应延迟。
func (m *MockProvider) WithLatency(d time.Duration) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = d
	return m
}

// Requests 返回记录的请求副本。
func (m *MockProvider) Requests() []*llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*llm.ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount 返回 Completion 调用次数。
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockProvider) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

func (m *MockProvider) next() string {
	content := m.responses[m.cursor]
	if m.cursor < len(m.responses)-1 {
		m.cursor++
	}
	return content
}

func (m *MockProvider) Completion(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	err := m.err
	latency := m.latency
	var content string
	if err == nil {
		content = m.next()
	}
	name := m.name
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(latency):
		}
	}
	if err != nil {
		return nil, err
	}

	return &llm.ChatResponse{
		ID:       "mock-1",
		Provider: name,
		Model:    req.Model,
		Choices: []llm.ChatChoice{{
			Index:        0,
			FinishReason: "stop",
			Message:      types.NewAssistantMessage(content),
		}},
		Usage: types.TokenUsage{
			PromptTokens:     len(req.Messages),
			CompletionTokens: 1,
			TotalTokens:      len(req.Messages) + 1,
		},
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockProvider) Stream(ctx context.Context, req *llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	err := m.err
	var content string
	if err == nil {
		content = m.next()
	}
	name := m.name
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	ch := make(chan llm.StreamChunk)
	go func() {
		defer close(ch)
		// 按 rune 切分模拟增量输出
		for _, r := range content {
			select {
			case <-ctx.Done():
				return
			case ch <- llm.StreamChunk{
				Provider: name,
				Model:    req.Model,
				Delta:    types.Message{Role: types.RoleAssistant, Content: string(r)},
			}:
			}
		}
		ch <- llm.StreamChunk{Provider: name, Model: req.Model, FinishReason: "stop"}
	}()
	return ch, nil
}

func (m *MockProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	m.mu.Lock()
	err := m.err
	m.mu.Unlock()
	if err != nil {
		return &llm.HealthStatus{Healthy: false}, err
	}
	return &llm.HealthStatus{Healthy: true, Latency: time.Millisecond}, nil
}
