package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/BaSui01/roundtable/types"
)

const tracerName = "github.com/BaSui01/roundtable/agent"

// Recorder 接收对话维度的度量。internal/metrics 提供 Prometheus 实现。
type Recorder interface {
	RecordTurn(agentID string, duration time.Duration, success bool)
	RecordConversation(turns int, duration time.Duration)
}

// Manager 维护 Agent 注册表并驱动 Round-Robin 对话。
type Manager struct {
	mu     sync.RWMutex
	agents map[string]*Agent

	recorder Recorder
	logger   *zap.Logger
}

// ManagerOption 配置 Manager。
type ManagerOption func(*Manager)

// WithRecorder 设置对话度量接收器。
func WithRecorder(r Recorder) ManagerOption {
	return func(m *Manager) { m.recorder = r }
}

// NewManager 创建 Manager。
func NewManager(logger *zap.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		agents: make(map[string]*Agent),
		logger: logger.With(zap.String("component", "agent_manager")),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register 注册 Agent。ID 重复时返回错误。
func (m *Manager) Register(a *Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.agents[a.ID()]; exists {
		return types.NewError(types.ErrAgentExists, fmt.Sprintf("agent %s already registered", a.ID()))
	}
	m.agents[a.ID()] = a
	m.logger.Info("agent registered",
		zap.String("agent_id", a.ID()),
		zap.String("agent_name", a.Name()),
	)
	return nil
}

// Deregister 注销 Agent。
func (m *Manager) Deregister(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.agents[id]; !exists {
		return types.NewError(types.ErrAgentNotFound, fmt.Sprintf("agent %s not found", id))
	}
	delete(m.agents, id)
	m.logger.Info("agent deregistered", zap.String("agent_id", id))
	return nil
}

// Get 按 ID 获取 Agent。
func (m *Manager) Get(id string) (*Agent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[id]
	return a, ok
}

// List 返回所有 Agent，按 ID 排序。
func (m *Manager) List() []*Agent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Agent, 0, len(m.agents))
	for _, a := range m.agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len 返回已注册的 Agent 数。
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.agents)
}

// ConversationSpec 描述一次 Round-Robin 对话。
type ConversationSpec struct {
	// Opening 开场消息，作为第一个发言者的输入。
	Opening string `json:"opening" yaml:"opening"`
	// Speakers 发言顺序（Agent ID）。为空时使用全部已注册 Agent（按 ID 排序）。
	Speakers []string `json:"speakers,omitempty" yaml:"speakers,omitempty"`
	// Rounds 轮次数，<=0 时为 1。
	Rounds int `json:"rounds,omitempty" yaml:"rounds,omitempty"`
}

// Turn 对话中的一步。
type Turn struct {
	Round     int              `json:"round"`
	AgentID   string           `json:"agent_id"`
	AgentName string           `json:"agent_name"`
	Input     string           `json:"input"`
	Reply     string           `json:"reply,omitempty"`
	Err       string           `json:"error,omitempty"`
	Usage     types.TokenUsage `json:"usage,omitempty"`
	Duration  time.Duration    `json:"duration"`
	Timestamp time.Time        `json:"timestamp"`
}

// Conversation Round-Robin 对话的完整记录。
type Conversation struct {
	ID          string           `json:"id"`
	Opening     string           `json:"opening"`
	Turns       []Turn           `json:"turns"`
	Usage       types.TokenUsage `json:"usage,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
}

// Final 返回最后一次成功的回复，没有则返回开场消息。
func (c *Conversation) Final() string {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Err == "" {
			return c.Turns[i].Reply
		}
	}
	return c.Opening
}

// RunConversation 驱动固定轮次的 Round-Robin 对话：每一轮按发言顺序
// 依次调用每个 Agent，上一个 Agent 的输出作为下一个 Agent 的输入。
// 单步失败只记录并跳过，当前消息原样传给下一个发言者；context 取消时
// 返回已完成的部分与 ctx.Err()。
func (m *Manager) RunConversation(ctx context.Context, spec ConversationSpec) (*Conversation, error) {
	if spec.Opening == "" {
		return nil, types.NewError(types.ErrEmptyConversation, "conversation requires an opening message")
	}

	speakers, err := m.resolveSpeakers(spec.Speakers)
	if err != nil {
		return nil, err
	}

	rounds := spec.Rounds
	if rounds <= 0 {
		rounds = 1
	}

	conv := &Conversation{
		ID:        uuid.NewString(),
		Opening:   spec.Opening,
		StartedAt: time.Now(),
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "conversation.run")
	span.SetAttributes(
		attribute.String("conversation.id", conv.ID),
		attribute.Int("conversation.rounds", rounds),
		attribute.Int("conversation.speakers", len(speakers)),
	)
	defer span.End()

	m.logger.Info("conversation started",
		zap.String("conversation_id", conv.ID),
		zap.Int("rounds", rounds),
		zap.Int("speakers", len(speakers)),
	)

	current := spec.Opening
	for round := 0; round < rounds; round++ {
		for _, a := range speakers {
			if ctxErr := ctx.Err(); ctxErr != nil {
				conv.CompletedAt = time.Now()
				m.finish(conv)
				return conv, ctxErr
			}

			turn := Turn{
				Round:     round + 1,
				AgentID:   a.ID(),
				AgentName: a.Name(),
				Input:     current,
				Timestamp: time.Now(),
			}

			reply, err := a.Chat(ctx, current)
			if err != nil {
				// 单步失败：记录并继续，消息原样传给下一个发言者
				turn.Err = err.Error()
				m.logger.Warn("conversation step failed",
					zap.String("conversation_id", conv.ID),
					zap.Int("round", turn.Round),
					zap.String("agent_id", a.ID()),
					zap.Error(err),
				)
				if m.recorder != nil {
					m.recorder.RecordTurn(a.ID(), 0, false)
				}
				conv.Turns = append(conv.Turns, turn)
				continue
			}

			turn.Reply = reply.Content
			turn.Usage = reply.Usage
			turn.Duration = reply.Duration
			conv.Turns = append(conv.Turns, turn)
			conv.Usage.Add(reply.Usage)
			if m.recorder != nil {
				m.recorder.RecordTurn(a.ID(), reply.Duration, true)
			}

			current = reply.Content
		}
	}

	conv.CompletedAt = time.Now()
	m.finish(conv)
	return conv, nil
}

func (m *Manager) finish(conv *Conversation) {
	if m.recorder != nil {
		m.recorder.RecordConversation(len(conv.Turns), conv.CompletedAt.Sub(conv.StartedAt))
	}
	m.logger.Info("conversation completed",
		zap.String("conversation_id", conv.ID),
		zap.Int("turns", len(conv.Turns)),
		zap.Int("total_tokens", conv.Usage.TotalTokens),
	)
}

// resolveSpeakers 将发言者 ID 列表解析为 Agent 快照。
func (m *Manager) resolveSpeakers(ids []string) ([]*Agent, error) {
	if len(ids) == 0 {
		speakers := m.List()
		if len(speakers) == 0 {
			return nil, types.NewError(types.ErrAgentNotFound, "no agents registered")
		}
		return speakers, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	speakers := make([]*Agent, 0, len(ids))
	for _, id := range ids {
		a, ok := m.agents[id]
		if !ok {
			return nil, types.NewError(types.ErrAgentNotFound, fmt.Sprintf("agent %s not found", id))
		}
		speakers = append(speakers, a)
	}
	return speakers, nil
}
