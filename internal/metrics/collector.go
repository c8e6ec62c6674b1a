// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器
//
// 同时实现 llm.MetricsCollector 与 agent.Recorder，
// 可直接挂到 Provider 中间件链和 Manager 上。
type Collector struct {
	// LLM 指标
	llmRequestsTotal   *prometheus.CounterVec
	llmRequestDuration *prometheus.HistogramVec
	llmTokensUsed      *prometheus.CounterVec

	// 会话指标
	turnsTotal           *prometheus.CounterVec
	turnDuration         *prometheus.HistogramVec
	conversationsTotal   prometheus.Counter
	conversationTurns    prometheus.Histogram
	conversationDuration prometheus.Histogram

	logger *zap.Logger
}

// NewCollector 创建指标收集器
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// LLM 指标
	c.llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM requests",
		},
		[]string{"provider", "model", "status"},
	)

	c.llmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "LLM request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	c.llmTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_used_total",
			Help:      "Total number of tokens used",
		},
		[]string{"provider", "model", "type"}, // type: prompt, completion
	)

	// 会话指标
	c.turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversation_turns_total",
			Help:      "Total number of conversation turns",
		},
		[]string{"agent_id", "status"},
	)

	c.turnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversation_turn_duration_seconds",
			Help:      "Conversation turn duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"agent_id"},
	)

	c.conversationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversations_total",
			Help:      "Total number of completed conversations",
		},
	)

	c.conversationTurns = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversation_turns",
			Help:      "Number of turns per conversation",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		},
	)

	c.conversationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversation_duration_seconds",
			Help:      "Conversation duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🤖 LLM 指标记录
// =============================================================================

// RecordRequest 记录一次 LLM 请求
func (c *Collector) RecordRequest(provider, model string, duration time.Duration, success bool) {
	c.llmRequestsTotal.WithLabelValues(provider, model, statusLabel(success)).Inc()
	c.llmRequestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// RecordTokens 记录 Token 用量
func (c *Collector) RecordTokens(provider, model string, prompt, completion int) {
	c.llmTokensUsed.WithLabelValues(provider, model, "prompt").Add(float64(prompt))
	c.llmTokensUsed.WithLabelValues(provider, model, "completion").Add(float64(completion))
}

// =============================================================================
// 🎭 会话指标记录
// =============================================================================

// RecordTurn 记录一步 Agent 发言
func (c *Collector) RecordTurn(agentID string, duration time.Duration, success bool) {
	c.turnsTotal.WithLabelValues(agentID, statusLabel(success)).Inc()
	c.turnDuration.WithLabelValues(agentID).Observe(duration.Seconds())
}

// RecordConversation 记录一次完整会话
func (c *Collector) RecordConversation(turns int, duration time.Duration) {
	c.conversationsTotal.Inc()
	c.conversationTurns.Observe(float64(turns))
	c.conversationDuration.Observe(duration.Seconds())
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// statusLabel 将成功标志转换为标签值
func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
