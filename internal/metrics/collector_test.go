package metrics

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var collectorNamespaceSeq uint64

func nextTestNamespace() string {
	seq := atomic.AddUint64(&collectorNamespaceSeq, 1)
	return fmt.Sprintf("test_%d", seq)
}

// =============================================================================
// 🧪 Collector 测试
// =============================================================================

func TestNewCollector(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.llmRequestsTotal)
	assert.NotNil(t, collector.llmRequestDuration)
	assert.NotNil(t, collector.llmTokensUsed)
	assert.NotNil(t, collector.turnsTotal)
	assert.NotNil(t, collector.conversationsTotal)
}

func TestCollector_RecordRequest(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	// 记录 LLM 请求
	collector.RecordRequest("openai", "gpt-4o-mini", 500*time.Millisecond, true)
	collector.RecordRequest("openai", "gpt-4o-mini", 200*time.Millisecond, false)

	// 验证指标: success 与 error 各一条时间序列
	count := testutil.CollectAndCount(collector.llmRequestsTotal)
	assert.Equal(t, 2, count)

	durCount := testutil.CollectAndCount(collector.llmRequestDuration)
	assert.Greater(t, durCount, 0)
}

func TestCollector_RecordTokens(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	collector.RecordTokens("openai", "gpt-4o-mini", 100, 50)
	collector.RecordTokens("openai", "gpt-4o-mini", 20, 10)

	// 验证累计值
	prompt := testutil.ToFloat64(collector.llmTokensUsed.WithLabelValues("openai", "gpt-4o-mini", "prompt"))
	assert.Equal(t, 120.0, prompt)

	completion := testutil.ToFloat64(collector.llmTokensUsed.WithLabelValues("openai", "gpt-4o-mini", "completion"))
	assert.Equal(t, 60.0, completion)
}

func TestCollector_RecordTurn(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	// 记录一步发言
	collector.RecordTurn("critic", 1*time.Second, true)
	collector.RecordTurn("critic", 0, false)

	success := testutil.ToFloat64(collector.turnsTotal.WithLabelValues("critic", "success"))
	assert.Equal(t, 1.0, success)

	failed := testutil.ToFloat64(collector.turnsTotal.WithLabelValues("critic", "error"))
	assert.Equal(t, 1.0, failed)
}

func TestCollector_RecordConversation(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	collector.RecordConversation(6, 30*time.Second)
	collector.RecordConversation(4, 12*time.Second)

	total := testutil.ToFloat64(collector.conversationsTotal)
	assert.Equal(t, 2.0, total)

	count := testutil.CollectAndCount(collector.conversationTurns)
	assert.Greater(t, count, 0)
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	// 并发记录多个指标
	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			collector.RecordRequest("openai", "gpt-4o-mini", 500*time.Millisecond, true)
			collector.RecordTokens("openai", "gpt-4o-mini", 100, 50)
			collector.RecordTurn("critic", 100*time.Millisecond, true)
			done <- true
		}(i)
	}

	// 等待所有 goroutine 完成
	for i := 0; i < 10; i++ {
		<-done
	}

	// 验证指标被正确记录
	reqTotal := testutil.ToFloat64(collector.llmRequestsTotal.WithLabelValues("openai", "gpt-4o-mini", "success"))
	assert.Equal(t, 10.0, reqTotal)

	turnTotal := testutil.ToFloat64(collector.turnsTotal.WithLabelValues("critic", "success"))
	assert.Equal(t, 10.0, turnTotal)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "success", statusLabel(true))
	assert.Equal(t, "error", statusLabel(false))
}
