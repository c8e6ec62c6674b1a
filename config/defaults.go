// =============================================================================
// 📦 RoundTable 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import (
	"time"

	"github.com/BaSui01/roundtable/providers"
)

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		LLM:          DefaultLLMConfig(),
		Agent:        DefaultAgentConfig(),
		Conversation: DefaultConversationConfig(),
		Log:          DefaultLogConfig(),
	}
}

// DefaultLLMConfig 返回默认 LLM 配置
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		DefaultProvider: "openai",
		OpenAI: providers.OpenAIConfig{
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		Claude: providers.ClaudeConfig{
			Model:   "claude-3-5-sonnet-20241022",
			Timeout: 60 * time.Second,
		},
		Timeout:        2 * time.Minute,
		RateLimitRPS:   0,
		RateLimitBurst: 1,
	}
}

// DefaultAgentConfig 返回默认 Agent 配置
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Model:        "",
		SystemPrompt: "You are a helpful AI assistant.",
		Temperature:  0.7,
		MaxTokens:    4096,
	}
}

// DefaultConversationConfig 返回默认圆桌会话配置
func DefaultConversationConfig() ConversationConfig {
	return ConversationConfig{
		Rounds:      1,
		StepTimeout: 2 * time.Minute,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:        "info",
		Format:       "json",
		OutputPaths:  []string{"stdout"},
		EnableCaller: true,
	}
}
