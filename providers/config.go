// Package providers holds shared configuration and helpers for the
// vendor-specific chat-completion adapters.
package providers

import "time"

// OpenAIConfig OpenAI Provider 配置
type OpenAIConfig struct {
	APIKey       string        `json:"api_key" yaml:"api_key" env:"API_KEY"`
	BaseURL      string        `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	Organization string        `json:"organization,omitempty" yaml:"organization,omitempty" env:"ORGANIZATION"`
	Model        string        `json:"model,omitempty" yaml:"model,omitempty" env:"MODEL"`
	Timeout      time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"TIMEOUT"`
}

// ClaudeConfig Anthropic Claude Provider 配置
type ClaudeConfig struct {
	APIKey  string        `json:"api_key" yaml:"api_key" env:"API_KEY"`
	BaseURL string        `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty" env:"MODEL"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"TIMEOUT"`
}
