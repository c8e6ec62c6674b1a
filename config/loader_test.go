// 配置加载器与默认配置测试。
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- 默认配置测试 ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// 验证 LLM 默认值
	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.OpenAI.Timeout)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.LLM.Claude.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Claude.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.LLM.Timeout)

	// 验证 Agent 默认值
	assert.Equal(t, "You are a helpful AI assistant.", cfg.Agent.SystemPrompt)
	assert.Equal(t, 0.7, cfg.Agent.Temperature)
	assert.Equal(t, 4096, cfg.Agent.MaxTokens)

	// 验证会话默认值
	assert.Equal(t, 1, cfg.Conversation.Rounds)
	assert.Equal(t, 2*time.Minute, cfg.Conversation.StepTimeout)

	// 验证 Log 默认值
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

// --- Loader 测试 ---

func TestLoader_LoadDefaults(t *testing.T) {
	// 不指定配置文件，应该返回默认值
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, 1, cfg.Conversation.Rounds)
}

func TestLoader_LoadFromYAML(t *testing.T) {
	// 创建临时配置文件
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
llm:
  default_provider: "claude"
  timeout: 90s
  claude:
    api_key: "sk-ant-test"
    model: "claude-3-opus-20240229"

agent:
  system_prompt: "You are a careful reviewer."
  temperature: 0.5
  max_tokens: 2048

conversation:
  rounds: 3
  step_timeout: 45s

log:
  level: "debug"
  format: "console"
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	// 加载配置
	cfg, err := NewLoader().
		WithConfigPath(configPath).
		Load()
	require.NoError(t, err)

	// 验证 YAML 值覆盖了默认值
	assert.Equal(t, "claude", cfg.LLM.DefaultProvider)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "sk-ant-test", cfg.LLM.Claude.APIKey)
	assert.Equal(t, "claude-3-opus-20240229", cfg.LLM.Claude.Model)

	assert.Equal(t, "You are a careful reviewer.", cfg.Agent.SystemPrompt)
	assert.Equal(t, 0.5, cfg.Agent.Temperature)
	assert.Equal(t, 2048, cfg.Agent.MaxTokens)

	assert.Equal(t, 3, cfg.Conversation.Rounds)
	assert.Equal(t, 45*time.Second, cfg.Conversation.StepTimeout)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	// 未覆盖的值应该保留默认
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
}

func TestLoader_LoadFromEnv(t *testing.T) {
	// 设置环境变量
	envVars := map[string]string{
		"ROUNDTABLE_LLM_DEFAULT_PROVIDER": "claude",
		"ROUNDTABLE_LLM_OPENAI_API_KEY":   "sk-env-test",
		"ROUNDTABLE_LLM_CLAUDE_MODEL":     "claude-3-haiku-20240307",
		"ROUNDTABLE_AGENT_TEMPERATURE":    "0.9",
		"ROUNDTABLE_AGENT_MAX_TOKENS":     "1024",
		"ROUNDTABLE_CONVERSATION_ROUNDS":  "5",
		"ROUNDTABLE_LOG_LEVEL":            "warn",
	}

	// 设置环境变量
	for k, v := range envVars {
		os.Setenv(k, v)
	}
	// 清理环境变量
	defer func() {
		for k := range envVars {
			os.Unsetenv(k)
		}
	}()

	// 加载配置
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	// 验证环境变量覆盖了默认值
	assert.Equal(t, "claude", cfg.LLM.DefaultProvider)
	assert.Equal(t, "sk-env-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.LLM.Claude.Model)
	assert.Equal(t, 0.9, cfg.Agent.Temperature)
	assert.Equal(t, 1024, cfg.Agent.MaxTokens)
	assert.Equal(t, 5, cfg.Conversation.Rounds)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	// 创建临时配置文件
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
llm:
  default_provider: "claude"
agent:
  system_prompt: "yaml prompt"
  max_tokens: 512
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	// 设置环境变量（应该覆盖 YAML）
	os.Setenv("ROUNDTABLE_LLM_DEFAULT_PROVIDER", "openai")
	os.Setenv("ROUNDTABLE_AGENT_MAX_TOKENS", "256")
	defer func() {
		os.Unsetenv("ROUNDTABLE_LLM_DEFAULT_PROVIDER")
		os.Unsetenv("ROUNDTABLE_AGENT_MAX_TOKENS")
	}()

	// 加载配置
	cfg, err := NewLoader().
		WithConfigPath(configPath).
		Load()
	require.NoError(t, err)

	// 环境变量应该覆盖 YAML
	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, 256, cfg.Agent.MaxTokens)
	// YAML 值应该保留（没有被环境变量覆盖）
	assert.Equal(t, "yaml prompt", cfg.Agent.SystemPrompt)
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	// 设置自定义前缀的环境变量
	os.Setenv("MYAPP_LLM_DEFAULT_PROVIDER", "claude")
	os.Setenv("MYAPP_AGENT_SYSTEM_PROMPT", "custom prefix prompt")
	defer func() {
		os.Unsetenv("MYAPP_LLM_DEFAULT_PROVIDER")
		os.Unsetenv("MYAPP_AGENT_SYSTEM_PROMPT")
	}()

	// 使用自定义前缀加载
	cfg, err := NewLoader().
		WithEnvPrefix("MYAPP").
		Load()
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.LLM.DefaultProvider)
	assert.Equal(t, "custom prefix prompt", cfg.Agent.SystemPrompt)
}

func TestLoader_WithValidator(t *testing.T) {
	// 添加验证器
	validator := func(cfg *Config) error {
		if cfg.LLM.OpenAI.APIKey == "" {
			return assert.AnError
		}
		return nil
	}

	// 没有 API Key，加载应该失败
	_, err := NewLoader().
		WithValidator(validator).
		Load()
	assert.Error(t, err)
}

func TestLoader_NonExistentFile(t *testing.T) {
	// 指定不存在的文件，应该使用默认值（不报错）
	cfg, err := NewLoader().
		WithConfigPath("/non/existent/path/config.yaml").
		Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// 应该返回默认值
	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
}

func TestLoader_InvalidYAML(t *testing.T) {
	// 创建无效的 YAML 文件
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
llm:
  default_provider: [invalid
  this is not valid yaml
`
	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	// 加载应该失败
	_, err = NewLoader().
		WithConfigPath(configPath).
		Load()
	assert.Error(t, err)
}

// --- Config 方法测试 ---

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "unknown default provider",
			modify: func(c *Config) {
				c.LLM.DefaultProvider = "bard"
			},
			wantErr: true,
		},
		{
			name: "invalid temperature (negative)",
			modify: func(c *Config) {
				c.Agent.Temperature = -0.5
			},
			wantErr: true,
		},
		{
			name: "invalid temperature (too high)",
			modify: func(c *Config) {
				c.Agent.Temperature = 3.0
			},
			wantErr: true,
		},
		{
			name: "negative max tokens",
			modify: func(c *Config) {
				c.Agent.MaxTokens = -1
			},
			wantErr: true,
		},
		{
			name: "zero rounds",
			modify: func(c *Config) {
				c.Conversation.Rounds = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// --- MustLoad 测试 ---

func TestMustLoad_Success(t *testing.T) {
	// 创建有效配置文件
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
conversation:
  rounds: 2
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	// 不应该 panic
	assert.NotPanics(t, func() {
		cfg := MustLoad(configPath)
		assert.Equal(t, 2, cfg.Conversation.Rounds)
	})
}

func TestMustLoad_InvalidFile(t *testing.T) {
	// 创建无效配置文件
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(configPath, []byte("invalid: [yaml"), 0644)
	require.NoError(t, err)

	// 应该 panic
	assert.Panics(t, func() {
		MustLoad(configPath)
	})
}

func TestLoadFromEnv_Function(t *testing.T) {
	os.Setenv("ROUNDTABLE_AGENT_SYSTEM_PROMPT", "env only prompt")
	defer os.Unsetenv("ROUNDTABLE_AGENT_SYSTEM_PROMPT")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env only prompt", cfg.Agent.SystemPrompt)
}
