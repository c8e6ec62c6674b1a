// =============================================================================
// Package roundtable — One-Line Agent Construction
// =============================================================================
// Provides a convenience entry point for creating agents with minimal
// boilerplate. Delegates to agent.NewAgent and the provider adapters
// internally.
//
// Usage:
//
//	import "github.com/BaSui01/roundtable"
//
//	a, err := roundtable.New(roundtable.WithOpenAI("gpt-4o-mini"))
//	a, err := roundtable.New(roundtable.WithAnthropic("claude-3-5-sonnet-20241022"))
//	a, err := roundtable.New(roundtable.WithProvider(myProvider), roundtable.WithModel("custom"))
//
// =============================================================================
package roundtable

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/BaSui01/roundtable/agent"
	"github.com/BaSui01/roundtable/llm"
	"github.com/BaSui01/roundtable/providers"
	"github.com/BaSui01/roundtable/providers/anthropic"
	"github.com/BaSui01/roundtable/providers/openai"
)

// Option configures the agent created by New.
type Option func(*options)

type options struct {
	name         string
	model        string
	systemPrompt string
	temperature  float32
	provider     llm.Provider
	logger       *zap.Logger

	// Provider shortcut fields, used when provider is nil.
	providerName string
	apiKey       string
}

// WithProvider sets a pre-built LLM provider.
func WithProvider(p llm.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithOpenAI creates an OpenAI provider using the given model.
// API key is read from OPENAI_API_KEY environment variable.
func WithOpenAI(model string) Option {
	return func(o *options) {
		o.providerName = "openai"
		o.model = model
		if o.apiKey == "" {
			o.apiKey = os.Getenv("OPENAI_API_KEY")
		}
	}
}

// WithAnthropic creates an Anthropic Claude provider using the given model.
// API key is read from ANTHROPIC_API_KEY environment variable.
func WithAnthropic(model string) Option {
	return func(o *options) {
		o.providerName = "claude"
		o.model = model
		if o.apiKey == "" {
			o.apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
}

// WithModel sets the model name. Overrides the model set by provider shortcuts.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithName sets the agent name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithSystemPrompt sets the system prompt for the agent.
func WithSystemPrompt(prompt string) Option {
	return func(o *options) { o.systemPrompt = prompt }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float32) Option {
	return func(o *options) { o.temperature = temperature }
}

// WithLogger sets a custom zap logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithAPIKey overrides the API key for provider shortcuts (WithOpenAI, etc.).
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// New creates an [agent.Agent] with minimal configuration.
// At minimum, a provider must be specified via [WithOpenAI], [WithAnthropic],
// or [WithProvider].
func New(opts ...Option) (*agent.Agent, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	// Resolve provider.
	p := o.provider
	if p == nil {
		switch o.providerName {
		case "":
			return nil, fmt.Errorf("provider is required: use WithProvider, WithOpenAI, or WithAnthropic")
		case "openai":
			if o.apiKey == "" {
				return nil, fmt.Errorf("API key is required for openai: set OPENAI_API_KEY or use WithAPIKey")
			}
			p = openai.NewOpenAIProvider(providers.OpenAIConfig{
				APIKey: o.apiKey,
				Model:  o.model,
			}, o.logger)
		case "claude":
			if o.apiKey == "" {
				return nil, fmt.Errorf("API key is required for claude: set ANTHROPIC_API_KEY or use WithAPIKey")
			}
			p = anthropic.NewClaudeProvider(providers.ClaudeConfig{
				APIKey: o.apiKey,
				Model:  o.model,
			}, o.logger)
		default:
			return nil, fmt.Errorf("unknown provider %q", o.providerName)
		}
	}

	cfg := agent.Config{
		Name:         o.name,
		Model:        o.model,
		SystemPrompt: o.systemPrompt,
		Temperature:  o.temperature,
	}

	return agent.NewAgent(cfg, p, o.logger)
}

// NewManager creates an [agent.Manager] ready to register agents into.
func NewManager(opts ...ManagerOption) *Manager {
	o := &managerOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	var agentOpts []agent.ManagerOption
	if o.recorder != nil {
		agentOpts = append(agentOpts, agent.WithRecorder(o.recorder))
	}
	return agent.NewManager(o.logger, agentOpts...)
}

// Re-export the conversation types so callers never need to import agent/.

// Manager drives round-robin conversations between registered agents.
type Manager = agent.Manager

// ConversationSpec describes a round-robin conversation to run.
type ConversationSpec = agent.ConversationSpec

// Conversation is the transcript produced by [Manager.RunConversation].
type Conversation = agent.Conversation

// ManagerOption configures the manager created by NewManager.
type ManagerOption func(*managerOptions)

type managerOptions struct {
	logger   *zap.Logger
	recorder agent.Recorder
}

// WithManagerLogger sets a custom zap logger for the manager.
func WithManagerLogger(logger *zap.Logger) ManagerOption {
	return func(o *managerOptions) { o.logger = logger }
}

// WithManagerRecorder sets a metrics recorder for the manager.
func WithManagerRecorder(r agent.Recorder) ManagerOption {
	return func(o *managerOptions) { o.recorder = r }
}
