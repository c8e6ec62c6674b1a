// =============================================================================
// RoundTable 主入口
// =============================================================================
// 命令行入口点，从配置构建 Provider 与 Agent 并运行圆桌讨论
//
// 使用方法:
//
//	roundtable run --prompt "..."                  # 用默认人设运行讨论
//	roundtable run --config config.yaml --rounds 3 # 指定配置文件与轮数
//	roundtable version                             # 显示版本信息
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BaSui01/roundtable/agent"
	"github.com/BaSui01/roundtable/config"
	"github.com/BaSui01/roundtable/internal/metrics"
	"github.com/BaSui01/roundtable/llm"
	"github.com/BaSui01/roundtable/personas"
	"github.com/BaSui01/roundtable/providers/anthropic"
	"github.com/BaSui01/roundtable/providers/openai"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runConversation(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// =============================================================================
// 🖥️ run 命令
// =============================================================================

func runConversation(args []string) {
	// 解析命令行参数
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	prompt := fs.String("prompt", "", "Opening prompt for the discussion")
	rounds := fs.Int("rounds", 0, "Number of rounds (0 = config default)")
	personaList := fs.String("personas", "brainstormer,critic,summarizer", "Comma-separated persona types")
	metricsAddr := fs.String("metrics-addr", "", "Expose Prometheus metrics on this address (optional)")
	fs.Parse(args)

	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "--prompt is required")
		os.Exit(1)
	}

	// 加载配置
	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := config.NewLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("Starting RoundTable",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	// 初始化指标收集器
	collector := metrics.NewCollector("roundtable", logger)
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		logger.Info("metrics exposed", zap.String("addr", *metricsAddr))
	}

	// 构建 Provider 并套上中间件链
	provider, err := buildProvider(cfg, collector, logger)
	if err != nil {
		logger.Fatal("Failed to build provider", zap.Error(err))
	}

	// 从人设创建 Agent 并注册到 Manager
	manager := agent.NewManager(logger, agent.WithRecorder(collector))
	registry := personas.NewDefaultRegistry()

	speakers := make([]string, 0)
	for _, name := range strings.Split(*personaList, ",") {
		p, ok := registry.Get(personas.PersonaType(strings.TrimSpace(name)))
		if !ok {
			logger.Fatal("Unknown persona", zap.String("persona", name))
		}

		agentCfg := p.AgentConfig(cfg.Agent.Model)
		agentCfg.ID = string(p.Type)
		agentCfg.MaxTokens = cfg.Agent.MaxTokens

		a, err := agent.NewAgent(agentCfg, provider, logger)
		if err != nil {
			logger.Fatal("Failed to create agent", zap.String("persona", name), zap.Error(err))
		}
		if err := manager.Register(a); err != nil {
			logger.Fatal("Failed to register agent", zap.String("persona", name), zap.Error(err))
		}
		speakers = append(speakers, a.ID())
	}

	// 运行圆桌讨论
	r := *rounds
	if r <= 0 {
		r = cfg.Conversation.Rounds
	}

	conv, err := manager.RunConversation(context.Background(), agent.ConversationSpec{
		Opening:  *prompt,
		Speakers: speakers,
		Rounds:   r,
	})
	if err != nil {
		logger.Fatal("Conversation failed", zap.Error(err))
	}

	// 打印每一步发言
	for _, turn := range conv.Turns {
		if turn.Err != "" {
			fmt.Printf("[round %d] %s failed: %s\n\n", turn.Round, turn.AgentName, turn.Err)
			continue
		}
		fmt.Printf("[round %d] %s:\n%s\n\n", turn.Round, turn.AgentName, turn.Reply)
	}

	fmt.Printf("Final answer:\n%s\n\n", conv.Final())
	fmt.Printf("Total tokens: %d\n", conv.Usage.TotalTokens)
}

// buildProvider 根据配置创建 Provider 并套上日志、超时、限流与指标中间件
func buildProvider(cfg *config.Config, collector *metrics.Collector, logger *zap.Logger) (llm.Provider, error) {
	var p llm.Provider
	switch cfg.LLM.DefaultProvider {
	case "openai":
		if cfg.LLM.OpenAI.APIKey == "" {
			cfg.LLM.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai API key is missing: set llm.openai.api_key or OPENAI_API_KEY")
		}
		p = openai.NewOpenAIProvider(cfg.LLM.OpenAI, logger)
	case "claude":
		if cfg.LLM.Claude.APIKey == "" {
			cfg.LLM.Claude.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.LLM.Claude.APIKey == "" {
			return nil, fmt.Errorf("claude API key is missing: set llm.claude.api_key or ANTHROPIC_API_KEY")
		}
		p = anthropic.NewClaudeProvider(cfg.LLM.Claude, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.LLM.DefaultProvider)
	}

	chain := llm.NewChain(
		llm.RecoveryMiddleware(nil),
		llm.LoggingMiddleware(logger),
		llm.TimeoutMiddleware(cfg.LLM.Timeout),
		llm.MetricsMiddleware(p.Name(), collector),
		llm.TracingMiddleware(p.Name()),
	)
	if cfg.LLM.RateLimitRPS > 0 {
		chain.Use(llm.RateLimitMiddleware(cfg.LLM.RateLimitRPS, cfg.LLM.RateLimitBurst))
	}

	return llm.WrapProvider(p, chain), nil
}

// =============================================================================
// 📋 版本和帮助
// =============================================================================

func printVersion() {
	fmt.Printf("RoundTable %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`RoundTable - multi-agent round-robin conversations

Usage:
  roundtable <command> [options]

Commands:
  run       Run a round-robin discussion
  version   Show version information
  help      Show this help message

Options for 'run':
  --config <path>     Path to configuration file (YAML)
  --prompt <text>     Opening prompt for the discussion (required)
  --rounds <n>        Number of rounds (defaults to config value)
  --personas <list>   Comma-separated persona types
                      (brainstormer, critic, researcher, summarizer,
                      moderator, devils_advocate)
  --metrics-addr <a>  Expose Prometheus metrics on this address

Examples:
  roundtable run --prompt "How can we cut cloud costs?"
  roundtable run --config config.yaml --rounds 3 --personas critic,summarizer
  roundtable run --prompt "..." --metrics-addr :9091
  roundtable version`)
}
