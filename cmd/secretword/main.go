package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avolkov/secretword/internal/adapter/httpapi"
	llmhttp "github.com/avolkov/secretword/internal/adapter/llm/http"
	"github.com/avolkov/secretword/internal/adapter/llm/openai"
	"github.com/avolkov/secretword/internal/adapter/llm/static"
	"github.com/avolkov/secretword/internal/config"
	"github.com/avolkov/secretword/internal/usecase/chat"
	"github.com/avolkov/secretword/internal/version"
	"github.com/avolkov/secretword/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "secretword",
		Short: "Secret Word Challenge backend",
		Long:  "Backend for the Secret Word Challenge: chat with an AI that guards a secret word.",
	}
	root.SilenceUsage = true

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version())
		},
	}
}

type serveCommander struct {
	listen     string
	configPath string
	debug      bool
	useStatic  bool
}

func newServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (overrides config)")
	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Directory containing secretword.yaml")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&cmder.useStatic, "static", false, "Serve canned replies instead of calling the provider (no API key needed)")

	return cmd
}

func (c *serveCommander) run() error {
	var paths []string
	if c.configPath != "" {
		paths = append(paths, c.configPath)
	}

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: paths,
		FileName:    "secretword",
		EnvPrefix:   "SECRETWORD",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	// The static completer needs no API key; everything else is still
	// validated the same way.
	if !c.useStatic {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config invalid: %w", err)
		}
	}

	log := logger.NewLogger(c.debug || cfg.Logging.Debug)
	defer log.Sync()

	prompts, err := chat.NewPromptProvider(cfg.Game.SecretWord, cfg.Game.SystemPrompt)
	if err != nil {
		return fmt.Errorf("prompt provider: %w", err)
	}

	service := chat.NewService(prompts, buildCompleter(cfg, c.useStatic, log), log)

	listen := cfg.Server.Listen
	if c.listen != "" {
		listen = c.listen
	}

	server := httpapi.NewServer(httpapi.Config{
		ListenAddr:  listen,
		AppName:     cfg.App.Name,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, service, log)

	log.Info("starting application",
		zap.String("app", cfg.App.Name),
		zap.String("model", cfg.Provider.Model),
		zap.String("base_url", cfg.Provider.BaseURL),
		zap.Bool("static", c.useStatic),
	)

	return server.Run()
}

func buildCompleter(cfg config.Config, useStatic bool, log *zap.Logger) chat.Completer {
	if useStatic {
		return static.NewCompleter("")
	}

	retry := llmhttp.DefaultRetryConfig()
	if cfg.Provider.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.Provider.MaxAttempts
	}
	if d, err := time.ParseDuration(cfg.Provider.InitialBackoff); err == nil && d > 0 {
		retry.BaseDelay = d
	}

	opts := []openai.Option{
		openai.WithBaseURL(cfg.Provider.BaseURL),
		openai.WithRetryConfig(retry),
	}
	if d, err := time.ParseDuration(cfg.Provider.Timeout); err == nil && d > 0 {
		opts = append(opts, openai.WithTimeout(d))
	}
	if d, err := time.ParseDuration(cfg.Provider.RequestBudget); err == nil && d > 0 {
		opts = append(opts, openai.WithRequestBudget(d))
	}

	return openai.NewHTTPClient(cfg.Provider.APIKey, cfg.Provider.Model, log, opts...)
}
