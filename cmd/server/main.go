package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/app"
	"github.com/Xieruu-29/Realtime-ChatApp/internal/config"
	"github.com/Xieruu-29/Realtime-ChatApp/internal/log"
)

// version is stamped by the build.
var version = "dev"

var (
	flagConfig          string
	flagAddr            string
	flagLogLevel        string
	flagLogFormat       string
	flagHistoryCapacity int
	flagNamePolicy      string
)

func main() {
	root := &cobra.Command{
		Use:     "chatapp",
		Version: version,
		Short:   "Real-time group chat relay server",
		Long: "chatapp serves a WebSocket chat room with a bounded in-memory history,\n" +
			"display name presence tracking and a read-only REST surface.",
		RunE:         runServer,
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	root.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address")
	root.Flags().StringVar(&flagLogLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	root.Flags().StringVar(&flagLogFormat, "log-format", "", "log format (console|json)")
	root.Flags().IntVar(&flagHistoryCapacity, "history-capacity", 0, "history buffer capacity in events")
	root.Flags().StringVar(&flagNamePolicy, "duplicate-name-policy", "", "duplicate display name policy (takeover|reject)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	bootLogger := log.New("info", "console")

	cfg, path, err := config.Load(bootLogger, flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags beat file and environment, but only when actually set.
	overrides := config.Config{}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		overrides.Addr = flagAddr
	}
	if flags.Changed("log-level") {
		overrides.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		overrides.LogFormat = flagLogFormat
	}
	if flags.Changed("history-capacity") {
		overrides.HistoryCapacity = flagHistoryCapacity
	}
	if flags.Changed("duplicate-name-policy") {
		overrides.DuplicateNamePolicy = flagNamePolicy
	}
	cfg.UpdateFrom(overrides)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := log.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info().Str("config", path).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(&cfg, logger).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
