package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nihei9/prune/config"
	"github.com/nihei9/prune/telemetry"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	config   *string
	logLevel *string
	trace    *bool
	metrics  *bool
	color    *string
}{}

// environment is set up before every command runs.
type environment struct {
	cfg      *config.Config
	logger   *slog.Logger
	shutdown func(context.Context) error
}

var env *environment

var rootCmd = &cobra.Command{
	Use:   "prune",
	Short: "Find useless productions of a context-free grammar",
	Long: `prune analyzes a context-free grammar and reports its useless productions,
that is, productions that can never take part in deriving a string of terminal symbols.
prune provides three features:
- Lists the useless productions of a grammar.
- Describes every production and non-terminal with its productivity.
- Prints the grammar without its useless productions.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUpEnvironment,
}

func init() {
	pf := rootCmd.PersistentFlags()
	rootFlags.config = pf.String("config", "", fmt.Sprintf("config file path (default %v if present)", config.DefaultFileName))
	rootFlags.logLevel = pf.String("log-level", "", "log level: debug, info, warn, or error")
	rootFlags.trace = pf.Bool("trace", false, "write trace spans to stderr")
	rootFlags.metrics = pf.Bool("metrics", false, "write metrics to stderr")
	rootFlags.color = pf.String("color", "", "color mode: auto, always, or never")
}

func setUpEnvironment(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(*rootFlags.config)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = *rootFlags.logLevel
	}
	if flags.Changed("color") {
		cfg.Color = *rootFlags.color
	}
	if flags.Changed("trace") && *rootFlags.trace {
		cfg.Telemetry.Traces = telemetry.ExporterStdout
	}
	if flags.Changed("metrics") && *rootFlags.metrics {
		cfg.Telemetry.Metrics = telemetry.ExporterStdout
	}
	err = cfg.Validate()
	if err != nil {
		return err
	}

	var level slog.Level
	err = level.UnmarshalText([]byte(cfg.LogLevel))
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	tcfg := telemetry.DefaultConfig()
	tcfg.TraceExporter = cfg.Telemetry.Traces
	tcfg.MetricExporter = cfg.Telemetry.Metrics
	tcfg.Writer = cmd.ErrOrStderr()
	shutdown, err := telemetry.Init(cmd.Context(), tcfg)
	if err != nil {
		return err
	}

	env = &environment{
		cfg:      cfg,
		logger:   logger,
		shutdown: shutdown,
	}
	logger.Debug("environment ready", slog.String("command", cmd.Name()), slog.String("config", *rootFlags.config))

	return nil
}

func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if env != nil && env.shutdown != nil {
		sErr := env.shutdown(context.Background())
		if sErr != nil && err == nil {
			err = sErr
		}
		env.shutdown = nil
	}
	if err != nil {
		return err
	}
	return nil
}
