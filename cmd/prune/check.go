package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nihei9/prune/config"
	"github.com/nihei9/prune/grammar"
	"github.com/nihei9/prune/watcher"
	"github.com/spf13/cobra"
)

var errUselessProductions = errors.New("the grammar contains useless productions")

var checkFlags = struct {
	input  *string
	output *string
	fail   *bool
	watch  *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "check [grammar file]",
		Short: "List the useless productions of a grammar",
		Example: `  prune check grammar.txt
  prune check grammar.yaml -o json
  cat grammar.txt | prune check --fail`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	checkFlags.input = cmd.Flags().String("format", config.InputAuto, "grammar notation: auto, text, or yaml")
	checkFlags.output = cmd.Flags().StringP("output", "o", config.OutputText, "output format: text, json, or yaml")
	checkFlags.fail = cmd.Flags().Bool("fail", false, "exit with a non-zero status when the grammar contains useless productions")
	checkFlags.watch = cmd.Flags().BoolP("watch", "w", false, "check the grammar again whenever the file changes")
	rootCmd.AddCommand(cmd)
}

type checkOptions struct {
	input  string
	output string
	fail   bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := *env.cfg
	opts := checkOptions{
		input:  cfg.Input,
		output: cfg.Output,
		fail:   cfg.FailOnUseless,
	}
	input, err := inputFormat(cmd, checkFlags.input)
	if err != nil {
		return err
	}
	opts.input = input
	flags := cmd.Flags()
	if flags.Changed("output") {
		opts.output = *checkFlags.output
	}
	if flags.Changed("fail") {
		opts.fail = *checkFlags.fail
	}
	cfg.Output = opts.output
	err = cfg.Validate()
	if err != nil {
		return err
	}

	if !*checkFlags.watch {
		return check(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), args, opts)
	}

	if len(args) == 0 {
		return fmt.Errorf("--watch needs a grammar file")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	handler := func(ctx context.Context) error {
		err := check(ctx, cmd.OutOrStdout(), cmd.InOrStdin(), args, opts)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		return nil
	}
	_ = handler(ctx)
	w, err := watcher.New(args[0], handler, watcher.WithDebounce(cfg.Watch.Debounce), watcher.WithLogger(env.logger))
	if err != nil {
		return err
	}
	return w.Watch(ctx)
}

func check(ctx context.Context, w io.Writer, stdin io.Reader, args []string, opts checkOptions) error {
	src, err := openGrammarSource(args, stdin, opts.input)
	if err != nil {
		return err
	}
	defer src.cleanUp()

	gram, err := src.read()
	if err != nil {
		return err
	}

	a, err := grammar.Analyze(ctx, gram, grammar.WithLogger(env.logger))
	if err != nil {
		return err
	}
	report := grammar.GenReport(a)
	env.logger.Info("grammar checked",
		slog.String("source", src.sourceName),
		slog.Int("productions", len(report.Productions)),
		slog.Int("useless", report.UselessCount()),
	)

	err = writeReport(w, report, opts.output, newStyles(w, env.cfg.Color))
	if err != nil {
		return fmt.Errorf("Cannot write the report: %w", err)
	}

	if opts.fail && len(report.Useless) > 0 {
		return errUselessProductions
	}
	return nil
}
