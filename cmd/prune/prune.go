package main

import (
	"log/slog"

	"github.com/nihei9/prune/grammar"
	"github.com/nihei9/prune/spec"
	"github.com/spf13/cobra"
)

var pruneFlags = struct {
	input *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "prune [grammar file]",
		Short:   "Print a grammar without its useless productions",
		Example: `  prune prune grammar.txt > pruned.txt`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runPrune,
	}
	pruneFlags.input = cmd.Flags().String("format", "", "grammar notation: auto, text, or yaml")
	rootCmd.AddCommand(cmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	input, err := inputFormat(cmd, pruneFlags.input)
	if err != nil {
		return err
	}
	src, err := openGrammarSource(args, cmd.InOrStdin(), input)
	if err != nil {
		return err
	}
	defer src.cleanUp()

	gram, err := src.read()
	if err != nil {
		return err
	}
	a, err := grammar.Analyze(cmd.Context(), gram, grammar.WithLogger(env.logger))
	if err != nil {
		return err
	}
	pruned, err := a.Prune()
	if err != nil {
		return err
	}
	env.logger.Info("grammar pruned",
		slog.String("source", src.sourceName),
		slog.Int("removed", gram.ProductionCount()-pruned.ProductionCount()),
	)

	ast, err := grammar.ToAST(pruned)
	if err != nil {
		return err
	}
	return spec.Format(cmd.OutOrStdout(), ast)
}
