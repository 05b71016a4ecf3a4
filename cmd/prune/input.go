package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/prune/config"
	verr "github.com/nihei9/prune/error"
	"github.com/nihei9/prune/grammar"
	"github.com/nihei9/prune/spec"
	"github.com/spf13/cobra"
)

// grammarSource is a grammar description read from a file or stdin. The source of stdin is copied into a
// temporary file so that error messages can quote the offending lines.
type grammarSource struct {
	path       string
	sourceName string
	input      string
	cleanUp    func()
}

func openGrammarSource(args []string, stdin io.Reader, input string) (*grammarSource, error) {
	if len(args) > 0 {
		return &grammarSource{
			path:       args[0],
			sourceName: args[0],
			input:      resolveInput(args[0], input),
			cleanUp:    func() {},
		}, nil
	}

	tmpDirPath, err := os.MkdirTemp("", "prune-*")
	if err != nil {
		return nil, err
	}
	cleanUp := func() {
		os.RemoveAll(tmpDirPath)
	}
	src, err := io.ReadAll(stdin)
	if err != nil {
		cleanUp()
		return nil, err
	}
	path := filepath.Join(tmpDirPath, "stdin")
	err = os.WriteFile(path, src, 0600)
	if err != nil {
		cleanUp()
		return nil, err
	}
	if input == config.InputAuto {
		input = detectInput(src)
	}
	return &grammarSource{
		path:       path,
		sourceName: "stdin",
		input:      input,
		cleanUp:    cleanUp,
	}, nil
}

// inputFormat returns the grammar notation given by the --format flag, or by the config when the flag is not set.
func inputFormat(cmd *cobra.Command, flag *string) (string, error) {
	input := env.cfg.Input
	if cmd.Flags().Changed("format") {
		input = *flag
	}
	cfg := *env.cfg
	cfg.Input = input
	err := cfg.Validate()
	if err != nil {
		return "", err
	}
	return input, nil
}

func resolveInput(path string, input string) string {
	if input != config.InputAuto {
		return input
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.InputYAML
	}
	return config.InputText
}

// detectInput treats stdin as YAML when its first meaningful line starts a YAML mapping key of the notation.
func detectInput(src []byte) string {
	for _, line := range bytes.Split(src, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || bytes.HasPrefix(line, []byte("#")) || bytes.HasPrefix(line, []byte("//")) {
			continue
		}
		for _, key := range []string{"name:", "start:", "terminals:", "non_terminals:", "productions:", "---"} {
			if bytes.HasPrefix(line, []byte(key)) {
				return config.InputYAML
			}
		}
		break
	}
	return config.InputText
}

// read parses and builds the grammar. Description errors are returned as verr.SpecErrors carrying the source.
func (s *grammarSource) read(opts ...grammar.GrammarOption) (gram *grammar.Grammar, retErr error) {
	defer func() {
		if retErr == nil {
			return
		}
		if specErrs, ok := verr.AsSpecErrors(retErr); ok {
			specErrs.SetSource(s.path, s.sourceName)
			retErr = specErrs
		}
	}()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", s.sourceName, err)
	}
	defer f.Close()

	var ast *spec.RootNode
	switch s.input {
	case config.InputYAML:
		ast, err = spec.ParseYAML(f)
	default:
		ast, err = spec.Parse(f)
	}
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST:     ast,
		Options: opts,
	}
	return b.Build()
}
