package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nihei9/prune/config"
	"github.com/nihei9/prune/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGrammar = `%start S;

S
    : A b
    | a
    ;

A
    : A c
    ;
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(bytes.NewReader(nil))
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	}()
	err := Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestFile(t, dir, "config.yaml", "color: never\nlog_level: error\n")
	grammarPath := writeTestFile(t, dir, "grammar.txt", testGrammar)

	t.Run("check lists useless productions", func(t *testing.T) {
		out, err := execute(t, "check", "--config", cfgPath, "-o", "text", "--fail=false", grammarPath)
		require.NoError(t, err)
		assert.Equal(t, "A -> A c\nS -> A b\n", out)
	})

	t.Run("check writes a JSON report", func(t *testing.T) {
		out, err := execute(t, "check", "--config", cfgPath, "-o", "json", "--fail=false", grammarPath)
		require.NoError(t, err)
		var report spec.Report
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, "S", report.Start)
		assert.Equal(t, []string{"A -> A c", "S -> A b"}, report.Useless)
		assert.Len(t, report.Productions, 3)
	})

	t.Run("check fails on useless productions", func(t *testing.T) {
		_, err := execute(t, "check", "--config", cfgPath, "-o", "text", "--fail=true", grammarPath)
		assert.ErrorIs(t, err, errUselessProductions)
	})

	t.Run("check reports description errors", func(t *testing.T) {
		broken := writeTestFile(t, dir, "broken.txt", "S\n    : a\n")
		_, err := execute(t, "check", "--config", cfgPath, "-o", "text", "--fail=false", broken)
		require.Error(t, err)
		assert.Contains(t, err.Error(), broken)
	})

	t.Run("prune prints the grammar without useless productions", func(t *testing.T) {
		out, err := execute(t, "prune", "--config", cfgPath, grammarPath)
		require.NoError(t, err)
		assert.Equal(t, "%start S;\n\nS\n    : a\n    ;\n", out)
	})

	t.Run("describe marks unproductive non-terminals", func(t *testing.T) {
		out, err := execute(t, "describe", "--config", cfgPath, grammarPath)
		require.NoError(t, err)
		assert.Contains(t, out, "unproductive A")
		assert.Contains(t, out, "2 useless productions were found.")
	})

	for _, command := range []string{"check", "describe", "prune"} {
		t.Run(command+" rejects an unknown grammar notation", func(t *testing.T) {
			_, err := execute(t, command, "--config", cfgPath, "--format", "yml", grammarPath)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)

			_, err = execute(t, command, "--config", cfgPath, "--format", "auto", grammarPath)
			assert.NoError(t, err)
		})
	}
}
