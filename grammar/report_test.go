package grammar

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nihei9/prune/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGenReport(t *testing.T) {
	gram := newTestGrammar(t, "S",
		prod("S", "A", "b"),
		prod("S", "B"),
		prod("A", "a"),
		prod("B", "B"),
	)
	a, err := Analyze(context.Background(), gram)
	require.NoError(t, err)

	report := GenReport(a)
	assert.Equal(t, "S", report.Start)
	assert.Equal(t, []*spec.Terminal{
		{Number: 2, Name: "b"},
		{Number: 3, Name: "a"},
	}, report.Terminals)
	assert.Equal(t, []*spec.NonTerminal{
		{Number: 2, Name: "S", Start: true, Productive: true},
		{Number: 3, Name: "A", Productive: true},
		{Number: 4, Name: "B", Productive: false},
	}, report.NonTerminals)
	assert.Equal(t, []*spec.Production{
		{Number: 1, LHS: "S", RHS: []string{"A", "b"}, Text: "S -> A b"},
		{Number: 2, LHS: "S", RHS: []string{"B"}, Text: "S -> B", Useless: true},
		{Number: 3, LHS: "A", RHS: []string{"a"}, Text: "A -> a"},
		{Number: 4, LHS: "B", RHS: []string{"B"}, Text: "B -> B", Useless: true},
	}, report.Productions)
	assert.Equal(t, []string{"B -> B", "S -> B"}, report.Useless)
	assert.Equal(t, 2, report.UselessCount())

	t.Run("a report can be written as JSON", func(t *testing.T) {
		b, err := json.Marshal(report)
		require.NoError(t, err)
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(b, &m))
		assert.Equal(t, "S", m["start"])
		assert.NotContains(t, m, "name")
		assert.Len(t, m["productions"], 4)
	})

	t.Run("a report can be written as YAML", func(t *testing.T) {
		b, err := yaml.Marshal(report)
		require.NoError(t, err)
		assert.Contains(t, string(b), "useless:\n    - B -> B\n    - S -> B\n")
	})
}
