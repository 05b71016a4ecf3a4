package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/prune/grammar/symbol"
	"github.com/nihei9/prune/spec"
)

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

// testProduction is a production written as its head followed by its body.
type testProduction []string

func prod(head string, body ...string) testProduction {
	return append(testProduction{head}, body...)
}

func newTestGrammar(t *testing.T, start string, prods ...testProduction) *Grammar {
	t.Helper()

	gram, err := New(start)
	if err != nil {
		t.Fatalf("failed to create a grammar: %v", err)
	}
	for _, p := range prods {
		err := gram.AddProduction(p[0], p[1:]...)
		if err != nil {
			t.Fatalf("failed to add a production: %v: %v", p, err)
		}
	}
	return gram
}

func parseTestGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse a grammar: %v", err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

// oracleGrammar returns the grammar whose useless productions are listed in oracleUseless.
func oracleGrammar(t *testing.T) *Grammar {
	t.Helper()

	return newTestGrammar(t, "S",
		prod("S", "C"),
		prod("S", "H"),
		prod("S", "X", "E", "G", "b"),
		prod("S", "X", "E"),
		prod("C", "D"),
		prod("D", "a", "S", "b"),
		prod("D", "s"),
		prod("D"),
		prod("D", "a", "F"),
		prod("H", "H"),
		prod("H", "b", "F"),
		prod("F", "F", "a"),
		prod("E", "a", "b"),
		prod("E", "G"),
		prod("G", "a", "G"),
		prod("X", "b"),
		prod("X", "a"),
		prod("X", "Y"),
		prod("Y", "a"),
		prod("Y", "X"),
	)
}

var oracleUseless = []string{
	"D -> a F",
	"E -> G",
	"F -> F a",
	"G -> a G",
	"H -> H",
	"H -> b F",
	"S -> H",
	"S -> X E G b",
}
