package grammar

import (
	"errors"
	"fmt"

	"github.com/nihei9/prune/grammar/symbol"
)

var (
	ErrInvalidSymbolKind  = errors.New("the operation requires a non-terminal symbol")
	ErrUnknownNonTerminal = errors.New("a non-terminal symbol has no productions")
	ErrEmptySymbolName    = errors.New("a symbol name must not be empty")
)

// Classifier decides the kind of a name at its first resolution.
type Classifier func(name string) symbol.Kind

// ClassifyByCase treats names beginning with an ASCII upper-case letter as non-terminals and everything else as
// terminals.
func ClassifyByCase(name string) symbol.Kind {
	if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
		return symbol.KindNonTerminal
	}
	return symbol.KindTerminal
}

type grammarConfig struct {
	name     string
	classify Classifier
}

type GrammarOption func(config *grammarConfig)

// WithClassifier replaces the classifier used for body symbols that were neither declared nor used before.
func WithClassifier(classify Classifier) GrammarOption {
	return func(config *grammarConfig) {
		config.classify = classify
	}
}

// WithName sets the name of the grammar. The name is only used in reports.
func WithName(name string) GrammarOption {
	return func(config *grammarConfig) {
		config.name = name
	}
}

// Grammar is a context-free grammar. A grammar is built by AddProduction calls and is read-only afterwards; the
// analyses never modify it.
type Grammar struct {
	name        string
	symbolTable *symbol.SymbolTable
	startSymbol symbol.Symbol
	classify    Classifier

	lhs2Prods map[symbol.Symbol][]*ProductionReference

	// heads keeps the heads in order of their first insertion so that listings are stable.
	heads []symbol.Symbol
}

// New creates a grammar whose start symbol is named startName. The start symbol is always a non-terminal
// regardless of the classifier.
func New(startName string, opts ...GrammarOption) (*Grammar, error) {
	config := &grammarConfig{
		classify: ClassifyByCase,
	}
	for _, opt := range opts {
		opt(config)
	}

	if startName == "" {
		return nil, fmt.Errorf("invalid start symbol: %w", ErrEmptySymbolName)
	}

	symTab := symbol.NewSymbolTable()
	startSym, err := symTab.Writer().RegisterNonTerminalSymbol(startName)
	if err != nil {
		return nil, err
	}

	return &Grammar{
		name:        config.name,
		symbolTable: symTab,
		startSymbol: startSym,
		classify:    config.classify,
		lhs2Prods:   map[symbol.Symbol][]*ProductionReference{},
	}, nil
}

// DeclareTerminal fixes the kind of name as a terminal before it is used in a production.
func (g *Grammar) DeclareTerminal(name string) (symbol.Symbol, error) {
	if name == "" {
		return symbol.SymbolNil, ErrEmptySymbolName
	}
	return g.symbolTable.Writer().RegisterTerminalSymbol(name)
}

// DeclareNonTerminal fixes the kind of name as a non-terminal before it is used in a production.
func (g *Grammar) DeclareNonTerminal(name string) (symbol.Symbol, error) {
	if name == "" {
		return symbol.SymbolNil, ErrEmptySymbolName
	}
	return g.symbolTable.Writer().RegisterNonTerminalSymbol(name)
}

// AddProduction appends the production `headName -> bodyNames...` to the grammar. An empty body is an epsilon
// production. Storing the same production twice keeps both copies.
func (g *Grammar) AddProduction(headName string, bodyNames ...string) error {
	if headName == "" {
		return fmt.Errorf("invalid head: %w", ErrEmptySymbolName)
	}
	for i, name := range bodyNames {
		if name == "" {
			return fmt.Errorf("invalid body symbol; head: %v, position: %v: %w", headName, i+1, ErrEmptySymbolName)
		}
	}

	w := g.symbolTable.Writer()
	head, err := w.RegisterNonTerminalSymbol(headName)
	if err != nil {
		if errors.Is(err, symbol.ErrKindMismatch) {
			return fmt.Errorf("%w; head: %v", ErrInvalidSymbolKind, headName)
		}
		return err
	}

	body := make([]symbol.Symbol, 0, len(bodyNames))
	for _, name := range bodyNames {
		sym, err := w.Resolve(name, g.classify(name))
		if err != nil {
			return err
		}
		body = append(body, sym)
	}

	prods, ok := g.lhs2Prods[head]
	if !ok {
		g.heads = append(g.heads, head)
	}
	g.lhs2Prods[head] = append(prods, newProductionReference(g.symbolTable.Reader(), head, body))

	return nil
}

func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) StartSymbol() symbol.Symbol {
	return g.startSymbol
}

// IsStartSymbol reports whether sym is the start symbol of the grammar.
func (g *Grammar) IsStartSymbol(sym symbol.Symbol) bool {
	return sym == g.startSymbol
}

func (g *Grammar) Symbols() *symbol.SymbolTableReader {
	return g.symbolTable.Reader()
}

// Lookup returns the symbol interned for name.
func (g *Grammar) Lookup(name string) (symbol.Symbol, bool) {
	return g.symbolTable.Reader().ToSymbol(name)
}

// Heads returns the non-terminals having at least one production in order of their first insertion.
func (g *Grammar) Heads() []symbol.Symbol {
	heads := make([]symbol.Symbol, len(g.heads))
	copy(heads, g.heads)
	return heads
}

// ProductionsOf returns the bodies of the productions of sym in insertion order. Each call returns fresh slices.
func (g *Grammar) ProductionsOf(sym symbol.Symbol) ([][]symbol.Symbol, error) {
	if !sym.IsNonTerminal() {
		return nil, fmt.Errorf("%w; symbol: %v", ErrInvalidSymbolKind, g.symbolText(sym))
	}
	prods, ok := g.lhs2Prods[sym]
	if !ok {
		return nil, fmt.Errorf("%w; symbol: %v", ErrUnknownNonTerminal, g.symbolText(sym))
	}

	bodies := make([][]symbol.Symbol, len(prods))
	for i, prod := range prods {
		bodies[i] = prod.Body()
	}
	return bodies, nil
}

// AllProductions returns one reference per stored production. Structurally identical productions stored more than
// once appear more than once.
func (g *Grammar) AllProductions() []*ProductionReference {
	var all []*ProductionReference
	for _, head := range g.heads {
		all = append(all, g.lhs2Prods[head]...)
	}
	return all
}

// ProductionCount returns the number of stored productions.
func (g *Grammar) ProductionCount() int {
	n := 0
	for _, prods := range g.lhs2Prods {
		n += len(prods)
	}
	return n
}

func (g *Grammar) symbolText(sym symbol.Symbol) string {
	if text, ok := g.symbolTable.Reader().ToText(sym); ok {
		return text
	}
	return sym.String()
}
