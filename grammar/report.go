package grammar

import (
	"github.com/nihei9/prune/spec"
)

// GenReport summarizes the analysis. Productions are numbered from 1 in insertion order.
func GenReport(a *Analysis) *spec.Report {
	gram := a.Grammar
	r := gram.symbolTable.Reader()

	terms := []*spec.Terminal{}
	for _, sym := range r.TerminalSymbols() {
		terms = append(terms, &spec.Terminal{
			Number: sym.Num().Int(),
			Name:   gram.symbolText(sym),
		})
	}

	productive := map[string]struct{}{}
	for _, sym := range a.Productive {
		productive[gram.symbolText(sym)] = struct{}{}
	}
	nonTerms := []*spec.NonTerminal{}
	for _, sym := range r.NonTerminalSymbols() {
		text := gram.symbolText(sym)
		_, ok := productive[text]
		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number:     sym.Num().Int(),
			Name:       text,
			Start:      gram.IsStartSymbol(sym),
			Productive: ok,
		})
	}

	prods := []*spec.Production{}
	for i, prod := range gram.AllProductions() {
		prods = append(prods, &spec.Production{
			Number:  i + 1,
			LHS:     prod.HeadText(),
			RHS:     prod.BodyTexts(),
			Text:    prod.String(),
			Useless: a.Useless.Contains(prod),
		})
	}

	return &spec.Report{
		Name:         gram.name,
		Start:        gram.symbolText(gram.startSymbol),
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		Useless:      a.Useless.Strings(),
	}
}
