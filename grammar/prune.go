package grammar

// Prune returns a new grammar without the useless productions of gram. gram is not modified.
func Prune(gram *Grammar) (*Grammar, error) {
	return prune(gram, FindUselessProductions(gram))
}

// Prune returns a new grammar without the useless productions found by the analysis.
func (a *Analysis) Prune() (*Grammar, error) {
	return prune(a.Grammar, a.Useless)
}

// prune copies the productions not contained in useless into a new grammar. The new grammar has the same start
// symbol, and every name keeps its kind and its symbol value, so the symbols of both grammars are comparable.
// Productions keep their insertion order, and duplicated productions stay duplicated.
func prune(gram *Grammar, useless *ProductionSet) (*Grammar, error) {
	r := gram.symbolTable.Reader()
	pruned, err := New(gram.symbolText(gram.startSymbol), WithName(gram.name), WithClassifier(gram.classify))
	if err != nil {
		return nil, err
	}

	// The first two texts are the nil symbol and the reserved symbol.
	for _, text := range r.NonTerminalTexts()[2:] {
		_, err := pruned.DeclareNonTerminal(text)
		if err != nil {
			return nil, err
		}
	}
	for _, text := range r.TerminalTexts()[2:] {
		_, err := pruned.DeclareTerminal(text)
		if err != nil {
			return nil, err
		}
	}

	for _, prod := range gram.AllProductions() {
		if useless.Contains(prod) {
			continue
		}
		err := pruned.AddProduction(prod.HeadText(), prod.BodyTexts()...)
		if err != nil {
			return nil, err
		}
	}

	return pruned, nil
}
