package grammar

import (
	"fmt"
	"strings"

	"github.com/nihei9/prune/grammar/symbol"
	"github.com/nihei9/prune/spec"
)

// ToAST converts the grammar into a description in the textual notation. The description declares the start
// symbol and the non-terminals whose names would be classified as terminals, so building the description again
// yields a grammar with the same productions. Only the symbols appearing in the productions are described.
func ToAST(gram *Grammar) (*spec.RootNode, error) {
	r := gram.symbolTable.Reader()
	startName := gram.symbolText(gram.startSymbol)
	if !isIdentifier(startName) {
		return nil, fmt.Errorf("a start symbol must be an identifier; symbol: %v", startName)
	}

	root := &spec.RootNode{}
	if gram.name != "" {
		root.Directives = append(root.Directives, &spec.DirectiveNode{
			Name: dirNameName,
			Parameters: []*spec.ParameterNode{
				{
					ID: gram.name,
				},
			},
		})
	}
	root.Directives = append(root.Directives, &spec.DirectiveNode{
		Name: dirNameStart,
		Parameters: []*spec.ParameterNode{
			{
				ID: startName,
			},
		},
	})

	used := map[symbol.Symbol]struct{}{
		gram.startSymbol: {},
	}
	for _, head := range gram.heads {
		used[head] = struct{}{}
		prod := &spec.ProductionNode{
			LHS: gram.symbolText(head),
		}
		if !isIdentifier(prod.LHS) {
			return nil, fmt.Errorf("a non-terminal must be an identifier; symbol: %v", prod.LHS)
		}
		for _, p := range gram.lhs2Prods[head] {
			alt := &spec.AlternativeNode{
				Elements: []*spec.ElementNode{},
			}
			for _, sym := range p.body {
				used[sym] = struct{}{}
				elem, err := toElement(sym, gram.symbolText(sym))
				if err != nil {
					return nil, err
				}
				alt.Elements = append(alt.Elements, elem)
			}
			prod.RHS = append(prod.RHS, alt)
		}
		root.Productions = append(root.Productions, prod)
	}

	var params []*spec.ParameterNode
	for _, sym := range r.NonTerminalSymbols() {
		if _, ok := used[sym]; !ok || sym == gram.startSymbol {
			continue
		}
		text := gram.symbolText(sym)
		if ClassifyByCase(text) == symbol.KindNonTerminal {
			continue
		}
		if !isIdentifier(text) {
			return nil, fmt.Errorf("a non-terminal must be an identifier; symbol: %v", text)
		}
		params = append(params, &spec.ParameterNode{
			ID: text,
		})
	}
	if len(params) > 0 {
		root.Directives = append(root.Directives, &spec.DirectiveNode{
			Name:       dirNameNonTerminal,
			Parameters: params,
		})
	}

	return root, nil
}

func toElement(sym symbol.Symbol, text string) (*spec.ElementNode, error) {
	if sym.IsNonTerminal() {
		if !isIdentifier(text) {
			return nil, fmt.Errorf("a non-terminal must be an identifier; symbol: %v", text)
		}
		return &spec.ElementNode{
			ID: text,
		}, nil
	}

	if isIdentifier(text) && ClassifyByCase(text) == symbol.KindTerminal {
		return &spec.ElementNode{
			ID: text,
		}, nil
	}
	if strings.ContainsAny(text, "'\n\r") {
		return nil, fmt.Errorf("a terminal cannot be written as a literal; symbol: %v", text)
	}
	return &spec.ElementNode{
		Literal: text,
	}, nil
}

func isIdentifier(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
