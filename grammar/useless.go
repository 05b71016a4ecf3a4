package grammar

import (
	"sort"

	"github.com/nihei9/prune/grammar/symbol"
)

// nodeKey identifies a node of the productivity graph. A node is either a single non-terminal or a compound node
// made of two or more distinct non-terminals. A key is the concatenation of the big-endian bytes of the sorted
// member symbols, so equal member sets always produce the same key.
type nodeKey string

func singleNodeKey(sym symbol.Symbol) nodeKey {
	return nodeKey(sym.Byte())
}

func compoundNodeKey(syms []symbol.Symbol) nodeKey {
	b := make([]byte, 0, len(syms)*4)
	for _, sym := range syms {
		b = append(b, sym.Byte()...)
	}
	return nodeKey(b)
}

// productivityEdge leads either to a production (prod != nil) or to a compound node. Reaching a production
// makes it productive; reaching a compound node counts down its remaining members.
type productivityEdge struct {
	prod     *ProductionReference
	compound nodeKey
	arity    int
}

type productivityGraph struct {
	edges     map[nodeKey][]*productivityEdge
	compounds map[nodeKey]struct{}
	base      []*ProductionReference
	edgeCount int
}

func genProductivityGraph(gram *Grammar) *productivityGraph {
	g := &productivityGraph{
		edges:     map[nodeKey][]*productivityEdge{},
		compounds: map[nodeKey]struct{}{},
	}
	for _, prod := range gram.AllProductions() {
		g.addProduction(prod)
	}
	return g
}

func (g *productivityGraph) addProduction(prod *ProductionReference) {
	deps := dependencies(prod)
	switch len(deps) {
	case 0:
		// The body consists of only terminal symbols or is empty.
		g.base = append(g.base, prod)
	case 1:
		g.addEdge(singleNodeKey(deps[0]), &productivityEdge{
			prod: prod,
		})
	default:
		key := compoundNodeKey(deps)

		// Productions sharing the same dependency set share one compound node. Its members point to it only
		// once so that a member resolution counts down the node exactly once.
		if _, ok := g.compounds[key]; !ok {
			g.compounds[key] = struct{}{}
			for _, dep := range deps {
				g.addEdge(singleNodeKey(dep), &productivityEdge{
					compound: key,
					arity:    len(deps),
				})
			}
		}
		g.addEdge(key, &productivityEdge{
			prod: prod,
		})
	}
}

func (g *productivityGraph) addEdge(from nodeKey, e *productivityEdge) {
	g.edges[from] = append(g.edges[from], e)
	g.edgeCount++
}

// dependencies returns the distinct non-terminals of the body in ascending order.
func dependencies(prod *ProductionReference) []symbol.Symbol {
	var deps []symbol.Symbol
	for _, sym := range prod.body {
		if !sym.IsNonTerminal() {
			continue
		}
		deps = append(deps, sym)
	}
	if len(deps) < 2 {
		return deps
	}

	sort.Slice(deps, func(i, j int) bool {
		return deps[i] < deps[j]
	})
	n := 1
	for _, sym := range deps[1:] {
		if sym == deps[n-1] {
			continue
		}
		deps[n] = sym
		n++
	}
	return deps[:n]
}

type frontierEntry struct {
	key nodeKey

	// sym is the non-terminal of a single node. It is nil for compound nodes.
	sym symbol.Symbol
}

type productivity struct {
	productions *ProductionSet
	symbols     []symbol.Symbol
}

// propagate computes the productive productions and non-terminals. The traversal uses an explicit stack, so its
// depth does not depend on the nesting or the cycles of the grammar.
func (g *productivityGraph) propagate() *productivity {
	visited := newProductionSet()
	var stack []frontierEntry
	for _, prod := range g.base {
		if !visited.add(prod) {
			continue
		}
		stack = append(stack, frontierEntry{
			key: singleNodeKey(prod.head),
			sym: prod.head,
		})
	}

	remaining := map[nodeKey]int{}

	// drained holds the single nodes that have already been popped. Their compound edges were followed once and
	// must not be counted again.
	drained := map[nodeKey]struct{}{}
	var productiveSyms []symbol.Symbol

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !node.sym.IsNil() {
			if _, ok := drained[node.key]; ok {
				continue
			}
			drained[node.key] = struct{}{}
			productiveSyms = append(productiveSyms, node.sym)
		}

		for _, e := range g.edges[node.key] {
			if e.prod != nil {
				if !visited.add(e.prod) {
					continue
				}
				stack = append(stack, frontierEntry{
					key: singleNodeKey(e.prod.head),
					sym: e.prod.head,
				})
				continue
			}

			count, ok := remaining[e.compound]
			if !ok {
				count = e.arity
			}
			count--
			remaining[e.compound] = count
			if count == 0 {
				stack = append(stack, frontierEntry{
					key: e.compound,
				})
			}
		}
	}

	sort.Slice(productiveSyms, func(i, j int) bool {
		return productiveSyms[i] < productiveSyms[j]
	})

	return &productivity{
		productions: visited,
		symbols:     productiveSyms,
	}
}

// FindUselessProductions returns the productions that cannot take part in any derivation of a string consisting
// of only terminal symbols. The grammar is not modified.
func FindUselessProductions(gram *Grammar) *ProductionSet {
	p := genProductivityGraph(gram).propagate()
	return uselessProductions(gram, p)
}

// ProductiveSymbols returns the non-terminals deriving at least one string of terminal symbols, ordered by their
// symbol values.
func ProductiveSymbols(gram *Grammar) []symbol.Symbol {
	return genProductivityGraph(gram).propagate().symbols
}

func uselessProductions(gram *Grammar, p *productivity) *ProductionSet {
	useless := newProductionSet()
	for _, prod := range gram.AllProductions() {
		if p.productions.Contains(prod) {
			continue
		}
		useless.add(prod)
	}
	return useless
}
