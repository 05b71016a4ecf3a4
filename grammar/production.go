package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/nihei9/prune/grammar/symbol"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) productionID {
	seq := lhs.Byte()
	for _, sym := range rhs {
		seq = append(seq, sym.Byte()...)
	}
	return productionID(sha256.Sum256(seq))
}

// ProductionReference identifies a production by its structure. Two references are equal when their heads and
// bodies consist of the same symbols, regardless of where the productions were stored.
type ProductionReference struct {
	id     productionID
	head   symbol.Symbol
	body   []symbol.Symbol
	symTab *symbol.SymbolTableReader
}

func newProductionReference(symTab *symbol.SymbolTableReader, head symbol.Symbol, body []symbol.Symbol) *ProductionReference {
	return &ProductionReference{
		id:     genProductionID(head, body),
		head:   head,
		body:   body,
		symTab: symTab,
	}
}

func (p *ProductionReference) ID() string {
	return p.id.String()
}

func (p *ProductionReference) Head() symbol.Symbol {
	return p.head
}

// Body returns a copy of the body symbols.
func (p *ProductionReference) Body() []symbol.Symbol {
	body := make([]symbol.Symbol, len(p.body))
	copy(body, p.body)
	return body
}

func (p *ProductionReference) IsEmpty() bool {
	return len(p.body) == 0
}

func (p *ProductionReference) Equals(q *ProductionReference) bool {
	return p.id == q.id
}

// HeadText returns the name of the head symbol.
func (p *ProductionReference) HeadText() string {
	text, _ := p.symTab.ToText(p.head)
	return text
}

// BodyTexts returns the names of the body symbols.
func (p *ProductionReference) BodyTexts() []string {
	texts := make([]string, len(p.body))
	for i, sym := range p.body {
		texts[i], _ = p.symTab.ToText(sym)
	}
	return texts
}

// String renders the production as `<head> -> <body symbols separated by single spaces>`. An empty body renders
// as `<head> -> ` with the trailing space.
func (p *ProductionReference) String() string {
	var b strings.Builder
	b.WriteString(p.HeadText())
	b.WriteString(" -> ")
	b.WriteString(strings.Join(p.BodyTexts(), " "))
	return b.String()
}

// less orders references by head, then by body, comparing symbol values.
func (p *ProductionReference) less(q *ProductionReference) bool {
	if p.head != q.head {
		return p.head < q.head
	}
	for i := 0; i < len(p.body) && i < len(q.body); i++ {
		if p.body[i] != q.body[i] {
			return p.body[i] < q.body[i]
		}
	}
	return len(p.body) < len(q.body)
}

// ProductionSet is a set of productions keyed by their structure.
type ProductionSet struct {
	id2Prod map[productionID]*ProductionReference
}

func newProductionSet() *ProductionSet {
	return &ProductionSet{
		id2Prod: map[productionID]*ProductionReference{},
	}
}

func (s *ProductionSet) add(prod *ProductionReference) bool {
	if _, ok := s.id2Prod[prod.id]; ok {
		return false
	}
	s.id2Prod[prod.id] = prod
	return true
}

func (s *ProductionSet) Contains(prod *ProductionReference) bool {
	_, ok := s.id2Prod[prod.id]
	return ok
}

func (s *ProductionSet) Len() int {
	return len(s.id2Prod)
}

func (s *ProductionSet) IsEmpty() bool {
	return len(s.id2Prod) == 0
}

// Slice returns the members ordered by head symbol and then by body symbols.
func (s *ProductionSet) Slice() []*ProductionReference {
	prods := make([]*ProductionReference, 0, len(s.id2Prod))
	for _, prod := range s.id2Prod {
		prods = append(prods, prod)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].less(prods[j])
	})
	return prods
}

// Strings returns the textual forms of the members in lexical order.
func (s *ProductionSet) Strings() []string {
	texts := make([]string, 0, len(s.id2Prod))
	for _, prod := range s.id2Prod {
		texts = append(texts, prod.String())
	}
	sort.Strings(texts)
	return texts
}

// Equals reports whether both sets contain the same productions.
func (s *ProductionSet) Equals(t *ProductionSet) bool {
	if s.Len() != t.Len() {
		return false
	}
	for id := range s.id2Prod {
		if _, ok := t.id2Prod[id]; !ok {
			return false
		}
	}
	return true
}
