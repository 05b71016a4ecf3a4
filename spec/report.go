package spec

// Report is the serializable result of the productivity analysis of a grammar.
type Report struct {
	Name         string         `json:"name,omitempty" yaml:"name,omitempty"`
	Start        string         `json:"start" yaml:"start"`
	Terminals    []*Terminal    `json:"terminals" yaml:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals" yaml:"non_terminals"`
	Productions  []*Production  `json:"productions" yaml:"productions"`

	// Useless holds the textual forms of the useless productions in lexical order.
	Useless []string `json:"useless" yaml:"useless"`
}

type Terminal struct {
	Number int    `json:"number" yaml:"number"`
	Name   string `json:"name" yaml:"name"`
}

type NonTerminal struct {
	Number     int    `json:"number" yaml:"number"`
	Name       string `json:"name" yaml:"name"`
	Start      bool   `json:"start,omitempty" yaml:"start,omitempty"`
	Productive bool   `json:"productive" yaml:"productive"`
}

type Production struct {
	Number  int      `json:"number" yaml:"number"`
	LHS     string   `json:"lhs" yaml:"lhs"`
	RHS     []string `json:"rhs" yaml:"rhs"`
	Text    string   `json:"text" yaml:"text"`
	Useless bool     `json:"useless" yaml:"useless"`
}

// UselessCount returns the number of stored productions marked useless. Duplicated productions count once per copy.
func (r *Report) UselessCount() int {
	n := 0
	for _, prod := range r.Productions {
		if prod.Useless {
			n++
		}
	}
	return n
}
