package symbol

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrKindMismatch         = errors.New("a symbol is already registered as the other kind")
	ErrSymbolNumberExceeded = errors.New("a symbol number exceeds the limit")
)

// Kind classifies a symbol as a terminal or a non-terminal.
type Kind string

const (
	KindNonTerminal = Kind("non-terminal")
	KindTerminal    = Kind("terminal")
)

func (k Kind) String() string {
	return string(k)
}

type SymbolNum uint32

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol is a packed symbol id. The top bit holds the kind, the next bit marks the reserved symbols, and the rest
// holds the number.
type Symbol uint32

func (s Symbol) String() string {
	kind, isStart, isEndMarker, num := s.describe()
	var prefix string
	switch {
	case isStart:
		prefix = "s"
	case isEndMarker:
		prefix = "e"
	case kind == KindNonTerminal:
		prefix = "n"
	case kind == KindTerminal:
		prefix = "t"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, num)
}

const (
	maskKindPart    = uint32(0x80000000)
	maskNonTerminal = uint32(0x00000000)
	maskTerminal    = uint32(0x80000000)

	maskSubKindpart          = uint32(0x40000000)
	maskNonReserved          = uint32(0x00000000)
	maskAugmentedOrEndMarker = uint32(0x40000000)

	maskNumberPart = uint32(0x3fffffff)

	symbolNumAugmentedStart = uint32(0x00000001)
	symbolNumEndMarker      = uint32(0x00000001)

	SymbolNil            = Symbol(0)
	SymbolAugmentedStart = Symbol(maskNonTerminal | maskAugmentedOrEndMarker | symbolNumAugmentedStart)
	SymbolEndMarker      = Symbol(maskTerminal | maskAugmentedOrEndMarker | symbolNumEndMarker) // The end marker is treated as a terminal symbol.

	// The symbol names contain `<` and `>` to avoid conflicting with user-defined symbols.
	symbolNameAugmentedStart = "<start>"
	symbolNameEndMarker      = "<eof>"

	nonTerminalNumMin = SymbolNum(2) // The number 1 is used by the augmented start symbol.
	terminalNumMin    = SymbolNum(2) // The number 1 is used by the end marker.
	symbolNumMax      = SymbolNum(maskNumberPart)
)

func newSymbol(kind Kind, num SymbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("%w; limit: %v, passed: %v", ErrSymbolNumberExceeded, symbolNumMax, num)
	}

	kindMask := maskNonTerminal
	if kind == KindTerminal {
		kindMask = maskTerminal
	}
	return Symbol(kindMask | maskNonReserved | uint32(num)), nil
}

func (s Symbol) Num() SymbolNum {
	_, _, _, num := s.describe()
	return num
}

// Byte returns the big-endian representation of the symbol. Byte sequences of symbols are used as keys of
// production IDs and compound analysis nodes.
func (s Symbol) Byte() []byte {
	return []byte{byte(s >> 24), byte(s >> 16), byte(s >> 8), byte(s)}
}

func (s Symbol) IsNil() bool {
	_, _, _, num := s.describe()
	return num == 0
}

// IsStart reports whether the symbol is the reserved augmented start symbol.
func (s Symbol) IsStart() bool {
	if s.IsNil() {
		return false
	}
	_, isStart, _, _ := s.describe()
	return isStart
}

func (s Symbol) IsEndMarker() bool {
	if s.IsNil() {
		return false
	}
	_, _, isEndMarker, _ := s.describe()
	return isEndMarker
}

func (s Symbol) IsNonTerminal() bool {
	if s.IsNil() {
		return false
	}
	kind, _, _, _ := s.describe()
	return kind == KindNonTerminal
}

func (s Symbol) IsTerminal() bool {
	if s.IsNil() {
		return false
	}
	return !s.IsNonTerminal()
}

func (s Symbol) Kind() Kind {
	kind, _, _, _ := s.describe()
	return kind
}

func (s Symbol) describe() (Kind, bool, bool, SymbolNum) {
	kind := KindNonTerminal
	if uint32(s)&maskKindPart > 0 {
		kind = KindTerminal
	}
	isStart := false
	isEndMarker := false
	if uint32(s)&maskSubKindpart > 0 {
		if kind == KindNonTerminal {
			isStart = true
		} else {
			isEndMarker = true
		}
	}
	num := SymbolNum(uint32(s) & maskNumberPart)
	return kind, isStart, isEndMarker, num
}

type SymbolTable struct {
	text2Sym     map[string]Symbol
	sym2Text     map[Symbol]string
	nonTermTexts []string
	termTexts    []string
	nonTermNum   SymbolNum
	termNum      SymbolNum
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym: map[string]Symbol{
			symbolNameAugmentedStart: SymbolAugmentedStart,
			symbolNameEndMarker:      SymbolEndMarker,
		},
		sym2Text: map[Symbol]string{
			SymbolAugmentedStart: symbolNameAugmentedStart,
			SymbolEndMarker:      symbolNameEndMarker,
		},
		termTexts: []string{
			"",                  // Nil
			symbolNameEndMarker, // End marker
		},
		nonTermTexts: []string{
			"",                       // Nil
			symbolNameAugmentedStart, // Augmented start symbol
		},
		nonTermNum: nonTerminalNumMin,
		termNum:    terminalNumMin,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

// Resolve returns the symbol registered for the text. When the text is unknown, Resolve registers it as the
// kind. The kind of a text is fixed at its first registration, so the kind is ignored for known texts.
func (w *SymbolTableWriter) Resolve(text string, kind Kind) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		return sym, nil
	}
	if kind == KindTerminal {
		return w.RegisterTerminalSymbol(text)
	}
	return w.RegisterNonTerminalSymbol(text)
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsNonTerminal() {
			return SymbolNil, fmt.Errorf("%w; symbol: %v, registered as: %v", ErrKindMismatch, text, sym.Kind())
		}
		return sym, nil
	}
	sym, err := newSymbol(KindNonTerminal, w.nonTermNum)
	if err != nil {
		return SymbolNil, err
	}
	w.nonTermNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.nonTermTexts = append(w.nonTermTexts, text)
	return sym, nil
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsTerminal() {
			return SymbolNil, fmt.Errorf("%w; symbol: %v, registered as: %v", ErrKindMismatch, text, sym.Kind())
		}
		return sym, nil
	}
	sym, err := newSymbol(KindTerminal, w.termNum)
	if err != nil {
		return SymbolNil, err
	}
	w.termNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.termTexts = append(w.termTexts, text)
	return sym, nil
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	if sym, ok := r.text2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

// TerminalSymbols returns the user-defined terminal symbols in registration order. The end marker is excluded.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.termNum.Int()-terminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.IsTerminal() || sym.IsNil() || sym.IsEndMarker() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (r *SymbolTableReader) TerminalTexts() []string {
	return r.termTexts
}

// NonTerminalSymbols returns the user-defined non-terminal symbols in registration order. The augmented start
// symbol is excluded.
func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.nonTermNum.Int()-nonTerminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.IsNonTerminal() || sym.IsNil() || sym.IsStart() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (r *SymbolTableReader) NonTerminalTexts() []string {
	return r.nonTermTexts
}
