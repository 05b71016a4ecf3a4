package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/nihei9/prune/error"
)

type tokenKind string

const (
	tokenKindID              = tokenKind("id")
	tokenKindLiteral         = tokenKind("literal")
	tokenKindColon           = tokenKind(":")
	tokenKindOr              = tokenKind("|")
	tokenKindSemicolon       = tokenKind(";")
	tokenKindDirectiveMarker = tokenKind("%")
	tokenKindEOF             = tokenKind("eof")
	tokenKindInvalid         = tokenKind("invalid")
)

type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newLiteralToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindLiteral,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

const (
	lexKindWhiteSpace      = "white_space"
	lexKindNewline         = "newline"
	lexKindLineComment     = "line_comment"
	lexKindIdentifier      = "identifier"
	lexKindLiteral         = "literal"
	lexKindColon           = "colon"
	lexKindOr              = "or"
	lexKindSemicolon       = "semicolon"
	lexKindDirectiveMarker = "directive_marker"
)

// lexSpec is the lexical specification of the grammar notation.
var lexSpec = &mlspec.LexSpec{
	Name: "prune",
	Entries: []*mlspec.LexEntry{
		{Kind: lexKindWhiteSpace, Pattern: `[\u{0009}\u{0020}]+`},
		{Kind: lexKindNewline, Pattern: `\u{000A}|\u{000D}|\u{000D}\u{000A}`},
		{Kind: lexKindLineComment, Pattern: `//[^\u{000A}\u{000D}]*`},
		{Kind: lexKindIdentifier, Pattern: `[A-Za-z_][0-9A-Za-z_]*`},
		{Kind: lexKindLiteral, Pattern: `'[^'\u{000A}\u{000D}]*'`},
		{Kind: lexKindColon, Pattern: `:`},
		{Kind: lexKindOr, Pattern: `\|`},
		{Kind: lexKindSemicolon, Pattern: `;`},
		{Kind: lexKindDirectiveMarker, Pattern: `%`},
	},
}

var (
	compiledLexSpec    *mlspec.CompiledLexSpec
	compiledLexSpecErr error
	compileOnce        sync.Once
)

// compileLexSpec compiles the lexical specification once per process.
func compileLexSpec() (*mlspec.CompiledLexSpec, error) {
	compileOnce.Do(func() {
		clspec, err, cErrs := mlcompiler.Compile(lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				writeCompileError(&b, cErrs[0])
				for _, cerr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n")
					writeCompileError(&b, cerr)
				}
				compiledLexSpecErr = fmt.Errorf("failed to compile the lexical specification: %v", b.String())
				return
			}
			compiledLexSpecErr = err
			return
		}
		compiledLexSpec = clspec
	})
	return compiledLexSpec, compiledLexSpecErr
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

type lexer struct {
	d         *mldriver.Lexer
	kindNames []mlspec.LexKindName

	// endRow and endCol are the 0-based position just after the last lexeme. The EOF token of the driver has no
	// position, so the lexer places it there.
	endRow int
	endCol int
}

func newLexer(src io.Reader) (*lexer, error) {
	clspec, err := compileLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(clspec), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		d:         d,
		kindNames: clspec.KindNames,
	}, nil
}

func (l *lexer) next() (*token, error) {
	var tok *mldriver.Token
	var kind string
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return newEOFToken(newPosition(l.endRow+1, l.endCol+1)), nil
		}
		l.advance(tok)
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), newPosition(tok.Row+1, tok.Col+1)), nil
		}

		kind = l.kindNames[tok.KindID].String()
		switch kind {
		case lexKindWhiteSpace, lexKindNewline, lexKindLineComment:
			continue
		}

		break
	}

	pos := newPosition(tok.Row+1, tok.Col+1)
	text := string(tok.Lexeme)
	switch kind {
	case lexKindIdentifier:
		return newIDToken(text, pos), nil
	case lexKindLiteral:
		// Remove the enclosing quotes.
		lit := text[1 : len(text)-1]
		if lit == "" {
			return nil, &verr.SpecError{
				Cause: synErrEmptyLiteral,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return newLiteralToken(lit, pos), nil
	case lexKindColon:
		return newSymbolToken(tokenKindColon, pos), nil
	case lexKindOr:
		return newSymbolToken(tokenKindOr, pos), nil
	case lexKindSemicolon:
		return newSymbolToken(tokenKindSemicolon, pos), nil
	case lexKindDirectiveMarker:
		return newSymbolToken(tokenKindDirectiveMarker, pos), nil
	default:
		return newInvalidToken(text, pos), nil
	}
}

// advance moves the end position over the lexeme. Like the driver, it treats LF as the end of lines and counts
// columns in code points.
func (l *lexer) advance(tok *mldriver.Token) {
	l.endRow = tok.Row
	l.endCol = tok.Col
	for _, r := range string(tok.Lexeme) {
		if r == '\n' {
			l.endRow++
			l.endCol = 0
			continue
		}
		l.endCol++
	}
}
