package spec

import (
	"fmt"
	"io"

	verr "github.com/nihei9/prune/error"
)

type RootNode struct {
	Directives  []*DirectiveNode
	Productions []*ProductionNode
}

type DirectiveNode struct {
	Name       string
	Parameters []*ParameterNode
	Pos        Position
}

type ParameterNode struct {
	ID      string
	Literal string
	Pos     Position
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

type AlternativeNode struct {
	Elements []*ElementNode
	Pos      Position
}

// ElementNode is a symbol of an alternative. ID holds an identifier whose kind is decided by the grammar, and
// Literal holds the text of a quoted symbol, which is always a terminal.
type ElementNode struct {
	ID      string
	Literal string
	Pos     Position
}

// Text returns the symbol name the element refers to.
func (e *ElementNode) Text() string {
	if e.Literal != "" {
		return e.Literal
	}
	return e.ID
}

func raiseSyntaxError(pos Position, synErr *SyntaxError, detail string) {
	panic(&verr.SpecError{
		Cause:  synErr,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

// Parse parses a grammar written in the textual notation. When the source contains syntax errors, Parse returns
// verr.SpecErrors holding all of them.
func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
	errs      verr.SpecErrors
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		root = nil
		if specErr, ok := v.(*verr.SpecError); ok {
			retErr = append(p.errs, specErr)
			return
		}
		err, ok := v.(error)
		if !ok {
			retErr = fmt.Errorf("an unexpected error occurred: %v", v)
			return
		}
		retErr = err
	}()

	root = p.parseRoot()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return root, nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for {
		if eof := p.parseTopLevel(root); eof {
			break
		}
	}
	return root
}

// parseTopLevel parses a directive or a production and reports whether the source has reached EOF. On a syntax
// error it records the error and skips tokens up to the next semicolon so that the following definitions are
// still checked.
func (p *parser) parseTopLevel(root *RootNode) (eof bool) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		specErr, ok := v.(*verr.SpecError)
		if !ok {
			panic(v)
		}
		p.errs = append(p.errs, specErr)
		eof = p.skipOverTo(tokenKindSemicolon)
	}()

	if p.consume(tokenKindEOF) {
		return true
	}
	if p.consume(tokenKindDirectiveMarker) {
		root.Directives = append(root.Directives, p.parseDirective())
		return false
	}
	root.Productions = append(root.Productions, p.parseProduction())
	return false
}

func (p *parser) parseDirective() *DirectiveNode {
	pos := p.lastTok.pos
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.peekPos(), synErrNoDirectiveName, "")
	}
	name := p.lastTok.text

	var params []*ParameterNode
	for {
		if p.consume(tokenKindID) {
			params = append(params, &ParameterNode{
				ID:  p.lastTok.text,
				Pos: p.lastTok.pos,
			})
			continue
		}
		if p.consume(tokenKindLiteral) {
			params = append(params, &ParameterNode{
				Literal: p.lastTok.text,
				Pos:     p.lastTok.pos,
			})
			continue
		}
		break
	}

	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(p.peekPos(), synErrDirNoSemicolon, name)
	}

	return &DirectiveNode{
		Name:       name,
		Parameters: params,
		Pos:        pos,
	}
}

func (p *parser) parseProduction() *ProductionNode {
	if p.consume(tokenKindLiteral) {
		raiseSyntaxError(p.lastTok.pos, synErrLiteralProductionLHS, p.lastTok.text)
	}
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.peekPos(), synErrNoProductionName, "")
	}
	lhs := p.lastTok.text
	lhsPos := p.lastTok.pos
	if !p.consume(tokenKindColon) {
		raiseSyntaxError(p.peekPos(), synErrNoColon, lhs)
	}
	alt := p.parseAlternative()
	rhs := []*AlternativeNode{alt}
	for {
		if !p.consume(tokenKindOr) {
			break
		}
		alt := p.parseAlternative()
		rhs = append(rhs, alt)
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(p.peekPos(), synErrNoSemicolon, lhs)
	}
	return &ProductionNode{
		LHS: lhs,
		RHS: rhs,
		Pos: lhsPos,
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	pos := p.peekPos()
	elems := []*ElementNode{}
	for {
		elem := p.parseElement()
		if elem == nil {
			break
		}
		elems = append(elems, elem)
	}
	return &AlternativeNode{
		Elements: elems,
		Pos:      pos,
	}
}

func (p *parser) parseElement() *ElementNode {
	switch {
	case p.consume(tokenKindID):
		return &ElementNode{
			ID:  p.lastTok.text,
			Pos: p.lastTok.pos,
		}
	case p.consume(tokenKindLiteral):
		return &ElementNode{
			Literal: p.lastTok.text,
			Pos:     p.lastTok.pos,
		}
	}
	return nil
}

func (p *parser) next() *token {
	if p.peekedTok != nil {
		tok := p.peekedTok
		p.peekedTok = nil
		return tok
	}
	tok, err := p.lex.next()
	if err != nil {
		panic(err)
	}
	return tok
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.next()
	p.lastTok = tok
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(tok.pos, synErrInvalidToken, tok.text)
	}
	if tok.kind == expected {
		return true
	}
	p.peekedTok = tok
	p.lastTok = nil

	return false
}

// peekPos returns the position of the next token without consuming it.
func (p *parser) peekPos() Position {
	if p.peekedTok == nil {
		p.peekedTok = p.next()
	}
	return p.peekedTok.pos
}

// skipOverTo discards tokens up to and including the next token of the kind. It reports whether it stopped at EOF
// instead.
func (p *parser) skipOverTo(kind tokenKind) bool {
	for {
		tok := p.next()
		if tok.kind == kind {
			return false
		}
		if tok.kind == tokenKindEOF {
			return true
		}
	}
}
