package grammar

import (
	"errors"

	verr "github.com/nihei9/prune/error"
	"github.com/nihei9/prune/grammar/symbol"
	"github.com/nihei9/prune/spec"
)

const (
	dirNameName        = "name"
	dirNameStart       = "start"
	dirNameTerminal    = "terminal"
	dirNameNonTerminal = "non_terminal"
)

// GrammarBuilder translates a grammar description into a Grammar. Build accumulates semantic errors and returns
// them as verr.SpecErrors.
type GrammarBuilder struct {
	AST *spec.RootNode

	// Options are passed to New. WithName is applied after them when the description has a name directive.
	Options []GrammarOption

	errs verr.SpecErrors
}

type declaration struct {
	kind  symbol.Kind
	param *spec.ParameterNode
}

type directives struct {
	name  string
	start *spec.ParameterNode
	decls []*declaration
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	dirs := b.readDirectives(b.AST.Directives)

	var startName string
	switch {
	case dirs.start != nil:
		startName = dirs.start.ID
	case len(b.AST.Productions) > 0:
		startName = b.AST.Productions[0].LHS
	default:
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoStart,
		})
		b.errs.Sort()
		return nil, b.errs
	}

	opts := b.Options
	if dirs.name != "" {
		opts = append(append([]GrammarOption{}, b.Options...), WithName(dirs.name))
	}
	gram, err := New(startName, opts...)
	if err != nil {
		return nil, err
	}

	for _, decl := range dirs.decls {
		var err error
		if decl.kind == symbol.KindTerminal {
			_, err = gram.DeclareTerminal(paramText(decl.param))
		} else {
			_, err = gram.DeclareNonTerminal(paramText(decl.param))
		}
		if err != nil {
			if !b.appendSymbolError(err, paramText(decl.param), decl.param.Pos) {
				return nil, err
			}
		}
	}

	// Heads are declared before any body so that a head is a non-terminal wherever it appears.
	invalidHeads := map[string]struct{}{}
	for _, prod := range b.AST.Productions {
		if sym, ok := gram.Lookup(prod.LHS); ok && sym.IsTerminal() {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrTerminalHead,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			invalidHeads[prod.LHS] = struct{}{}
			continue
		}
		_, err := gram.DeclareNonTerminal(prod.LHS)
		if err != nil {
			if !b.appendSymbolError(err, prod.LHS, prod.Pos) {
				return nil, err
			}
			invalidHeads[prod.LHS] = struct{}{}
		}
	}

	for _, prod := range b.AST.Productions {
		if _, ok := invalidHeads[prod.LHS]; ok {
			continue
		}

	ALTERNATIVES:
		for _, alt := range prod.RHS {
			body := make([]string, 0, len(alt.Elements))
			for _, elem := range alt.Elements {
				if elem.Literal != "" {
					_, err := gram.DeclareTerminal(elem.Literal)
					if err != nil {
						if !b.appendSymbolError(err, elem.Literal, elem.Pos) {
							return nil, err
						}
						continue ALTERNATIVES
					}
				}
				body = append(body, elem.Text())
			}

			err := gram.AddProduction(prod.LHS, body...)
			if err != nil {
				if errors.Is(err, ErrInvalidSymbolKind) {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  semErrTerminalHead,
						Detail: prod.LHS,
						Row:    prod.Pos.Row,
						Col:    prod.Pos.Col,
					})
					continue ALTERNATIVES
				}
				if !b.appendSymbolError(err, prod.LHS, alt.Pos) {
					return nil, err
				}
			}
		}
	}

	if len(b.errs) > 0 {
		b.errs.Sort()
		return nil, b.errs
	}

	return gram, nil
}

func (b *GrammarBuilder) readDirectives(dirNodes []*spec.DirectiveNode) *directives {
	dirs := &directives{}
	nameSeen := false
	for _, dir := range dirNodes {
		switch dir.Name {
		case dirNameName:
			if nameSeen {
				b.appendDirError(dir, semErrDuplicateDir, "'name' can be specified only once")
				continue
			}
			nameSeen = true
			if len(dir.Parameters) != 1 || dir.Parameters[0].ID == "" {
				b.appendDirError(dir, semErrDirInvalidParam, "'name' takes just one ID parameter")
				continue
			}
			dirs.name = dir.Parameters[0].ID
		case dirNameStart:
			if dirs.start != nil {
				b.appendDirError(dir, semErrDuplicateDir, "'start' can be specified only once")
				continue
			}
			if len(dir.Parameters) != 1 || dir.Parameters[0].ID == "" {
				b.appendDirError(dir, semErrDirInvalidParam, "'start' takes just one ID parameter")
				continue
			}
			dirs.start = dir.Parameters[0]
		case dirNameTerminal:
			if len(dir.Parameters) == 0 {
				b.appendDirError(dir, semErrDirInvalidParam, "'terminal' takes at least one ID or literal parameter")
				continue
			}
			for _, param := range dir.Parameters {
				dirs.decls = append(dirs.decls, &declaration{
					kind:  symbol.KindTerminal,
					param: param,
				})
			}
		case dirNameNonTerminal:
			if len(dir.Parameters) == 0 {
				b.appendDirError(dir, semErrDirInvalidParam, "'non_terminal' takes at least one ID parameter")
				continue
			}
			for _, param := range dir.Parameters {
				if param.ID == "" {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  semErrDirInvalidParam,
						Detail: "a non-terminal cannot be a literal",
						Row:    param.Pos.Row,
						Col:    param.Pos.Col,
					})
					continue
				}
				dirs.decls = append(dirs.decls, &declaration{
					kind:  symbol.KindNonTerminal,
					param: param,
				})
			}
		default:
			b.appendDirError(dir, semErrDirInvalidName, dir.Name)
		}
	}
	return dirs
}

func (b *GrammarBuilder) appendDirError(dir *spec.DirectiveNode, cause *SemanticError, detail string) {
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  cause,
		Detail: detail,
		Row:    dir.Pos.Row,
		Col:    dir.Pos.Col,
	})
}

// appendSymbolError records err as a semantic error when it is caused by the description. It returns false for
// any other error.
func (b *GrammarBuilder) appendSymbolError(err error, text string, pos spec.Position) bool {
	var cause *SemanticError
	switch {
	case errors.Is(err, symbol.ErrKindMismatch):
		cause = semErrKindConflict
	case errors.Is(err, ErrEmptySymbolName):
		cause = semErrInvalidName
	default:
		return false
	}
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  cause,
		Detail: text,
		Row:    pos.Row,
		Col:    pos.Col,
	})
	return true
}

func paramText(param *spec.ParameterNode) string {
	if param.Literal != "" {
		return param.Literal
	}
	return param.ID
}
