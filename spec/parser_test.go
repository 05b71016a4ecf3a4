package spec

import (
	"strings"
	"testing"

	verr "github.com/nihei9/prune/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	production := func(lhs string, alts ...*AlternativeNode) *ProductionNode {
		return &ProductionNode{
			LHS: lhs,
			RHS: alts,
		}
	}
	alternative := func(elems ...*ElementNode) *AlternativeNode {
		return &AlternativeNode{
			Elements: elems,
		}
	}
	id := func(id string) *ElementNode {
		return &ElementNode{
			ID: id,
		}
	}
	literal := func(lit string) *ElementNode {
		return &ElementNode{
			Literal: lit,
		}
	}
	directive := func(name string, params ...*ParameterNode) *DirectiveNode {
		return &DirectiveNode{
			Name:       name,
			Parameters: params,
		}
	}
	idParam := func(id string) *ParameterNode {
		return &ParameterNode{
			ID: id,
		}
	}
	litParam := func(lit string) *ParameterNode {
		return &ParameterNode{
			Literal: lit,
		}
	}

	tests := []struct {
		caption string
		src     string
		ast     *RootNode
		synErrs []*SyntaxError
	}{
		{
			caption: "single production is a valid grammar",
			src:     `S : a;`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("S", alternative(id("a"))),
				},
			},
		},
		{
			caption: "multiple productions are a valid grammar",
			src: `
// expressions
E : E '+' T | T ;
T : T '*' F | F ;
F : '(' E ')' | id ;
`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("E",
						alternative(id("E"), literal("+"), id("T")),
						alternative(id("T")),
					),
					production("T",
						alternative(id("T"), literal("*"), id("F")),
						alternative(id("F")),
					),
					production("F",
						alternative(literal("("), id("E"), literal(")")),
						alternative(id("id")),
					),
				},
			},
		},
		{
			caption: "productions can contain the empty alternative",
			src: `
A : a | ;
B : | b ;
C : ;
`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("A",
						alternative(id("a")),
						alternative(),
					),
					production("B",
						alternative(),
						alternative(id("b")),
					),
					production("C",
						alternative(),
					),
				},
			},
		},
		{
			caption: "a grammar can contain directives",
			src: `
%name arith;
%start expr;
%terminal Plus '-';
%non_terminal expr;

expr : expr Plus num | expr '-' num | num ;
`,
			ast: &RootNode{
				Directives: []*DirectiveNode{
					directive("name", idParam("arith")),
					directive("start", idParam("expr")),
					directive("terminal", idParam("Plus"), litParam("-")),
					directive("non_terminal", idParam("expr")),
				},
				Productions: []*ProductionNode{
					production("expr",
						alternative(id("expr"), id("Plus"), id("num")),
						alternative(id("expr"), literal("-"), id("num")),
						alternative(id("num")),
					),
				},
			},
		},
		{
			caption: "an empty source is a valid description",
			src:     ``,
			ast:     &RootNode{},
		},
		{
			caption: "when a source contains an unknown token, the parser raises a syntax error",
			src:     `S : !;`,
			synErrs: []*SyntaxError{synErrInvalidToken},
		},
		{
			caption: "a production must have its name as the first element",
			src:     `: a;`,
			synErrs: []*SyntaxError{synErrNoProductionName},
		},
		{
			caption: "a literal cannot be the name of a production",
			src:     `'S' : a;`,
			synErrs: []*SyntaxError{synErrLiteralProductionLHS},
		},
		{
			caption: "':' must precede an alternative",
			src:     `S a;`,
			synErrs: []*SyntaxError{synErrNoColon},
		},
		{
			caption: "';' must follow a production",
			src:     `S : a`,
			synErrs: []*SyntaxError{synErrNoSemicolon},
		},
		{
			caption: "';' can only appear at the end of a production",
			src:     `;`,
			synErrs: []*SyntaxError{synErrNoProductionName},
		},
		{
			caption: "a directive needs a name",
			src:     `% ;`,
			synErrs: []*SyntaxError{synErrNoDirectiveName},
		},
		{
			caption: "';' must follow a directive",
			src:     `%start S`,
			synErrs: []*SyntaxError{synErrDirNoSemicolon},
		},
		{
			caption: "an empty literal is an error",
			src:     `S : '';`,
			synErrs: []*SyntaxError{synErrEmptyLiteral},
		},
		{
			caption: "the parser reports errors in all definitions",
			src: `
S a ;
T : b ;
: c ;
U : ! ;
V : d ;
`,
			synErrs: []*SyntaxError{synErrNoColon, synErrNoProductionName, synErrInvalidToken},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := Parse(strings.NewReader(tt.src))
			if len(tt.synErrs) > 0 {
				require.Error(t, err)
				assert.Nil(t, ast)
				specErrs, ok := verr.AsSpecErrors(err)
				require.True(t, ok, "unexpected error: %v", err)
				require.Len(t, specErrs, len(tt.synErrs), "%v", specErrs)
				for i, e := range specErrs {
					assert.Equal(t, tt.synErrs[i], e.Cause, "%v", e)
					assert.NotZero(t, e.Row)
				}
				return
			}
			require.NoError(t, err)
			require.NotNil(t, ast)
			testRootNode(t, ast, tt.ast)
		})
	}
}

func TestParse_Position(t *testing.T) {
	src := `%start S;
S
    : a B
    | 'c'
    ;
`
	ast, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, newPosition(1, 1), ast.Directives[0].Pos)
	assert.Equal(t, newPosition(1, 8), ast.Directives[0].Parameters[0].Pos)

	prod := ast.Productions[0]
	assert.Equal(t, newPosition(2, 1), prod.Pos)
	assert.Equal(t, newPosition(3, 7), prod.RHS[0].Pos)
	assert.Equal(t, newPosition(3, 9), prod.RHS[0].Elements[1].Pos)
	assert.Equal(t, newPosition(4, 7), prod.RHS[1].Elements[0].Pos)
}

func TestParse_ErrorPositionAtEOF(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		synErr  *SyntaxError
		pos     Position
	}{
		{
			caption: "a missing semicolon of the last production",
			src:     "%start S;\n\nS : a b\n  | c",
			synErr:  synErrNoSemicolon,
			pos:     newPosition(4, 6),
		},
		{
			caption: "a missing semicolon of a directive",
			src:     "%start S",
			synErr:  synErrDirNoSemicolon,
			pos:     newPosition(1, 9),
		},
		{
			caption: "a missing colon followed by a comment",
			src:     "S // no colon",
			synErr:  synErrNoColon,
			pos:     newPosition(1, 14),
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			specErrs, ok := verr.AsSpecErrors(err)
			require.True(t, ok, "unexpected error: %v", err)
			require.Len(t, specErrs, 1)
			assert.Equal(t, tt.synErr, specErrs[0].Cause)
			assert.Equal(t, tt.pos, newPosition(specErrs[0].Row, specErrs[0].Col))
		})
	}
}

func testRootNode(t *testing.T, root, expected *RootNode) {
	t.Helper()
	require.Len(t, root.Directives, len(expected.Directives))
	for i, dir := range root.Directives {
		exp := expected.Directives[i]
		assert.Equal(t, exp.Name, dir.Name)
		require.Len(t, dir.Parameters, len(exp.Parameters), "directive: %v", exp.Name)
		for j, param := range dir.Parameters {
			assert.Equal(t, exp.Parameters[j].ID, param.ID)
			assert.Equal(t, exp.Parameters[j].Literal, param.Literal)
		}
	}
	require.Len(t, root.Productions, len(expected.Productions))
	for i, prod := range root.Productions {
		testProductionNode(t, prod, expected.Productions[i])
	}
}

func testProductionNode(t *testing.T, prod, expected *ProductionNode) {
	t.Helper()
	assert.Equal(t, expected.LHS, prod.LHS)
	require.Len(t, prod.RHS, len(expected.RHS), "production: %v", expected.LHS)
	for i, alt := range prod.RHS {
		testAlternativeNode(t, alt, expected.RHS[i])
	}
}

func testAlternativeNode(t *testing.T, alt, expected *AlternativeNode) {
	t.Helper()
	require.Len(t, alt.Elements, len(expected.Elements))
	for i, elem := range alt.Elements {
		assert.Equal(t, expected.Elements[i].ID, elem.ID)
		assert.Equal(t, expected.Elements[i].Literal, elem.Literal)
	}
}
