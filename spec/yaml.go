package spec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	verr "github.com/nihei9/prune/error"
	"gopkg.in/yaml.v3"
)

// yamlGrammar is a grammar written in the YAML notation:
//
//	name: example
//	start: S
//	terminals: [a, b]
//	non_terminals: [expr]
//	productions:
//	  S:
//	    - [A, b]
//	    - a S b
//	    - []
//
// An alternative is either a sequence of symbol names or a string of names separated by spaces. An empty
// sequence, an empty string, or null is an epsilon production.
type yamlGrammar struct {
	Name         string    `yaml:"name"`
	Start        string    `yaml:"start"`
	Terminals    []string  `yaml:"terminals"`
	NonTerminals []string  `yaml:"non_terminals"`
	Productions  yaml.Node `yaml:"productions"`
}

// ParseYAML parses a grammar written in the YAML notation and converts it into the same tree as Parse produces.
// Productions keep the order of the document.
func ParseYAML(src io.Reader) (*RootNode, error) {
	var doc yamlGrammar
	err := yaml.NewDecoder(src).Decode(&doc)
	if err != nil {
		if err == io.EOF {
			return &RootNode{}, nil
		}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, verr.SpecErrors{
				{
					Cause:  synErrYAMLInvalidDocument,
					Detail: strings.Join(typeErr.Errors, "; "),
				},
			}
		}
		return nil, fmt.Errorf("failed to decode a YAML grammar: %w", err)
	}

	root := &RootNode{}
	if doc.Name != "" {
		root.Directives = append(root.Directives, newYAMLDirective("name", doc.Name))
	}
	if doc.Start != "" {
		root.Directives = append(root.Directives, newYAMLDirective("start", doc.Start))
	}
	if len(doc.Terminals) > 0 {
		root.Directives = append(root.Directives, newYAMLDirective("terminal", doc.Terminals...))
	}
	if len(doc.NonTerminals) > 0 {
		root.Directives = append(root.Directives, newYAMLDirective("non_terminal", doc.NonTerminals...))
	}

	prods, errs := convertYAMLProductions(&doc.Productions)
	if len(errs) > 0 {
		return nil, errs
	}
	root.Productions = prods

	return root, nil
}

func newYAMLDirective(name string, params ...string) *DirectiveNode {
	dir := &DirectiveNode{
		Name: name,
	}
	for _, param := range params {
		dir.Parameters = append(dir.Parameters, &ParameterNode{
			ID: param,
		})
	}
	return dir
}

func convertYAMLProductions(node *yaml.Node) ([]*ProductionNode, verr.SpecErrors) {
	// The productions key is absent.
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, verr.SpecErrors{newYAMLError(node, synErrYAMLInvalidProductions, "")}
	}

	var prods []*ProductionNode
	var errs verr.SpecErrors
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		value := node.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			errs = append(errs, newYAMLError(key, synErrNoProductionName, ""))
			continue
		}

		prod := &ProductionNode{
			LHS: key.Value,
			Pos: newPosition(key.Line, key.Column),
		}
		switch value.Kind {
		case yaml.ScalarNode:
			prod.RHS = append(prod.RHS, newYAMLAlternative(value, scalarNames(value)))
		case yaml.SequenceNode:
			if len(value.Content) == 0 {
				errs = append(errs, newYAMLError(value, synErrYAMLInvalidAlternative, key.Value))
				continue
			}
			ok := true
			for _, altNode := range value.Content {
				alt, err := convertYAMLAlternative(altNode)
				if err != nil {
					errs = append(errs, err)
					ok = false
					continue
				}
				prod.RHS = append(prod.RHS, alt)
			}
			if !ok {
				continue
			}
		default:
			errs = append(errs, newYAMLError(value, synErrYAMLInvalidAlternative, key.Value))
			continue
		}
		prods = append(prods, prod)
	}

	return prods, errs
}

func convertYAMLAlternative(node *yaml.Node) (*AlternativeNode, *verr.SpecError) {
	switch node.Kind {
	case yaml.ScalarNode:
		return newYAMLAlternative(node, scalarNames(node)), nil
	case yaml.SequenceNode:
		var names []string
		for _, elem := range node.Content {
			if elem.Kind != yaml.ScalarNode || elem.Value == "" || elem.ShortTag() == "!!null" {
				return nil, newYAMLError(elem, synErrYAMLInvalidAlternative, "")
			}
			names = append(names, elem.Value)
		}
		return newYAMLAlternative(node, names), nil
	}
	return nil, newYAMLError(node, synErrYAMLInvalidAlternative, "")
}

// scalarNames splits a scalar alternative into symbol names. A null scalar such as `~` is an epsilon production.
func scalarNames(node *yaml.Node) []string {
	if node.ShortTag() == "!!null" {
		return nil
	}
	return strings.Fields(node.Value)
}

func newYAMLAlternative(node *yaml.Node, names []string) *AlternativeNode {
	alt := &AlternativeNode{
		Elements: []*ElementNode{},
		Pos:      newPosition(node.Line, node.Column),
	}
	for _, name := range names {
		alt.Elements = append(alt.Elements, &ElementNode{
			ID:  name,
			Pos: newPosition(node.Line, node.Column),
		})
	}
	return alt
}

func newYAMLError(node *yaml.Node, cause *SyntaxError, detail string) *verr.SpecError {
	return &verr.SpecError{
		Cause:  cause,
		Detail: detail,
		Row:    node.Line,
		Col:    node.Column,
	}
}
