package spec

import (
	"fmt"
	"io"
	"strings"
)

// Format writes the tree in the textual notation. Directives come first, followed by the productions separated by
// blank lines:
//
//	%start S;
//
//	S
//	    : a S b
//	    |
//	    ;
func Format(w io.Writer, root *RootNode) error {
	var b strings.Builder
	for _, dir := range root.Directives {
		writeDirective(&b, dir)
	}
	for i, prod := range root.Productions {
		if i > 0 || len(root.Directives) > 0 {
			fmt.Fprintf(&b, "\n")
		}
		writeProduction(&b, prod)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDirective(b *strings.Builder, dir *DirectiveNode) {
	fmt.Fprintf(b, "%%%v", dir.Name)
	for _, param := range dir.Parameters {
		if param.Literal != "" {
			fmt.Fprintf(b, " '%v'", param.Literal)
			continue
		}
		fmt.Fprintf(b, " %v", param.ID)
	}
	fmt.Fprintf(b, ";\n")
}

func writeProduction(b *strings.Builder, prod *ProductionNode) {
	fmt.Fprintf(b, "%v\n", prod.LHS)
	for i, alt := range prod.RHS {
		if i == 0 {
			fmt.Fprintf(b, "    :")
		} else {
			fmt.Fprintf(b, "    |")
		}
		for _, elem := range alt.Elements {
			if elem.Literal != "" {
				fmt.Fprintf(b, " '%v'", elem.Literal)
				continue
			}
			fmt.Fprintf(b, " %v", elem.ID)
		}
		fmt.Fprintf(b, "\n")
	}
	fmt.Fprintf(b, "    ;\n")
}
