package main

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/nihei9/prune/grammar"
	"github.com/nihei9/prune/spec"
	"github.com/spf13/cobra"
)

var describeFlags = struct {
	input *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "describe [grammar file]",
		Short:   "Print the productivity of every production and non-terminal",
		Example: `  prune describe grammar.txt`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDescribe,
	}
	describeFlags.input = cmd.Flags().String("format", "", "grammar notation: auto, text, or yaml")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	input, err := inputFormat(cmd, describeFlags.input)
	if err != nil {
		return err
	}
	src, err := openGrammarSource(args, cmd.InOrStdin(), input)
	if err != nil {
		return err
	}
	defer src.cleanUp()

	gram, err := src.read()
	if err != nil {
		return err
	}
	a, err := grammar.Analyze(cmd.Context(), gram, grammar.WithLogger(env.logger))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	return writeDescription(w, grammar.GenReport(a), newStyles(w, env.cfg.Color))
}

const descTemplate = `{{ heading "# Grammar" }}

{{ if .Name }}name:  {{ .Name }}
{{ end }}start: {{ .Start }}

{{ printSummary . }}

{{ heading "# Non-terminals" }}

{{ range .NonTerminals -}}
{{ printNonTerminal . }}
{{ end }}
{{ heading "# Terminals" }}

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
{{ heading "# Productions" }}

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}`

func writeDescription(w io.Writer, report *spec.Report, st *styles) error {
	fns := template.FuncMap{
		"heading": func(text string) string {
			return st.heading.Render(text)
		},
		"printSummary": func(report *spec.Report) string {
			count := report.UselessCount()
			switch count {
			case 0:
				return "No useless production was found."
			case 1:
				return "1 useless production was found."
			}
			return fmt.Sprintf("%v useless productions were found.", count)
		},
		"printNonTerminal": func(nonTerm *spec.NonTerminal) string {
			mark := st.productive.Render("productive")
			if !nonTerm.Productive {
				mark = st.useless.Render("unproductive")
			}
			name := nonTerm.Name
			if nonTerm.Start {
				name += " " + st.dim.Render("(start)")
			}
			return fmt.Sprintf("%4v %v %v", nonTerm.Number, mark, name)
		},
		"printTerminal": func(term *spec.Terminal) string {
			return fmt.Sprintf("%4v %v", term.Number, term.Name)
		},
		"printProduction": func(prod *spec.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", prod.LHS)
			if len(prod.RHS) > 0 {
				for _, e := range prod.RHS {
					fmt.Fprintf(&b, " %v", e)
				}
			} else {
				fmt.Fprintf(&b, " ε")
			}
			if prod.Useless {
				return fmt.Sprintf("%4v %v %v", prod.Number, st.useless.Render("useless"), b.String())
			}
			return fmt.Sprintf("%4v %v       %v", prod.Number, st.dim.Render("-"), b.String())
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
