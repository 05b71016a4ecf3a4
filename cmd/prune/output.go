package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/nihei9/prune/config"
	"github.com/nihei9/prune/spec"
	"gopkg.in/yaml.v3"
)

type styles struct {
	useless    lipgloss.Style
	productive lipgloss.Style
	heading    lipgloss.Style
	dim        lipgloss.Style
}

// newStyles creates the styles for w. In the auto mode, colors are used only when w is a terminal.
func newStyles(w io.Writer, color string) *styles {
	r := lipgloss.NewRenderer(w)
	switch color {
	case config.ColorAlways:
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.ANSI256)
		}
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	default:
		if !isTerminal(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return &styles{
		useless:    r.NewStyle().Foreground(lipgloss.Color("203")),
		productive: r.NewStyle().Foreground(lipgloss.Color("114")),
		heading:    r.NewStyle().Bold(true),
		dim:        r.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeReport writes the report in the output format. The text format lists the useless productions one per
// line in lexical order.
func writeReport(w io.Writer, report *spec.Report, output string, st *styles) error {
	switch output {
	case config.OutputJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		e.SetEscapeHTML(false)
		return e.Encode(report)
	case config.OutputYAML:
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		err := e.Encode(report)
		if err != nil {
			return err
		}
		return e.Close()
	}

	for _, text := range report.Useless {
		_, err := fmt.Fprintln(w, st.useless.Render(text))
		if err != nil {
			return err
		}
	}
	return nil
}
