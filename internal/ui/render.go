package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	styleTurn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	styleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

// Renderer prints build progress and the final answer to a terminal.
type Renderer struct {
	out      io.Writer
	markdown *glamour.TermRenderer
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(100),
	)
	return &Renderer{
		out:      out,
		markdown: renderer,
	}
}

// Progress prints a one-line status for a completed build turn.
func (r *Renderer) Progress(turn, total int, text string) {
	header := styleTurn.Render(fmt.Sprintf("turn %d/%d", turn, total))
	summary := firstLine(text)
	if summary == "" {
		summary = styleMuted.Render("(converged)")
	}
	fmt.Fprintf(r.out, "%s %s\n", header, summary)
}

// Answer renders the model's final markdown answer.
func (r *Renderer) Answer(text string) {
	if text == "" {
		fmt.Fprintln(r.out, styleMuted.Render("(no final answer)"))
		return
	}
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(text); err == nil {
			fmt.Fprint(r.out, rendered)
			return
		}
	}
	fmt.Fprintln(r.out, text)
}

// Error prints a styled error line.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.out, styleError.Render("error: ")+err.Error())
}

func firstLine(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			return text[:i]
		}
	}
	return text
}
