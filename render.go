package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Renderer writes tasks to a terminal, one styled subject per line.
type Renderer struct {
	w     io.Writer
	style lipgloss.Style
}

// NewRenderer binds a lipgloss renderer to w, so colour is only emitted when
// w is a terminal.
func NewRenderer(w io.Writer, theme ThemeConfig) *Renderer {
	lr := lipgloss.NewRenderer(w)
	return &Renderer{
		w: w,
		style: lr.NewStyle().
			Foreground(lipgloss.Color(theme.Foreground)).
			Background(lipgloss.Color(theme.Background)),
	}
}

func (r *Renderer) Render(tasks []Task) error {
	for _, t := range tasks {
		if _, err := fmt.Fprintln(r.w, r.style.Render(t.Subject)); err != nil {
			return fmt.Errorf("writing task %d: %w", t.Line, err)
		}
	}
	return nil
}
