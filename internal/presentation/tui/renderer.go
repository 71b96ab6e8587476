package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown for w.
// Terminals get glamour output wrapped to the terminal width; anything else gets the
// markdown unchanged.
func NewRenderer(w io.Writer) func(string) (string, error) {
	if !IsTerminal(w) {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			opts = append(opts, glamour.WithWordWrap(width))
		}
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}

// RenderStyled renders markdown with a fixed glamour style ("dark", "light", "notty", ...),
// regardless of the output.
func RenderStyled(markdown, style string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style))
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
