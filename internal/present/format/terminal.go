package format

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// TerminalStyles lists the glamour standard styles accepted by
// WriteTerminal.
var TerminalStyles = []string{"dracula", "dark", "light", "notty", "pink", "ascii", "tokyo-night"}

// WriteTerminal renders Markdown source for a terminal using glamour.
func WriteTerminal(w io.Writer, source, style string, width int) error {
	if style == "" {
		style = "dracula"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(source)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
