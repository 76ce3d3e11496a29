package format

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/mithrel/mdpreview/internal/export"
)

// WriteFragment writes the rendered fragment followed by a newline.
func WriteFragment(w io.Writer, html string) error {
	if !strings.HasSuffix(html, "\n") {
		html += "\n"
	}
	_, err := io.WriteString(w, html)
	return err
}

// WriteDocument writes the fragment wrapped in a standalone page.
func WriteDocument(w io.Writer, html string, opts export.Options) error {
	doc, err := export.Document(html, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc)
	return err
}

// WriteJSON encodes v, optionally indented.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
