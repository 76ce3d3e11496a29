package present

import (
	"fmt"
	"io"

	"github.com/mithrel/mdpreview/internal/export"
	"github.com/mithrel/mdpreview/internal/present/format"
	"github.com/mithrel/mdpreview/internal/preview"
)

type Mode int

const (
	ModeHTML Mode = iota
	ModeDocument
	ModeDisplay
	ModeJSON
	ModeTerminal
)

var modeNames = []string{"html", "document", "display", "json", "terminal"}

// ModeNames lists the accepted --output values.
func ModeNames() []string { return append([]string(nil), modeNames...) }

// ParseMode parses "html", "document", "display", "json" or "terminal".
func ParseMode(s string) (Mode, bool) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), true
		}
	}
	return ModeHTML, false
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

type Options struct {
	Mode          Mode
	JSONIndent    bool
	Export        export.Options
	TerminalStyle string
	TerminalWidth int
}

// Write presents one conversion. source is only used by ModeTerminal,
// which renders the Markdown itself.
func Write(w io.Writer, source string, res preview.Result, opts Options) error {
	switch opts.Mode {
	case ModeDocument:
		return format.WriteDocument(w, res.HTML, opts.Export)
	case ModeDisplay:
		return format.WriteFragment(w, res.Display)
	case ModeJSON:
		return format.WriteJSON(w, res, opts.JSONIndent)
	case ModeTerminal:
		return format.WriteTerminal(w, source, opts.TerminalStyle, opts.TerminalWidth)
	default:
		return format.WriteFragment(w, res.HTML)
	}
}
