// Package markdown converts a small Markdown dialect into an HTML fragment
// suitable for live preview.
//
// Rendering is a fixed sequence of string rewrites. Each stage is a plain
// function over the output of the previous one, so the order in Render is
// what decides precedence (escaping before any tag insertion, block rules
// before inline rules, line breaks last).
package markdown

import "strings"

// Substitution replaces every case-insensitive occurrence of Pattern with
// Replacement. Both are literals.
type Substitution struct {
	Pattern     string `json:"pattern" mapstructure:"pattern"`
	Replacement string `json:"replacement" mapstructure:"replacement"`
}

// Options controls a single Render call.
type Options struct {
	PreserveLineBreaks bool          `json:"preserve_line_breaks"`
	EnableFormatting   bool          `json:"enable_formatting"`
	Substitute         *Substitution `json:"substitute,omitempty"`
}

// Default returns the options a fresh preview page starts with.
func Default() Options {
	return Options{EnableFormatting: true}
}

// Render converts source to HTML. It never fails: markers without a
// matching partner are left in the output as literal text. The substitution
// sees the raw source; "\r\n" is folded to "\n" after it.
func Render(source string, opts Options) string {
	s := Substitute(source, opts.Substitute)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = Escape(s)

	if opts.EnableFormatting {
		escaped := s
		s = Headings(s)
		s = HorizontalRules(s)
		s = CodeFences(s)
		s = Blockquotes(s)
		s = ListItems(s)
		s = WrapLists(s, escaped)
		s = Bold(s)
		s = Italic(s)
		s = InlineCode(s)
		s = Links(s)
	}

	s = LineBreaks(s, opts.PreserveLineBreaks)
	if !opts.PreserveLineBreaks {
		s = WrapParagraphs(s)
	}
	return CleanEmptyParagraphs(s)
}

// Renderer binds a set of Options so callers can pass a configured value
// around instead of the options themselves.
type Renderer struct {
	Options Options
}

// NewRenderer returns a Renderer using opts.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{Options: opts}
}

// Render converts source using the bound options.
func (r *Renderer) Render(source string) string {
	return Render(source, r.Options)
}
