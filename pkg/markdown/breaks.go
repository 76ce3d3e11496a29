package markdown

import (
	"regexp"
	"strings"
)

// ParagraphBreak is what a blank-line run turns into when line breaks are
// not preserved.
const ParagraphBreak = "</p><p>"

var (
	blankRunPattern   = regexp.MustCompile(`\n\s*\n`)
	blockStartPattern = regexp.MustCompile(`^<(h[1-6]|ul|ol|blockquote|pre|hr)`)
	emptyParaPattern  = regexp.MustCompile(`<p>\s*</p>`)
)

// LineBreaks handles the newlines left after formatting. With preserve set
// every newline becomes <br>. Otherwise blank-line runs become paragraph
// breaks and single newlines become spaces.
func LineBreaks(s string, preserve bool) string {
	if preserve {
		return strings.ReplaceAll(s, "\n", "<br>")
	}
	s = blankRunPattern.ReplaceAllLiteralString(s, ParagraphBreak)
	return strings.ReplaceAll(s, "\n", " ")
}

// WrapParagraphs wraps s in <p> unless it already opens with a block-level
// element.
func WrapParagraphs(s string) string {
	if blockStartPattern.MatchString(strings.TrimSpace(s)) {
		return s
	}
	return "<p>" + s + "</p>"
}

// CleanEmptyParagraphs drops paragraphs that hold nothing but whitespace.
func CleanEmptyParagraphs(s string) string {
	return emptyParaPattern.ReplaceAllLiteralString(s, "")
}
