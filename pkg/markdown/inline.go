package markdown

import (
	"regexp"
	"strings"
)

// All inline patterns are non-greedy and require a non-empty span, so a
// lone marker stays literal and one pair never swallows a later one.
var (
	boldPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\*\*(.+?)\*\*`),
		regexp.MustCompile(`__(.+?)__`),
	}
	italicPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\*(.+?)\*`),
		regexp.MustCompile(`_(.+?)_`),
	}
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// Bold converts **x** and __x__ to <strong>.
func Bold(s string) string {
	for _, re := range boldPatterns {
		s = re.ReplaceAllString(s, "<strong>${1}</strong>")
	}
	return s
}

// Italic converts *x* and _x_ to <em>. It must run after Bold.
func Italic(s string) string {
	for _, re := range italicPatterns {
		s = re.ReplaceAllString(s, "<em>${1}</em>")
	}
	return s
}

// InlineCode converts `x` to <code>.
func InlineCode(s string) string {
	return inlineCodePattern.ReplaceAllString(s, "<code>${1}</code>")
}

// Links converts [label](url) to an anchor. Double quotes in the url are
// escaped so it cannot end the attribute early.
func Links(s string) string {
	return linkPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := linkPattern.FindStringSubmatch(m)
		href := strings.ReplaceAll(sub[2], `"`, "&quot;")
		return `<a href="` + href + `">` + sub[1] + `</a>`
	})
}
