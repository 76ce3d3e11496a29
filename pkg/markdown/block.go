package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	headingPatterns = func() [6]*regexp.Regexp {
		var out [6]*regexp.Regexp
		for i := range out {
			out[i] = regexp.MustCompile(fmt.Sprintf(`(?m)^#{%d} (.*)$`, i+1))
		}
		return out
	}()

	// Trailing whitespace is limited to blanks so a rule never swallows
	// the newline that follows it.
	hrPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^---[ \t]*$`),
		regexp.MustCompile(`(?m)^\*\*\*[ \t]*$`),
	}

	fencePattern      = regexp.MustCompile("(?s)```(.*?)```")
	blockquotePattern = regexp.MustCompile(`(?m)^&gt; (.*)$`)

	listItemPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\* (.*)$`),
		regexp.MustCompile(`(?m)^- (.*)$`),
		orderedItemPattern,
	}
	orderedItemPattern = regexp.MustCompile(`(?m)^\d+\. (.*)$`)
	orderedLinePrefix  = regexp.MustCompile(`^\d+\. `)
	wholeItemLine      = regexp.MustCompile(`^<li>.*</li>$`)
)

// Substitute applies sub to s. A nil sub or an empty pattern leaves s
// untouched.
func Substitute(s string, sub *Substitution) string {
	if sub == nil || sub.Pattern == "" {
		return s
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(sub.Pattern))
	return re.ReplaceAllLiteralString(s, sub.Replacement)
}

// Escape entity-escapes angle brackets so user text can never open a tag.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

// Headings turns lines starting with one to six '#' and a space into
// <h1> through <h6>.
func Headings(s string) string {
	for i, re := range headingPatterns {
		level := i + 1
		s = re.ReplaceAllString(s, fmt.Sprintf("<h%d>${1}</h%d>", level, level))
	}
	return s
}

// HorizontalRules replaces lines made of --- or *** with <hr>.
func HorizontalRules(s string) string {
	for _, re := range hrPatterns {
		s = re.ReplaceAllString(s, "<hr>")
	}
	return s
}

// CodeFences wraps each ``` delimited region in <pre><code>. The region
// content, newlines included, is kept as is.
func CodeFences(s string) string {
	return fencePattern.ReplaceAllString(s, "<pre><code>${1}</code></pre>")
}

// Blockquotes wraps lines starting with an (escaped) "> " in <blockquote>.
func Blockquotes(s string) string {
	return blockquotePattern.ReplaceAllString(s, "<blockquote>${1}</blockquote>")
}

// ListItems converts every bulleted or numbered line into its own <li>.
// Adjacent items are not merged here; see WrapLists.
func ListItems(s string) string {
	for _, re := range listItemPatterns {
		s = re.ReplaceAllString(s, "<li>${1}</li>")
	}
	return s
}

// WrapLists wraps every run of consecutive <li> lines in <ul> or <ol>.
//
// source must be the text the block stages started from: those stages keep
// one output line per input line, so the line that produced the first item
// of a run can be looked up by index. A run is ordered when that line is
// numbered; later items do not change the decision.
func WrapLists(s, source string) string {
	lines := strings.Split(s, "\n")
	srcLines := strings.Split(source, "\n")

	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		if !wholeItemLine.MatchString(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}
		start := i
		for i < len(lines) && wholeItemLine.MatchString(lines[i]) {
			i++
		}
		tag := "ul"
		if start < len(srcLines) && orderedLinePrefix.MatchString(srcLines[start]) {
			tag = "ol"
		}
		run := strings.Join(lines[start:i], "\n")
		out = append(out, "<"+tag+">"+run+"</"+tag+">")
	}
	return strings.Join(out, "\n")
}
