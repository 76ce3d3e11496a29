package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHeading(t *testing.T) {
	got := Render("# Title\n", Default())
	assert.Contains(t, got, "<h1>Title</h1>")
	assert.NotContains(t, got, "<p>")
}

func TestRenderHeadingLevels(t *testing.T) {
	src := "# one\n## two\n### three\n#### four\n##### five\n###### six\n####### seven"
	got := Render(src, Default())
	for i, word := range []string{"one", "two", "three", "four", "five", "six"} {
		tag := string(rune('1' + i))
		assert.Contains(t, got, "<h"+tag+">"+word+"</h"+tag+">")
	}
	assert.Contains(t, got, "####### seven")
}

func TestRenderUnorderedList(t *testing.T) {
	got := Render("- a\n- b\n", Default())
	require.Equal(t, 1, strings.Count(got, "<ul>"))
	assert.Equal(t, 2, strings.Count(got, "<li>"))
	assert.NotContains(t, got, "<ol>")
	assert.Less(t, strings.Index(got, "<li>a</li>"), strings.Index(got, "<li>b</li>"))
}

func TestRenderOrderedList(t *testing.T) {
	got := Render("1. a\n2. b\n", Default())
	require.Equal(t, 1, strings.Count(got, "<ol>"))
	assert.Equal(t, 2, strings.Count(got, "<li>"))
	assert.NotContains(t, got, "<ul>")
}

func TestRenderSeparateListsKeepTheirKind(t *testing.T) {
	got := Render("1. first\n2. second\n\ntext\n\n* x\n* y", Default())
	assert.Contains(t, got, "<ol><li>first</li> <li>second</li></ol>")
	assert.Contains(t, got, "<ul><li>x</li> <li>y</li></ul>")
}

func TestRenderMixedListUsesFirstItem(t *testing.T) {
	got := Render("- a\n1. b\n", Default())
	assert.Contains(t, got, "<ul><li>a</li> <li>b</li></ul>")

	got = Render("1. a\n- b\n", Default())
	assert.Contains(t, got, "<ol><li>a</li> <li>b</li></ol>")
}

func TestRenderEmphasis(t *testing.T) {
	got := Render("**bold** and *italic*", Default())
	assert.Equal(t, "<p><strong>bold</strong> and <em>italic</em></p>", got)
}

func TestRenderUnderscoreEmphasis(t *testing.T) {
	got := Render("__strong__ then _soft_", Default())
	assert.Equal(t, "<p><strong>strong</strong> then <em>soft</em></p>", got)
}

func TestRenderUnmatchedMarkersStayLiteral(t *testing.T) {
	got := Render("an **open marker", Default())
	assert.Equal(t, "<p>an **open marker</p>", got)

	got = Render("a [label without url", Default())
	assert.Equal(t, "<p>a [label without url</p>", got)
}

func TestRenderNonGreedyBold(t *testing.T) {
	got := Render("**a** middle **b**", Default())
	assert.Equal(t, "<p><strong>a</strong> middle <strong>b</strong></p>", got)
}

func TestRenderEscapesScript(t *testing.T) {
	src := "<script>alert(1)</script>"
	for _, opts := range []Options{
		Default(),
		{EnableFormatting: false},
		{EnableFormatting: true, PreserveLineBreaks: true},
		{EnableFormatting: false, PreserveLineBreaks: true},
	} {
		got := Render(src, opts)
		assert.NotContains(t, got, "<script>")
		assert.Contains(t, got, "&lt;script&gt;alert(1)&lt;/script&gt;")
	}
}

func TestRenderFormattingToggleOnPlainText(t *testing.T) {
	src := "first line\nsecond line\n\nnext paragraph & 1 < 2"
	on := Render(src, Options{EnableFormatting: true})
	off := Render(src, Options{EnableFormatting: false})
	assert.Equal(t, on, off)
	assert.Equal(t, "<p>first line second line</p><p>next paragraph & 1 &lt; 2</p>", on)
}

func TestRenderPreservedBreaksWithoutFormatting(t *testing.T) {
	inputs := []string{
		"",
		"one",
		"one\ntwo\n",
		"\n\n\n",
		"# not a heading\n- not a list\n\nplain",
	}
	for _, src := range inputs {
		got := Render(src, Options{PreserveLineBreaks: true})
		assert.NotContains(t, got, "<p>", "input %q", src)
		assert.Equal(t, strings.Count(src, "\n"), strings.Count(got, "<br>"), "input %q", src)
	}
}

func TestRenderFormattingDisabledSkipsMarkdown(t *testing.T) {
	got := Render("# Title\n**bold**", Options{})
	assert.Equal(t, "<p># Title **bold**</p>", got)
}

func TestRenderPreserveBreaksWithFormatting(t *testing.T) {
	got := Render("line one\n**two**", Options{EnableFormatting: true, PreserveLineBreaks: true})
	assert.Equal(t, "line one<br><strong>two</strong>", got)
}

func TestRenderSubstitution(t *testing.T) {
	opts := Default()
	opts.Substitute = &Substitution{Pattern: "secret", Replacement: "[redacted]"}

	got := Render("Secret plan: SECRET and secret", opts)
	assert.Equal(t, "<p>[redacted] plan: [redacted] and [redacted]</p>", got)
}

func TestRenderSubstitutionBeforeHeadingDetection(t *testing.T) {
	opts := Default()
	opts.Substitute = &Substitution{Pattern: "TITLE:", Replacement: "#"}

	got := Render("title: Hello", opts)
	assert.Equal(t, "<h1>Hello</h1>", got)
}

func TestRenderSubstitutionIsLiteral(t *testing.T) {
	opts := Default()
	opts.Substitute = &Substitution{Pattern: "a.c", Replacement: "$1"}

	got := Render("abc a.c", opts)
	assert.Equal(t, "<p>abc $1</p>", got)
}

func TestRenderEmptyInput(t *testing.T) {
	assert.Equal(t, "", Render("", Default()))
	assert.Equal(t, "", Render("   ", Default()))
	assert.Equal(t, "", Render("\n\n", Default()))
}

func TestRenderCodeFence(t *testing.T) {
	got := Render("```\nx < y\n```", Options{EnableFormatting: true, PreserveLineBreaks: true})
	assert.Equal(t, "<pre><code><br>x &lt; y<br></code></pre>", got)
}

func TestRenderBlockquoteAndRule(t *testing.T) {
	got := Render("> quoted\n---\nafter", Default())
	assert.Equal(t, "<blockquote>quoted</blockquote> <hr> after", got)
}

func TestRenderLinkAndInlineCode(t *testing.T) {
	got := Render("see [docs](https://example.com) and `go test`", Default())
	assert.Equal(t, `<p>see <a href="https://example.com">docs</a> and <code>go test</code></p>`, got)
}

func TestRenderNormalizesCRLF(t *testing.T) {
	assert.Equal(t, Render("a\nb\n\nc", Default()), Render("a\r\nb\r\n\r\nc", Default()))
}

func TestRenderSubstitutionSeesRawLineEndings(t *testing.T) {
	opts := Default()
	opts.Substitute = &Substitution{Pattern: "a\r\nb", Replacement: "X"}
	assert.Equal(t, "<p>X</p>", Render("a\r\nb", opts))

	opts.Substitute = &Substitution{Pattern: "a\nb", Replacement: "X"}
	assert.Equal(t, Render("a\nb", Default()), Render("a\r\nb", opts))
}

func TestRenderDeterministic(t *testing.T) {
	src := "# T\n\n- a\n- b\n\n1. x\n\n**b** _i_ `c` [l](u)\n```\ncode\n```"
	opts := Options{EnableFormatting: true, Substitute: &Substitution{Pattern: "t", Replacement: "T"}}
	first := Render(src, opts)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Render(src, opts))
	}
}

func TestRendererUsesBoundOptions(t *testing.T) {
	r := NewRenderer(Options{PreserveLineBreaks: true})
	assert.Equal(t, "a<br>b", r.Render("a\nb"))
}
