// Package codeblock decorates rendered code blocks with a copy button.
//
// It works on a parsed HTML tree, never on Markdown, and never changes the
// HTML string the renderer produced: AnnotateFragment returns a new string.
package codeblock

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ButtonClass marks the copy affordance inserted into a <pre>.
const ButtonClass = "copy-button"

// CopyAttr holds the text the copy button puts on the clipboard.
const CopyAttr = "data-copy"

var (
	codeSel   = cascadia.MustCompile("pre > code")
	buttonSel = cascadia.MustCompile("button." + ButtonClass)
)

// Block is a <code> element that is the only content of its <pre>.
type Block struct {
	Pre       *html.Node
	Code      *html.Node
	Text      string
	Annotated bool
}

// Blocks lists the code blocks under root in document order.
func Blocks(root *html.Node) []Block {
	var out []Block
	for _, code := range codeSel.MatchAll(root) {
		pre := code.Parent
		annotated, ok := soleCode(pre, code)
		if !ok {
			continue
		}
		out = append(out, Block{Pre: pre, Code: code, Text: textContent(code), Annotated: annotated})
	}
	return out
}

// Annotate prepends a copy button to every code block under root that does
// not have one yet. It returns how many buttons were added; a second call on
// the same tree adds none.
func Annotate(root *html.Node) int {
	added := 0
	for _, b := range Blocks(root) {
		if b.Annotated {
			continue
		}
		b.Pre.InsertBefore(newButton(b.Text), b.Pre.FirstChild)
		added++
	}
	return added
}

// soleCode reports whether code is the only element child of pre, not
// counting a copy button, and whether such a button is present.
func soleCode(pre, code *html.Node) (annotated, ok bool) {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if c == code {
				continue
			}
			if buttonSel.Match(c) && !annotated {
				annotated = true
				continue
			}
			return false, false
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return false, false
			}
		}
	}
	return annotated, true
}

func newButton(text string) *html.Node {
	btn := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Button,
		Data:     "button",
		Attr: []html.Attribute{
			{Key: "type", Val: "button"},
			{Key: "class", Val: ButtonClass},
			{Key: CopyAttr, Val: text},
			{Key: "aria-label", Val: "Copy code"},
		},
	}
	btn.AppendChild(&html.Node{Type: html.TextNode, Data: "Copy"})
	return btn
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// ParseFragment parses an HTML fragment into a detached <div> holding it.
func ParseFragment(fragment string) (*html.Node, error) {
	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), root)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// RenderChildren serializes the children of root, without root itself.
func RenderChildren(root *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}
	return buf.String(), nil
}

// AnnotateFragment parses fragment, annotates its code blocks and returns
// the serialized result.
func AnnotateFragment(fragment string) (string, error) {
	root, err := ParseFragment(fragment)
	if err != nil {
		return "", err
	}
	Annotate(root)
	return RenderChildren(root)
}
