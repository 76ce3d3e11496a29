// Package render selects the Markdown engine used by the preview adapters.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/mithrel/mdpreview/internal/util"
	"github.com/mithrel/mdpreview/pkg/markdown"
)

const (
	EngineRegex      = "regex"
	EngineCommonMark = "commonmark"
)

// Engines lists the accepted engine names.
var Engines = []string{EngineRegex, EngineCommonMark}

// Engine turns Markdown source into an HTML fragment.
type Engine interface {
	Name() string
	Render(source string, opts markdown.Options) (string, error)
}

// New returns the engine registered under name. An empty name selects the
// staged regex renderer.
func New(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineRegex:
		return Staged{}, nil
	case EngineCommonMark:
		return NewCommonMark(), nil
	default:
		if s := util.ScoreCompletions(name, Engines, 1); len(s) > 0 {
			return nil, fmt.Errorf("unknown engine %q (did you mean %q?)", name, s[0])
		}
		return nil, fmt.Errorf("unknown engine %q", name)
	}
}

// Staged is the pattern pipeline from pkg/markdown. It never fails.
type Staged struct{}

func (Staged) Name() string { return EngineRegex }

func (Staged) Render(source string, opts markdown.Options) (string, error) {
	return markdown.Render(source, opts), nil
}

// CommonMark renders with goldmark and GFM extensions. Raw HTML in the
// source is omitted rather than passed through.
type CommonMark struct {
	soft goldmark.Markdown
	hard goldmark.Markdown
}

func NewCommonMark() *CommonMark {
	return &CommonMark{
		soft: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		hard: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}
}

func (c *CommonMark) Name() string { return EngineCommonMark }

// Render honours substitution and line-break handling. With formatting
// disabled there is nothing for goldmark to do, so the staged renderer's
// plain path is used instead.
func (c *CommonMark) Render(source string, opts markdown.Options) (string, error) {
	if !opts.EnableFormatting {
		return markdown.Render(source, opts), nil
	}
	src := strings.ReplaceAll(markdown.Substitute(source, opts.Substitute), "\r\n", "\n")
	md := c.soft
	if opts.PreserveLineBreaks {
		md = c.hard
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("commonmark convert: %w", err)
	}
	return buf.String(), nil
}
