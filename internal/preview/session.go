// Package preview owns the state of one live preview: the current text and
// options, and the render/annotate cycle run on every change.
package preview

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mithrel/mdpreview/internal/render"
	"github.com/mithrel/mdpreview/pkg/codeblock"
	"github.com/mithrel/mdpreview/pkg/markdown"
)

// Result is the outcome of one conversion.
//
// HTML is the engine output, untouched. Display is the same fragment with
// copy buttons added to its code blocks; it falls back to HTML when the
// fragment cannot be annotated.
type Result struct {
	Revision uint64 `json:"revision"`
	HTML     string `json:"html"`
	Display  string `json:"display"`
	Error    string `json:"error,omitempty"`
}

// Clock hands out revision numbers. Revisions from sessions sharing a Clock
// are ordered against each other.
type Clock struct {
	n atomic.Uint64
}

// Next returns a revision greater than every revision returned before.
func (c *Clock) Next() uint64 { return c.n.Add(1) }

// Session is safe for concurrent use. Every update runs to completion and
// replaces the previous result; callers use Revision to drop stale replies.
type Session struct {
	engine render.Engine
	log    *slog.Logger
	clock  *Clock

	mu   sync.Mutex
	text string
	opts markdown.Options
	last Result
}

// NewSession converts initial once so Current is populated from the start.
// The session numbers its results with a clock of its own.
func NewSession(engine render.Engine, opts markdown.Options, initial string, log *slog.Logger) *Session {
	return NewSessionWithClock(engine, opts, initial, log, nil)
}

// NewSessionWithClock is NewSession drawing revisions from clock. A nil
// clock gives the session its own.
func NewSessionWithClock(engine render.Engine, opts markdown.Options, initial string, log *slog.Logger, clock *Clock) *Session {
	if clock == nil {
		clock = &Clock{}
	}
	if engine == nil {
		engine = render.Staged{}
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Session{engine: engine, log: log, clock: clock, text: initial, opts: opts}
	s.mu.Lock()
	s.convertLocked()
	s.mu.Unlock()
	return s
}

// SetText replaces the source text and converts it.
func (s *Session) SetText(text string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	return s.convertLocked()
}

// SetOptions replaces the options and converts the current text.
func (s *Session) SetOptions(opts markdown.Options) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
	return s.convertLocked()
}

// Update replaces both text and options.
func (s *Session) Update(text string, opts markdown.Options) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.opts = opts
	return s.convertLocked()
}

// Current returns the latest result without converting again.
func (s *Session) Current() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Session) Options() markdown.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

func (s *Session) convertLocked() Result {
	res := Convert(s.engine, s.text, s.opts, s.log)
	res.Revision = s.clock.Next()
	s.last = res
	return res
}

// Convert runs one render + annotate pass without any session state.
func Convert(engine render.Engine, text string, opts markdown.Options, log *slog.Logger) Result {
	out, err := engine.Render(text, opts)
	if err != nil {
		log.Warn("render failed", "engine", engine.Name(), "error", err)
		return Result{Error: err.Error()}
	}
	display, err := codeblock.AnnotateFragment(out)
	if err != nil {
		log.Warn("annotate failed", "error", err)
		display = out
	}
	return Result{HTML: out, Display: display}
}
