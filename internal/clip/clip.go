// Package clip copies rendered HTML to and reads Markdown from the system
// clipboard.
package clip

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"

	"github.com/mithrel/mdpreview/internal/notify"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("clipboard unsupported on this system")

// Clipboard is the subset of clipboard access the adapters need.
type Clipboard interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

// System uses the platform clipboard.
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

func (System) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	return clipboard.ReadAll()
}

// Copy writes text to cb. The clipboard call may block on an external
// helper process, so it runs in its own goroutine and ctx bounds the wait.
func Copy(ctx context.Context, cb Clipboard, text string) notify.Notification {
	err := run(ctx, func() error { return cb.WriteAll(text) })
	if err != nil {
		return notify.Failure(err, "Could not copy to clipboard")
	}
	return notify.Success("Copied to clipboard")
}

// Paste reads the clipboard contents.
func Paste(ctx context.Context, cb Clipboard) (string, notify.Notification) {
	var text string
	err := run(ctx, func() error {
		var err error
		text, err = cb.ReadAll()
		return err
	})
	if err != nil {
		return "", notify.Failure(err, "Could not read clipboard")
	}
	return text, notify.Success("Pasted from clipboard")
}

func run(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
