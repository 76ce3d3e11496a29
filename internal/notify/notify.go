// Package notify carries the transient success/error messages produced by
// the clipboard and export adapters.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Notification is a user-facing outcome of a fallible adapter call.
type Notification struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	Err     error     `json:"-"`
}

func Success(format string, args ...any) Notification {
	return Notification{Kind: KindSuccess, Message: fmt.Sprintf(format, args...), Time: time.Now()}
}

// Failure builds an error notification. err is kept for logging and
// errors.Is checks; it is not shown to the user.
func Failure(err error, format string, args ...any) Notification {
	return Notification{Kind: KindError, Message: fmt.Sprintf(format, args...), Time: time.Now(), Err: err}
}

func (n Notification) OK() bool { return n.Kind == KindSuccess }

// Expires returns when the notification should be hidden. A ttl <= 0
// falls back to DefaultTTL.
func (n Notification) Expires(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return n.Time.Add(ttl)
}

// Notifier receives notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Log writes notifications to a slog.Logger.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(ctx context.Context, n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if n.Kind == KindError {
		logger.ErrorContext(ctx, n.Message, "error", n.Err)
		return
	}
	logger.InfoContext(ctx, n.Message)
}

// Recorder keeps the most recent notifications in memory.
type Recorder struct {
	mu   sync.Mutex
	max  int
	list []Notification
}

// NewRecorder keeps at most max notifications; max <= 0 keeps 16.
func NewRecorder(max int) *Recorder {
	if max <= 0 {
		max = 16
	}
	return &Recorder{max: max}
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
	if len(r.list) > r.max {
		r.list = r.list[len(r.list)-r.max:]
	}
}

// Active returns the notifications that have not expired at now.
func (r *Recorder) Active(now time.Time, ttl time.Duration) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Notification
	for _, n := range r.list {
		if now.Before(n.Expires(ttl)) {
			out = append(out, n)
		}
	}
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.list) == 0 {
		return Notification{}, false
	}
	return r.list[len(r.list)-1], true
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, x := range m {
		x.Notify(ctx, n)
	}
}
