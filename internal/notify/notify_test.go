package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationKinds(t *testing.T) {
	ok := Success("copied %d bytes", 3)
	assert.True(t, ok.OK())
	assert.Equal(t, "copied 3 bytes", ok.Message)

	boom := errors.New("boom")
	bad := Failure(boom, "copy failed")
	assert.False(t, bad.OK())
	assert.ErrorIs(t, bad.Err, boom)
	assert.Equal(t, "error", bad.Kind.String())
}

func TestNotificationJSON(t *testing.T) {
	n := Failure(errors.New("secret detail"), "save failed")
	b, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"error"`)
	assert.NotContains(t, string(b), "secret detail")
}

func TestExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := Notification{Time: now}
	assert.Equal(t, now.Add(DefaultTTL), n.Expires(0))
	assert.Equal(t, now.Add(time.Second), n.Expires(time.Second))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(2)
	_, ok := r.Last()
	assert.False(t, ok)

	base := time.Now()
	r.Notify(context.Background(), Notification{Message: "a", Time: base.Add(-time.Minute)})
	r.Notify(context.Background(), Notification{Message: "b", Time: base})
	r.Notify(context.Background(), Notification{Message: "c", Time: base})

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "c", last.Message)

	active := r.Active(base, time.Second)
	require.Len(t, active, 2)
	assert.Equal(t, "b", active[0].Message)
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(1), NewRecorder(1)
	Multi{a, b, Log{}}.Notify(context.Background(), Success("done"))
	_, okA := a.Last()
	_, okB := b.Last()
	assert.True(t, okA)
	assert.True(t, okB)
}
