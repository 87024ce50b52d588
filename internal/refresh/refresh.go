// Package refresh sequences re-fetches so that only the newest request for a
// resource is allowed to apply its result.
package refresh

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned by Do when a newer fetch for the same key superseded this one.
var ErrStale = errors.New("superseded by a newer request")

// Ticket identifies one fetch for a resource key.
type Ticket struct {
	Key string
	Gen uint64
}

// Tracker keeps a generation counter and a cancel function per resource key.
type Tracker struct {
	mu      sync.Mutex
	gens    map[string]uint64
	cancels map[string]context.CancelFunc
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		gens:    make(map[string]uint64),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Begin starts a new fetch for key, cancelling any fetch still in flight for it.
func (t *Tracker) Begin(parent context.Context, key string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.cancels[key]; ok {
		prev()
	}
	t.gens[key]++
	t.cancels[key] = cancel
	return ctx, Ticket{Key: key, Gen: t.gens[key]}
}

// Current reports whether tk is still the newest fetch for its key.
func (t *Tracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gens[tk.Key] == tk.Gen
}

// Finish releases the fetch's context and reports whether its result may be applied.
func (t *Tracker) Finish(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.gens[tk.Key] != tk.Gen {
		return false
	}
	if cancel, ok := t.cancels[tk.Key]; ok {
		cancel()
		delete(t.cancels, tk.Key)
	}
	return true
}

// CancelAll aborts every in-flight fetch, e.g. on logout or shutdown.
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, cancel := range t.cancels {
		cancel()
		t.gens[key]++
		delete(t.cancels, key)
	}
}

// Do runs fn as the newest fetch for key. If a later Begin for the same key
// happens before fn returns, Do discards the result and returns ErrStale.
func Do[T any](parent context.Context, t *Tracker, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, tk := t.Begin(parent, key)
	v, err := fn(ctx)
	if !t.Finish(tk) {
		var zero T
		return zero, ErrStale
	}
	return v, err
}
