// Package dispatch wraps synchronous engine calls in a cancellable latency
// boundary with last-query-wins semantics per channel.
package dispatch

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

var (
	// ErrSuperseded is returned to a caller whose call was replaced by a newer
	// one on the same channel before its result was delivered.
	ErrSuperseded = errors.New("dispatch: superseded by a newer call")

	// ErrClosed is returned for calls submitted after Close.
	ErrClosed = errors.New("dispatch: runner closed")
)

type sessionKey struct{}

// WithSession scopes last-query-wins tracking to a session. Calls made
// without a session are never superseded.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by WithSession.
func SessionFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sessionKey{}).(string); ok {
		return s
	}
	return ""
}

type pendingCall struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// Runner applies a simulated delay before running a call and cancels the
// pending call on a channel when a newer one arrives.
type Runner struct {
	delay time.Duration

	mu      sync.Mutex
	seq     uint64
	pending map[string]pendingCall
	closed  bool
	wg      sync.WaitGroup
}

// NewRunner creates a Runner. A zero delay runs calls immediately.
func NewRunner(delay time.Duration) *Runner {
	return &Runner{
		delay:   delay,
		pending: make(map[string]pendingCall),
	}
}

// Delay returns the simulated latency applied to each call.
func (r *Runner) Delay() time.Duration {
	return r.delay
}

// Do runs fn on the caller's goroutine after the runner's delay.
func Do[T any](ctx context.Context, r *Runner, channel string, fn func() T) (T, error) {
	var zero T
	if r == nil {
		return fn(), nil
	}
	ctx, done, err := r.begin(ctx, channel)
	if err != nil {
		return zero, err
	}
	defer done()
	return run(ctx, r.delay, fn)
}

// Submit runs fn on a new goroutine and returns a Future for its result.
// The call is registered before Submit returns, so a later Submit on the
// same channel always supersedes it.
func Submit[T any](ctx context.Context, r *Runner, channel string, fn func() T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	if r == nil {
		f.val = fn()
		close(f.done)
		return f
	}
	ctx, done, err := r.begin(ctx, channel)
	if err != nil {
		f.err = err
		close(f.done)
		return f
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(f.done)
		defer done()
		f.val, f.err = run(ctx, r.delay, fn)
	}()
	return f
}

// Wait blocks until every submitted call has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close cancels pending calls and waits for them to return.
func (r *Runner) Close() error {
	r.mu.Lock()
	r.closed = true
	for key, p := range r.pending {
		p.cancel(ErrClosed)
		delete(r.pending, key)
	}
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}

func (r *Runner) begin(parent context.Context, channel string) (context.Context, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, nil, ErrClosed
	}

	ctx, cancel := context.WithCancelCause(parent)
	r.seq++
	id := r.seq

	// Calls without a session get a unique key so Close can still cancel them.
	key := "#" + strconv.FormatUint(id, 10)
	if session := SessionFromContext(parent); session != "" {
		key = session + "/" + channel
		if prev, ok := r.pending[key]; ok {
			prev.cancel(ErrSuperseded)
		}
	}
	r.pending[key] = pendingCall{id: id, cancel: cancel}

	return ctx, func() {
		r.mu.Lock()
		if p, ok := r.pending[key]; ok && p.id == id {
			delete(r.pending, key)
		}
		r.mu.Unlock()
		cancel(nil)
	}, nil
}

func run[T any](ctx context.Context, delay time.Duration, fn func() T) (T, error) {
	var zero T
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return zero, context.Cause(ctx)
		}
	}
	if ctx.Err() != nil {
		return zero, context.Cause(ctx)
	}

	v := fn()

	// A result only counts if no newer call replaced this one meanwhile.
	if ctx.Err() != nil {
		return zero, context.Cause(ctx)
	}
	return v, nil
}

// Future holds the eventual result of a submitted call.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
