package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDo_NoDelay(t *testing.T) {
	r := NewRunner(0)
	defer r.Close()

	got, err := Do(context.Background(), r, "flashcards", func() int { return 42 })
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestDo_NilRunner(t *testing.T) {
	got, err := Do(context.Background(), nil, "any", func() string { return "ok" })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestSubmit_NilRunner(t *testing.T) {
	f := Submit(context.Background(), nil, "any", func() string { return "ok" })
	got, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestDo_DelayApplied(t *testing.T) {
	r := NewRunner(30 * time.Millisecond)
	defer r.Close()

	start := time.Now()
	_, err := Do(context.Background(), r, "search", func() int { return 1 })
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestDo_CancelledDuringDelay(t *testing.T) {
	r := NewRunner(time.Second)
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var called atomic.Bool
	_, err := Do(ctx, r, "search", func() int {
		called.Store(true)
		return 1
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called.Load(), "fn must not run after cancellation")
}

func TestSubmit_LastQueryWins(t *testing.T) {
	r := NewRunner(100 * time.Millisecond)
	defer r.Close()

	ctx := WithSession(context.Background(), "session-1")
	first := Submit(ctx, r, "citations", func() string { return "first" })
	second := Submit(ctx, r, "citations", func() string { return "second" })

	_, err := first.Wait(context.Background())
	assert.ErrorIs(t, err, ErrSuperseded)

	got, err := second.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestSubmit_ChannelsAreIndependent(t *testing.T) {
	r := NewRunner(20 * time.Millisecond)
	defer r.Close()

	ctx := WithSession(context.Background(), "session-1")
	a := Submit(ctx, r, "citations", func() string { return "a" })
	b := Submit(ctx, r, "researchers", func() string { return "b" })

	gotA, errA := a.Wait(context.Background())
	gotB, errB := b.Wait(context.Background())
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, "a", gotA)
	assert.Equal(t, "b", gotB)
}

func TestSubmit_WithoutSessionNeverSuperseded(t *testing.T) {
	r := NewRunner(20 * time.Millisecond)
	defer r.Close()

	ctx := context.Background()
	a := Submit(ctx, r, "citations", func() int { return 1 })
	b := Submit(ctx, r, "citations", func() int { return 2 })

	gotA, errA := a.Wait(ctx)
	gotB, errB := b.Wait(ctx)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, 1, gotA)
	assert.Equal(t, 2, gotB)
}

func TestClose_CancelsPending(t *testing.T) {
	r := NewRunner(time.Second)

	f := Submit(WithSession(context.Background(), "s"), r, "flowchart", func() int { return 1 })
	require.NoError(t, r.Close())

	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	_, err = Do(context.Background(), r, "flowchart", func() int { return 1 })
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestFuture_WaitRespectsContext(t *testing.T) {
	r := NewRunner(200 * time.Millisecond)
	defer r.Close()

	f := Submit(context.Background(), r, "slow", func() int { return 1 })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	r.Wait()
	select {
	case <-f.Done():
	default:
		t.Fatal("future should be done after Wait")
	}
}
