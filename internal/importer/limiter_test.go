package importer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterAcquireRelease(t *testing.T) {
	l := NewLimiter(2, time.Second)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))
	assert.Equal(t, 2, l.ActiveCount())

	l.Release()
	assert.Equal(t, 1, l.ActiveCount())

	require.NoError(t, l.Acquire(ctx))
	l.Release()
	l.Release()
	assert.Equal(t, 0, l.ActiveCount())
}

func TestLimiterRejectsWhenFull(t *testing.T) {
	l := NewLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	defer l.Release()

	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, ErrTooManyImports)
}

func TestLimiterAcquireHonorsContextCancel(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimiterWaitForDrain(t *testing.T) {
	l := NewLimiter(1, time.Second)
	require.NoError(t, l.Acquire(context.Background()))

	go func() {
		time.Sleep(150 * time.Millisecond)
		l.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, l.WaitForDrain(ctx))
}

func TestJobCancelLifecycle(t *testing.T) {
	j := newJob(Options{})
	assert.Equal(t, StatusQueued, j.Snapshot().Status)

	assert.True(t, j.RequestCancel())
	assert.Equal(t, StatusCancelling, j.Snapshot().Status)
	assert.True(t, j.cancelRequested())

	j.finish(StatusCancelled, "")
	assert.False(t, j.RequestCancel(), "terminal jobs cannot be cancelled again")
	assert.Equal(t, StatusCancelled, j.Snapshot().Status)
}
