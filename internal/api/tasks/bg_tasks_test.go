package tasks

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTasksRunAndShutdown(t *testing.T) {
	bg := New(newTestLogger(), 2, 10)
	bg.Run()

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		bg.Add(func() { done.Add(1) })
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bg.Shutdown(ctx))
	assert.Equal(t, int32(5), done.Load())
}

func TestShutdownTimeout(t *testing.T) {
	bg := New(newTestLogger(), 1, 1)
	bg.Run()

	blocker := make(chan struct{})
	bg.Add(func() { <-blocker })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := bg.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(blocker)
}

func TestPanicingTaskIsRecovered(t *testing.T) {
	bg := New(newTestLogger(), 1, 10)
	bg.Run()

	bg.Add(func() { panic("boom") })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	// The panicing worker exits through its deferred recover, so shutdown
	// still completes.
	assert.NoError(t, bg.Shutdown(ctx))
}
