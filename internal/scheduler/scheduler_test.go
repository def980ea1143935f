package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCheckpointer struct {
	calls atomic.Int32
	err   error
}

func (c *countingCheckpointer) Checkpoint(ctx context.Context) error {
	c.calls.Add(1)
	return c.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_Autosaves(t *testing.T) {
	target := &countingCheckpointer{}
	s := New(target, 20*time.Millisecond, quietLogger())

	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return target.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_FailuresDoNotStopSchedule(t *testing.T) {
	target := &countingCheckpointer{err: errors.New("read-only file system")}
	s := New(target, 20*time.Millisecond, quietLogger())

	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return target.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s := New(&countingCheckpointer{}, 0, quietLogger())
	assert.Error(t, s.Start())
}

func TestScheduler_RunNow(t *testing.T) {
	target := &countingCheckpointer{}
	s := New(target, time.Hour, quietLogger())

	require.NoError(t, s.RunNow())
	assert.Equal(t, int32(1), target.calls.Load())
}
