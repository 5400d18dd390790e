package cronjob

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWarmer struct {
	calls int64
	err   error
}

func (w *countingWarmer) Warm(ctx context.Context) error {
	atomic.AddInt64(&w.calls, 1)
	return w.err
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	w := &countingWarmer{}
	s := NewScheduler(w, "@every 1s", time.Second, nil)
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&w.calls) >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(&countingWarmer{}, "every tuesday", 0, nil)
	assert.Error(t, s.Start())
}

func TestScheduler_EmptySpecDisables(t *testing.T) {
	w := &countingWarmer{err: errors.New("unreachable")}
	s := NewScheduler(w, "", 0, nil)
	require.NoError(t, s.Start())

	s.RunOnce()
	assert.Equal(t, int64(1), atomic.LoadInt64(&w.calls))
	s.Stop(context.Background())
}
