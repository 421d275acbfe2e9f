package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubExpirer struct {
	calls  atomic.Int32
	closed int
	err    error
}

func (s *stubExpirer) CloseExpired(context.Context) (int, error) {
	s.calls.Add(1)
	return s.closed, s.err
}

func TestSweepOnceReportsClosed(t *testing.T) {
	exp := &stubExpirer{closed: 3}
	s := New(exp)

	assert.Equal(t, 3, s.SweepOnce(context.Background()))
	assert.Equal(t, int32(1), exp.calls.Load())
}

func TestSweepOnceSurvivesErrors(t *testing.T) {
	exp := &stubExpirer{closed: 1, err: errors.New("store unavailable")}
	s := New(exp)

	assert.Equal(t, 1, s.SweepOnce(context.Background()))
}

func TestRunKeepsTickingPastFailures(t *testing.T) {
	exp := &stubExpirer{err: errors.New("boom")}
	s := New(exp, WithInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return exp.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestDefaults(t *testing.T) {
	s := New(&stubExpirer{}, WithInterval(0))
	assert.Equal(t, 60*time.Second, s.Interval())
}
