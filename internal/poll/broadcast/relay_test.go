package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pollcast/internal/poll/models"
	"pollcast/pkg/platform/circuit"
)

type fakePublisher struct {
	mu       sync.Mutex
	fail     bool
	calls    int
	channels []string
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	cmd := redis.NewIntCmd(ctx)
	if f.fail {
		cmd.SetErr(errors.New("connection refused"))
		return cmd
	}
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, message.([]byte))
	cmd.SetVal(1)
	return cmd
}

func (f *fakePublisher) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func (f *fakePublisher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRelayPublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRedisRelay(pub)

	r.relay(context.Background(), update("poll-1", 3))

	require.Len(t, pub.channels, 1)
	assert.Equal(t, "pollcast:results:poll-1", pub.channels[0])
	var got models.ResultsUpdate
	require.NoError(t, json.Unmarshal(pub.payloads[0], &got))
	assert.Equal(t, "poll-1", got.PollID)
	assert.Equal(t, 3, got.Results.TotalVotes)
}

func TestRelayBreakerShedsWhileOpen(t *testing.T) {
	pub := &fakePublisher{fail: true}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	r := NewRedisRelay(pub, WithBreaker(breaker), WithProbeInterval(time.Minute))
	r.now = func() time.Time { return now }
	ctx := context.Background()

	r.relay(ctx, update("p", 1))
	r.relay(ctx, update("p", 2))
	require.True(t, breaker.IsOpen())
	assert.Equal(t, 2, pub.callCount())

	// Shed until the probe interval passes.
	r.relay(ctx, update("p", 3))
	assert.Equal(t, 2, pub.callCount())

	pub.setFail(false)
	now = now.Add(2 * time.Minute)
	r.relay(ctx, update("p", 4))
	assert.Equal(t, 3, pub.callCount())
	assert.False(t, breaker.IsOpen())
}

func TestRelayEnqueueNeverBlocks(t *testing.T) {
	r := NewRedisRelay(&fakePublisher{}, WithInboxSize(2))
	for i := 0; i < 10; i++ {
		r.Enqueue(update("p", i))
	}
	require.Len(t, r.inbox, 2)
	assert.Equal(t, 8, (<-r.inbox).Results.TotalVotes)
}

func TestRelayRunDrainsUntilCancelled(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRedisRelay(pub)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	r.Enqueue(update("p", 1))
	assert.Eventually(t, func() bool { return pub.callCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
