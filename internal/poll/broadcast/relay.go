package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"pollcast/internal/poll/metrics"
	"pollcast/internal/poll/models"
	"pollcast/pkg/platform/circuit"
)

const (
	// ChannelPrefix namespaces the Redis pub/sub channels, one per poll.
	ChannelPrefix = "pollcast:results:"

	defaultRelayBuffer    = 256
	defaultPublishTimeout = 2 * time.Second
	defaultProbeInterval  = time.Second
)

// Channel returns the Redis channel carrying pollID's results.
func Channel(pollID string) string {
	return ChannelPrefix + pollID
}

// Publisher is the subset of the go-redis client used by the relay.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisRelay mirrors results updates to Redis pub/sub from a background
// worker. Updates queue in a bounded inbox; the oldest is shed when full.
// While the breaker is open the worker only probes Redis once per probe
// interval and sheds the rest. Nothing in this process subscribes to the
// channels; they exist for external consumers.
type RedisRelay struct {
	client  Publisher
	inbox   chan models.ResultsUpdate
	breaker *circuit.Breaker

	publishTimeout time.Duration
	probeInterval  time.Duration
	lastProbe      time.Time
	now            func() time.Time

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type RelayOption func(*RedisRelay)

// WithInboxSize sets the relay queue length. Values below one are ignored.
func WithInboxSize(n int) RelayOption {
	return func(r *RedisRelay) {
		if n > 0 {
			r.inbox = make(chan models.ResultsUpdate, n)
		}
	}
}

func WithBreaker(b *circuit.Breaker) RelayOption {
	return func(r *RedisRelay) {
		if b != nil {
			r.breaker = b
		}
	}
}

func WithProbeInterval(d time.Duration) RelayOption {
	return func(r *RedisRelay) {
		if d > 0 {
			r.probeInterval = d
		}
	}
}

func WithRelayLogger(logger *slog.Logger) RelayOption {
	return func(r *RedisRelay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithRelayMetrics(m *metrics.Metrics) RelayOption {
	return func(r *RedisRelay) {
		r.metrics = m
	}
}

// NewRedisRelay creates a relay publishing through client.
func NewRedisRelay(client Publisher, opts ...RelayOption) *RedisRelay {
	r := &RedisRelay{
		client:         client,
		inbox:          make(chan models.ResultsUpdate, defaultRelayBuffer),
		breaker:        circuit.New("redis-relay"),
		publishTimeout: defaultPublishTimeout,
		probeInterval:  defaultProbeInterval,
		now:            time.Now,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Enqueue queues update for publishing without blocking.
func (r *RedisRelay) Enqueue(update models.ResultsUpdate) {
	if !offer(r.inbox, update) {
		r.metrics.IncrementRelayFailures()
	}
}

// Run publishes queued updates until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-r.inbox:
			r.relay(ctx, update)
		}
	}
}

func (r *RedisRelay) relay(ctx context.Context, update models.ResultsUpdate) {
	if r.breaker.IsOpen() {
		now := r.now()
		if now.Sub(r.lastProbe) < r.probeInterval {
			r.metrics.IncrementRelayFailures()
			return
		}
		r.lastProbe = now
	}

	if err := r.publish(ctx, update); err != nil {
		r.metrics.IncrementRelayFailures()
		if _, change := r.breaker.RecordFailure(); change.Opened {
			r.lastProbe = r.now()
			r.logger.WarnContext(ctx, "results relay degraded",
				"breaker", r.breaker.Name(),
				"error", err,
			)
		} else {
			r.logger.DebugContext(ctx, "results relay publish failed",
				"poll_id", update.PollID,
				"error", err,
			)
		}
		return
	}
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "results relay restored", "breaker", r.breaker.Name())
	}
}

func (r *RedisRelay) publish(ctx context.Context, update models.ResultsUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal results update: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, r.publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, Channel(update.PollID), payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", Channel(update.PollID), err)
	}
	return nil
}
