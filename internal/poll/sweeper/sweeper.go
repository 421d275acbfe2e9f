// Package sweeper closes expired polls on a fixed interval so that polls
// nobody is looking at still transition to closed.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"pollcast/internal/poll/metrics"
)

const defaultInterval = 60 * time.Second

// Expirer closes every expired active poll and reports how many it closed.
type Expirer interface {
	CloseExpired(ctx context.Context) (int, error)
}

// Sweeper runs Expirer.CloseExpired on a ticker.
type Sweeper struct {
	expirer  Expirer
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Sweeper)

// WithInterval sets the sweep period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

// New creates a sweeper with a 60s default interval.
func New(expirer Expirer, opts ...Option) *Sweeper {
	s := &Sweeper{
		expirer:  expirer,
		interval: defaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Interval returns the configured sweep period.
func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// Run sweeps once immediately and then on every tick until ctx is
// cancelled. Sweep errors are logged and never stop the loop.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "expiry sweeper started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.SweepOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "expiry sweeper stopped")
			return nil
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single pass and returns the number of polls closed.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	start := time.Now()
	defer s.metrics.ObserveSweep(start)

	closed, err := s.expirer.CloseExpired(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return closed
		}
		s.logger.ErrorContext(ctx, "expiry sweep failed",
			"closed", closed,
			"error", err,
		)
	}
	if closed > 0 {
		s.logger.InfoContext(ctx, "closed expired polls", "count", closed)
	}
	return closed
}
