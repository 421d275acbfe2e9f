package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pollcast/internal/poll/metrics"
	"pollcast/internal/poll/models"
	dErrors "pollcast/pkg/domain-errors"
	"pollcast/pkg/platform/sentinel"
	"pollcast/pkg/requestcontext"
)

// Store persists polls and votes. Implementations return sentinel errors
// and copies of their records.
type Store interface {
	GetPoll(ctx context.Context, id string) (*models.Poll, error)
	ListActivePolls(ctx context.Context) ([]*models.Poll, error)
	ListAllPolls(ctx context.Context) ([]*models.Poll, error)
	CreatePoll(ctx context.Context, draft models.PollDraft) (*models.Poll, error)
	UpdatePoll(ctx context.Context, id string, update models.PollUpdate) (*models.Poll, error)
	DeletePoll(ctx context.Context, id string) (bool, error)
	ListVotesForPoll(ctx context.Context, pollID string) ([]*models.Vote, error)
	CreateVote(ctx context.Context, draft models.VoteDraft) (*models.Vote, error)
	HasVoted(ctx context.Context, pollID, voterID string) (bool, error)
	DeleteVotesForPoll(ctx context.Context, pollID string) error
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ResultsPublisher receives fresh results after each accepted vote.
// Publish must not block.
type ResultsPublisher interface {
	Publish(update models.ResultsUpdate)
}

// Service is the poll engine: lifecycle, vote ledger, and aggregation over
// one store.
type Service struct {
	*Lifecycle
	*Ledger
	*Aggregator
}

// deps is shared by the three components.
type deps struct {
	store     Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher ResultsPublisher
	clock     func(ctx context.Context) time.Time
}

func (d *deps) now(ctx context.Context) time.Time {
	return d.clock(ctx)
}

type Option func(*deps)

func WithLogger(logger *slog.Logger) Option {
	return func(d *deps) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *deps) {
		d.metrics = m
	}
}

// WithPublisher sets where results are pushed after an accepted vote.
func WithPublisher(p ResultsPublisher) Option {
	return func(d *deps) {
		d.publisher = p
	}
}

// WithClock overrides the expiry clock. Defaults to requestcontext.Now.
func WithClock(clock func(ctx context.Context) time.Time) Option {
	return func(d *deps) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// New constructs a Service over store.
func New(store Store, opts ...Option) *Service {
	d := &deps{
		store:  store,
		logger: slog.Default(),
		clock:  requestcontext.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	lifecycle := &Lifecycle{deps: d}
	aggregator := &Aggregator{deps: d}
	return &Service{
		Lifecycle:  lifecycle,
		Aggregator: aggregator,
		Ledger:     &Ledger{deps: d, lifecycle: lifecycle, aggregator: aggregator},
	}
}

// storeError translates a store failure into a domain error. Missing
// records become not_found; anything else means the store is unavailable.
func storeError(err error, notFoundMsg, failMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, failMsg)
}
