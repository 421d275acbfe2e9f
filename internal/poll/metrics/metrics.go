package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the poll module.
// Tracks lifecycle transitions, the vote path, and result fanout.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	PollsCreated     prometheus.Counter
	PollsClosed      *prometheus.CounterVec
	VotesCast        prometheus.Counter
	VotesRejected    *prometheus.CounterVec
	CastVoteDuration prometheus.Histogram
	BroadcastDropped prometheus.Counter
	Subscribers      prometheus.Gauge
	RelayFailures    prometheus.Counter
	SweepDuration    prometheus.Histogram
}

// New registers the poll metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PollsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollcast_polls_created_total",
			Help: "Total number of polls created",
		}),
		PollsClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pollcast_polls_closed_total",
			Help: "Total number of polls closed, by reason (manual, expired)",
		}, []string{"reason"}),
		VotesCast: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollcast_votes_cast_total",
			Help: "Total number of accepted votes",
		}),
		VotesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pollcast_votes_rejected_total",
			Help: "Total number of rejected votes, by error code",
		}, []string{"reason"}),
		CastVoteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pollcast_cast_vote_duration_seconds",
			Help:    "Duration of CastVote operations (vote critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		BroadcastDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollcast_broadcast_dropped_total",
			Help: "Results updates dropped because a subscriber buffer was full",
		}),
		Subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pollcast_subscribers",
			Help: "Current number of live results subscribers",
		}),
		RelayFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollcast_relay_failures_total",
			Help: "Results updates that could not be relayed to Redis",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pollcast_sweep_duration_seconds",
			Help:    "Duration of expiry sweep passes",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// IncrementPollsCreated records a successful poll creation.
func (m *Metrics) IncrementPollsCreated() {
	if m == nil {
		return
	}
	m.PollsCreated.Inc()
}

// IncrementPollsClosed records a close transition.
func (m *Metrics) IncrementPollsClosed(reason string) {
	if m == nil {
		return
	}
	m.PollsClosed.WithLabelValues(reason).Inc()
}

// IncrementVotesCast records an accepted vote.
func (m *Metrics) IncrementVotesCast() {
	if m == nil {
		return
	}
	m.VotesCast.Inc()
}

// IncrementVotesRejected records a rejected vote by error code.
func (m *Metrics) IncrementVotesRejected(reason string) {
	if m == nil {
		return
	}
	m.VotesRejected.WithLabelValues(reason).Inc()
}

// ObserveCastVote records the duration of a CastVote operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCastVote(start time.Time) {
	if m == nil {
		return
	}
	m.CastVoteDuration.Observe(time.Since(start).Seconds())
}

// AddBroadcastDropped records updates evicted from full subscriber buffers.
func (m *Metrics) AddBroadcastDropped(n int) {
	if m == nil {
		return
	}
	m.BroadcastDropped.Add(float64(n))
}

// AddSubscribers adjusts the live subscriber gauge by delta.
func (m *Metrics) AddSubscribers(delta float64) {
	if m == nil {
		return
	}
	m.Subscribers.Add(delta)
}

// IncrementRelayFailures records a failed or shed relay publish.
func (m *Metrics) IncrementRelayFailures() {
	if m == nil {
		return
	}
	m.RelayFailures.Inc()
}

// ObserveSweep records the duration of a sweep pass.
func (m *Metrics) ObserveSweep(start time.Time) {
	if m == nil {
		return
	}
	m.SweepDuration.Observe(time.Since(start).Seconds())
}
