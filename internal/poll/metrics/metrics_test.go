package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementPollsCreated()
	m.IncrementPollsClosed("expired")
	m.IncrementPollsClosed("expired")
	m.IncrementVotesRejected("duplicate_vote")
	m.AddSubscribers(2)
	m.AddSubscribers(-1)
	m.ObserveCastVote(time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PollsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PollsClosed.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VotesRejected.WithLabelValues("duplicate_vote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Subscribers))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CastVoteDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementPollsCreated()
		m.IncrementVotesCast()
		m.AddBroadcastDropped(3)
		m.ObserveSweep(time.Now())
	})
}
