package service

import (
	"context"

	"pollcast/internal/poll/models"
	dErrors "pollcast/pkg/domain-errors"
)

// Aggregator computes results from the current vote set. Nothing is cached.
type Aggregator struct {
	deps *deps
}

// Results tallies the poll's votes per option, in poll order.
func (a *Aggregator) Results(ctx context.Context, pollID string) (*models.Results, error) {
	poll, err := a.deps.store.GetPoll(ctx, pollID)
	if err != nil {
		return nil, storeError(err, "poll not found", "failed to load poll")
	}
	votes, err := a.deps.store.ListVotesForPoll(ctx, pollID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load votes")
	}
	return models.Tally(poll, votes), nil
}
