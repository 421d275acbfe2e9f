package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pollcast/internal/poll/models"
	dErrors "pollcast/pkg/domain-errors"
	"pollcast/pkg/platform/sentinel"
	strutil "pollcast/pkg/platform/strings"
	"pollcast/pkg/requestcontext"
)

var tracer = otel.Tracer("pollcast/internal/poll/service")

// Ledger records votes at most once per (poll, voter).
type Ledger struct {
	deps       *deps
	lifecycle  *Lifecycle
	aggregator *Aggregator
}

// CastVote validates and records a vote, then publishes fresh results.
// Expiry is checked before any other rejection.
func (l *Ledger) CastVote(ctx context.Context, req models.CastVoteRequest) (receipt *models.VoteReceipt, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "poll.CastVote", trace.WithAttributes(
		attribute.String("poll.id", req.PollID),
	))
	defer func() {
		if err != nil {
			code := dErrors.CodeOf(err)
			l.deps.metrics.IncrementVotesRejected(string(code))
			span.SetAttributes(attribute.String("error.code", string(code)))
			span.SetStatus(codes.Error, err.Error())
		} else {
			l.deps.metrics.IncrementVotesCast()
		}
		l.deps.metrics.ObserveCastVote(start)
		span.End()
	}()

	voterID := strings.TrimSpace(req.VoterID)
	if voterID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "voterId is required")
	}

	poll, err := l.lifecycle.GetPoll(ctx, req.PollID)
	if err != nil {
		return nil, err
	}
	if !poll.IsActive {
		return nil, dErrors.New(dErrors.CodePollClosed, "poll is closed")
	}
	if expired, closeErr := l.lifecycle.expireIfDue(ctx, poll); expired {
		if closeErr != nil {
			l.deps.logger.ErrorContext(ctx, "failed to persist poll expiry",
				"poll_id", poll.ID,
				"error", closeErr,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return nil, dErrors.New(dErrors.CodePollExpired, "poll has expired")
	}

	trimmed := strutil.TrimAll(req.SelectedOptions)
	if poll.PollType == models.PollTypeSingle && len(trimmed) > 1 {
		return nil, dErrors.New(dErrors.CodeInvalidSelection, "single choice poll allows only one option")
	}
	selected := strutil.DedupeAndTrim(trimmed)
	if len(selected) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidSelection, "select at least one option")
	}

	voted, err := l.deps.store.HasVoted(ctx, poll.ID, voterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to check vote")
	}
	if voted {
		return nil, dErrors.New(dErrors.CodeDuplicateVote, "you have already voted in this poll")
	}

	draft := models.VoteDraft{
		PollID:          poll.ID,
		VoterID:         voterID,
		VoterName:       optionalText(req.VoterName),
		VoterEmail:      optionalText(req.VoterEmail),
		SelectedOptions: selected,
		IPAddress:       optionalText(req.IPAddress),
	}
	if poll.IsAnonymous {
		draft.VoterName = nil
		draft.VoterEmail = nil
	}

	vote, err := l.deps.store.CreateVote(ctx, draft)
	switch {
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return nil, dErrors.New(dErrors.CodeDuplicateVote, "you have already voted in this poll")
	case errors.Is(err, sentinel.ErrInvalidState):
		return nil, dErrors.New(dErrors.CodePollClosed, "poll is closed")
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to record vote")
	}
	span.SetAttributes(attribute.String("vote.id", vote.ID))

	receipt = &models.VoteReceipt{Vote: vote}
	results, err := l.aggregator.Results(ctx, poll.ID)
	if err != nil {
		// The vote is durable; callers still get their receipt.
		l.deps.logger.WarnContext(ctx, "failed to aggregate results after vote",
			"poll_id", poll.ID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return receipt, nil
	}
	receipt.Results = results

	if l.deps.publisher != nil {
		l.deps.publisher.Publish(models.ResultsUpdate{PollID: poll.ID, Results: results})
	}
	l.deps.logger.InfoContext(ctx, "vote recorded",
		"poll_id", poll.ID,
		"vote_id", vote.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return receipt, nil
}

// CheckVoted reports whether voterID has voted in the poll.
func (l *Ledger) CheckVoted(ctx context.Context, pollID, voterID string) (bool, error) {
	voted, err := l.deps.store.HasVoted(ctx, pollID, strings.TrimSpace(voterID))
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to check vote")
	}
	return voted, nil
}

// ListVotes returns the poll's votes in record order.
func (l *Ledger) ListVotes(ctx context.Context, pollID string) ([]*models.Vote, error) {
	if _, err := l.lifecycle.GetPoll(ctx, pollID); err != nil {
		return nil, err
	}
	votes, err := l.deps.store.ListVotesForPoll(ctx, pollID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list votes")
	}
	return votes, nil
}

// optionalText trims s and treats blank as absent.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
