package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"pollcast/internal/poll/models"
	dErrors "pollcast/pkg/domain-errors"
	"pollcast/pkg/requestcontext"
)

const (
	closeReasonManual  = "manual"
	closeReasonExpired = "expired"

	dashboardConcurrency = 8
)

// Lifecycle owns poll creation, edits, and the active to closed transition.
type Lifecycle struct {
	deps *deps
}

// CreatePoll validates the draft and stores a new active poll.
func (l *Lifecycle) CreatePoll(ctx context.Context, draft models.PollDraft) (*models.Poll, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	p, err := l.deps.store.CreatePoll(ctx, draft)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create poll")
	}
	l.deps.metrics.IncrementPollsCreated()
	l.deps.logger.InfoContext(ctx, "poll created",
		"poll_id", p.ID,
		"poll_type", p.PollType,
		"options", len(p.Options),
		"request_id", requestcontext.RequestID(ctx),
	)
	return p, nil
}

// GetPoll returns a poll regardless of state.
func (l *Lifecycle) GetPoll(ctx context.Context, id string) (*models.Poll, error) {
	p, err := l.deps.store.GetPoll(ctx, id)
	if err != nil {
		return nil, storeError(err, "poll not found", "failed to load poll")
	}
	return p, nil
}

// ListPolls returns the active polls, closing and omitting any whose
// closing time has passed.
func (l *Lifecycle) ListPolls(ctx context.Context) ([]*models.Poll, error) {
	polls, err := l.deps.store.ListActivePolls(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list polls")
	}
	out := make([]*models.Poll, 0, len(polls))
	for _, p := range polls {
		if p.IsExpired(l.deps.now(ctx)) {
			if _, err := l.closePoll(ctx, p.ID, closeReasonExpired); err != nil {
				l.deps.logger.WarnContext(ctx, "failed to close expired poll",
					"poll_id", p.ID,
					"error", err,
				)
			}
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ListAllPolls returns every poll, including closed ones.
func (l *Lifecycle) ListAllPolls(ctx context.Context) ([]*models.Poll, error) {
	polls, err := l.deps.store.ListAllPolls(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list polls")
	}
	return polls, nil
}

// UpdatePoll merges the present fields into the poll. Closed polls cannot be
// reopened; isActive=false is a close.
func (l *Lifecycle) UpdatePoll(ctx context.Context, id string, update models.PollUpdate) (*models.Poll, error) {
	update = update.Normalize()
	if err := update.Validate(); err != nil {
		return nil, err
	}

	current, err := l.GetPoll(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.IsActive != nil && *update.IsActive {
		if !current.IsActive {
			return nil, dErrors.New(dErrors.CodeValidation, "closed polls cannot be reopened")
		}
		update.IsActive = nil
	}
	if update.IsEmpty() {
		return current, nil
	}

	p, err := l.deps.store.UpdatePoll(ctx, id, update)
	if err != nil {
		return nil, storeError(err, "poll not found", "failed to update poll")
	}
	if current.IsActive && !p.IsActive {
		l.deps.metrics.IncrementPollsClosed(closeReasonManual)
	}
	l.deps.logger.InfoContext(ctx, "poll updated",
		"poll_id", id,
		"request_id", requestcontext.RequestID(ctx),
	)
	return p, nil
}

// ClosePoll stops a poll from accepting votes. Closing a closed poll returns
// it unchanged.
func (l *Lifecycle) ClosePoll(ctx context.Context, id string) (*models.Poll, error) {
	return l.closePoll(ctx, id, closeReasonManual)
}

func (l *Lifecycle) closePoll(ctx context.Context, id, reason string) (*models.Poll, error) {
	current, err := l.GetPoll(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsActive {
		return current, nil
	}

	inactive := false
	p, err := l.deps.store.UpdatePoll(ctx, id, models.PollUpdate{IsActive: &inactive})
	if err != nil {
		return nil, storeError(err, "poll not found", "failed to close poll")
	}
	l.deps.metrics.IncrementPollsClosed(reason)
	l.deps.logger.InfoContext(ctx, "poll closed",
		"poll_id", id,
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	return p, nil
}

// expireIfDue closes p when its closing time has passed and reports whether
// it was due. A failed close is returned alongside expired=true.
func (l *Lifecycle) expireIfDue(ctx context.Context, p *models.Poll) (bool, error) {
	if !p.IsActive || !p.IsExpired(l.deps.now(ctx)) {
		return false, nil
	}
	if _, err := l.closePoll(ctx, p.ID, closeReasonExpired); err != nil {
		return true, err
	}
	return true, nil
}

// CloseExpired closes every active poll whose closing time has passed. It
// keeps going past individual failures and returns them joined.
func (l *Lifecycle) CloseExpired(ctx context.Context) (int, error) {
	polls, err := l.deps.store.ListActivePolls(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list polls")
	}

	closed := 0
	var errs []error
	for _, p := range polls {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		expired, err := l.expireIfDue(ctx, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("close poll %s: %w", p.ID, err))
			continue
		}
		if expired {
			closed++
		}
	}
	return closed, errors.Join(errs...)
}

// DeletePoll removes a poll and all of its votes as one unit.
func (l *Lifecycle) DeletePoll(ctx context.Context, id string) error {
	err := l.deps.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := l.deps.store.GetPoll(ctx, id); err != nil {
			return storeError(err, "poll not found", "failed to load poll")
		}
		if err := l.deps.store.DeleteVotesForPoll(ctx, id); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to delete votes")
		}
		deleted, err := l.deps.store.DeletePoll(ctx, id)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to delete poll")
		}
		if !deleted {
			return dErrors.New(dErrors.CodeNotFound, "poll not found")
		}
		return nil
	})
	if err != nil {
		if _, ok := dErrors.As(err); !ok {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to delete poll")
		}
		return err
	}
	l.deps.logger.InfoContext(ctx, "poll deleted",
		"poll_id", id,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// ListDashboardPolls returns every poll with its vote count and expiry flag.
func (l *Lifecycle) ListDashboardPolls(ctx context.Context) ([]*models.DashboardPoll, error) {
	polls, err := l.ListAllPolls(ctx)
	if err != nil {
		return nil, err
	}

	now := l.deps.now(ctx)
	out := make([]*models.DashboardPoll, len(polls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)
	for i, p := range polls {
		i, p := i, p
		g.Go(func() error {
			votes, err := l.deps.store.ListVotesForPoll(gctx, p.ID)
			if err != nil {
				return fmt.Errorf("count votes for poll %s: %w", p.ID, err)
			}
			out[i] = &models.DashboardPoll{
				Poll:       *p,
				TotalVotes: len(votes),
				IsExpired:  p.IsExpired(now),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.deps.logger.ErrorContext(ctx, "dashboard vote counts failed", slog.Any("error", err))
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load dashboard")
	}
	return out, nil
}
