// Package storetest holds the behavioural suite every poll store backend
// must pass.
package storetest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pollcast/internal/poll/models"
	"pollcast/internal/poll/service"
	"pollcast/pkg/platform/sentinel"
)

// Suite exercises a service.Store. Embed it and set NewStore, which must
// return an empty store for each test.
type Suite struct {
	suite.Suite
	NewStore func() service.Store

	store service.Store
}

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.NewStore, "NewStore must be set")
	s.store = s.NewStore()
}

func ptr[T any](v T) *T { return &v }

func (s *Suite) createPoll(title string, opts ...func(*models.PollDraft)) *models.Poll {
	d := models.PollDraft{Title: title, Options: []string{"Red", "Green", "Blue"}}
	for _, o := range opts {
		o(&d)
	}
	p, err := s.store.CreatePoll(context.Background(), d.Normalize())
	s.Require().NoError(err)
	return p
}

func (s *Suite) vote(pollID, voterID string, options ...string) (*models.Vote, error) {
	return s.store.CreateVote(context.Background(), models.VoteDraft{
		PollID:          pollID,
		VoterID:         voterID,
		SelectedOptions: options,
	})
}

func (s *Suite) TestCreateAndGetRoundTrip() {
	ctx := context.Background()
	closing := time.Now().Add(time.Hour)
	created := s.createPoll("Favourite colour", func(d *models.PollDraft) {
		d.Description = "pick one"
		d.PollType = models.PollTypeMulti
		d.IsAnonymous = true
		d.ClosingTime = &closing
	})

	got, err := s.store.GetPoll(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal([]string{"Red", "Green", "Blue"}, got.Options)
	s.Equal(models.PollTypeMulti, got.PollType)
	s.True(got.IsActive)
	s.True(got.IsAnonymous)
	s.Equal(models.DefaultCreatedBy, got.CreatedBy)
	s.False(got.CreatedAt.IsZero())
	s.True(created.CreatedAt.Equal(got.CreatedAt))
	s.Require().NotNil(got.ClosingTime)
	s.True(models.Timestamp(closing).Equal(*got.ClosingTime))
}

func (s *Suite) TestGetMissingPoll() {
	_, err := s.store.GetPoll(context.Background(), uuid.NewString())
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *Suite) TestReturnedPollsAreCopies() {
	ctx := context.Background()
	p := s.createPoll("copy")
	p.Options[0] = "mutated"

	got, err := s.store.GetPoll(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Red", got.Options[0])
}

func (s *Suite) TestListOrderingAndActiveFilter() {
	ctx := context.Background()
	first := s.createPoll("first")
	second := s.createPoll("second")
	third := s.createPoll("third")

	_, err := s.store.UpdatePoll(ctx, second.ID, models.PollUpdate{IsActive: ptr(false)})
	s.Require().NoError(err)

	all, err := s.store.ListAllPolls(ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
	s.assertNewestFirst(all)

	active, err := s.store.ListActivePolls(ctx)
	s.Require().NoError(err)
	s.Len(active, 2)
	s.assertNewestFirst(active)
	ids := []string{active[0].ID, active[1].ID}
	s.ElementsMatch([]string{first.ID, third.ID}, ids)
}

func (s *Suite) assertNewestFirst(polls []*models.Poll) {
	for i := 1; i < len(polls); i++ {
		prev, cur := polls[i-1], polls[i]
		if prev.CreatedAt.Equal(cur.CreatedAt) {
			s.Greater(prev.ID, cur.ID)
			continue
		}
		s.True(prev.CreatedAt.After(cur.CreatedAt))
	}
}

func (s *Suite) TestUpdateMergesPresentFields() {
	ctx := context.Background()
	p := s.createPoll("before", func(d *models.PollDraft) { d.Description = "keep me" })

	updated, err := s.store.UpdatePoll(ctx, p.ID, models.PollUpdate{
		Title:   ptr("after"),
		Options: []string{"Yes", "No"},
	})
	s.Require().NoError(err)
	s.Equal("after", updated.Title)
	s.Equal("keep me", updated.Description)
	s.Equal([]string{"Yes", "No"}, updated.Options)
	s.True(updated.IsActive)

	got, err := s.store.GetPoll(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(updated.Title, got.Title)
	s.Equal(updated.Options, got.Options)
}

func (s *Suite) TestUpdateMissingPoll() {
	_, err := s.store.UpdatePoll(context.Background(), uuid.NewString(), models.PollUpdate{Title: ptr("x")})
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *Suite) TestDeletePoll() {
	ctx := context.Background()
	p := s.createPoll("doomed")

	deleted, err := s.store.DeletePoll(ctx, p.ID)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.store.DeletePoll(ctx, p.ID)
	s.Require().NoError(err)
	s.False(deleted)

	_, err = s.store.GetPoll(ctx, p.ID)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *Suite) TestDeletePollRemovesItsVotes() {
	ctx := context.Background()
	p := s.createPoll("cascade")
	_, err := s.store.CreateVote(ctx, models.VoteDraft{PollID: p.ID, VoterID: "alice", SelectedOptions: []string{"a"}})
	s.Require().NoError(err)

	deleted, err := s.store.DeletePoll(ctx, p.ID)
	s.Require().NoError(err)
	s.True(deleted)

	votes, err := s.store.ListVotesForPoll(ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(votes)
	voted, err := s.store.HasVoted(ctx, p.ID, "alice")
	s.Require().NoError(err)
	s.False(voted)
}

func (s *Suite) TestVotesRoundTripInOrder() {
	ctx := context.Background()
	p := s.createPoll("votes")

	first, err := s.store.CreateVote(ctx, models.VoteDraft{
		PollID:          p.ID,
		VoterID:         "alice",
		VoterName:       ptr("Alice"),
		VoterEmail:      ptr("alice@example.com"),
		SelectedOptions: []string{"Red", "Blue"},
		IPAddress:       ptr("10.0.0.1"),
	})
	s.Require().NoError(err)
	_, err = s.vote(p.ID, "bob", "Green")
	s.Require().NoError(err)

	votes, err := s.store.ListVotesForPoll(ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(votes, 2)
	for i := 1; i < len(votes); i++ {
		s.False(votes[i].VotedAt.Before(votes[i-1].VotedAt))
	}

	var alice *models.Vote
	for _, v := range votes {
		if v.VoterID == "alice" {
			alice = v
		}
	}
	s.Require().NotNil(alice)
	s.Equal(first.ID, alice.ID)
	s.Equal([]string{"Red", "Blue"}, alice.SelectedOptions)
	s.Equal("Alice", *alice.VoterName)
	s.Equal("alice@example.com", *alice.VoterEmail)
	s.Equal("10.0.0.1", *alice.IPAddress)
	s.True(first.VotedAt.Equal(alice.VotedAt))

	voted, err := s.store.HasVoted(ctx, p.ID, "alice")
	s.Require().NoError(err)
	s.True(voted)
	voted, err = s.store.HasVoted(ctx, p.ID, "carol")
	s.Require().NoError(err)
	s.False(voted)
}

func (s *Suite) TestDuplicateVoteRejected() {
	p := s.createPoll("dup")
	_, err := s.vote(p.ID, "alice", "Red")
	s.Require().NoError(err)

	_, err = s.vote(p.ID, "alice", "Green")
	s.True(errors.Is(err, sentinel.ErrAlreadyUsed))

	votes, err := s.store.ListVotesForPoll(context.Background(), p.ID)
	s.Require().NoError(err)
	s.Len(votes, 1)
}

func (s *Suite) TestSameVoterAcrossPolls() {
	a := s.createPoll("a")
	b := s.createPoll("b")
	_, err := s.vote(a.ID, "alice", "Red")
	s.Require().NoError(err)
	_, err = s.vote(b.ID, "alice", "Red")
	s.NoError(err)
}

func (s *Suite) TestVoteOnInactiveOrMissingPoll() {
	ctx := context.Background()
	p := s.createPoll("closed")
	_, err := s.store.UpdatePoll(ctx, p.ID, models.PollUpdate{IsActive: ptr(false)})
	s.Require().NoError(err)

	_, err = s.vote(p.ID, "alice", "Red")
	s.True(errors.Is(err, sentinel.ErrInvalidState))

	_, err = s.vote(uuid.NewString(), "alice", "Red")
	s.True(errors.Is(err, sentinel.ErrInvalidState))
}

func (s *Suite) TestConcurrentVotesSameVoter() {
	p := s.createPoll("race")
	const goroutines = 25

	var wg sync.WaitGroup
	var successCount, duplicateCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.vote(p.ID, "same-voter", "Red")
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				duplicateCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one vote should be recorded")
	s.Equal(int32(goroutines-1), duplicateCount.Load())
}

func (s *Suite) TestDeleteVotesForPoll() {
	ctx := context.Background()
	p := s.createPoll("cleanup")
	for _, voter := range []string{"a", "b", "c"} {
		_, err := s.vote(p.ID, voter, "Red")
		s.Require().NoError(err)
	}

	s.Require().NoError(s.store.DeleteVotesForPoll(ctx, p.ID))

	votes, err := s.store.ListVotesForPoll(ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(votes)
	voted, err := s.store.HasVoted(ctx, p.ID, "a")
	s.Require().NoError(err)
	s.False(voted)
}

func (s *Suite) TestRunInTxCommits() {
	ctx := context.Background()
	p := s.createPoll("tx")
	_, err := s.vote(p.ID, "alice", "Red")
	s.Require().NoError(err)

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.DeleteVotesForPoll(ctx, p.ID); err != nil {
			return err
		}
		_, err := s.store.DeletePoll(ctx, p.ID)
		return err
	})
	s.Require().NoError(err)

	_, err = s.store.GetPoll(ctx, p.ID)
	s.True(errors.Is(err, sentinel.ErrNotFound))
	votes, err := s.store.ListVotesForPoll(ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(votes)
}
