//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"pollcast/internal/poll/models"
	"pollcast/internal/poll/service"
	"pollcast/internal/poll/store"
	"pollcast/internal/poll/store/storetest"
	"pollcast/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	storetest.Suite
	postgres *containers.PostgresContainer
	pg       *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	s := &PostgresStoreSuite{}
	s.NewStore = func() service.Store {
		err := s.postgres.TruncateTables(context.Background(), "votes", "polls")
		s.Require().NoError(err)
		return s.pg
	}
	suite.Run(t, s)
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(store.CreateSchema(context.Background(), s.postgres.DB))
	s.pg = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) TestCreateSchemaIsIdempotent() {
	s.NoError(store.CreateSchema(context.Background(), s.postgres.DB))
}

// TestRunInTxRollsBack verifies a failing transaction body leaves no writes.
func (s *PostgresStoreSuite) TestRunInTxRollsBack() {
	ctx := context.Background()
	p, err := s.pg.CreatePoll(ctx, models.PollDraft{Title: "tx", Options: []string{"a", "b"}}.Normalize())
	s.Require().NoError(err)
	title := "changed"
	boom := errors.New("boom")

	err = s.pg.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.pg.UpdatePoll(ctx, p.ID, models.PollUpdate{Title: &title}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.pg.GetPoll(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("tx", got.Title)
}

// TestDeletingPollCascadesVotes verifies the foreign key removes orphaned votes.
func (s *PostgresStoreSuite) TestDeletingPollCascadesVotes() {
	ctx := context.Background()
	p, err := s.pg.CreatePoll(ctx, models.PollDraft{Title: "cascade", Options: []string{"a", "b"}}.Normalize())
	s.Require().NoError(err)
	_, err = s.pg.CreateVote(ctx, models.VoteDraft{PollID: p.ID, VoterID: "v", SelectedOptions: []string{"a"}})
	s.Require().NoError(err)

	deleted, err := s.pg.DeletePoll(ctx, p.ID)
	s.Require().NoError(err)
	s.True(deleted)

	var n int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE poll_id = $1`, p.ID).Scan(&n))
	s.Zero(n)
}
