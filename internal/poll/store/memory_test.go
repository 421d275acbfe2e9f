package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"pollcast/internal/poll/models"
	"pollcast/internal/poll/service"
	"pollcast/internal/poll/store"
	"pollcast/internal/poll/store/storetest"
)

type InMemorySuite struct {
	storetest.Suite
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, &InMemorySuite{Suite: storetest.Suite{
		NewStore: func() service.Store { return store.NewInMemory() },
	}})
}

func TestInMemoryOrderingTieBreak(t *testing.T) {
	fixed := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	ids := []string{"b", "c", "a"}
	next := 0
	s := store.NewInMemory(
		store.WithClock(func() time.Time { return fixed }),
		store.WithIDGenerator(func() string { id := ids[next]; next++; return id }),
	)
	ctx := context.Background()
	for range ids {
		_, err := s.CreatePoll(ctx, models.PollDraft{Title: "t", Options: []string{"x", "y"}}.Normalize())
		require.NoError(t, err)
	}

	polls, err := s.ListAllPolls(ctx)
	require.NoError(t, err)
	got := []string{polls[0].ID, polls[1].ID, polls[2].ID}
	assert.Equal(t, []string{"c", "b", "a"}, got)
}

func TestInMemoryRespectsCancelledContext(t *testing.T) {
	s := store.NewInMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListAllPolls(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
