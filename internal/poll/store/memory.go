package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pollcast/internal/poll/models"
	"pollcast/pkg/platform/sentinel"
)

// InMemory keeps polls and votes in process memory. It never hands out
// pointers into its own maps.
type InMemory struct {
	mu     sync.RWMutex
	polls  map[string]*models.Poll
	votes  map[string][]*models.Vote
	voters map[voterKey]struct{}

	// txMu serializes RunInTx bodies.
	txMu sync.Mutex

	clock func() time.Time
	newID func() string
}

type voterKey struct {
	pollID  string
	voterID string
}

// Option configures an InMemory store.
type Option func(*InMemory)

// WithClock overrides the clock used for createdAt and votedAt.
func WithClock(clock func() time.Time) Option {
	return func(s *InMemory) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides uuid generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *InMemory) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewInMemory creates an empty in-memory store.
func NewInMemory(opts ...Option) *InMemory {
	s := &InMemory{
		polls:  make(map[string]*models.Poll),
		votes:  make(map[string][]*models.Vote),
		voters: make(map[voterKey]struct{}),
		clock:  time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *InMemory) GetPoll(ctx context.Context, id string) (*models.Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.polls[id]
	if !ok {
		return nil, fmt.Errorf("poll %s: %w", id, sentinel.ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *InMemory) ListActivePolls(ctx context.Context) ([]*models.Poll, error) {
	return s.listPolls(ctx, true)
}

func (s *InMemory) ListAllPolls(ctx context.Context) ([]*models.Poll, error) {
	return s.listPolls(ctx, false)
}

func (s *InMemory) listPolls(ctx context.Context, activeOnly bool) ([]*models.Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]*models.Poll, 0, len(s.polls))
	for _, p := range s.polls {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, comparePolls)
	return out, nil
}

// comparePolls orders newest first, ties broken by id descending.
func comparePolls(a, b *models.Poll) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(b.ID, a.ID)
}

func (s *InMemory) CreatePoll(ctx context.Context, draft models.PollDraft) (*models.Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := models.NewPoll(s.newID(), draft, s.clock())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[p.ID] = p
	return p.Clone(), nil
}

func (s *InMemory) UpdatePoll(ctx context.Context, id string, update models.PollUpdate) (*models.Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.polls[id]
	if !ok {
		return nil, fmt.Errorf("poll %s: %w", id, sentinel.ErrNotFound)
	}
	updated := p.Clone()
	updated.Apply(update)
	s.polls[id] = updated
	return updated.Clone(), nil
}

// DeletePoll removes the poll together with its votes.
func (s *InMemory) DeletePoll(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.polls[id]; !ok {
		return false, nil
	}
	delete(s.polls, id)
	s.dropVotesLocked(id)
	return true, nil
}

func (s *InMemory) ListVotesForPoll(ctx context.Context, pollID string) ([]*models.Vote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	stored := s.votes[pollID]
	out := make([]*models.Vote, 0, len(stored))
	for _, v := range stored {
		out = append(out, v.Clone())
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b *models.Vote) int {
		if c := a.VotedAt.Compare(b.VotedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// CreateVote checks uniqueness and poll state and inserts under one write
// lock, so concurrent casts for the same voter admit exactly one.
func (s *InMemory) CreateVote(ctx context.Context, draft models.VoteDraft) (*models.Vote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.polls[draft.PollID]
	if !ok || !p.IsActive {
		return nil, fmt.Errorf("poll %s not accepting votes: %w", draft.PollID, sentinel.ErrInvalidState)
	}
	key := voterKey{pollID: draft.PollID, voterID: draft.VoterID}
	if _, voted := s.voters[key]; voted {
		return nil, fmt.Errorf("voter %s in poll %s: %w", draft.VoterID, draft.PollID, sentinel.ErrAlreadyUsed)
	}

	v := models.NewVote(s.newID(), draft, s.clock())
	s.votes[draft.PollID] = append(s.votes[draft.PollID], v)
	s.voters[key] = struct{}{}
	return v.Clone(), nil
}

func (s *InMemory) HasVoted(ctx context.Context, pollID, voterID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.voters[voterKey{pollID: pollID, voterID: voterID}]
	return ok, nil
}

func (s *InMemory) DeleteVotesForPoll(ctx context.Context, pollID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropVotesLocked(pollID)
	return nil
}

// dropVotesLocked removes a poll's votes and voter index entries. Callers
// hold mu.
func (s *InMemory) dropVotesLocked(pollID string) {
	for _, v := range s.votes[pollID] {
		delete(s.voters, voterKey{pollID: pollID, voterID: v.VoterID})
	}
	delete(s.votes, pollID)
}

// RunInTx runs fn while holding the transaction lock. Individual operations
// stay atomic through mu; the transaction lock keeps multi-step bodies from
// interleaving with each other.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx)
}
