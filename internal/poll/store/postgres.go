package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pollcast/internal/poll/models"
	"pollcast/pkg/platform/sentinel"
	txcontext "pollcast/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists polls and votes in PostgreSQL.
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
	newID func() string
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresClock sets the clock used for createdAt and votedAt.
func WithPostgresClock(clock func() time.Time) PostgresOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{
		db:    db,
		clock: time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// execer returns the transaction carried by ctx, or the pool.
func (s *PostgresStore) execer(ctx context.Context) txcontext.Executor {
	return txcontext.ExecutorFor(ctx, s.db)
}

// RunInTx runs fn inside a transaction. Nested calls join the outer one.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return txcontext.Run(ctx, s.db, fn)
}

const pollColumns = `id, title, description, options, poll_type, is_anonymous, closing_time, is_active, created_at, created_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (*models.Poll, error) {
	var (
		p       models.Poll
		options []string
		closing sql.NullTime
		kind    string
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, pq.Array(&options), &kind,
		&p.IsAnonymous, &closing, &p.IsActive, &p.CreatedAt, &p.CreatedBy); err != nil {
		return nil, err
	}
	p.Options = options
	p.PollType = models.PollType(kind)
	p.CreatedAt = models.Timestamp(p.CreatedAt)
	if closing.Valid {
		t := models.Timestamp(closing.Time)
		p.ClosingTime = &t
	}
	return &p, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (s *PostgresStore) GetPoll(ctx context.Context, id string) (*models.Poll, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `SELECT `+pollColumns+` FROM polls WHERE id = $1`, id)
	p, err := scanPoll(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("poll %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get poll: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListActivePolls(ctx context.Context) ([]*models.Poll, error) {
	return s.queryPolls(ctx, `SELECT `+pollColumns+` FROM polls WHERE is_active ORDER BY created_at DESC, id DESC`)
}

func (s *PostgresStore) ListAllPolls(ctx context.Context) ([]*models.Poll, error) {
	return s.queryPolls(ctx, `SELECT `+pollColumns+` FROM polls ORDER BY created_at DESC, id DESC`)
}

func (s *PostgresStore) queryPolls(ctx context.Context, query string) ([]*models.Poll, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Poll, 0)
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate polls: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreatePoll(ctx context.Context, draft models.PollDraft) (*models.Poll, error) {
	p := models.NewPoll(s.newID(), draft, s.clock())
	query := `
		INSERT INTO polls (` + pollColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		p.ID, p.Title, p.Description, pq.Array(p.Options), string(p.PollType),
		p.IsAnonymous, nullTime(p.ClosingTime), p.IsActive, p.CreatedAt, p.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}
	return p, nil
}

// UpdatePoll locks the row, merges the update, and writes every column back.
func (s *PostgresStore) UpdatePoll(ctx context.Context, id string, update models.PollUpdate) (*models.Poll, error) {
	var updated *models.Poll
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		row := s.execer(ctx).QueryRowContext(ctx, `SELECT `+pollColumns+` FROM polls WHERE id = $1 FOR UPDATE`, id)
		p, err := scanPoll(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("poll %s: %w", id, sentinel.ErrNotFound)
			}
			return fmt.Errorf("lock poll: %w", err)
		}
		p.Apply(update)
		query := `
			UPDATE polls SET
				title = $2, description = $3, options = $4, poll_type = $5,
				is_anonymous = $6, closing_time = $7, is_active = $8
			WHERE id = $1
		`
		if _, err := s.execer(ctx).ExecContext(ctx, query,
			p.ID, p.Title, p.Description, pq.Array(p.Options), string(p.PollType),
			p.IsAnonymous, nullTime(p.ClosingTime), p.IsActive); err != nil {
			return fmt.Errorf("update poll: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostgresStore) DeletePoll(ctx context.Context, id string) (bool, error) {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete poll rows affected: %w", err)
	}
	return n > 0, nil
}

const voteColumns = `id, poll_id, voter_id, voter_name, voter_email, selected_options, voted_at, ip_address`

func (s *PostgresStore) ListVotesForPoll(ctx context.Context, pollID string) ([]*models.Vote, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+voteColumns+` FROM votes WHERE poll_id = $1 ORDER BY voted_at ASC, id ASC`, pollID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Vote, 0)
	for rows.Next() {
		var (
			v                 models.Vote
			name, email, addr sql.NullString
			selected          []string
		)
		if err := rows.Scan(&v.ID, &v.PollID, &v.VoterID, &name, &email,
			pq.Array(&selected), &v.VotedAt, &addr); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		v.SelectedOptions = selected
		v.VotedAt = models.Timestamp(v.VotedAt)
		v.VoterName = stringPtr(name)
		v.VoterEmail = stringPtr(email)
		v.IPAddress = stringPtr(addr)
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return out, nil
}

// CreateVote inserts only while the poll exists and is active; the unique
// (poll_id, voter_id) constraint settles concurrent casts by the same voter.
func (s *PostgresStore) CreateVote(ctx context.Context, draft models.VoteDraft) (*models.Vote, error) {
	v := models.NewVote(s.newID(), draft, s.clock())
	query := `
		INSERT INTO votes (` + voteColumns + `)
		SELECT $1::text, $2::text, $3::text, $4::text, $5::text, $6::text[], $7::timestamptz, $8::text
		WHERE EXISTS (SELECT 1 FROM polls WHERE id = $2 AND is_active)
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		v.ID, v.PollID, v.VoterID, nullString(v.VoterName), nullString(v.VoterEmail),
		pq.Array(v.SelectedOptions), v.VotedAt, nullString(v.IPAddress))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("voter %s in poll %s: %w", v.VoterID, v.PollID, sentinel.ErrAlreadyUsed)
		}
		return nil, fmt.Errorf("create vote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("create vote rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("poll %s not accepting votes: %w", v.PollID, sentinel.ErrInvalidState)
	}
	return v, nil
}

func (s *PostgresStore) HasVoted(ctx context.Context, pollID, voterID string) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM votes WHERE poll_id = $1 AND voter_id = $2)`, pollID, voterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check voted: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) DeleteVotesForPoll(ctx context.Context, pollID string) error {
	if _, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM votes WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
