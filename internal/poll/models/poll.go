// Package models defines the poll and vote records shared by the store,
// service, and transport layers.
package models

import (
	"slices"
	"strings"
	"time"

	dErrors "pollcast/pkg/domain-errors"
	strutil "pollcast/pkg/platform/strings"
)

// PollType constrains how many options a single vote may select.
type PollType string

const (
	PollTypeSingle PollType = "single"
	PollTypeMulti  PollType = "multi"
)

// IsValid reports whether t is a known poll type.
func (t PollType) IsValid() bool {
	return t == PollTypeSingle || t == PollTypeMulti
}

// DefaultCreatedBy is recorded when a poll is created without an author.
const DefaultCreatedBy = "anonymous"

// Poll is a question with an ordered set of options that accepts votes
// while active.
type Poll struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Options     []string   `json:"options"`
	PollType    PollType   `json:"pollType"`
	IsAnonymous bool       `json:"isAnonymous"`
	ClosingTime *time.Time `json:"closingTime,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   string     `json:"createdBy"`
}

// IsExpired reports whether now is past the poll's closing time.
func (p *Poll) IsExpired(now time.Time) bool {
	return p.ClosingTime != nil && now.After(*p.ClosingTime)
}

// Clone returns a deep copy so callers never share slices or pointers with
// the owning store.
func (p *Poll) Clone() *Poll {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Options = slices.Clone(p.Options)
	if p.ClosingTime != nil {
		t := *p.ClosingTime
		cp.ClosingTime = &t
	}
	return &cp
}

// Apply merges the non-nil fields of u into the poll. The update must have
// been normalized first.
func (p *Poll) Apply(u PollUpdate) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Options != nil {
		p.Options = slices.Clone(u.Options)
	}
	if u.PollType != nil {
		p.PollType = *u.PollType
	}
	if u.IsAnonymous != nil {
		p.IsAnonymous = *u.IsAnonymous
	}
	if u.ClearClosingTime {
		p.ClosingTime = nil
	} else if u.ClosingTime != nil {
		t := Timestamp(*u.ClosingTime)
		p.ClosingTime = &t
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
}

// PollDraft carries the caller-supplied fields of a new poll.
type PollDraft struct {
	Title       string
	Description string
	Options     []string
	PollType    PollType
	IsAnonymous bool
	ClosingTime *time.Time
	CreatedBy   string
}

// Normalize trims free-text fields and fills defaults.
func (d PollDraft) Normalize() PollDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Options = strutil.TrimAll(d.Options)
	if d.PollType == "" {
		d.PollType = PollTypeSingle
	}
	d.CreatedBy = strings.TrimSpace(d.CreatedBy)
	if d.CreatedBy == "" {
		d.CreatedBy = DefaultCreatedBy
	}
	if d.ClosingTime != nil {
		t := Timestamp(*d.ClosingTime)
		d.ClosingTime = &t
	}
	return d
}

// Validate checks a normalized draft.
func (d PollDraft) Validate() error {
	if d.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if err := validateOptions(d.Options); err != nil {
		return err
	}
	if !d.PollType.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "poll type must be single or multi")
	}
	return nil
}

// NewPoll builds an active poll from a normalized draft.
func NewPoll(id string, d PollDraft, createdAt time.Time) *Poll {
	p := &Poll{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Options:     slices.Clone(d.Options),
		PollType:    d.PollType,
		IsAnonymous: d.IsAnonymous,
		IsActive:    true,
		CreatedAt:   Timestamp(createdAt),
		CreatedBy:   d.CreatedBy,
	}
	if d.ClosingTime != nil {
		t := Timestamp(*d.ClosingTime)
		p.ClosingTime = &t
	}
	return p
}

// PollUpdate is a partial poll mutation. Nil fields are left untouched.
type PollUpdate struct {
	Title       *string
	Description *string
	Options     []string
	PollType    *PollType
	IsAnonymous *bool
	ClosingTime *time.Time
	// ClearClosingTime removes an existing closing time.
	ClearClosingTime bool
	IsActive         *bool
}

// Normalize trims the present text fields.
func (u PollUpdate) Normalize() PollUpdate {
	if u.Title != nil {
		t := strings.TrimSpace(*u.Title)
		u.Title = &t
	}
	if u.Description != nil {
		d := strings.TrimSpace(*u.Description)
		u.Description = &d
	}
	if u.Options != nil {
		u.Options = strutil.TrimAll(u.Options)
	}
	if u.ClosingTime != nil {
		t := Timestamp(*u.ClosingTime)
		u.ClosingTime = &t
	}
	return u
}

// Validate applies the creation rules to the fields that are present.
func (u PollUpdate) Validate() error {
	if u.Title != nil && *u.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if u.Options != nil {
		if err := validateOptions(u.Options); err != nil {
			return err
		}
	}
	if u.PollType != nil && !u.PollType.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "poll type must be single or multi")
	}
	return nil
}

// IsEmpty reports whether the update changes nothing.
func (u PollUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Options == nil &&
		u.PollType == nil && u.IsAnonymous == nil && u.ClosingTime == nil &&
		!u.ClearClosingTime && u.IsActive == nil
}

func validateOptions(options []string) error {
	if len(options) < 2 {
		return dErrors.New(dErrors.CodeValidation, "at least two options are required")
	}
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		if o == "" {
			return dErrors.New(dErrors.CodeValidation, "options must not be empty")
		}
		if _, dup := seen[o]; dup {
			return dErrors.New(dErrors.CodeValidation, "options must be distinct")
		}
		seen[o] = struct{}{}
	}
	return nil
}

// Timestamp normalizes t to UTC with microsecond precision, the resolution
// PostgreSQL stores.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
