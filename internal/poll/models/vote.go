package models

import (
	"slices"
	"time"
)

// Vote is one voter's immutable selection in a poll.
type Vote struct {
	ID              string    `json:"id"`
	PollID          string    `json:"pollId"`
	VoterID         string    `json:"voterId"`
	VoterName       *string   `json:"voterName,omitempty"`
	VoterEmail      *string   `json:"voterEmail,omitempty"`
	SelectedOptions []string  `json:"selectedOptions"`
	VotedAt         time.Time `json:"votedAt"`
	IPAddress       *string   `json:"ipAddress,omitempty"`
}

// Clone returns a deep copy of the vote.
func (v *Vote) Clone() *Vote {
	if v == nil {
		return nil
	}
	cp := *v
	cp.SelectedOptions = slices.Clone(v.SelectedOptions)
	cp.VoterName = cloneString(v.VoterName)
	cp.VoterEmail = cloneString(v.VoterEmail)
	cp.IPAddress = cloneString(v.IPAddress)
	return &cp
}

// Selects reports whether the vote includes option.
func (v *Vote) Selects(option string) bool {
	return slices.Contains(v.SelectedOptions, option)
}

// VoteDraft is a validated vote ready to be recorded.
type VoteDraft struct {
	PollID          string
	VoterID         string
	VoterName       *string
	VoterEmail      *string
	SelectedOptions []string
	IPAddress       *string
}

// NewVote stamps a draft with its id and record time.
func NewVote(id string, d VoteDraft, votedAt time.Time) *Vote {
	return &Vote{
		ID:              id,
		PollID:          d.PollID,
		VoterID:         d.VoterID,
		VoterName:       cloneString(d.VoterName),
		VoterEmail:      cloneString(d.VoterEmail),
		SelectedOptions: slices.Clone(d.SelectedOptions),
		VotedAt:         Timestamp(votedAt),
		IPAddress:       cloneString(d.IPAddress),
	}
}

// CastVoteRequest is the input of a vote submission.
type CastVoteRequest struct {
	PollID          string
	VoterID         string
	VoterName       *string
	VoterEmail      *string
	SelectedOptions []string
	IPAddress       *string
}

// VoteReceipt is returned for an accepted vote.
type VoteReceipt struct {
	Vote    *Vote    `json:"vote"`
	Results *Results `json:"results"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
