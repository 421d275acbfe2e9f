package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pollcast/internal/poll/models"
)

// optionalTime distinguishes an absent field from an explicit null or "".
type optionalTime struct {
	Set   bool
	Value *time.Time
}

// Layouts accepted for closingTime, most specific first. Zone-less values,
// such as those produced by datetime-local inputs, are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func (t *optionalTime) UnmarshalJSON(data []byte) error {
	t.Set = true
	t.Value = nil
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("closingTime must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Value = &parsed
			return nil
		}
	}
	return fmt.Errorf("closingTime %q is not a valid timestamp", raw)
}

type createPollRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Options     []string     `json:"options"`
	PollType    string       `json:"pollType"`
	IsAnonymous bool         `json:"isAnonymous"`
	ClosingTime optionalTime `json:"closingTime"`
	CreatedBy   string       `json:"createdBy"`
}

func (r *createPollRequest) toDraft() models.PollDraft {
	return models.PollDraft{
		Title:       r.Title,
		Description: r.Description,
		Options:     r.Options,
		PollType:    models.PollType(strings.ToLower(r.PollType)),
		IsAnonymous: r.IsAnonymous,
		ClosingTime: r.ClosingTime.Value,
		CreatedBy:   r.CreatedBy,
	}
}

type updatePollRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Options     []string     `json:"options"`
	PollType    *string      `json:"pollType"`
	IsAnonymous *bool        `json:"isAnonymous"`
	ClosingTime optionalTime `json:"closingTime"`
	IsActive    *bool        `json:"isActive"`
}

func (r *updatePollRequest) toUpdate() models.PollUpdate {
	u := models.PollUpdate{
		Title:       r.Title,
		Description: r.Description,
		Options:     r.Options,
		IsAnonymous: r.IsAnonymous,
		IsActive:    r.IsActive,
	}
	if r.PollType != nil {
		pt := models.PollType(strings.ToLower(*r.PollType))
		u.PollType = &pt
	}
	if r.ClosingTime.Set {
		if r.ClosingTime.Value == nil {
			u.ClearClosingTime = true
		} else {
			u.ClosingTime = r.ClosingTime.Value
		}
	}
	return u
}

type castVoteRequest struct {
	PollID          string   `json:"pollId"`
	VoterID         string   `json:"voterId"`
	VoterName       *string  `json:"voterName"`
	VoterEmail      *string  `json:"voterEmail"`
	SelectedOptions []string `json:"selectedOptions"`
	IPAddress       *string  `json:"ipAddress"`
}

func (r *castVoteRequest) toModel(clientIP string) models.CastVoteRequest {
	ip := r.IPAddress
	if (ip == nil || *ip == "") && clientIP != "" {
		ip = &clientIP
	}
	return models.CastVoteRequest{
		PollID:          r.PollID,
		VoterID:         r.VoterID,
		VoterName:       r.VoterName,
		VoterEmail:      r.VoterEmail,
		SelectedOptions: r.SelectedOptions,
		IPAddress:       ip,
	}
}

type voteResponse struct {
	Message string          `json:"message"`
	Vote    *models.Vote    `json:"vote"`
	Results *models.Results `json:"results,omitempty"`
}

type checkVotedResponse struct {
	HasVoted bool `json:"hasVoted"`
}

type messageResponse struct {
	Message string `json:"message"`
}
