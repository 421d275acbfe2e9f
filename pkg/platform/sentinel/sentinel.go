package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: poll does not exist in the store
//   - ErrAlreadyUsed: the voter already has a vote recorded for the poll
//   - ErrInvalidState: poll is closed or gone at the moment a vote is written
//
// Validation failures (bad input) never use these; see pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
)
