package model

import "errors"

// Domain sentinel errors. Callers branch on these with errors.Is; handler
// layers map them to the client-facing error payloads.
var (
	ErrEmptyUserID       = errors.New("userId cannot be empty")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrMatchNotFound     = errors.New("match not found")
	ErrNotParticipant    = errors.New("user is not a participant of this match")
	ErrMatchNotActive    = errors.New("match is not in progress")
	ErrRoundClosed       = errors.New("round is already closed")
)
