package services

import "errors"

// Sentinel errors that handlers map onto the HTTP taxonomy.
var (
	ErrNoSession           = errors.New("no active session found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAlreadyActive       = errors.New("username already logged in")
)
