package session

import "errors"

// Sentinel errors for the session package
var (
	ErrInvalidState = errors.New("session: operation not valid in current state")
	ErrNotReady     = errors.New("session: current card has not been revealed")
	ErrClosed       = errors.New("session: session is closed")
)
