package session

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("session: aborted")
	// ErrNoFields is returned when a session is built without fields.
	ErrNoFields = errors.New("session: no fields configured")
)
