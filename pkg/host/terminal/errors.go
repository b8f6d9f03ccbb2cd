package terminal

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g. Ctrl+C).
	ErrAborted = errors.New("terminal: aborted")
	// ErrTooManyAttempts is returned when the retry limit is reached with
	// fields still flagged.
	ErrTooManyAttempts = errors.New("terminal: too many attempts")
)
