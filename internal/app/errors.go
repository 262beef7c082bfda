package app

import "errors"

var (
	// ErrQuit ends the event loop normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning is returned by Run when the loop is active.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoBackend is returned by Run when no backend was set.
	ErrNoBackend = errors.New("no backend")
)

// InitError is a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
