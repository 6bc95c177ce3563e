package server

import "errors"

var (
	// ErrSessionClosed is returned when writing to a closed session.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrNoRouter is returned by New when Options.Router is nil.
	ErrNoRouter = errors.New("server: router is required")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("server: already running")
)
