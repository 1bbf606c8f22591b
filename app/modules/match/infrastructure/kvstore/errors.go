package matchkv

import "errors"

var (
	// ErrNotFound is returned when no session exists for a match.
	ErrNotFound = errors.New("session not found")
	// ErrExists is returned by Create when the match already has a session.
	ErrExists = errors.New("session already exists")
	// ErrConcurrentUpdate is returned when the session changed since it was read.
	ErrConcurrentUpdate = errors.New("session was updated concurrently")
)
