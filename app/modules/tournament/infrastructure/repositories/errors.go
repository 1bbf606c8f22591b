package tournamentdb

import "errors"

var (
	// ErrNotFound indicates the tournament row does not exist.
	ErrNotFound = errors.New("tournament not found")

	// ErrVersionConflict means the row changed since it was read. The caller
	// holds a stale copy and must reload.
	ErrVersionConflict = errors.New("tournament version conflict")
)
