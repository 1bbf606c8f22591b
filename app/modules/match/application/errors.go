package matchservice

import "errors"

var (
	// ErrSessionNotFound indicates no live session exists for the match.
	ErrSessionNotFound = errors.New("match session not found")

	// ErrBracketRejected indicates the bracket refused a decided match, for
	// example because it already holds a different winner.
	ErrBracketRejected = errors.New("bracket rejected match result")
)
