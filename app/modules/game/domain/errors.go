package gamedomain

import (
	"errors"
	"fmt"
)

// ErrUnknownGame is returned for a game type outside the closed set.
var ErrUnknownGame = errors.New("unknown game type")

// MoveErrorKind classifies a rejected move.
type MoveErrorKind string

const (
	KindNotYourTurn  MoveErrorKind = "not_your_turn"
	KindGameOver     MoveErrorKind = "game_over"
	KindWrongGame    MoveErrorKind = "wrong_game"
	KindOutOfBounds  MoveErrorKind = "out_of_bounds"
	KindColumnFull   MoveErrorKind = "column_full"
	KindIllegalMove  MoveErrorKind = "illegal_move"
	KindWrongPiece   MoveErrorKind = "wrong_piece"
	KindIllegalBlock MoveErrorKind = "illegal_block"
	KindSameCell     MoveErrorKind = "same_cell"
)

// MoveError is a rule violation. The prior state stays valid.
type MoveError struct {
	Kind   MoveErrorKind
	Detail string
}

func (e *MoveError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("move rejected: %s", e.Kind)
	}
	return fmt.Sprintf("move rejected: %s: %s", e.Kind, e.Detail)
}

// Is matches any MoveError of the same kind, so errors.Is(err, ErrColumnFull) works.
func (e *MoveError) Is(target error) bool {
	t, ok := target.(*MoveError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotYourTurn  = &MoveError{Kind: KindNotYourTurn}
	ErrGameOver     = &MoveError{Kind: KindGameOver}
	ErrWrongGame    = &MoveError{Kind: KindWrongGame}
	ErrOutOfBounds  = &MoveError{Kind: KindOutOfBounds}
	ErrColumnFull   = &MoveError{Kind: KindColumnFull}
	ErrIllegalMove  = &MoveError{Kind: KindIllegalMove}
	ErrWrongPiece   = &MoveError{Kind: KindWrongPiece}
	ErrIllegalBlock = &MoveError{Kind: KindIllegalBlock}
	ErrSameCell     = &MoveError{Kind: KindSameCell}
)

func newMoveError(kind MoveErrorKind, format string, args ...any) *MoveError {
	return &MoveError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// IsMoveError reports whether err is a rule violation of any kind.
func IsMoveError(err error) bool {
	var me *MoveError
	return errors.As(err, &me)
}
