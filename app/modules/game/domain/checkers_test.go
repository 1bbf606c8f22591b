package gamedomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkersWith(mover Seat, pieces map[Coord]Piece) CheckersState {
	var b CheckersBoard
	for c, p := range pieces {
		b[c.Row][c.Col] = p
	}
	return CheckersState{Board: b, Mover: mover, Result: StatusInProgress}
}

func TestCheckers_InitialMoves(t *testing.T) {
	s, err := Checkers{}.NewState(SeatA, Setup{})
	require.NoError(t, err)

	moves := s.(CheckersState).LegalMoves()
	assert.Len(t, moves, 7)
	for _, m := range moves {
		assert.Equal(t, 2, m.From.Row)
		assert.Equal(t, 3, m.To.Row)
		assert.Empty(t, m.Captures)
	}
}

func TestCheckers_DoubleJumpIsOneMove(t *testing.T) {
	s := checkersWith(SeatA, map[Coord]Piece{
		{2, 3}: PieceManA,
		{3, 4}: PieceManB,
		{5, 6}: PieceManB,
		{7, 0}: PieceManB,
	})

	var jumps []CheckersLegalMove
	for _, m := range s.LegalMovesFrom(Coord{2, 3}) {
		if len(m.Captures) > 0 {
			jumps = append(jumps, m)
		}
	}

	want := []CheckersLegalMove{{
		From:     Coord{2, 3},
		To:       Coord{6, 7},
		Path:     []Coord{{4, 5}, {6, 7}},
		Captures: []Coord{{3, 4}, {5, 6}},
	}}
	if diff := cmp.Diff(want, jumps); diff != "" {
		t.Fatalf("jump chains mismatch (-want +got):\n%s", diff)
	}

	_, _, err := Checkers{}.Apply(s, CheckersMove{FromRow: 2, FromCol: 3, ToRow: 4, ToCol: 5}, SeatA)
	assert.ErrorIs(t, err, ErrIllegalMove, "a chain cannot stop while another capture is available")

	next, ev, err := Checkers{}.Apply(s, CheckersMove{FromRow: 2, FromCol: 3, ToRow: 6, ToCol: 7}, SeatA)
	require.NoError(t, err)

	board := next.(CheckersState).Board
	assert.Equal(t, PieceManA, board[6][7], "row 6 is not seat A's back row")
	assert.Equal(t, PieceEmpty, board[3][4])
	assert.Equal(t, PieceEmpty, board[5][6])
	assert.Equal(t, PieceEmpty, board[2][3])
	assert.ElementsMatch(t, []Coord{{3, 4}, {5, 6}}, ev.Captured)
	assert.False(t, ev.Promoted)
	assert.Equal(t, EventMoved, ev.Kind)
	assert.Equal(t, SeatB, next.ToMove())
}

func TestCheckers_ChainEndingOnBackRowPromotes(t *testing.T) {
	s := checkersWith(SeatA, map[Coord]Piece{
		{3, 2}: PieceManA,
		{4, 3}: PieceManB,
		{6, 5}: PieceManB,
		{7, 0}: PieceManB,
	})

	next, ev, err := Checkers{}.Apply(s, CheckersMove{FromRow: 3, FromCol: 2, ToRow: 7, ToCol: 6}, SeatA)
	require.NoError(t, err)
	assert.True(t, ev.Promoted)
	assert.Equal(t, PieceKingA, next.(CheckersState).Board[7][6])
}

func TestCheckers_PromotionEndsChain(t *testing.T) {
	s := checkersWith(SeatA, map[Coord]Piece{
		{5, 2}: PieceManA,
		{6, 3}: PieceManB,
		{6, 5}: PieceManB,
		{0, 7}: PieceManB,
	})

	moves := s.LegalMovesFrom(Coord{5, 2})
	var dests []Coord
	for _, m := range moves {
		dests = append(dests, m.To)
	}
	assert.Contains(t, dests, Coord{7, 4})
	assert.NotContains(t, dests, Coord{5, 6})
}

func TestCheckers_NoForcedCapture(t *testing.T) {
	s := checkersWith(SeatA, map[Coord]Piece{
		{2, 3}: PieceManA,
		{3, 4}: PieceManB,
		{7, 0}: PieceManB,
	})

	next, ev, err := Checkers{}.Apply(s, CheckersMove{FromRow: 2, FromCol: 3, ToRow: 3, ToCol: 2}, SeatA)
	require.NoError(t, err)
	assert.Empty(t, ev.Captured)
	assert.Equal(t, PieceManB, next.(CheckersState).Board[3][4])
}

func TestCheckers_KingMovesBackward(t *testing.T) {
	s := checkersWith(SeatA, map[Coord]Piece{
		{4, 3}: PieceKingA,
		{7, 0}: PieceManB,
	})

	next, _, err := Checkers{}.Apply(s, CheckersMove{FromRow: 4, FromCol: 3, ToRow: 3, ToCol: 2}, SeatA)
	require.NoError(t, err)
	assert.Equal(t, PieceKingA, next.(CheckersState).Board[3][2])
}

func TestCheckers_CapturingLastPieceWins(t *testing.T) {
	s := checkersWith(SeatA, map[Coord]Piece{
		{2, 3}: PieceManA,
		{3, 4}: PieceManB,
	})

	next, ev, err := Checkers{}.Apply(s, CheckersMove{FromRow: 2, FromCol: 3, ToRow: 4, ToCol: 5}, SeatA)
	require.NoError(t, err)
	assert.Equal(t, EventWin, ev.Kind)
	assert.Equal(t, SeatA, ev.Winner)
	assert.Equal(t, StatusDecided, next.Status())
	assert.Equal(t, "no_legal_moves", next.(CheckersState).Reason)
}

func TestCheckers_BlockedOpponentLoses(t *testing.T) {
	// B's only man is left with no step and no jump once the king closes (0,5).
	s := checkersWith(SeatA, map[Coord]Piece{
		{1, 6}: PieceManB,
		{0, 7}: PieceManA,
		{1, 4}: PieceKingA,
	})
	require.NotEmpty(t, s.Board.movesFor(SeatB))

	next, ev, err := Checkers{}.Apply(s, CheckersMove{FromRow: 1, FromCol: 4, ToRow: 0, ToCol: 5}, SeatA)
	require.NoError(t, err)
	assert.Equal(t, EventWin, ev.Kind)
	assert.Equal(t, SeatA, next.Winner())
}

func TestCheckers_Rejections(t *testing.T) {
	start, err := Checkers{}.NewState(SeatA, Setup{})
	require.NoError(t, err)

	tests := []struct {
		name    string
		move    CheckersMove
		seat    Seat
		wantErr error
	}{
		{"off the board", CheckersMove{FromRow: 2, FromCol: 1, ToRow: 3, ToCol: -1}, SeatA, ErrOutOfBounds},
		{"empty square", CheckersMove{FromRow: 3, FromCol: 0, ToRow: 4, ToCol: 1}, SeatA, ErrWrongPiece},
		{"opponent piece", CheckersMove{FromRow: 5, FromCol: 0, ToRow: 4, ToCol: 1}, SeatA, ErrWrongPiece},
		{"straight step", CheckersMove{FromRow: 2, FromCol: 1, ToRow: 3, ToCol: 1}, SeatA, ErrIllegalMove},
		{"backward man", CheckersMove{FromRow: 2, FromCol: 1, ToRow: 1, ToCol: 0}, SeatA, ErrIllegalMove},
		{"not your turn", CheckersMove{FromRow: 5, FromCol: 0, ToRow: 4, ToCol: 1}, SeatB, ErrNotYourTurn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, err := Checkers{}.Apply(start, tt.move, tt.seat)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsMoveError(err))
			assert.Equal(t, start, next)
		})
	}
}

func TestCheckers_WrongMoveType(t *testing.T) {
	start, err := Checkers{}.NewState(SeatA, Setup{})
	require.NoError(t, err)

	_, _, err = Checkers{}.Apply(start, ConnectFourMove{Column: 1}, SeatA)
	assert.ErrorIs(t, err, ErrWrongGame)
}
