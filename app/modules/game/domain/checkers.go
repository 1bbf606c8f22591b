package gamedomain

import "fmt"

const CheckersSize = 8

// Piece is the content of a checkers square.
type Piece int8

const (
	PieceEmpty Piece = iota
	PieceManA
	PieceKingA
	PieceManB
	PieceKingB
)

var pieceGlyphs = map[Piece]string{
	PieceEmpty: ".",
	PieceManA:  "a",
	PieceKingA: "A",
	PieceManB:  "b",
	PieceKingB: "B",
}

func (p Piece) String() string { return pieceGlyphs[p] }

func (p Piece) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Piece) UnmarshalText(b []byte) error {
	for piece, glyph := range pieceGlyphs {
		if glyph == string(b) {
			*p = piece
			return nil
		}
	}
	return fmt.Errorf("invalid checkers piece %q", string(b))
}

// Owner returns the seat that controls the piece.
func (p Piece) Owner() Seat {
	switch p {
	case PieceManA, PieceKingA:
		return SeatA
	case PieceManB, PieceKingB:
		return SeatB
	}
	return SeatNone
}

func (p Piece) King() bool { return p == PieceKingA || p == PieceKingB }

func (p Piece) promoted() Piece {
	switch p {
	case PieceManA:
		return PieceKingA
	case PieceManB:
		return PieceKingB
	}
	return p
}

// CheckersBoard is indexed [row][col]; dark squares have (row+col) odd.
type CheckersBoard [CheckersSize][CheckersSize]Piece

// CheckersMove names a piece and its final landing square. Multi-jump chains
// are a single move.
type CheckersMove struct {
	FromRow int `json:"from_row"`
	FromCol int `json:"from_col"`
	ToRow   int `json:"to_row"`
	ToCol   int `json:"to_col"`
}

func (CheckersMove) GameType() GameType { return GameCheckers }

// CheckersState is the board plus whose turn it is.
type CheckersState struct {
	Board      CheckersBoard `json:"board"`
	Mover      Seat          `json:"mover"`
	Result     Status        `json:"result"`
	WinnerSeat Seat          `json:"winner"`
	Reason     string        `json:"reason,omitempty"`
}

func (CheckersState) GameType() GameType { return GameCheckers }
func (s CheckersState) Status() Status   { return s.Result }
func (s CheckersState) Winner() Seat     { return s.WinnerSeat }
func (s CheckersState) ToMove() Seat     { return s.Mover }

// CheckersLegalMove is one complete move available to the mover.
type CheckersLegalMove struct {
	From     Coord   `json:"from"`
	To       Coord   `json:"to"`
	Path     []Coord `json:"path,omitempty"`
	Captures []Coord `json:"captures,omitempty"`
	Promotes bool    `json:"promotes,omitempty"`
}

// Checkers implements the checkers variant: no forced capture, kings step one
// square in any diagonal, promotion ends a jump chain.
type Checkers struct{}

func (Checkers) Type() GameType { return GameCheckers }

func (Checkers) NewState(firstMover Seat, _ Setup) (State, error) {
	if !firstMover.Valid() {
		firstMover = SeatA
	}
	return CheckersState{
		Board:  InitialCheckersBoard(),
		Mover:  firstMover,
		Result: StatusInProgress,
	}, nil
}

// InitialCheckersBoard places seat A on rows 0-2 and seat B on rows 5-7.
func InitialCheckersBoard() CheckersBoard {
	var b CheckersBoard
	for r := 0; r < CheckersSize; r++ {
		for c := 0; c < CheckersSize; c++ {
			if !darkSquare(r, c) {
				continue
			}
			switch {
			case r < 3:
				b[r][c] = PieceManA
			case r >= CheckersSize-3:
				b[r][c] = PieceManB
			}
		}
	}
	return b
}

func (Checkers) Apply(state State, move Move, seat Seat) (State, Event, error) {
	if err := checkTurn(state, move, seat, GameCheckers); err != nil {
		return state, Event{}, err
	}
	s := state.(CheckersState)
	m := move.(CheckersMove)

	from := Coord{Row: m.FromRow, Col: m.FromCol}
	to := Coord{Row: m.ToRow, Col: m.ToCol}
	if !onCheckersBoard(from) || !onCheckersBoard(to) {
		return state, Event{}, newMoveError(KindOutOfBounds, "%s -> %s", from, to)
	}
	if s.Board[from.Row][from.Col].Owner() != seat {
		return state, Event{}, newMoveError(KindWrongPiece, "no %s piece at %s", seat, from)
	}

	var chosen *CheckersLegalMove
	for _, lm := range s.Board.movesFrom(from) {
		if lm.To == to {
			chosen = &lm
			break
		}
	}
	if chosen == nil {
		return state, Event{}, newMoveError(KindIllegalMove, "%s -> %s", from, to)
	}

	next := s
	next.Board = s.Board.apply(*chosen)

	ev := Event{
		Kind:     EventMoved,
		Game:     GameCheckers,
		Seat:     seat,
		From:     &chosen.From,
		To:       &chosen.To,
		Captured: chosen.Captures,
		Promoted: chosen.Promotes,
	}

	opponent := seat.Opponent()
	if len(next.Board.movesFor(opponent)) == 0 {
		next.Result = StatusDecided
		next.WinnerSeat = seat
		next.Reason = "no_legal_moves"
		ev.Kind = EventWin
		ev.Winner = seat
		ev.Reason = next.Reason
		return next, ev, nil
	}

	next.Mover = opponent
	return next, ev, nil
}

// LegalMoves lists every complete move available to the seat to move.
func (s CheckersState) LegalMoves() []CheckersLegalMove {
	if s.Result != StatusInProgress {
		return nil
	}
	return s.Board.movesFor(s.Mover)
}

// LegalMovesFrom lists complete moves for the piece at from.
func (s CheckersState) LegalMovesFrom(from Coord) []CheckersLegalMove {
	if !onCheckersBoard(from) {
		return nil
	}
	return s.Board.movesFrom(from)
}

func darkSquare(r, c int) bool { return (r+c)%2 == 1 }

func onCheckersBoard(c Coord) bool {
	return c.Row >= 0 && c.Row < CheckersSize && c.Col >= 0 && c.Col < CheckersSize
}

// directions returns diagonal steps in NW, NE, SW, SE order, filtered to the
// piece's allowed directions.
func directions(p Piece) [][2]int {
	switch p {
	case PieceManA:
		return [][2]int{{1, -1}, {1, 1}}
	case PieceManB:
		return [][2]int{{-1, -1}, {-1, 1}}
	case PieceKingA, PieceKingB:
		return [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	}
	return nil
}

func farRow(seat Seat) int {
	if seat == SeatA {
		return CheckersSize - 1
	}
	return 0
}

func (b CheckersBoard) movesFor(seat Seat) []CheckersLegalMove {
	var out []CheckersLegalMove
	for r := 0; r < CheckersSize; r++ {
		for c := 0; c < CheckersSize; c++ {
			if b[r][c].Owner() == seat {
				out = append(out, b.movesFrom(Coord{Row: r, Col: c})...)
			}
		}
	}
	return out
}

func (b CheckersBoard) movesFrom(from Coord) []CheckersLegalMove {
	piece := b[from.Row][from.Col]
	if piece == PieceEmpty {
		return nil
	}

	var out []CheckersLegalMove
	for _, d := range directions(piece) {
		to := Coord{Row: from.Row + d[0], Col: from.Col + d[1]}
		if onCheckersBoard(to) && b[to.Row][to.Col] == PieceEmpty {
			out = append(out, CheckersLegalMove{
				From:     from,
				To:       to,
				Promotes: !piece.King() && to.Row == farRow(piece.Owner()),
			})
		}
	}

	// the mover's origin square is vacated while searching so kings may cross it
	scratch := b
	scratch[from.Row][from.Col] = PieceEmpty
	out = append(out, scratch.jumpChains(from, from, piece, nil, nil)...)
	return out
}

// jumpChains finds every maximal capture sequence for piece standing at pos.
func (b CheckersBoard) jumpChains(origin, pos Coord, piece Piece, path, captured []Coord) []CheckersLegalMove {
	var out []CheckersLegalMove
	owner := piece.Owner()

	for _, d := range directions(piece) {
		mid := Coord{Row: pos.Row + d[0], Col: pos.Col + d[1]}
		land := Coord{Row: pos.Row + 2*d[0], Col: pos.Col + 2*d[1]}
		if !onCheckersBoard(land) {
			continue
		}
		victim := b[mid.Row][mid.Col]
		if victim == PieceEmpty || victim.Owner() == owner || b[land.Row][land.Col] != PieceEmpty {
			continue
		}

		next := b
		next[mid.Row][mid.Col] = PieceEmpty

		chainPath := append(append([]Coord{}, path...), land)
		chainCaptured := append(append([]Coord{}, captured...), mid)

		if !piece.King() && land.Row == farRow(owner) {
			out = append(out, CheckersLegalMove{
				From: origin, To: land, Path: chainPath, Captures: chainCaptured, Promotes: true,
			})
			continue
		}

		further := next.jumpChains(origin, land, piece, chainPath, chainCaptured)
		if len(further) == 0 {
			out = append(out, CheckersLegalMove{
				From: origin, To: land, Path: chainPath, Captures: chainCaptured,
			})
			continue
		}
		out = append(out, further...)
	}
	return out
}

func (b CheckersBoard) apply(m CheckersLegalMove) CheckersBoard {
	next := b
	piece := next[m.From.Row][m.From.Col]
	next[m.From.Row][m.From.Col] = PieceEmpty
	for _, c := range m.Captures {
		next[c.Row][c.Col] = PieceEmpty
	}
	if m.Promotes {
		piece = piece.promoted()
	}
	next[m.To.Row][m.To.Col] = piece
	return next
}
