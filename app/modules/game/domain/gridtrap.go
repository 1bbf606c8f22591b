package gamedomain

import (
	"fmt"
	"slices"
)

const GridTrapSize = 9

// Block is the content of a Grid-Trap cell: open, or blocked with an attribution.
type Block int8

const (
	BlockNone Block = iota
	BlockStatic
	BlockA
	BlockB
)

var blockNames = map[Block]string{
	BlockNone:   "",
	BlockStatic: "static",
	BlockA:      "A",
	BlockB:      "B",
}

func (b Block) MarshalText() ([]byte, error) { return []byte(blockNames[b]), nil }

func (b *Block) UnmarshalText(v []byte) error {
	for block, name := range blockNames {
		if name == string(v) {
			*b = block
			return nil
		}
	}
	return fmt.Errorf("invalid grid-trap block %q", string(v))
}

func (b Block) Open() bool { return b == BlockNone }

func blockFor(seat Seat) Block {
	if seat == SeatA {
		return BlockA
	}
	return BlockB
}

var (
	GridTrapStartA = Coord{Row: 4, Col: 4}
	GridTrapStartB = Coord{Row: 4, Col: 5}
)

const IsolatedReason = "isolated"

// GridTrapMove relocates one orthogonal step and then places one block.
type GridTrapMove struct {
	MoveTo  Coord `json:"move_to"`
	BlockAt Coord `json:"block_at"`
}

func (GridTrapMove) GameType() GameType { return GameGridTrap }

// GridTrapState is the 9x9 grid, both positions and each seat's placed blocks.
type GridTrapState struct {
	Grid       [GridTrapSize][GridTrapSize]Block `json:"grid"`
	PosA       Coord                             `json:"pos_a"`
	PosB       Coord                             `json:"pos_b"`
	BlocksA    []Coord                           `json:"blocks_a,omitempty"`
	BlocksB    []Coord                           `json:"blocks_b,omitempty"`
	Mover      Seat                              `json:"mover"`
	Result     Status                            `json:"result"`
	WinnerSeat Seat                              `json:"winner"`
	Reason     string                            `json:"reason,omitempty"`
}

func (GridTrapState) GameType() GameType { return GameGridTrap }
func (s GridTrapState) Status() Status   { return s.Result }
func (s GridTrapState) Winner() Seat     { return s.WinnerSeat }
func (s GridTrapState) ToMove() Seat     { return s.Mover }

// Position returns where seat currently stands.
func (s GridTrapState) Position(seat Seat) Coord {
	if seat == SeatA {
		return s.PosA
	}
	return s.PosB
}

// BlocksOf returns the blocks seat has placed, oldest first.
func (s GridTrapState) BlocksOf(seat Seat) []Coord {
	if seat == SeatA {
		return s.BlocksA
	}
	return s.BlocksB
}

func (s GridTrapState) occupied(c Coord) bool {
	return c == s.PosA || c == s.PosB
}

// LegalRelocations lists the orthogonal steps open to seat.
func (s GridTrapState) LegalRelocations(seat Seat) []Coord {
	pos := s.Position(seat)
	var out []Coord
	for _, n := range neighbors4(pos) {
		if !onGridTrap(n) || s.occupied(n) || !s.Grid[n.Row][n.Col].Open() {
			continue
		}
		out = append(out, n)
	}
	return out
}

// LegalBlocks lists the cells seat may block on this board.
func (s GridTrapState) LegalBlocks(seat Seat) []Coord {
	first := len(s.BlocksOf(seat)) == 0
	own := blockFor(seat)

	var out []Coord
	for r := 0; r < GridTrapSize; r++ {
		for c := 0; c < GridTrapSize; c++ {
			cell := Coord{Row: r, Col: c}
			if s.occupied(cell) || !s.Grid[r][c].Open() {
				continue
			}
			if first || s.touches(cell, own) {
				out = append(out, cell)
			}
		}
	}
	return out
}

// touches reports whether cell is orthogonally adjacent to a static wall or a block owned by own.
func (s GridTrapState) touches(cell Coord, own Block) bool {
	for _, n := range neighbors4(cell) {
		if !onGridTrap(n) {
			continue
		}
		if b := s.Grid[n.Row][n.Col]; b == BlockStatic || b == own {
			return true
		}
	}
	return false
}

// Isolated reports whether seat has no relocation available.
func (s GridTrapState) Isolated(seat Seat) bool {
	return len(s.LegalRelocations(seat)) == 0
}

// GridTrap implements the territory-blocking maze game.
type GridTrap struct{}

func (GridTrap) Type() GameType { return GameGridTrap }

// NewState lays out the static walls from setup. Walls must be on the board
// and off both start cells.
func (GridTrap) NewState(firstMover Seat, setup Setup) (State, error) {
	if !firstMover.Valid() {
		firstMover = SeatA
	}
	s := GridTrapState{
		PosA:   GridTrapStartA,
		PosB:   GridTrapStartB,
		Mover:  firstMover,
		Result: StatusInProgress,
	}
	for _, w := range setup.StaticWalls {
		if !onGridTrap(w) {
			return nil, fmt.Errorf("static wall %s off the board", w)
		}
		if s.occupied(w) {
			return nil, fmt.Errorf("static wall %s on a start cell", w)
		}
		s.Grid[w.Row][w.Col] = BlockStatic
	}
	if s.Isolated(firstMover) {
		s.Result = StatusDecided
		s.WinnerSeat = firstMover.Opponent()
		s.Reason = IsolatedReason
	}
	return s, nil
}

func (GridTrap) Apply(state State, move Move, seat Seat) (State, Event, error) {
	if err := checkTurn(state, move, seat, GameGridTrap); err != nil {
		return state, Event{}, err
	}
	s := state.(GridTrapState)
	m := move.(GridTrapMove)

	if !onGridTrap(m.MoveTo) || !onGridTrap(m.BlockAt) {
		return state, Event{}, newMoveError(KindOutOfBounds, "move %s block %s", m.MoveTo, m.BlockAt)
	}
	if m.MoveTo == m.BlockAt {
		return state, Event{}, newMoveError(KindSameCell, "%s", m.MoveTo)
	}
	if !slices.Contains(s.LegalRelocations(seat), m.MoveTo) {
		return state, Event{}, newMoveError(KindIllegalMove, "cannot step to %s", m.MoveTo)
	}

	from := s.Position(seat)
	next := s
	if seat == SeatA {
		next.PosA = m.MoveTo
	} else {
		next.PosB = m.MoveTo
	}

	// block legality is judged after the relocation, so the vacated cell is fair game
	if !slices.Contains(next.LegalBlocks(seat), m.BlockAt) {
		return state, Event{}, newMoveError(KindIllegalBlock, "cannot block %s", m.BlockAt)
	}

	next.Grid[m.BlockAt.Row][m.BlockAt.Col] = blockFor(seat)
	if seat == SeatA {
		next.BlocksA = append(slices.Clone(s.BlocksA), m.BlockAt)
	} else {
		next.BlocksB = append(slices.Clone(s.BlocksB), m.BlockAt)
	}

	moveTo, blockAt := m.MoveTo, m.BlockAt
	ev := Event{
		Kind:    EventMoved,
		Game:    GameGridTrap,
		Seat:    seat,
		From:    &from,
		To:      &moveTo,
		Blocked: &blockAt,
	}

	opponent := seat.Opponent()
	next.Mover = opponent
	if next.Isolated(opponent) {
		next.Result = StatusDecided
		next.WinnerSeat = seat
		next.Reason = IsolatedReason
		ev.Kind = EventWin
		ev.Winner = seat
		ev.Reason = IsolatedReason
	}
	return next, ev, nil
}

func onGridTrap(c Coord) bool {
	return c.Row >= 0 && c.Row < GridTrapSize && c.Col >= 0 && c.Col < GridTrapSize
}

func neighbors4(c Coord) [4]Coord {
	return [4]Coord{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
}
