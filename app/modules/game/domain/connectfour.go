package gamedomain

const (
	ConnectFourRows = 6
	ConnectFourCols = 7
	connectFourRun  = 4
)

// ConnectFourMove drops a piece into a column.
type ConnectFourMove struct {
	Column int `json:"column"`
}

func (ConnectFourMove) GameType() GameType { return GameConnectFour }

// ConnectFourState is a 6x7 grid; row 0 is the top.
type ConnectFourState struct {
	Board        [ConnectFourRows][ConnectFourCols]Seat `json:"board"`
	Mover        Seat                                   `json:"mover"`
	Result       Status                                 `json:"result"`
	WinnerSeat   Seat                                   `json:"winner"`
	WinningCells []Coord                                `json:"winning_cells,omitempty"`
	Placed       int                                    `json:"placed"`
}

func (ConnectFourState) GameType() GameType { return GameConnectFour }
func (s ConnectFourState) Status() Status   { return s.Result }
func (s ConnectFourState) Winner() Seat     { return s.WinnerSeat }
func (s ConnectFourState) ToMove() Seat     { return s.Mover }

// OpenColumns lists columns that can still take a piece.
func (s ConnectFourState) OpenColumns() []int {
	cols := make([]int, 0, ConnectFourCols)
	for c := 0; c < ConnectFourCols; c++ {
		if s.Board[0][c] == SeatNone {
			cols = append(cols, c)
		}
	}
	return cols
}

// ConnectFour implements the four-in-a-row rules.
type ConnectFour struct{}

func (ConnectFour) Type() GameType { return GameConnectFour }

func (ConnectFour) NewState(firstMover Seat, _ Setup) (State, error) {
	if !firstMover.Valid() {
		firstMover = SeatA
	}
	return ConnectFourState{Mover: firstMover, Result: StatusInProgress}, nil
}

func (ConnectFour) Apply(state State, move Move, seat Seat) (State, Event, error) {
	if err := checkTurn(state, move, seat, GameConnectFour); err != nil {
		return state, Event{}, err
	}
	s := state.(ConnectFourState)
	m := move.(ConnectFourMove)

	if m.Column < 0 || m.Column >= ConnectFourCols {
		return state, Event{}, newMoveError(KindOutOfBounds, "column %d", m.Column)
	}

	row := -1
	for r := ConnectFourRows - 1; r >= 0; r-- {
		if s.Board[r][m.Column] == SeatNone {
			row = r
			break
		}
	}
	if row == -1 {
		return state, Event{}, newMoveError(KindColumnFull, "column %d", m.Column)
	}

	next := s
	next.Board[row][m.Column] = seat
	next.Placed++
	placed := Coord{Row: row, Col: m.Column}
	ev := Event{Kind: EventMoved, Game: GameConnectFour, Seat: seat, Placed: &placed}

	if run := connectFourRunThrough(next.Board, row, m.Column, seat); run != nil {
		next.Result = StatusDecided
		next.WinnerSeat = seat
		next.WinningCells = run
		ev.Kind = EventWin
		ev.Winner = seat
		ev.WinningCells = run
		return next, ev, nil
	}

	if next.Placed == ConnectFourRows*ConnectFourCols {
		next.Result = StatusDrawn
		ev.Kind = EventDraw
		return next, ev, nil
	}

	next.Mover = seat.Opponent()
	return next, ev, nil
}

var connectFourAxes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// connectFourRunThrough returns the full run of seat's pieces through (row, col)
// along the first axis with at least four in a row.
func connectFourRunThrough(board [ConnectFourRows][ConnectFourCols]Seat, row, col int, seat Seat) []Coord {
	inBounds := func(r, c int) bool {
		return r >= 0 && r < ConnectFourRows && c >= 0 && c < ConnectFourCols
	}

	for _, axis := range connectFourAxes {
		dr, dc := axis[0], axis[1]

		// walk back to the start of the run, then collect forward
		r, c := row, col
		for inBounds(r-dr, c-dc) && board[r-dr][c-dc] == seat {
			r, c = r-dr, c-dc
		}

		var run []Coord
		for inBounds(r, c) && board[r][c] == seat {
			run = append(run, Coord{Row: r, Col: c})
			r, c = r+dr, c+dc
		}

		if len(run) >= connectFourRun {
			return run
		}
	}
	return nil
}
