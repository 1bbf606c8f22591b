package gamedomain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_PreservesPlayedStates(t *testing.T) {
	c4, _ := playColumns(t, newConnectFour(t, SeatA), 3, 3, 4)

	ck, err := Checkers{}.NewState(SeatB, Setup{})
	require.NoError(t, err)
	ck, _, err = Checkers{}.Apply(ck, CheckersMove{FromRow: 5, FromCol: 0, ToRow: 4, ToCol: 1}, SeatB)
	require.NoError(t, err)

	gt, _, err := GridTrap{}.Apply(newGridTrap(t, Coord{0, 0}), GridTrapMove{MoveTo: Coord{3, 4}, BlockAt: Coord{0, 1}}, SeatA)
	require.NoError(t, err)

	for _, state := range []State{c4, ck, gt} {
		t.Run(string(state.GameType()), func(t *testing.T) {
			data, err := json.Marshal(Envelope{State: state})
			require.NoError(t, err)

			var decoded Envelope
			require.NoError(t, json.Unmarshal(data, &decoded))
			if diff := cmp.Diff(state, decoded.State); diff != "" {
				t.Fatalf("state changed through JSON (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnvelope_UnknownType(t *testing.T) {
	var e Envelope
	err := json.Unmarshal([]byte(`{"type":"chess","state":{}}`), &e)
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestDecodeMove(t *testing.T) {
	m, err := DecodeMove(GameGridTrap, json.RawMessage(`{"move_to":{"row":3,"col":4},"block_at":{"row":0,"col":1}}`))
	require.NoError(t, err)
	assert.Equal(t, GridTrapMove{MoveTo: Coord{3, 4}, BlockAt: Coord{0, 1}}, m)

	m, err = DecodeMove(GameCheckers, json.RawMessage(`{"from_row":2,"from_col":3,"to_row":3,"to_col":4}`))
	require.NoError(t, err)
	assert.Equal(t, CheckersMove{FromRow: 2, FromCol: 3, ToRow: 3, ToCol: 4}, m)

	_, err = DecodeMove("chess", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnknownGame)

	_, err = DecodeMove(GameConnectFour, json.RawMessage(`{"column":"x"}`))
	assert.Error(t, err)
}

func TestEngineFor(t *testing.T) {
	for _, gt := range []GameType{GameConnectFour, GameCheckers, GameGridTrap} {
		e, err := EngineFor(gt)
		require.NoError(t, err)
		assert.Equal(t, gt, e.Type())
	}
	_, err := EngineFor("chess")
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestSeatText(t *testing.T) {
	for _, s := range []Seat{SeatA, SeatB, SeatNone} {
		b, err := s.MarshalText()
		require.NoError(t, err)
		var back Seat
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, s, back)
	}
	_, err := ParseSeat("C")
	assert.Error(t, err)
	assert.Equal(t, SeatB, SeatA.Opponent())
	assert.Equal(t, SeatNone, SeatNone.Opponent())
}
