package gamedomain

import (
	"encoding/json"
	"fmt"
)

// Envelope gives a State a JSON form tagged with its game type.
type Envelope struct {
	State State
}

type envelopeWire struct {
	Type  GameType        `json:"type"`
	State json.RawMessage `json:"state"`
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.State == nil {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(e.State)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelopeWire{Type: e.State.GameType(), State: raw})
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		e.State = nil
		return nil
	}
	var w envelopeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch w.Type {
	case GameConnectFour:
		var s ConnectFourState
		if err := json.Unmarshal(w.State, &s); err != nil {
			return fmt.Errorf("decode connect four state: %w", err)
		}
		e.State = s
	case GameCheckers:
		var s CheckersState
		if err := json.Unmarshal(w.State, &s); err != nil {
			return fmt.Errorf("decode checkers state: %w", err)
		}
		e.State = s
	case GameGridTrap:
		var s GridTrapState
		if err := json.Unmarshal(w.State, &s); err != nil {
			return fmt.Errorf("decode grid trap state: %w", err)
		}
		e.State = s
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGame, w.Type)
	}
	return nil
}

// DecodeMove parses a JSON move body for the given game type.
func DecodeMove(t GameType, raw json.RawMessage) (Move, error) {
	switch t {
	case GameConnectFour:
		var m ConnectFourMove
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode connect four move: %w", err)
		}
		return m, nil
	case GameCheckers:
		var m CheckersMove
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode checkers move: %w", err)
		}
		return m, nil
	case GameGridTrap:
		var m GridTrapMove
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode grid trap move: %w", err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGame, t)
}
