package match

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode serializes the game to a restartable JSON snapshot. Every event
// list is a typed record, so a decoded game replays identically.
func Encode(g *Game) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil game", ErrInvalidState)
	}
	return json.MarshalIndent(g, "", "  ")
}

// Decode reconstructs a game from a snapshot produced by Encode. Nil cycle
// entries are replaced with empty cycles so the log stays replayable.
func Decode(data []byte) (*Game, error) {
	g := NewGame()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(g); err != nil {
		return nil, fmt.Errorf("decode match snapshot: %w", err)
	}
	for i, cycle := range g.Cycles {
		if cycle == nil {
			g.Cycles[i] = NewCycle()
		}
	}
	if g.Packet == nil {
		g.LoadPacket(nil)
	}
	return g, nil
}
