package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := testGame(3, 3)
	require.NoError(t, g.Cycles[0].AddNeg(BuzzMarker{Player: bob, Position: 3}, 0))
	require.NoError(t, g.Cycles[0].AddCorrectBuzz(BuzzMarker{Player: carol, Position: 10}, 0))
	g.Cycles[0].SetBonusAnswer("Beta", []BonusPartAnswer{{Index: 0, Points: 10}})
	g.Cycles[1].AddThrownOutTossup(1)
	g.Cycles[1].AddSubstitution(dave, bob)
	g.Cycles[2].AddTossupProtest("Alpha", 2, 4, "equivalent answer")
	g.Cycles[2].AddBonusProtest("Beta", 1, 2, "ambiguous part")

	data, err := Encode(g)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	// Event lists come back as typed records, not opaque blobs.
	require.Len(t, decoded.Cycles, 3)
	require.NotNil(t, decoded.Cycles[0].CorrectBuzz)
	assert.Equal(t, *g.Cycles[0].CorrectBuzz, *decoded.Cycles[0].CorrectBuzz)
	assert.Equal(t, g.Cycles[0].IncorrectBuzzes, decoded.Cycles[0].IncorrectBuzzes)
	assert.Equal(t, g.Cycles[0].Negs, decoded.Cycles[0].Negs)
	assert.Equal(t, g.Cycles[1].ThrownOutTossups, decoded.Cycles[1].ThrownOutTossups)
	assert.Equal(t, g.Cycles[1].Subs, decoded.Cycles[1].Subs)
	assert.Equal(t, g.Cycles[2].TossupProtests, decoded.Cycles[2].TossupProtests)
	assert.Equal(t, g.Cycles[2].BonusProtests, decoded.Cycles[2].BonusProtests)
	assert.Equal(t, g.Players, decoded.Players)
	assert.Equal(t, g.Packet, decoded.Packet)

	// The decoded game derives the same state.
	wantScores, err := g.Scores()
	require.NoError(t, err)
	gotScores, err := decoded.Scores()
	require.NoError(t, err)
	assert.Equal(t, wantScores, gotScores)

	assert.Equal(t, g.TossupIndex(2), decoded.TossupIndex(2))
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"packet": {}, "players": [], "cycles": [], "bogus": 1}`))
	require.Error(t, err)
}

func TestDecodeFillsNilCycles(t *testing.T) {
	g, err := Decode([]byte(`{"packet": {}, "players": [], "cycles": [null, {}]}`))
	require.NoError(t, err)
	require.Len(t, g.Cycles, 2)
	require.NotNil(t, g.Cycles[0])
	assert.Empty(t, g.Cycles[0].IncorrectBuzzes)
}

func TestEncodeNilGame(t *testing.T) {
	_, err := Encode(nil)
	require.ErrorIs(t, err, ErrInvalidState)
}
