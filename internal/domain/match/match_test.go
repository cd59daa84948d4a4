package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizbowl-match-service/internal/domain/packet"
	"quizbowl-match-service/internal/domain/roster"
)

// testPacket builds a packet where every tossup has exactly twelve words.
func testPacket(tossups, bonuses int) *packet.Packet {
	p := &packet.Packet{}
	for i := 0; i < tossups; i++ {
		p.Tossups = append(p.Tossups, packet.Tossup{
			Question: "one two three four five six seven eight nine ten eleven twelve",
			Answer:   fmt.Sprintf("answer %d", i+1),
		})
	}
	for i := 0; i < bonuses; i++ {
		p.Bonuses = append(p.Bonuses, packet.Bonus{Parts: []packet.BonusPart{
			{Text: "part one", Value: 10},
			{Text: "part two", Value: 10},
			{Text: "part three", Value: 10},
		}})
	}
	return p
}

func testGame(tossups, bonuses int) *Game {
	g := NewGame()
	g.AddPlayers(alice, bob, carol, dave)
	g.LoadPacket(testPacket(tossups, bonuses))
	return g
}

func TestLoadPacketAppendsCyclesWithoutTruncating(t *testing.T) {
	g := NewGame()
	g.LoadPacket(testPacket(3, 3))
	require.Len(t, g.Cycles, 3)

	require.NoError(t, g.Cycles[1].AddCorrectBuzz(BuzzMarker{Player: carol, Position: 4}, 1))

	// Reloading with a shorter packet keeps all recorded cycles.
	g.LoadPacket(testPacket(2, 2))
	require.Len(t, g.Cycles, 3)
	assert.NotNil(t, g.Cycles[1].CorrectBuzz)

	// A longer packet appends empty cycles at the end.
	g.LoadPacket(testPacket(5, 5))
	require.Len(t, g.Cycles, 5)
	assert.NotNil(t, g.Cycles[1].CorrectBuzz)
}

func TestIsLoadedAndClear(t *testing.T) {
	g := NewGame()
	assert.False(t, g.IsLoaded())

	g.AddPlayers(alice, carol)
	g.LoadPacket(testPacket(1, 1))
	assert.True(t, g.IsLoaded())

	g.Clear()
	assert.False(t, g.IsLoaded())
	assert.Empty(t, g.Players)
	assert.Empty(t, g.Cycles)
}

func TestTeamNamesSorted(t *testing.T) {
	g := NewGame()
	g.AddPlayers(carol, alice, bob)
	assert.Equal(t, []string{"Alpha", "Beta"}, g.TeamNames())
}

func TestScoreChangeCorrectBuzzWithBonus(t *testing.T) {
	g := testGame(5, 5)
	require.NoError(t, g.Cycles[0].AddCorrectBuzz(BuzzMarker{Player: alice, Position: 5}, 0))
	g.Cycles[0].SetBonusAnswer("Alpha", []BonusPartAnswer{{Index: 0, Points: 10}})

	change, err := g.ScoreChange(0)
	require.NoError(t, err)
	assert.Equal(t, Score{20, 0}, change)
}

func TestScoreChangeNegAndCorrect(t *testing.T) {
	g := testGame(5, 5)
	require.NoError(t, g.Cycles[0].AddNeg(BuzzMarker{Player: bob, Position: 3}, 0))
	require.NoError(t, g.Cycles[0].AddCorrectBuzz(BuzzMarker{Player: carol, Position: 10}, 0))

	change, err := g.ScoreChange(0)
	require.NoError(t, err)
	assert.Equal(t, Score{-5, 10}, change)
}

func TestBuzzAtEndOfQuestionIsNoPenalty(t *testing.T) {
	g := testGame(5, 5)
	wordCount := g.Packet.Tossups[0].WordCount()

	require.NoError(t, g.RecordWrongBuzz(0, BuzzMarker{Player: bob, Position: wordCount}))

	_, negged := g.Cycles[0].NegBuzz("Alpha")
	assert.False(t, negged)
	change, err := g.ScoreChange(0)
	require.NoError(t, err)
	assert.Equal(t, Score{0, 0}, change)
}

func TestRecordWrongBuzzRoutesSecondTeamBuzzToNoPenalty(t *testing.T) {
	g := testGame(5, 5)
	require.NoError(t, g.RecordWrongBuzz(0, BuzzMarker{Player: bob, Position: 3}))
	require.NoError(t, g.RecordWrongBuzz(0, BuzzMarker{Player: alice, Position: 6}))

	neg, negged := g.Cycles[0].NegBuzz("Alpha")
	require.True(t, negged)
	assert.Equal(t, "Bob", neg.Marker.Player.Name)
	assert.Len(t, g.Cycles[0].IncorrectBuzzes, 2)

	change, err := g.ScoreChange(0)
	require.NoError(t, err)
	assert.Equal(t, Score{-5, 0}, change)
}

func TestScoreChangeUnknownTeam(t *testing.T) {
	g := testGame(5, 5)
	stranger := roster.Player{Name: "Eve", Team: "Gamma"}
	require.NoError(t, g.Cycles[0].AddCorrectBuzz(BuzzMarker{Player: stranger, Position: 1}, 0))

	_, err := g.ScoreChange(0)
	require.ErrorIs(t, err, ErrUnknownTeam)

	_, err = g.Scores()
	require.ErrorIs(t, err, ErrUnknownTeam)
}

func TestScoresRoundTrip(t *testing.T) {
	g := testGame(6, 6)
	require.NoError(t, g.Cycles[0].AddCorrectBuzz(BuzzMarker{Player: alice, Position: 5}, 0))
	g.Cycles[0].SetBonusAnswer("Alpha", []BonusPartAnswer{{Index: 0, Points: 10}, {Index: 1, Points: 10}})
	require.NoError(t, g.Cycles[1].AddNeg(BuzzMarker{Player: bob, Position: 2}, 1))
	require.NoError(t, g.Cycles[1].AddCorrectBuzz(BuzzMarker{Player: carol, Position: 9}, 1))
	require.NoError(t, g.Cycles[3].AddNeg(BuzzMarker{Player: carol, Position: 7}, 3))

	scores, err := g.Scores()
	require.NoError(t, err)
	require.Len(t, scores, len(g.Cycles))

	previous := Score{}
	for i, total := range scores {
		change, err := g.ScoreChange(i)
		require.NoError(t, err)
		assert.Equal(t, change, Score{total[0] - previous[0], total[1] - previous[1]}, "cycle %d", i)
		previous = total
	}

	final, err := g.FinalScore()
	require.NoError(t, err)
	assert.Equal(t, scores[len(scores)-1], final)
}

func TestFinalScoreEmptyMatch(t *testing.T) {
	g := NewGame()
	final, err := g.FinalScore()
	require.NoError(t, err)
	assert.Equal(t, Score{0, 0}, final)
}

func TestActivePlayersSubstitution(t *testing.T) {
	g := testGame(5, 5)
	g.Cycles[2].AddSubstitution(dave, bob)
	g.Cycles[0].AddPlayerJoin(bob)

	before, err := g.ActivePlayers("Alpha", 1)
	require.NoError(t, err)
	assert.Contains(t, before, bob)
	assert.NotContains(t, before, dave)

	after, err := g.ActivePlayers("Alpha", 2)
	require.NoError(t, err)
	assert.Contains(t, after, dave)
	assert.NotContains(t, after, bob)
	assert.Contains(t, after, alice)
}

func TestActivePlayersLeavesAndJoins(t *testing.T) {
	g := testGame(5, 5)
	g.Cycles[1].AddPlayerLeave(alice)
	g.Cycles[1].AddPlayerJoin(bob)

	active, err := g.ActivePlayers("Alpha", 1)
	require.NoError(t, err)
	assert.NotContains(t, active, alice)
	assert.Contains(t, active, bob)
}

func TestActivePlayersNeverOffRosterOrDuplicated(t *testing.T) {
	g := testGame(5, 5)
	g.Cycles[0].AddPlayerJoin(bob)
	g.Cycles[1].AddPlayerJoin(bob)
	g.Cycles[2].AddSubstitution(dave, bob)

	for cycle := 0; cycle < len(g.Cycles); cycle++ {
		active, err := g.ActivePlayers("Alpha", cycle)
		require.NoError(t, err)
		for p := range active {
			_, onRoster := roster.Find(g.Players, "Alpha", p.Name)
			assert.True(t, onRoster, "cycle %d: %s", cycle, p.Name)
		}
	}
}

func TestActivePlayersInconsistentRoster(t *testing.T) {
	stranger := roster.Player{Name: "Eve", Team: "Alpha"}

	tests := []struct {
		name  string
		setup func(c *Cycle)
	}{
		{"leave off roster", func(c *Cycle) { c.AddPlayerLeave(stranger) }},
		{"join off roster", func(c *Cycle) { c.AddPlayerJoin(stranger) }},
		{"sub in off roster", func(c *Cycle) { c.AddSubstitution(stranger, bob) }},
		{"sub out off roster", func(c *Cycle) { c.AddSubstitution(dave, stranger) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := testGame(3, 3)
			tc.setup(g.Cycles[1])
			_, err := g.ActivePlayers("Alpha", 2)
			require.ErrorIs(t, err, ErrInconsistentRoster)
		})
	}
}

func TestActivePlayersBeyondRecordedCycles(t *testing.T) {
	g := testGame(2, 2)
	active, err := g.ActivePlayers("Alpha", 10)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestTossupIndexWithThrowOuts(t *testing.T) {
	g := testGame(6, 6)
	g.Cycles[0].AddThrownOutTossup(0)

	assert.Equal(t, 1, g.TossupIndex(0))
	assert.Equal(t, 2, g.TossupIndex(1))

	// Monotonically non-decreasing, shifted by exactly the throw-outs seen.
	previous := -1
	for i := 0; i < len(g.Cycles); i++ {
		idx := g.TossupIndex(i)
		assert.Greater(t, idx, previous)
		previous = idx
	}
}

func TestBonusIndexConsumedByPriorCorrectBuzzes(t *testing.T) {
	g := testGame(4, 2)
	require.NoError(t, g.Cycles[0].AddCorrectBuzz(BuzzMarker{Player: alice, Position: 5}, 0))
	require.NoError(t, g.Cycles[1].AddCorrectBuzz(BuzzMarker{Player: carol, Position: 5}, 1))

	// The correct buzz in cycle 0 does not consume cycle 0's own bonus.
	idx, ok := g.BonusIndex(0)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = g.BonusIndex(1)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	// Two bonuses used; none left from cycle 2 on.
	for cycle := 2; cycle < len(g.Cycles); cycle++ {
		_, ok = g.BonusIndex(cycle)
		assert.False(t, ok, "cycle %d", cycle)
	}
}

func TestBonusIndexCountsThrownOutBonuses(t *testing.T) {
	g := testGame(4, 3)
	g.Cycles[0].AddThrownOutBonus(0)

	idx, ok := g.BonusIndex(0)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestTossupAndBonusResolution(t *testing.T) {
	g := testGame(3, 1)
	g.Cycles[0].AddThrownOutTossup(0)

	tossup, ok := g.Tossup(0)
	require.True(t, ok)
	assert.Equal(t, "answer 2", tossup.Answer)

	_, ok = g.Tossup(5)
	assert.False(t, ok)

	_, ok = g.Bonus(0)
	assert.True(t, ok)
}

func TestRecordWrongBuzzOutOfRange(t *testing.T) {
	g := testGame(1, 1)
	err := g.RecordWrongBuzz(7, BuzzMarker{Player: bob, Position: 0})
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}
