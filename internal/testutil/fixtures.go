package testutil

import (
	"fmt"

	"quizbowl-match-service/internal/domain/packet"
	"quizbowl-match-service/internal/domain/roster"
)

// SamplePlayers returns a two-team roster fixture: Alpha with Alice
// (starter) and Bob, Beta with Carol (starter) and Dave.
func SamplePlayers() []roster.Player {
	return []roster.Player{
		{Name: "Alice", Team: "Alpha", Starter: true},
		{Name: "Bob", Team: "Alpha"},
		{Name: "Carol", Team: "Beta", Starter: true},
		{Name: "Dave", Team: "Beta"},
	}
}

// SamplePacket builds a packet fixture where every tossup has exactly
// twelve words and every bonus has three ten-point parts.
func SamplePacket(tossups, bonuses int) *packet.Packet {
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
