package match

import (
	"fmt"

	"quizbowl-match-service/internal/domain/roster"
)

// BuzzMarker records who buzzed, where, and whether the answer was ruled
// correct. Position is the zero-based word index in the tossup; a position
// equal to the question's word count means the buzz came after the last
// word was read.
type BuzzMarker struct {
	Player   roster.Player `json:"player"`
	Position int           `json:"position"`
	Correct  bool          `json:"correct"`
}

// TossupAnswer is a single buzz, correct or not, tagged with the packet
// tossup it applies to.
type TossupAnswer struct {
	Marker      BuzzMarker `json:"marker"`
	TossupIndex int        `json:"tossupIndex"`
}

// Substitution swaps Out for In on In's team.
type Substitution struct {
	In  roster.Player `json:"inPlayer"`
	Out roster.Player `json:"outPlayer"`
}

// PlayerJoin adds a rostered player to the active lineup.
type PlayerJoin struct {
	In roster.Player `json:"inPlayer"`
}

// PlayerLeave removes a player from the active lineup.
type PlayerLeave struct {
	Out roster.Player `json:"outPlayer"`
}

// ThrownOutQuestion marks a packet question excluded from play. The
// question keeps its packet slot, shifting the cycle-to-packet mapping.
type ThrownOutQuestion struct {
	QuestionIndex int `json:"questionIndex"`
}

// BonusPartAnswer records one correctly answered bonus part.
type BonusPartAnswer struct {
	Index  int `json:"index"`
	Points int `json:"points"`
}

// BonusAnswer records the bonus result for the team that won the tossup.
type BonusAnswer struct {
	ReceivingTeam string            `json:"receivingTeam"`
	CorrectParts  []BonusPartAnswer `json:"correctParts"`
}

// Total sums the points of the correctly answered parts.
func (b BonusAnswer) Total() int {
	total := 0
	for _, part := range b.CorrectParts {
		total += part.Points
	}
	return total
}

// TossupProtest is a team's challenge to a tossup ruling at a word position.
type TossupProtest struct {
	Team          string `json:"team"`
	QuestionIndex int    `json:"questionIndex"`
	Position      int    `json:"position"`
	Reason        string `json:"reason"`
}

// BonusProtest is a team's challenge to a bonus part ruling.
type BonusProtest struct {
	Team          string `json:"team"`
	QuestionIndex int    `json:"questionIndex"`
	Part          int    `json:"part"`
	Reason        string `json:"reason"`
}

// Describe renders a buzz in the event-log display form.
func (a TossupAnswer) Describe() string {
	verdict := "WRONGLY"
	if a.Marker.Correct {
		verdict = "CORRECTLY"
	}
	return fmt.Sprintf("%s (%s) answered %s on tossup #%d at word %d",
		a.Marker.Player.Name, a.Marker.Player.Team, verdict, a.TossupIndex+1, a.Marker.Position+1)
}
