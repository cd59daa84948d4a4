package match

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"quizbowl-match-service/internal/domain/roster"
)

// Cycle holds every event recorded for one question-pair slot. Cycles are
// created when the packet loads and mutated in place; they are never
// reordered or deleted, only their contained events are.
type Cycle struct {
	Subs   []Substitution `json:"subs,omitempty"`
	Joins  []PlayerJoin   `json:"joins,omitempty"`
	Leaves []PlayerLeave  `json:"leaves,omitempty"`

	CorrectBuzz     *TossupAnswer  `json:"correctBuzz,omitempty"`
	IncorrectBuzzes []TossupAnswer `json:"incorrectBuzzes,omitempty"`

	// Negs maps a team name to its penalized wrong buzz for this cycle.
	// Incorrect buzzes absent from this map carry no penalty. One neg per
	// team per cycle; the single shared slot the old scoresheet kept was a
	// latent bug when both teams negged.
	Negs map[string]TossupAnswer `json:"negs,omitempty"`

	ThrownOutTossups []ThrownOutQuestion `json:"thrownOutTossups,omitempty"`
	ThrownOutBonuses []ThrownOutQuestion `json:"thrownOutBonuses,omitempty"`

	BonusAnswer *BonusAnswer `json:"bonusAnswer,omitempty"`

	TossupProtests []TossupProtest `json:"tossupProtests,omitempty"`
	BonusProtests  []BonusProtest  `json:"bonusProtests,omitempty"`
}

// NewCycle returns an empty cycle.
func NewCycle() *Cycle {
	return &Cycle{}
}

// AddSubstitution records In replacing Out.
func (c *Cycle) AddSubstitution(in, out roster.Player) {
	c.Subs = append(c.Subs, Substitution{In: in, Out: out})
}

// AddPlayerJoin records a player entering the lineup.
func (c *Cycle) AddPlayerJoin(in roster.Player) {
	c.Joins = append(c.Joins, PlayerJoin{In: in})
}

// AddPlayerLeave records a player leaving the lineup.
func (c *Cycle) AddPlayerLeave(out roster.Player) {
	c.Leaves = append(c.Leaves, PlayerLeave{Out: out})
}

// AddCorrectBuzz records the winning buzz for this cycle. A cycle holds at
// most one; callers must remove the existing buzz first.
func (c *Cycle) AddCorrectBuzz(marker BuzzMarker, tossupIndex int) error {
	if c.CorrectBuzz != nil {
		return fmt.Errorf("%w: cycle already has a correct buzz", ErrInvalidState)
	}
	marker.Correct = true
	c.CorrectBuzz = &TossupAnswer{Marker: marker, TossupIndex: tossupIndex}
	return nil
}

// RemoveCorrectBuzz clears the winning buzz. No-op when absent.
func (c *Cycle) RemoveCorrectBuzz() {
	c.CorrectBuzz = nil
}

// AddNeg records a penalized wrong buzz. The team must not already have a
// neg this cycle; routing between AddNeg and AddNoPenaltyBuzz is the
// caller's job (see Game.RecordWrongBuzz).
func (c *Cycle) AddNeg(marker BuzzMarker, tossupIndex int) error {
	team := marker.Player.Team
	if _, ok := c.Negs[team]; ok {
		return fmt.Errorf("%w: team %q already has a neg this cycle", ErrInvalidState, team)
	}
	marker.Correct = false
	buzz := TossupAnswer{Marker: marker, TossupIndex: tossupIndex}
	c.IncorrectBuzzes = append(c.IncorrectBuzzes, buzz)
	if c.Negs == nil {
		c.Negs = make(map[string]TossupAnswer, 2)
	}
	c.Negs[team] = buzz
	return nil
}

// AddNoPenaltyBuzz records a wrong buzz that carries no penalty, either
// because the question had ended or the team already negged this cycle.
func (c *Cycle) AddNoPenaltyBuzz(marker BuzzMarker, tossupIndex int) {
	marker.Correct = false
	c.IncorrectBuzzes = append(c.IncorrectBuzzes, TossupAnswer{Marker: marker, TossupIndex: tossupIndex})
}

// RemoveWrongBuzz removes the first wrong buzz by the given player. If that
// buzz was the team's neg, the neg is cleared too. No-op when the player
// has no wrong buzz recorded.
func (c *Cycle) RemoveWrongBuzz(player roster.Player) {
	for i, buzz := range c.IncorrectBuzzes {
		if !buzz.Marker.Player.Same(player) {
			continue
		}
		if neg, ok := c.Negs[player.Team]; ok && neg == buzz {
			delete(c.Negs, player.Team)
		}
		c.IncorrectBuzzes = append(c.IncorrectBuzzes[:i], c.IncorrectBuzzes[i+1:]...)
		return
	}
}

// NegBuzz returns the team's penalized wrong buzz for this cycle, if any.
func (c *Cycle) NegBuzz(team string) (TossupAnswer, bool) {
	buzz, ok := c.Negs[team]
	return buzz, ok
}

// AddThrownOutTossup marks a packet tossup as thrown out.
func (c *Cycle) AddThrownOutTossup(questionIndex int) {
	c.ThrownOutTossups = append(c.ThrownOutTossups, ThrownOutQuestion{QuestionIndex: questionIndex})
}

// RemoveThrownOutTossup removes the throw-out for the exact question index.
func (c *Cycle) RemoveThrownOutTossup(questionIndex int) {
	c.ThrownOutTossups = removeThrowOut(c.ThrownOutTossups, questionIndex)
}

// AddThrownOutBonus marks a packet bonus as thrown out.
func (c *Cycle) AddThrownOutBonus(questionIndex int) {
	c.ThrownOutBonuses = append(c.ThrownOutBonuses, ThrownOutQuestion{QuestionIndex: questionIndex})
}

// RemoveThrownOutBonus removes the throw-out for the exact question index.
func (c *Cycle) RemoveThrownOutBonus(questionIndex int) {
	c.ThrownOutBonuses = removeThrowOut(c.ThrownOutBonuses, questionIndex)
}

func removeThrowOut(events []ThrownOutQuestion, questionIndex int) []ThrownOutQuestion {
	for i, event := range events {
		if event.QuestionIndex == questionIndex {
			return append(events[:i], events[i+1:]...)
		}
	}
	return events
}

// AddTossupProtest records a team's protest. One tossup protest per team
// per cycle; a repeat replaces the earlier one.
func (c *Cycle) AddTossupProtest(team string, questionIndex, position int, reason string) {
	c.RemoveTossupProtest(team)
	c.TossupProtests = append(c.TossupProtests, TossupProtest{
		Team:          team,
		QuestionIndex: questionIndex,
		Position:      position,
		Reason:        reason,
	})
}

// RemoveTossupProtest clears the team's tossup protest. No-op when absent.
func (c *Cycle) RemoveTossupProtest(team string) {
	for i, protest := range c.TossupProtests {
		if protest.Team == team {
			c.TossupProtests = append(c.TossupProtests[:i], c.TossupProtests[i+1:]...)
			return
		}
	}
}

// AddBonusProtest records a protest keyed by (team, part); a repeat for the
// same key replaces the earlier one.
func (c *Cycle) AddBonusProtest(team string, questionIndex, part int, reason string) {
	c.RemoveBonusProtest(team, part)
	c.BonusProtests = append(c.BonusProtests, BonusProtest{
		Team:          team,
		QuestionIndex: questionIndex,
		Part:          part,
		Reason:        reason,
	})
}

// RemoveBonusProtest clears the protest for (team, part). No-op when absent.
func (c *Cycle) RemoveBonusProtest(team string, part int) {
	for i, protest := range c.BonusProtests {
		if protest.Team == team && protest.Part == part {
			c.BonusProtests = append(c.BonusProtests[:i], c.BonusProtests[i+1:]...)
			return
		}
	}
}

// SetBonusAnswer records the bonus result, replacing any existing one.
func (c *Cycle) SetBonusAnswer(receivingTeam string, correctParts []BonusPartAnswer) {
	c.BonusAnswer = &BonusAnswer{ReceivingTeam: receivingTeam, CorrectParts: correctParts}
}

// ClearBonusAnswer removes the bonus result. No-op when absent.
func (c *Cycle) ClearBonusAnswer() {
	c.BonusAnswer = nil
}

// OrderedBuzzes merges the correct buzz and the wrong buzzes sorted by
// (tossup index, word position). The sort is stable, with the correct buzz
// placed after wrong buzzes at the same position, so the display order
// never flickers as events are added.
func (c *Cycle) OrderedBuzzes() []TossupAnswer {
	buzzes := make([]TossupAnswer, 0, len(c.IncorrectBuzzes)+1)
	buzzes = append(buzzes, c.IncorrectBuzzes...)
	if c.CorrectBuzz != nil {
		buzzes = append(buzzes, *c.CorrectBuzz)
	}
	sort.SliceStable(buzzes, func(i, j int) bool {
		if buzzes[i].TossupIndex != buzzes[j].TossupIndex {
			return buzzes[i].TossupIndex < buzzes[j].TossupIndex
		}
		return buzzes[i].Marker.Position < buzzes[j].Marker.Position
	})
	return buzzes
}

// Events flattens the cycle into display order: substitutions and lineup
// changes, buzzes interleaved with the tossup throw-outs they straddle,
// thrown-out bonuses, the bonus answer, then protests. Buzzes on a question
// appear before the event that threw that question out.
func (c *Cycle) Events() []string {
	var entries []string
	for _, leave := range c.Leaves {
		entries = append(entries, fmt.Sprintf("%s (%s) leaves the game", leave.Out.Name, leave.Out.Team))
	}
	for _, join := range c.Joins {
		entries = append(entries, fmt.Sprintf("%s (%s) joins the game", join.In.Name, join.In.Team))
	}
	for _, sub := range c.Subs {
		entries = append(entries, fmt.Sprintf("Substitution (%s): %s in for %s", sub.In.Team, sub.In.Name, sub.Out.Name))
	}

	thrownOut := append([]ThrownOutQuestion(nil), c.ThrownOutTossups...)
	sort.Slice(thrownOut, func(i, j int) bool {
		return thrownOut[i].QuestionIndex < thrownOut[j].QuestionIndex
	})
	buzzes := c.OrderedBuzzes()

	next := 0
	for _, buzz := range buzzes {
		for next < len(thrownOut) && thrownOut[next].QuestionIndex < buzz.TossupIndex {
			entries = append(entries, describeThrowOut("tossup", thrownOut[next]))
			next++
		}
		entries = append(entries, buzz.Describe())
	}
	for ; next < len(thrownOut); next++ {
		entries = append(entries, describeThrowOut("tossup", thrownOut[next]))
	}

	for _, event := range c.ThrownOutBonuses {
		entries = append(entries, describeThrowOut("bonus", event))
	}

	if c.BonusAnswer != nil {
		entries = append(entries, describeBonusAnswer(*c.BonusAnswer))
	}

	for _, protest := range c.TossupProtests {
		entries = append(entries, fmt.Sprintf("%s protests tossup #%d at word %d",
			protest.Team, protest.QuestionIndex+1, protest.Position+1))
	}
	for _, protest := range c.BonusProtests {
		entries = append(entries, fmt.Sprintf("%s protests bonus #%d, part %d",
			protest.Team, protest.QuestionIndex+1, protest.Part+1))
	}

	return entries
}

func describeThrowOut(questionType string, event ThrownOutQuestion) string {
	return fmt.Sprintf("Threw out %s #%d", questionType, event.QuestionIndex+1)
}

func describeBonusAnswer(answer BonusAnswer) string {
	parts := make([]int, 0, len(answer.CorrectParts))
	for _, part := range answer.CorrectParts {
		parts = append(parts, part.Index+1)
	}
	sort.Ints(parts)

	partsText := "no parts"
	if len(parts) > 0 {
		labels := make([]string, len(parts))
		for i, part := range parts {
			labels[i] = strconv.Itoa(part)
		}
		noun := "part"
		if len(parts) > 1 {
			noun = "parts"
		}
		partsText = fmt.Sprintf("%s %s", noun, strings.Join(labels, ", "))
	}
	return fmt.Sprintf("%s answered %s correctly for %d points", answer.ReceivingTeam, partsText, answer.Total())
}
