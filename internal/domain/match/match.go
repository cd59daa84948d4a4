package match

import (
	"fmt"

	"quizbowl-match-service/internal/domain/packet"
	"quizbowl-match-service/internal/domain/roster"
)

// Score is a pair of team totals, ordered by sorted team name.
type Score [2]int

// Game owns the roster, the loaded packet, and the ordered cycle log for a
// two-team match. All derived state (active lineups, question indices,
// scores) is recomputed by replaying the cycles on each query; nothing is
// cached, so there is never stale state to invalidate. Matches run to tens
// of cycles, so full replay is cheap.
//
// A Game is not safe for concurrent writers. Match entry is one user
// action at a time; callers needing shared access must serialize it (see
// the app service's store).
type Game struct {
	Packet  *packet.Packet  `json:"packet"`
	Players []roster.Player `json:"players"`
	Cycles  []*Cycle        `json:"cycles"`
}

// NewGame returns an empty match with no packet, players, or cycles.
func NewGame() *Game {
	return &Game{Packet: &packet.Packet{}}
}

// IsLoaded reports whether a packet with at least one tossup is loaded.
func (g *Game) IsLoaded() bool {
	return g.Packet != nil && len(g.Packet.Tossups) > 0
}

// TeamNames returns the distinct team identifiers, sorted.
func (g *Game) TeamNames() []string {
	return roster.TeamNames(g.Players)
}

// TeamPlayers returns the full roster for one team, in roster order.
func (g *Game) TeamPlayers(team string) []roster.Player {
	return roster.TeamPlayers(g.Players, team)
}

// AddPlayer appends a player to the roster.
func (g *Game) AddPlayer(player roster.Player) {
	g.Players = append(g.Players, player)
}

// AddPlayers appends players to the roster.
func (g *Game) AddPlayers(players ...roster.Player) {
	g.Players = append(g.Players, players...)
}

// Clear resets the match to its initial empty state.
func (g *Game) Clear() {
	g.Packet = &packet.Packet{}
	g.Players = nil
	g.Cycles = nil
}

// LoadPacket replaces the packet and appends empty cycles until every
// tossup has a cycle slot. Existing cycles are never truncated or
// reordered, so events recorded for questions still in range survive a
// packet reload.
func (g *Game) LoadPacket(p *packet.Packet) {
	if p == nil {
		p = &packet.Packet{}
	}
	g.Packet = p
	for len(g.Cycles) < len(p.Tossups) {
		g.Cycles = append(g.Cycles, NewCycle())
	}
}

// Cycle returns the cycle at the given index, or nil when out of range.
func (g *Game) Cycle(cycleIndex int) *Cycle {
	if cycleIndex < 0 || cycleIndex >= len(g.Cycles) {
		return nil
	}
	return g.Cycles[cycleIndex]
}

// ActivePlayers replays lineup events through the given cycle and returns
// the team's active players. The replay starts from the team's starters,
// then applies each cycle's leaves, joins, and substitutions in order. An
// event referencing a player missing from the team's full roster fails
// with ErrInconsistentRoster. An index past the recorded cycles yields an
// empty set.
func (g *Game) ActivePlayers(team string, cycleIndex int) (map[roster.Player]struct{}, error) {
	active := make(map[roster.Player]struct{})
	if cycleIndex < 0 || cycleIndex >= len(g.Cycles) {
		return active, nil
	}

	teamRoster := g.TeamPlayers(team)
	for _, p := range teamRoster {
		if p.Starter {
			active[p] = struct{}{}
		}
	}

	for i := 0; i <= cycleIndex; i++ {
		cycle := g.Cycles[i]

		for _, leave := range cycle.Leaves {
			if leave.Out.Team != team {
				continue
			}
			out, ok := roster.Find(teamRoster, team, leave.Out.Name)
			if !ok {
				return nil, fmt.Errorf("%w: cannot take out %s, not on team %s",
					ErrInconsistentRoster, leave.Out.Name, team)
			}
			delete(active, out)
		}

		for _, join := range cycle.Joins {
			if join.In.Team != team {
				continue
			}
			in, ok := roster.Find(teamRoster, team, join.In.Name)
			if !ok {
				return nil, fmt.Errorf("%w: cannot add %s, not on team %s",
					ErrInconsistentRoster, join.In.Name, team)
			}
			active[in] = struct{}{}
		}

		for _, sub := range cycle.Subs {
			if sub.In.Team != team {
				continue
			}
			in, ok := roster.Find(teamRoster, team, sub.In.Name)
			if !ok {
				return nil, fmt.Errorf("%w: cannot substitute in %s, not on team %s",
					ErrInconsistentRoster, sub.In.Name, team)
			}
			out, ok := roster.Find(teamRoster, team, sub.Out.Name)
			if !ok {
				return nil, fmt.Errorf("%w: cannot substitute out %s, not on team %s",
					ErrInconsistentRoster, sub.Out.Name, team)
			}
			delete(active, out)
			active[in] = struct{}{}
		}
	}

	return active, nil
}

// TossupIndex maps a cycle to its packet tossup: the cycle index plus every
// tossup thrown out at or before that cycle, since a thrown-out tossup
// consumes a packet slot without being a played cycle.
func (g *Game) TossupIndex(cycleIndex int) int {
	thrownOut := 0
	for i := 0; i <= cycleIndex && i < len(g.Cycles); i++ {
		thrownOut += len(g.Cycles[i].ThrownOutTossups)
	}
	return cycleIndex + thrownOut
}

// BonusIndex maps a cycle to its packet bonus, or ok=false when the packet
// has no bonus left. A bonus is consumed by the correct buzz of each cycle
// strictly before this one (a bonus is answered only after its tossup is
// won) and by every thrown-out bonus through this cycle.
func (g *Game) BonusIndex(cycleIndex int) (int, bool) {
	used := 0
	for i := 0; i <= cycleIndex && i < len(g.Cycles); i++ {
		if g.Cycles[i].CorrectBuzz != nil && i < cycleIndex {
			used++
		}
		used += len(g.Cycles[i].ThrownOutBonuses)
	}
	if g.Packet == nil || used >= len(g.Packet.Bonuses) {
		return 0, false
	}
	return used, true
}

// Tossup resolves the packet tossup behind a cycle, if in range.
func (g *Game) Tossup(cycleIndex int) (packet.Tossup, bool) {
	idx := g.TossupIndex(cycleIndex)
	if g.Packet == nil || idx < 0 || idx >= len(g.Packet.Tossups) {
		return packet.Tossup{}, false
	}
	return g.Packet.Tossups[idx], true
}

// Bonus resolves the packet bonus behind a cycle, if one is available.
func (g *Game) Bonus(cycleIndex int) (packet.Bonus, bool) {
	idx, ok := g.BonusIndex(cycleIndex)
	if !ok {
		return packet.Bonus{}, false
	}
	return g.Packet.Bonuses[idx], true
}

// RecordWrongBuzz applies the neg routing policy and records a wrong buzz
// on the cycle: a buzz at or past the end of the question, or from a team
// that already negged this cycle, is recorded without penalty; otherwise
// it is the team's neg.
func (g *Game) RecordWrongBuzz(cycleIndex int, marker BuzzMarker) error {
	cycle := g.Cycle(cycleIndex)
	if cycle == nil {
		return fmt.Errorf("%w: no cycle %d", ErrIndexOutOfRange, cycleIndex)
	}
	tossupIndex := g.TossupIndex(cycleIndex)

	afterQuestion := false
	if tossup, ok := g.Tossup(cycleIndex); ok {
		afterQuestion = marker.Position >= tossup.WordCount()
	}
	if _, negged := cycle.NegBuzz(marker.Player.Team); negged || afterQuestion {
		cycle.AddNoPenaltyBuzz(marker, tossupIndex)
		return nil
	}
	return cycle.AddNeg(marker, tossupIndex)
}

// ScoreChange computes the score delta for one cycle, ordered by sorted
// team name: +10 and any bonus points for the correct buzz's team, -5 per
// negging team. No-penalty buzzes contribute nothing. A buzz or bonus
// credited to a team missing from the roster fails with ErrUnknownTeam.
func (g *Game) ScoreChange(cycleIndex int) (Score, error) {
	var change Score
	cycle := g.Cycle(cycleIndex)
	if cycle == nil {
		return change, nil
	}
	teams := g.TeamNames()

	if cycle.CorrectBuzz != nil {
		slot := teamSlot(teams, cycle.CorrectBuzz.Marker.Player.Team)
		if slot < 0 {
			return change, fmt.Errorf("%w: correct buzz for %q", ErrUnknownTeam, cycle.CorrectBuzz.Marker.Player.Team)
		}
		change[slot] += 10
		if cycle.BonusAnswer != nil {
			change[slot] += cycle.BonusAnswer.Total()
		}
	}

	for team := range cycle.Negs {
		slot := teamSlot(teams, team)
		if slot < 0 {
			return change, fmt.Errorf("%w: neg for %q", ErrUnknownTeam, team)
		}
		change[slot] -= 5
	}

	return change, nil
}

// Scores returns the running totals after every cycle, in order. The slice
// length equals the number of cycles.
func (g *Game) Scores() ([]Score, error) {
	scores := make([]Score, 0, len(g.Cycles))
	var total Score
	for i := range g.Cycles {
		change, err := g.ScoreChange(i)
		if err != nil {
			return nil, err
		}
		total[0] += change[0]
		total[1] += change[1]
		scores = append(scores, total)
	}
	return scores, nil
}

// FinalScore returns the last running total. A match with no cycles scores
// zero for both teams.
func (g *Game) FinalScore() (Score, error) {
	scores, err := g.Scores()
	if err != nil {
		return Score{}, err
	}
	if len(scores) == 0 {
		return Score{}, nil
	}
	return scores[len(scores)-1], nil
}

// teamSlot maps a team name to its score column. Teams beyond the second
// are rejected; this is a two-team match.
func teamSlot(teams []string, team string) int {
	for i, name := range teams {
		if name == team {
			if i > 1 {
				return -1
			}
			return i
		}
	}
	return -1
}
