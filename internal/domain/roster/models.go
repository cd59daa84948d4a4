package roster

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Player is a roster entry. Identity is the (Name, Team) pair; Starter is
// an attribute, not part of identity.
type Player struct {
	Name    string `json:"name"`
	Team    string `json:"team"`
	Starter bool   `json:"starter"`
}

// Same reports whether two entries refer to the same player.
func (p Player) Same(other Player) bool {
	return p.Name == other.Name && p.Team == other.Team
}

// TeamNames derives the distinct team identifiers across the roster,
// sorted for deterministic ordering.
func TeamNames(players []Player) []string {
	seen := make(map[string]struct{}, 2)
	names := make([]string, 0, 2)
	for _, p := range players {
		if _, ok := seen[p.Team]; ok {
			continue
		}
		seen[p.Team] = struct{}{}
		names = append(names, p.Team)
	}
	sort.Strings(names)
	return names
}

// TeamPlayers returns the roster entries for a single team, in roster order.
func TeamPlayers(players []Player, team string) []Player {
	var result []Player
	for _, p := range players {
		if p.Team == team {
			result = append(result, p)
		}
	}
	return result
}

// Find returns the roster entry matching the given name on the given team.
func Find(players []Player, team, name string) (Player, bool) {
	for _, p := range players {
		if p.Team == team && p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// ClosestTeam resolves a team name from user input. Exact matches win
// (case-insensitively), otherwise the best fuzzy match is returned.
func ClosestTeam(names []string, query string) (string, bool) {
	if query == "" {
		return "", false
	}
	for _, name := range names {
		if strings.EqualFold(name, query) {
			return name, true
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return ranks[0].Target, true
}
