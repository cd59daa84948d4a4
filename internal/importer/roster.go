package importer

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"quizbowl-match-service/internal/domain/roster"
)

// rosterFile is the YAML shape: team name to player list.
type rosterFile struct {
	Teams map[string][]rosterPlayer `yaml:"teams"`
}

type rosterPlayer struct {
	Name    string `yaml:"name"`
	Starter bool   `yaml:"starter"`
}

// ReadRoster parses a roster YAML file and validates it for match play:
// exactly two teams, each with at least one starter.
func ReadRoster(path string) ([]roster.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	return parseRoster(data)
}

func parseRoster(data []byte) ([]roster.Player, error) {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	if len(file.Teams) != 2 {
		return nil, fmt.Errorf("roster must name exactly two teams, got %d", len(file.Teams))
	}

	teams := make([]string, 0, 2)
	for team := range file.Teams {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	var players []roster.Player
	for _, team := range teams {
		starters := 0
		for _, p := range file.Teams[team] {
			if p.Name == "" {
				return nil, fmt.Errorf("team %s has a player without a name", team)
			}
			if p.Starter {
				starters++
			}
			players = append(players, roster.Player{
				Name:    p.Name,
				Team:    team,
				Starter: p.Starter,
			})
		}
		if starters == 0 {
			return nil, fmt.Errorf("team %s has no starters", team)
		}
	}
	return players, nil
}
