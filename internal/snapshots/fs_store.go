package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"quizbowl-match-service/internal/app/matches"
	"quizbowl-match-service/internal/domain/match"
)

// LoadMatch reads a single snapshot by match ID.
func (a *FSArchive) LoadMatch(id string) (matches.MatchRecord, error) {
	if a == nil {
		return matches.MatchRecord{}, errors.New("snapshot archive not configured")
	}
	if id == "" {
		return matches.MatchRecord{}, errors.New("match id required")
	}
	env, err := a.readEnvelope(MatchSnapshotPath(a.basePath, id))
	if err != nil {
		return matches.MatchRecord{}, err
	}
	return env.record()
}

// LoadMatches reads every snapshot under the archive root. Used to
// restore the in-memory registry on boot.
func (a *FSArchive) LoadMatches(_ context.Context) ([]matches.MatchRecord, error) {
	ids, err := a.listIDs()
	if err != nil {
		return nil, err
	}
	var records []matches.MatchRecord
	for _, id := range ids {
		record, err := a.LoadMatch(id)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot %s: %w", id, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (a *FSArchive) readEnvelope(path string) (envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return envelope{}, err
	}
	defer f.Close()

	var env envelope
	if err := json.NewDecoder(f).Decode(&env); err != nil {
		return envelope{}, err
	}
	return env, nil
}

func (env envelope) record() (matches.MatchRecord, error) {
	game, err := match.Decode(env.Game)
	if err != nil {
		return matches.MatchRecord{}, err
	}
	return matches.MatchRecord{
		ID:        env.ID,
		Game:      game,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
	}, nil
}
