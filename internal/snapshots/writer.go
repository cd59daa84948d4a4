package snapshots

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"quizbowl-match-service/internal/app/matches"
	"quizbowl-match-service/internal/domain/match"
)

// envelope is the on-disk shape of a match snapshot. The game is embedded
// as its canonical JSON encoding so the file round-trips byte for byte.
type envelope struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Game      json.RawMessage `json:"game"`
}

// FSArchive persists match snapshots under basePath with manifest
// bookkeeping and rolling-window pruning.
type FSArchive struct {
	basePath      string
	retentionDays int
}

// NewFSArchive constructs an archive rooted at basePath. Matches whose
// last update is older than retentionDays are pruned on save.
func NewFSArchive(basePath string, retentionDays int) *FSArchive {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &FSArchive{
		basePath:      basePath,
		retentionDays: retentionDays,
	}
}

// Name identifies the archive backend in logs and metrics.
func (a *FSArchive) Name() string { return "fs" }

// BasePath exposes the archive root path (primarily for testing).
func (a *FSArchive) BasePath() string {
	if a == nil {
		return ""
	}
	return a.basePath
}

// SaveMatch writes the record's snapshot atomically and prunes stale
// snapshots. Unchanged payloads skip the write but still refresh the
// manifest.
func (a *FSArchive) SaveMatch(_ context.Context, record matches.MatchRecord) error {
	if a == nil {
		return fmt.Errorf("snapshot archive not configured")
	}
	if record.ID == "" {
		return fmt.Errorf("match id required")
	}

	encoded, err := match.Encode(record.Game)
	if err != nil {
		return fmt.Errorf("encoding match %s: %w", record.ID, err)
	}
	data, err := json.MarshalIndent(envelope{
		ID:        record.ID,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		Game:      encoded,
	}, "", "  ")
	if err != nil {
		return err
	}

	target := MatchSnapshotPath(a.basePath, record.ID)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return a.updateManifest(record.ID)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	return a.updateManifest(record.ID)
}

// DeleteMatch removes the snapshot file and its manifest entry. Absent
// files are not an error.
func (a *FSArchive) DeleteMatch(_ context.Context, id string) error {
	if err := os.Remove(MatchSnapshotPath(a.basePath, id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return a.updateManifest("")
}

// Close satisfies the archive contract. The fs backend holds no
// connections.
func (a *FSArchive) Close(context.Context) error { return nil }

func (a *FSArchive) updateManifest(id string) error {
	manifestPath := filepath.Join(a.basePath, "manifest.json")
	m, _ := readManifest(manifestPath, a.retentionDays)
	now := time.Now().UTC()

	ids, err := a.listIDs()
	if err != nil {
		return err
	}
	if id != "" && !containsID(ids, id) {
		ids = append(ids, id)
	}
	pruned, err := a.pruneOldSnapshots(ids)
	if err != nil {
		return err
	}

	m.Matches.IDs = pruned
	m.Matches.LastRefreshed = now
	m.Retention.MatchDays = a.retentionDays

	return writeManifest(a.basePath, m)
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (a *FSArchive) listIDs() ([]string, error) {
	dir := filepath.Join(a.basePath, "matches")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var (
		ids  []string
		seen = make(map[string]struct{})
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		base := name[:len(name)-len(".json")]
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		ids = append(ids, base)
	}
	sort.Strings(ids)
	return ids, nil
}

func (a *FSArchive) pruneOldSnapshots(ids []string) ([]string, error) {
	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -a.retentionDays)
	var keep []string
	for _, id := range ids {
		path := MatchSnapshotPath(a.basePath, id)
		env, err := a.readEnvelope(path)
		if err != nil {
			keep = append(keep, id)
			continue
		}
		if !env.UpdatedAt.IsZero() && env.UpdatedAt.Before(cutoff) {
			_ = os.Remove(path)
			continue
		}
		keep = append(keep, id)
	}
	sort.Strings(keep)
	return keep, nil
}
