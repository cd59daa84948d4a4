package snapshots

import (
	"fmt"
	"path/filepath"
)

// MatchSnapshotPath builds the path to a match snapshot for a given match ID.
func MatchSnapshotPath(basePath, id string) string {
	return filepath.Join(basePath, "matches", fmt.Sprintf("%s.json", id))
}
