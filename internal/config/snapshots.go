package config

import "time"

// SnapshotsConfig controls match snapshot persistence and autosave.
type SnapshotsConfig struct {
	Backend       string        // "fs" or "mongo"
	Folder        string        // base path for fs snapshots
	Interval      time.Duration // autosave cadence
	RetentionDays int           // prune archived matches older than this
	AdminToken    string        // auth for the manual refresh endpoint
}

func loadSnapshots() SnapshotsConfig {
	return SnapshotsConfig{
		Backend:       envOrDefault(envSnapshotBackend, defaultSnapshotBackend),
		Folder:        envOrDefault(envSnapshotFolder, defaultSnapshotFolder),
		Interval:      durationEnvOrDefault(envSnapshotInterval, defaultSnapshotInterval),
		RetentionDays: intEnvOrDefault(envSnapshotDays, defaultSnapshotDays),
		AdminToken:    envOrDefault(envAdminToken, ""),
	}
}
