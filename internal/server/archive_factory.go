package server

import (
	"context"
	"log/slog"

	"quizbowl-match-service/internal/app/matches"
	"quizbowl-match-service/internal/autosave"
	"quizbowl-match-service/internal/config"
	"quizbowl-match-service/internal/logging"
	"quizbowl-match-service/internal/snapshots"
	"quizbowl-match-service/internal/store"
)

// Archive is the persistence backend the server sweeps matches into and
// restores them from on boot.
type Archive interface {
	autosave.Archive
	LoadMatches(ctx context.Context) ([]matches.MatchRecord, error)
	Close(ctx context.Context) error
}

// mongoConnect is a var for tests to stub out the network dial.
var mongoConnect = func(ctx context.Context, uri, dbName string) (Archive, error) {
	return store.NewMongoArchive(ctx, uri, dbName)
}

// buildArchive selects the archive backend from config. A misconfigured
// or unreachable mongo backend falls back to fs snapshots so the service
// still comes up.
func buildArchive(cfg config.Config, logger *slog.Logger) Archive {
	if cfg.Snapshots.Backend == "mongo" {
		archive, err := mongoConnect(context.Background(), cfg.Mongo.URI, cfg.Mongo.Database)
		if err == nil {
			return archive
		}
		logging.Warn(logger, "mongo archive unavailable, falling back to fs",
			slog.String(logging.FieldBackend, "mongo"),
			slog.Any("err", err),
		)
	}
	return snapshots.NewFSArchive(cfg.Snapshots.Folder, cfg.Snapshots.RetentionDays)
}
