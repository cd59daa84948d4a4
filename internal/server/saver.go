package server

import (
	"context"

	"quizbowl-match-service/internal/autosave"
)

// Saver defines the minimal autosave behavior needed by the server.
type Saver interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	SaveAll(ctx context.Context) error
	Status() autosave.Status
}
