package matches

import (
	"time"

	"quizbowl-match-service/internal/domain/match"
)

// MatchRecord wraps a Game with its registry identity and bookkeeping
// timestamps. The Game pointer is shared, not copied; all writes go
// through Service.Apply so the single-writer model holds.
type MatchRecord struct {
	ID        string      `json:"id"`
	Game      *match.Game `json:"game"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
