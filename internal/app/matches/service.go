package matches

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"quizbowl-match-service/internal/domain/match"
	"quizbowl-match-service/internal/domain/packet"
	"quizbowl-match-service/internal/domain/roster"
	"quizbowl-match-service/internal/metrics"
)

// Store defines the contract for keeping match records.
type Store interface {
	ListMatches() []MatchRecord
	GetMatch(id string) (MatchRecord, bool)
	PutMatch(record MatchRecord)
	DeleteMatch(id string)
}

// Service coordinates match operations using a Store.
type Service struct {
	store   Store
	metrics *metrics.Recorder
	now     func() time.Time
	newID   func() string
}

// NewService constructs a Service with the provided Store.
func NewService(store Store, recorder *metrics.Recorder) *Service {
	return &Service{
		store:   store,
		metrics: recorder,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Create registers a new match with the given roster and packet.
func (s *Service) Create(players []roster.Player, p *packet.Packet) (MatchRecord, error) {
	if teams := roster.TeamNames(players); len(teams) > 2 {
		return MatchRecord{}, fmt.Errorf("%w: got %d teams, want at most 2", match.ErrInvalidState, len(teams))
	}

	game := match.NewGame()
	game.AddPlayers(players...)
	game.LoadPacket(p)

	now := s.now().UTC()
	record := MatchRecord{
		ID:        s.newID(),
		Game:      game,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.PutMatch(record)
	s.recordMutation("create")
	return record, nil
}

// Restore places an archived record back in the store, keeping its
// identity and timestamps.
func (s *Service) Restore(record MatchRecord) {
	if record.Game == nil {
		record.Game = match.NewGame()
	}
	s.store.PutMatch(record)
}

// Matches returns all known match records.
func (s *Service) Matches() []MatchRecord {
	return s.store.ListMatches()
}

// MatchByID returns a single match record if present.
func (s *Service) MatchByID(id string) (MatchRecord, bool) {
	return s.store.GetMatch(id)
}

// Delete removes a match from the registry.
func (s *Service) Delete(id string) {
	s.store.DeleteMatch(id)
	s.recordMutation("delete")
}

// Apply runs a mutation against the match's game under the registry's
// single-writer discipline, bumping UpdatedAt and counting the mutation
// kind on success.
func (s *Service) Apply(id, kind string, fn func(*match.Game) error) error {
	record, ok := s.store.GetMatch(id)
	if !ok {
		return fmt.Errorf("%w: match %q", match.ErrIndexOutOfRange, id)
	}
	if err := fn(record.Game); err != nil {
		return err
	}
	record.UpdatedAt = s.now().UTC()
	s.store.PutMatch(record)
	s.recordMutation(kind)
	return nil
}

func (s *Service) recordMutation(kind string) {
	if s.metrics != nil {
		s.metrics.RecordMutation(kind)
	}
}
