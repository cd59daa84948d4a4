package match

import "fmt"

// ProtestKind distinguishes tossup and bonus protests.
type ProtestKind string

const (
	ProtestTossupKind ProtestKind = "tossup"
	ProtestBonusKind  ProtestKind = "bonus"
)

// PendingProtest is a protest being drafted before it is committed to a
// cycle. Position applies to tossup protests, Part to bonus protests.
type PendingProtest struct {
	Kind          ProtestKind `json:"kind"`
	Team          string      `json:"team"`
	QuestionIndex int         `json:"questionIndex"`
	Position      int         `json:"position"`
	Part          int         `json:"part"`
	Reason        string      `json:"reason"`
}

// ProtestSlot holds at most one pending protest outside any cycle.
// Staging a new protest silently discards an uncommitted one; that is the
// documented behavior, not an error.
type ProtestSlot struct {
	pending *PendingProtest
}

// StageTossup starts drafting a tossup protest.
func (s *ProtestSlot) StageTossup(team string, questionIndex, position int) {
	s.pending = &PendingProtest{
		Kind:          ProtestTossupKind,
		Team:          team,
		QuestionIndex: questionIndex,
		Position:      position,
	}
}

// StageBonus starts drafting a bonus protest.
func (s *ProtestSlot) StageBonus(team string, questionIndex, part int) {
	s.pending = &PendingProtest{
		Kind:          ProtestBonusKind,
		Team:          team,
		QuestionIndex: questionIndex,
		Part:          part,
	}
}

// UpdateReason replaces the drafted reason text. No-op with no draft.
func (s *ProtestSlot) UpdateReason(reason string) {
	if s.pending != nil {
		s.pending.Reason = reason
	}
}

// Pending returns the current draft, if any.
func (s *ProtestSlot) Pending() (PendingProtest, bool) {
	if s.pending == nil {
		return PendingProtest{}, false
	}
	return *s.pending, true
}

// Commit converts the draft into a protest event on the cycle and clears
// the slot.
func (s *ProtestSlot) Commit(cycle *Cycle) error {
	if s.pending == nil {
		return fmt.Errorf("%w: no pending protest", ErrInvalidState)
	}
	if cycle == nil {
		return fmt.Errorf("%w: no cycle for protest", ErrIndexOutOfRange)
	}
	p := *s.pending
	switch p.Kind {
	case ProtestBonusKind:
		cycle.AddBonusProtest(p.Team, p.QuestionIndex, p.Part, p.Reason)
	default:
		cycle.AddTossupProtest(p.Team, p.QuestionIndex, p.Position, p.Reason)
	}
	s.pending = nil
	return nil
}

// Cancel discards the draft without committing.
func (s *ProtestSlot) Cancel() {
	s.pending = nil
}
