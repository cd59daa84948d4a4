package match

import "errors"

// Domain errors. Invalid-state and unknown-team failures indicate caller
// misuse and surface immediately; index misses on queries return empty
// results instead (partially entered matches are a normal state).
var (
	// ErrInvalidState reports a violated one-per-cycle invariant, such as
	// adding a second correct buzz without removing the first.
	ErrInvalidState = errors.New("invalid cycle state")

	// ErrInconsistentRoster reports a substitution, join, or leave that
	// references a player absent from the named team's roster.
	ErrInconsistentRoster = errors.New("inconsistent roster")

	// ErrUnknownTeam reports a buzz or bonus credited to a team that is
	// not in the roster.
	ErrUnknownTeam = errors.New("unknown team")

	// ErrIndexOutOfRange reports a cycle or question index beyond the
	// recorded data on an operation that cannot return a default.
	ErrIndexOutOfRange = errors.New("index out of range")
)
