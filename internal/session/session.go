// Package session drives a single query session through the Idle ->
// IndexLoaded -> Queried -> Ranked state machine described in spec.md §4.8.
// A Session is single-use and single-threaded, matching the CLI's one
// process per query session.
package session

import (
	"context"
	"fmt"

	"github.com/sakai-lab/shinbun-search/internal/loader"
	"github.com/sakai-lab/shinbun-search/internal/query"
	"github.com/sakai-lab/shinbun-search/internal/rank"
)

// State is a session's position in the Idle/IndexLoaded/Queried/Ranked
// state machine. There are no back-edges: a new query session is a fresh
// process (spec §4.8).
type State int

const (
	Idle State = iota
	IndexLoaded
	Queried
	Ranked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case IndexLoaded:
		return "IndexLoaded"
	case Queried:
		return "Queried"
	case Ranked:
		return "Ranked"
	default:
		return "unknown"
	}
}

// StateError reports an attempt to drive the session through an illegal
// transition. This is a programming-bug category (spec §7: "everything
// else is a programming bug and should abort loudly"), not a user-facing
// condition like query.NoMatchError.
type StateError struct {
	Have     State
	Required State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("session: in state %s, require %s", e.Have, e.Required)
}

// Mode selects how Query combines its terms.
type Mode int

const (
	ModeSingle Mode = iota
	ModeAnd
	ModeOr
)

// Session is a single query session: it loads an index once, runs exactly
// one query against it, and may rank the resulting match set any number of
// times against either score kind.
type Session struct {
	state   State
	idx     loader.Index
	engine  *query.Engine
	matches []string
}

// New returns a fresh session in the Idle state.
func New() *Session {
	return &Session{state: Idle}
}

// State reports the session's current position in the state machine.
func (s *Session) State() State { return s.state }

// Load reads and merges the named categories' inverted indexes, advancing
// Idle -> IndexLoaded. Load may only be called once per session.
func (s *Session) Load(_ context.Context, root string, categories []string) error {
	if s.state != Idle {
		return &StateError{Have: s.state, Required: Idle}
	}

	idx, err := loader.Load(root, categories)
	if err != nil {
		return err
	}

	s.idx = idx
	s.engine = query.New(idx)
	s.state = IndexLoaded
	return nil
}

// Query evaluates terms under mode against the loaded index, advancing
// IndexLoaded -> Queried. terms must hold exactly one entry for ModeSingle
// and exactly two for ModeAnd/ModeOr (spec §4.6's two-term restriction).
func (s *Session) Query(mode Mode, terms []string) error {
	if s.state != IndexLoaded {
		return &StateError{Have: s.state, Required: IndexLoaded}
	}

	var matches []string
	var err error
	switch mode {
	case ModeSingle:
		matches, err = s.engine.Single(terms[0])
	case ModeAnd:
		matches, err = s.engine.And(terms[0], terms[1])
	case ModeOr:
		matches, err = s.engine.Or(terms[0], terms[1])
	default:
		return fmt.Errorf("session: unknown query mode %d", mode)
	}
	if err != nil {
		return err
	}

	s.matches = matches
	s.state = Queried
	return nil
}

// Rank ranks the prior Query's match set by the given score kind, advancing
// Queried -> Ranked. Rank may be called repeatedly (once per ScoreKind) once
// Queried or Ranked.
func (s *Session) Rank(root, term string, kind rank.ScoreKind) ([]rank.Row, error) {
	if s.state != Queried && s.state != Ranked {
		return nil, &StateError{Have: s.state, Required: Queried}
	}

	rows, err := rank.Rank(root, term, s.matches, kind)
	if err != nil {
		return nil, err
	}

	s.state = Ranked
	return rows, nil
}

// Matches returns the match set produced by the prior Query call.
func (s *Session) Matches() []string { return s.matches }
