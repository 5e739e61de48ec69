package dex

import (
	"github.com/smileynet/pokedex/internal/pokeapi"
	"github.com/smileynet/pokedex/internal/store"
)

// Phase is the lifecycle of the current selection.
type Phase int

const (
	PhaseIdle     Phase = iota // No name selected.
	PhasePending               // Fetch in flight for the selection.
	PhaseResolved              // Data available, from cache or a completed fetch.
	PhaseRejected              // Fetch failed; error held for display.
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseResolved:
		return "resolved"
	case PhaseRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Session is the selection/fetch state machine. It owns the selection and
// display state and mutates the cache exclusively through its store's
// reducer.
//
// Every accepted selection bumps a generation counter, and fetch results
// carry the generation they were issued under. A result from a superseded
// generation is discarded, so a slow fetch can never clobber the display
// or cache of a later selection. The same check covers results arriving
// after the session has moved on for any other reason.
//
// Session is not safe for concurrent use; confine it to a single
// goroutine, e.g. the Bubble Tea update loop.
type Session struct {
	cache     *store.Store[Cache, Action]
	phase     Phase
	selection string
	current   pokeapi.Pokemon
	err       error
	gen       uint64
}

// NewSession creates an idle Session over the given cache store.
func NewSession(cache *store.Store[Cache, Action]) *Session {
	return &Session{cache: cache}
}

// Phase returns the current selection phase.
func (s *Session) Phase() Phase { return s.phase }

// Selection returns the currently selected name, or "" when idle.
func (s *Session) Selection() string { return s.selection }

// Current returns the resolved data. Meaningful only in PhaseResolved.
func (s *Session) Current() pokeapi.Pokemon { return s.current }

// Err returns the fetch error. Meaningful only in PhaseRejected.
func (s *Session) Err() error { return s.err }

// Cache returns a snapshot of the cache state.
func (s *Session) Cache() Cache { return s.cache.State() }

// Store returns the underlying cache store, for subscribers.
func (s *Session) Store() *store.Store[Cache, Action] { return s.cache }

// Select changes the current selection. An empty name goes idle. A cached
// name resolves immediately without a fetch. An uncached name enters
// PhasePending; the caller must issue a fetch and deliver the result via
// Resolve or Reject with the returned generation.
func (s *Session) Select(name string) (fetch bool, gen uint64) {
	name = pokeapi.Normalize(name)
	s.gen++
	s.err = nil

	if name == "" {
		s.phase = PhaseIdle
		s.selection = ""
		s.current = pokeapi.Pokemon{}
		return false, s.gen
	}

	s.selection = name
	if data, ok := s.cache.State().Get(name); ok {
		s.phase = PhaseResolved
		s.current = data
		return false, s.gen
	}

	s.phase = PhasePending
	s.current = pokeapi.Pokemon{}
	return true, s.gen
}

// Resolve commits a successful fetch issued under gen: the cache gains the
// entry and the selection becomes resolved. Results from a superseded
// generation are dropped without touching cache or display. A cache
// reducer failure is returned as-is; it is fatal to the session's caller.
func (s *Session) Resolve(gen uint64, name string, data pokeapi.Pokemon) error {
	if s.stale(gen) {
		return nil
	}
	if err := s.cache.Dispatch(AddPokemon{Name: name, Data: data}); err != nil {
		return err
	}
	s.phase = PhaseResolved
	s.current = data
	s.err = nil
	return nil
}

// Reject records a failed fetch issued under gen. The cache gains no
// entry. Stale results are dropped.
func (s *Session) Reject(gen uint64, err error) {
	if s.stale(gen) {
		return
	}
	s.phase = PhaseRejected
	s.current = pokeapi.Pokemon{}
	s.err = err
}

// stale reports whether a fetch result no longer matches the live
// generation or arrives when no fetch is expected.
func (s *Session) stale(gen uint64) bool {
	return gen != s.gen || s.phase != PhasePending
}

// Remove drops name from the cache. Removing the displayed name re-selects
// the least-recently-added remaining entry (resolved from cache, no fetch)
// or goes idle when the cache empties. Removing any other name changes the
// cache only.
func (s *Session) Remove(name string) error {
	name = pokeapi.Normalize(name)
	if err := s.cache.Dispatch(RemovePokemon{Name: name}); err != nil {
		return err
	}
	if name != s.selection {
		return nil
	}

	s.gen++ // Invalidate any in-flight fetch for the removed selection.
	if next := s.cache.State().Oldest(); next != "" {
		s.selection = next
		s.current, _ = s.cache.State().Get(next)
		s.phase = PhaseResolved
		s.err = nil
		return nil
	}

	s.phase = PhaseIdle
	s.selection = ""
	s.current = pokeapi.Pokemon{}
	s.err = nil
	return nil
}
