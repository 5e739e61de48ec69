// Package dex implements the Pokédex session: a reducer-owned cache of
// fetched Pokémon, the selection/fetch state machine around it, and the
// Bubble Tea model that drives both.
package dex

import (
	"errors"
	"fmt"

	"github.com/smileynet/pokedex/internal/pokeapi"
)

// ErrUnhandledAction indicates an action the cache reducer does not
// recognize. Propagated to the dispatcher, never swallowed: a typo'd or
// missing action variant should surface immediately.
var ErrUnhandledAction = errors.New("dex: unhandled action type")

// Cache maps Pokémon names to fetched data. order holds the names in
// insertion order, least-recently-added first, and is the deterministic
// tie-break when a removal forces re-selection. Absence of a name means
// "not fetched or evicted", never "fetched empty".
//
// Cache values are treated as immutable: the reducer returns fresh copies
// so holders of an old value can compare identities and never observe
// in-place mutation.
type Cache struct {
	entries map[string]pokeapi.Pokemon
	order   []string
}

// EmptyCache returns a cache with no entries.
func EmptyCache() Cache {
	return Cache{entries: map[string]pokeapi.Pokemon{}}
}

// Get returns the entry for name and whether it exists.
func (c Cache) Get(name string) (pokeapi.Pokemon, bool) {
	p, ok := c.entries[name]
	return p, ok
}

// Has reports whether name is cached.
func (c Cache) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Len returns the number of cached entries.
func (c Cache) Len() int {
	return len(c.entries)
}

// Names returns the cached names in insertion order. The returned slice is
// a copy.
func (c Cache) Names() []string {
	return append([]string(nil), c.order...)
}

// Oldest returns the least-recently-added name, or "" if the cache is
// empty.
func (c Cache) Oldest() string {
	if len(c.order) == 0 {
		return ""
	}
	return c.order[0]
}

// clone returns a deep-enough copy: fresh map and slice, shared Pokemon
// values (which are never mutated).
func (c Cache) clone() Cache {
	next := Cache{
		entries: make(map[string]pokeapi.Pokemon, len(c.entries)),
		order:   append([]string(nil), c.order...),
	}
	for k, v := range c.entries {
		next.entries[k] = v
	}
	return next
}

// Action is a requested cache change. The union is sealed to the variants
// in this package.
type Action interface {
	isAction()
}

// AddPokemon stores Data under Name, overwriting any existing entry.
// Overwriting keeps the name's original position in insertion order.
type AddPokemon struct {
	Name string
	Data pokeapi.Pokemon
}

// RemovePokemon drops Name from the cache. Removing an absent name is a
// no-op that still yields a fresh copy.
type RemovePokemon struct {
	Name string
}

func (AddPokemon) isAction()    {}
func (RemovePokemon) isAction() {}

// Reduce computes the next cache from an action. The input cache is never
// mutated; every successful reduction returns a fresh value so subscribers
// can rely on identity-based change detection.
func Reduce(cache Cache, action Action) (Cache, error) {
	switch a := action.(type) {
	case AddPokemon:
		next := cache.clone()
		if _, exists := next.entries[a.Name]; !exists {
			next.order = append(next.order, a.Name)
		}
		next.entries[a.Name] = a.Data
		return next, nil

	case RemovePokemon:
		next := cache.clone()
		if _, exists := next.entries[a.Name]; exists {
			delete(next.entries, a.Name)
			for i, n := range next.order {
				if n == a.Name {
					next.order = append(next.order[:i], next.order[i+1:]...)
					break
				}
			}
		}
		return next, nil

	default:
		return Cache{}, fmt.Errorf("%w: %T", ErrUnhandledAction, action)
	}
}
