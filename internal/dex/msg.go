package dex

import "github.com/smileynet/pokedex/internal/pokeapi"

// Focus identifies which pane receives keyboard input.
type Focus int

const (
	FocusSearch Focus = iota // Search input has focus.
	FocusList                // Cached-name list has focus.
)

// FetchResultMsg carries the outcome of an async fetch back into the
// update loop. Gen is the session generation the fetch was issued under;
// the session drops results from superseded generations.
type FetchResultMsg struct {
	Gen  uint64
	Name string
	Data pokeapi.Pokemon
	Err  error
}

// Recorder receives the name of each successfully resolved lookup.
// Implemented by the history store; nil disables recording.
type Recorder interface {
	Record(name string)
}
