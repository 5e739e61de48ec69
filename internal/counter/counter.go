// Package counter implements a reducer over a single signed count.
//
// Actions form a sealed tagged union: the shapes the reducer accepts are
// fixed at compile time instead of being sniffed from runtime values. The
// count always equals the initial value plus the sum of applied steps,
// except where Replace, Merge, or Apply set it outright.
package counter

import (
	"errors"
	"fmt"
)

// State is the counter state.
type State struct {
	Count int
}

// ErrUnsupportedAction indicates an action shape the reducer does not
// recognize. Returned, never swallowed: an unknown action reaching the
// reducer is a programmer error and should abort loudly.
var ErrUnsupportedAction = errors.New("counter: unsupported action")

// Action is a requested state change. Implementations are the variants
// declared in this package; the interface is sealed.
type Action interface {
	isAction()
}

// Increment adds Step to the count. Step may be negative.
type Increment struct {
	Step int
}

// Replace discards the current state and sets the count outright.
type Replace struct {
	Count int
}

// Delta is a partial state: only fields that are non-nil are applied.
type Delta struct {
	Count *int
}

// Merge shallow-merges a Delta over the current state. Unset fields keep
// their current values.
type Merge struct {
	Delta Delta
}

// Apply invokes Fn with the current state and merges the returned Delta,
// the callable-action variant.
type Apply struct {
	Fn func(State) Delta
}

func (Increment) isAction() {}
func (Replace) isAction()   {}
func (Merge) isAction()     {}
func (Apply) isAction()     {}

// Reduce computes the next counter state. Pure: the input state is never
// mutated and no side effects are performed.
func Reduce(state State, action Action) (State, error) {
	switch a := action.(type) {
	case Increment:
		return State{Count: state.Count + a.Step}, nil
	case Replace:
		return State{Count: a.Count}, nil
	case Merge:
		return merge(state, a.Delta), nil
	case Apply:
		if a.Fn == nil {
			return State{}, fmt.Errorf("%w: Apply with nil Fn", ErrUnsupportedAction)
		}
		return merge(state, a.Fn(state)), nil
	default:
		return State{}, fmt.Errorf("%w: %T", ErrUnsupportedAction, action)
	}
}

// merge applies the set fields of d over s.
func merge(s State, d Delta) State {
	if d.Count != nil {
		s.Count = *d.Count
	}
	return s
}
