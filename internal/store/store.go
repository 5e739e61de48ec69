// Package store implements a reducer-backed state container with explicit
// subscriptions. State changes flow through a single Dispatch path: a pure
// reducer computes the next state, and subscribers are notified with the
// result. There is no other write path.
package store

import (
	"fmt"
	"sync"
)

// Reducer computes the next state from the current state and an action.
// Reducers must be pure: no mutation of the input state, no side effects.
// An unrecognized action is a programmer error and must be returned as an
// error, never silently ignored.
type Reducer[S, A any] func(S, A) (S, error)

// Store holds state of type S and applies actions of type A through its
// reducer. Safe for concurrent use.
type Store[S, A any] struct {
	mu     sync.Mutex
	state  S
	reduce Reducer[S, A]
	subs   []subscriber[S]
	nextID int
}

type subscriber[S any] struct {
	id int
	fn func(S)
}

// New creates a Store with the given reducer and initial state.
func New[S, A any](reduce Reducer[S, A], initial S) *Store[S, A] {
	return &Store[S, A]{state: initial, reduce: reduce}
}

// State returns the current state.
func (s *Store[S, A]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies an action through the reducer and notifies subscribers
// with the new state, in subscription order. If the reducer fails, state is
// unchanged, no subscriber is notified, and the error is returned to the
// caller; dispatch errors are not recoverable conditions and should abort
// the operation that issued them.
//
// Dispatches are serialized: a second Dispatch blocks until the first has
// finished notifying. Subscriber callbacks must not call Dispatch.
func (s *Store[S, A]) Dispatch(action A) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.reduce(s.state, action)
	if err != nil {
		return fmt.Errorf("store: dispatch: %w", err)
	}
	s.state = next

	for _, sub := range s.subs {
		sub.fn(next)
	}
	return nil
}

// Subscribe registers fn to be called with the new state after every
// successful dispatch. The returned cancel function removes the
// subscription; calling it more than once is a no-op.
func (s *Store[S, A]) Subscribe(fn func(S)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber[S]{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
