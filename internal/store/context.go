package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingProvider indicates a value was requested from a context that no
// enclosing scope provided it to. This is a wiring bug: fail fast rather
// than let a zero value propagate silently.
var ErrMissingProvider = errors.New("store: no provider in scope")

// ctxKey is a distinct context key per provided type.
type ctxKey[T any] struct{}

// Provide returns a context carrying v, retrievable with From[T].
// One value per type T; providing again shadows the outer value.
func Provide[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKey[T]{}, v)
}

// From retrieves the value of type T provided on ctx. If no Provide[T] is
// in scope it returns ErrMissingProvider naming the expected type.
func From[T any](ctx context.Context) (T, error) {
	v, ok := ctx.Value(ctxKey[T]{}).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %T", ErrMissingProvider, zero)
	}
	return v, nil
}
