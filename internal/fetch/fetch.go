// Package fetch tracks the loading, error and data state of one content load.
package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dharti-automation/dharti-web/internal/content/domain"
)

// State is what a page section renders from. Exactly one of Err, NotFound or
// Data is meaningful once Loading is false.
type State[T any] struct {
	Loading  bool
	Data     T
	Err      error
	NotFound bool
}

// NewState returns the initial state of a section: loading, no data.
func NewState[T any]() State[T] {
	return State[T]{Loading: true}
}

func (s State[T]) Failed() bool { return !s.Loading && s.Err != nil }
func (s State[T]) Ready() bool  { return !s.Loading && s.Err == nil && !s.NotFound }

// ErrPanic wraps a panic recovered from a loader.
var ErrPanic = errors.New("loader panicked")

// Run performs one load. Loading is cleared on every exit path, including a
// panicking loader, whose panic is reported through Err.
func Run[T any](ctx context.Context, load func(context.Context) (T, error)) (st State[T]) {
	st = NewState[T]()
	defer func() {
		if r := recover(); r != nil {
			st.Err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
		st.Loading = false
	}()

	if err := ctx.Err(); err != nil {
		st.Err = err
		return st
	}

	data, err := load(ctx)
	switch {
	case err == nil:
		st.Data = data
	case domain.IsNotFound(err):
		st.NotFound = true
	default:
		st.Err = err
	}
	return st
}

// RunList is Run for list resources; a successful load never yields a nil slice.
func RunList[T any](ctx context.Context, load func(context.Context) ([]T, error)) State[[]T] {
	st := Run(ctx, load)
	if st.Err == nil && !st.NotFound && st.Data == nil {
		st.Data = []T{}
	}
	return st
}

// RunDetail loads the record named by id. Each render owns its load, so the
// only stale response possible is one for another record; that result is
// dropped and reported as not found.
func RunDetail[T any](ctx context.Context, id string, load func(context.Context, string) (*T, error), idOf func(*T) string) State[*T] {
	return Run(ctx, func(ctx context.Context) (*T, error) {
		rec, err := load(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, domain.ErrNotFound
		}
		if got := idOf(rec); got != "" && got != id {
			return nil, fmt.Errorf("record %s returned for %s: %w", got, id, domain.ErrNotFound)
		}
		return rec, nil
	})
}
