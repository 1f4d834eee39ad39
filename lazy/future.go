package lazy

import (
	"context"
	"sync"
)

// Future is a deferred computation with an error channel. A fixture may
// return a Future instead of a finished value; the collection driver awaits
// it before treating the result as a validation candidate, so a deferred
// value is never validated unresolved.
//
// The computation runs on the first Await call and the outcome is memoized;
// later Await calls return the same value and error.
type Future struct {
	compute func(ctx context.Context) (any, error)
	once    sync.Once
	value   any
	err     error
}

// Go wraps a computation into a Future without starting it.
func Go(compute func(ctx context.Context) (any, error)) *Future {
	return &Future{compute: compute}
}

// Resolved returns a Future that already holds the given value.
func Resolved(value any) *Future {
	f := &Future{}
	f.once.Do(func() {})
	f.value = value

	return f
}

// Await drives the computation to completion and returns its result.
// The context passed to the first caller is the one the computation sees.
func (f *Future) Await(ctx context.Context) (any, error) {
	f.once.Do(func() {
		if f.compute != nil {
			f.value, f.err = f.compute(ctx)
		}
	})

	return f.value, f.err
}
