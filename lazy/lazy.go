// Package lazy provides values that are computed at most once: Of for plain
// deferred globals and Future for fixture values that are produced
// asynchronously and must be driven to completion before use.
package lazy

import "sync"

// Of is a lazy value that is initialized at most once.
type Of[T any] struct {
	create func() T
	once   sync.Once
	value  T
}

// New creates a lazy value from the given constructor. The constructor runs
// on the first Get call, never earlier.
func New[T any](create func() T) *Of[T] {
	return &Of[T]{create: create}
}

// Get returns the value (and initializes it if necessary).
func (t *Of[T]) Get() T { //nolint:ireturn
	t.once.Do(func() {
		if t.create != nil {
			t.value = t.create()
		}
	})

	return t.value
}
