// Package model exposes class files as lazily-computed, cached data
// objects that hydration passes decorate with derived facts.
package model

import "sync"

// Key is a typed key for the per-object extension store. Keys compare by
// identity, not by name: two keys created with the same name are
// distinct. The name exists only for diagnostics.
type Key[T any] struct {
	name string
}

// NewKey creates a new store key. Keys are meant to be package-level
// variables shared by the writer and readers of a fact.
func NewKey[T any](name string) *Key[T] {
	return &Key[T]{name: name}
}

func (k *Key[T]) Name() string { return k.name }

// Data is an open-ended key-to-value store embedded in every model
// object. Hydration passes attach derived facts here. All access is
// serialized under a per-object lock; contention is expected to be low
// (most objects are touched by a single worker) but concurrent appends
// to the same object must not lose updates.
type Data struct {
	mu     sync.Mutex
	values map[any]any
}

// Get returns the value stored under k.
func Get[T any](d *Data, k *Key[T]) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.values[k]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Set stores v under k, replacing any previous value.
func Set[T any](d *Data, k *Key[T], v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.values == nil {
		d.values = make(map[any]any)
	}
	d.values[k] = v
}

// Update replaces the value under k with f(current) under the store
// lock. When no value is stored yet, f receives the zero value. This is
// the append primitive for slice- and set-valued facts.
func Update[T any](d *Data, k *Key[T], f func(T) T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.values == nil {
		d.values = make(map[any]any)
	}
	var cur T
	if v, ok := d.values[k]; ok {
		cur = v.(T)
	}
	d.values[k] = f(cur)
}

// AddUnique appends v to the slice stored under k unless an equal
// element is already present.
func AddUnique[T comparable](d *Data, k *Key[[]T], v T) {
	Update(d, k, func(cur []T) []T {
		for _, e := range cur {
			if e == v {
				return cur
			}
		}
		return append(cur, v)
	})
}
