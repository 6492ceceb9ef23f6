package model

import "sync"

// cell memoizes a single computation. Concurrent first callers block
// until the one running computation publishes its result; later calls
// return the cached value without locking overhead beyond the Once.
type cell[T any] struct {
	once sync.Once
	v    T
	err  error
}

func (c *cell[T]) get(compute func() (T, error)) (T, error) {
	c.once.Do(func() {
		c.v, c.err = compute()
	})
	return c.v, c.err
}

// value is the error-free variant of cell.
type value[T any] struct {
	once sync.Once
	v    T
}

func (c *value[T]) get(compute func() T) T {
	c.once.Do(func() {
		c.v = compute()
	})
	return c.v
}
