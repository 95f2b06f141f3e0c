package cache

import "time"

// Key binds a cache key name to the type of the value stored under it.
type Key[T any] struct {
	name string
}

func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) String() string {
	return k.name
}

// Get is the typed counterpart of Cache.Get. A value of an unexpected type
// is reported as a miss.
func Get[T any](c *Cache, key Key[T]) (T, bool) {
	var zero T
	v, ok := c.Get(key.name)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		c.Clear(key.name)
		return zero, false
	}
	return typed, true
}

func Set[T any](c *Cache, key Key[T], value T, ttl time.Duration) {
	c.Set(key.name, value, ttl)
}
