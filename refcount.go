package texcache

import (
	"fmt"
	"slices"
)

// RefCounter counts users per key. An atlas keeps one counter by content
// hash and one by atlas name, and releases a resource when its count
// reaches zero.
type RefCounter struct {
	counts     map[string]int
	total      int
	decrements int
}

// NewRefCounter returns an empty counter.
func NewRefCounter() *RefCounter {
	return &RefCounter{counts: make(map[string]int)}
}

// Increment adds a user of key and returns the new count.
func (c *RefCounter) Increment(key string) int {
	c.counts[key]++
	c.total++
	return c.counts[key]
}

// Decrement removes a user of key and returns the new count. Keys that
// reach zero stop being tracked. Decrementing an untracked key returns
// ErrCounterUnderflow and changes nothing.
func (c *RefCounter) Decrement(key string) (int, error) {
	n, ok := c.counts[key]
	if !ok || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrCounterUnderflow, key)
	}
	n--
	if n == 0 {
		delete(c.counts, key)
	} else {
		c.counts[key] = n
	}
	c.total--
	c.decrements++
	return n, nil
}

// Count returns the number of users of key.
func (c *RefCounter) Count(key string) int { return c.counts[key] }

// Total returns the sum of all counts.
func (c *RefCounter) Total() int { return c.total }

// Decrements returns how many successful decrements happened since the
// last reset. Pass reset to start counting again from zero.
func (c *RefCounter) Decrements(reset bool) int {
	n := c.decrements
	if reset {
		c.decrements = 0
	}
	return n
}

// Keys returns the tracked keys in sorted order.
func (c *RefCounter) Keys() []string {
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of tracked keys.
func (c *RefCounter) Len() int { return len(c.counts) }

// Clear forgets every key. The decrement counter is left alone.
func (c *RefCounter) Clear() {
	clear(c.counts)
	c.total = 0
}
