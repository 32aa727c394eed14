package testutil

import (
	"sync"
	"time"
)

// Epoch is the first instant returned by a fresh Clock.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Clock is a deterministic clock for tests. Each call to Now advances it by
// a fixed step, so successive timestamps are distinct and reproducible.
//
// Satisfies store.Clock.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Clock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewClock creates a clock whose first Now returns Epoch and which advances
// one second per call.
func NewClock() *Clock {
	return &Clock{next: Epoch, step: time.Second}
}

// NewClockAt creates a clock starting at t that advances by step per call.
// A zero step freezes the clock.
func NewClockAt(t time.Time, step time.Duration) *Clock {
	return &Clock{next: t, step: step}
}

// Now returns the current instant and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// Peek returns the instant the next Now call will return.
func (c *Clock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// Reset rewinds the clock to Epoch.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = Epoch
}
