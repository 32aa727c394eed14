package store

import "time"

// Clock supplies UpdatedAt timestamps for pattern updates.
//
// The store never reads wall time directly so tests can substitute a fixed
// clock (see testutil.Clock).
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
