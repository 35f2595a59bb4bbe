// Package clock supplies the wall time used to stamp activity and to
// enforce answer deadlines.
package clock

import "time"

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// System reads the host clock
type System struct{}

// New creates a System clock
func New() *System {
	return &System{}
}

// Now returns the host's current time
func (System) Now() time.Time {
	return time.Now()
}

// Deadline returns the instant limit after the clock's current time
func Deadline(c Clock, limit time.Duration) time.Time {
	return c.Now().Add(limit)
}

// Expired reports whether deadline has passed. A zero deadline never expires.
func Expired(c Clock, deadline time.Time) bool {
	if deadline.IsZero() {
		return false
	}
	return c.Now().After(deadline)
}
