// Package clock provides time sources for the pricing engine.
package clock

import "time"

// System reads the wall clock. Times are returned in UTC so hour slots do not
// depend on the host time zone.
type System struct{}

// Now returns the current UTC time.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Used by jobs replaying a slot and by tests.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
