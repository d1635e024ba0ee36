// Package clock abstracts the wall clock so session expiry and game
// timestamps can be pinned in tests.
package clock

import "time"

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// System reads the host clock. Times are UTC so values read back from
// storage compare equal to those just written.
type System struct{}

var _ Clock = System{}

// New returns the system clock
func New() System {
	return System{}
}

// Now returns the current time in UTC
func (System) Now() time.Time {
	return time.Now().UTC()
}
