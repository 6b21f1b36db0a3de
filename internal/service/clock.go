package service

import "time"

// Clock returns the current time. Services take one so tests can fix "today".
type Clock func() time.Time

// SystemClock returns the current UTC time.
func SystemClock() time.Time {
	return time.Now().UTC()
}
