package clock

import "time"

// Clock allows injecting time into services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now in the local time zone, so
// weekdays and dates match the box office's wall clock.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant (useful for tests).
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
