package animation

import (
	"sync"
	"time"
)

// Clock provides time for animations. The default implementation uses
// system time. Tests inject a fake clock via SetClock to control
// step delays and provider animations deterministically.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

var (
	clockMu sync.RWMutex
	clock   Clock = ClockFunc(time.Now)
)

// SetClock replaces the animation clock. Returns the previous clock
// so callers can restore it during cleanup. A nil clock restores system time.
func SetClock(c Clock) Clock {
	if c == nil {
		c = ClockFunc(time.Now)
	}
	clockMu.Lock()
	defer clockMu.Unlock()
	prev := clock
	clock = c
	return prev
}

// Now returns the current time from the active clock.
func Now() time.Time {
	clockMu.RLock()
	c := clock
	clockMu.RUnlock()
	return c.Now()
}
