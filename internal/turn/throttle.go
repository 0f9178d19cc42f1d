package turn

import "time"

// LogThrottle rate-limits a recurring log line. The mismatch warnings the
// bridge emits can fire every frame; throttling keeps them useful.
type LogThrottle struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time
}

// NewLogThrottle creates a throttle allowing one event per interval.
func NewLogThrottle(interval time.Duration) *LogThrottle {
	return &LogThrottle{interval: interval, now: time.Now}
}

// Allow reports whether an event may fire now, consuming the window when
// it does.
func (t *LogThrottle) Allow() bool {
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}
