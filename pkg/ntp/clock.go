// ABOUTME: Monotonic millisecond tick source
// ABOUTME: Free-running uint32 counter with defined wraparound
package ntp

import "time"

// Ticker supplies a free-running, monotonically non-decreasing millisecond
// counter. Readings wrap at 2^32; consumers must subtract in uint32 so a
// rollover still yields the correct small delta.
type Ticker interface {
	Millis() uint32
}

// sysTicker counts milliseconds since it was created, backed by Go's
// monotonic clock. Wraps roughly every 49.7 days.
type sysTicker struct {
	start time.Time
}

func newSysTicker() *sysTicker {
	return &sysTicker{start: time.Now()}
}

func (s *sysTicker) Millis() uint32 {
	return uint32(time.Since(s.start).Milliseconds())
}
