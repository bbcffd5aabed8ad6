// ABOUTME: Synchronization anchor and wall-clock interpolation
// ABOUTME: Derives current time from one sync point plus elapsed monotonic ticks
package ntp

import (
	"sync"
	"time"
)

// anchor is one synchronization point. valid distinguishes "never synced"
// from a legitimate zero tick reading taken right at process start.
type anchor struct {
	refEpochSeconds uint32 // Unix seconds at the moment the anchor was taken
	refTicks        uint32 // monotonic reading at that moment
	offsetSeconds   int32  // residual correction; zero once folded into refEpochSeconds
	valid           bool
}

// CivilTime is a calendar breakdown of the current time. Month is
// 1-indexed (January = 1). The breakdown is UTC plus whatever fixed
// display offset has been configured on the TimeBase.
type CivilTime struct {
	Year    int
	Month   int
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday time.Weekday
}

// TimeBase holds the current anchor and answers "now" as the anchor plus
// elapsed monotonic ticks. Reads never touch the network and are safe at
// arbitrary frequency. Anchor replacement is atomic: readers see the old
// anchor or the new one, never a partial update.
type TimeBase struct {
	mu       sync.RWMutex
	anc      anchor
	tzOffset int64 // fixed display offset in seconds, e.g. a timezone
	ticker   Ticker
}

func newTimeBase(ticker Ticker) *TimeBase {
	return &TimeBase{ticker: ticker}
}

// HasAnchor reports whether a sync has ever succeeded.
func (tb *TimeBase) HasAnchor() bool {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return tb.anc.valid
}

// install atomically replaces the current anchor.
func (tb *TimeBase) install(a anchor) {
	tb.mu.Lock()
	tb.anc = a
	tb.mu.Unlock()
}

// reset drops the anchor and the display offset.
func (tb *TimeBase) reset() {
	tb.mu.Lock()
	tb.anc = anchor{}
	tb.tzOffset = 0
	tb.mu.Unlock()
}

// NowMillis returns the current time in milliseconds since the Unix epoch,
// or 0 if no sync has ever succeeded. The tick subtraction is uint32 so a
// monotonic counter rollover between syncs still yields the correct
// elapsed delta.
func (tb *TimeBase) NowMillis() uint64 {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	if !tb.anc.valid {
		return 0
	}
	elapsed := tb.ticker.Millis() - tb.anc.refTicks
	ms := int64(tb.anc.refEpochSeconds)*1000 +
		int64(elapsed) +
		int64(tb.anc.offsetSeconds)*1000 +
		tb.tzOffset*1000
	return uint64(ms)
}

// NowSeconds returns the current time in whole seconds since the Unix
// epoch, truncating. 0 means never synchronized.
func (tb *TimeBase) NowSeconds() uint32 {
	return uint32(tb.NowMillis() / 1000)
}

// NowCalendar returns the civil breakdown of NowSeconds.
func (tb *TimeBase) NowCalendar() CivilTime {
	t := time.Unix(int64(tb.NowSeconds()), 0).UTC()
	return CivilTime{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: t.Weekday(),
	}
}

// SetOffsetSeconds stores a fixed adjustment added to every computed time,
// e.g. a timezone. It is independent of the sync algorithm's own offset.
func (tb *TimeBase) SetOffsetSeconds(seconds int64) {
	tb.mu.Lock()
	tb.tzOffset = seconds
	tb.mu.Unlock()
}

// SetOffsetHours is SetOffsetSeconds in hours.
func (tb *TimeBase) SetOffsetHours(hours int) {
	tb.SetOffsetSeconds(int64(hours) * 3600)
}
