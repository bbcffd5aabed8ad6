// ABOUTME: Tests for anchor-based time interpolation
// ABOUTME: Covers sentinels, wraparound, display offsets, and calendar breakdown
package ntp

import (
	"testing"
	"time"
)

// fakeTicker is a hand-cranked monotonic counter.
type fakeTicker struct {
	now uint32
}

func (f *fakeTicker) Millis() uint32 { return f.now }

func (f *fakeTicker) advance(ms uint32) { f.now += ms }

func TestNeverSyncedSentinel(t *testing.T) {
	tb := newTimeBase(&fakeTicker{})

	if tb.HasAnchor() {
		t.Error("fresh time base should have no anchor")
	}
	if got := tb.NowMillis(); got != 0 {
		t.Errorf("expected sentinel 0 before any sync, got %d", got)
	}
	if got := tb.NowSeconds(); got != 0 {
		t.Errorf("expected 0 seconds before any sync, got %d", got)
	}
}

func TestInterpolationFromAnchor(t *testing.T) {
	tick := &fakeTicker{now: 5000}
	tb := newTimeBase(tick)

	tb.install(anchor{refEpochSeconds: 1700000000, refTicks: 5000, valid: true})

	if got := tb.NowMillis(); got != 1700000000*1000 {
		t.Errorf("at the anchor instant, expected %d, got %d", uint64(1700000000)*1000, got)
	}

	// Two reads with no elapsed ticks are identical
	if a, b := tb.NowMillis(), tb.NowMillis(); a != b {
		t.Errorf("idempotent reads differ: %d vs %d", a, b)
	}

	tick.advance(2500)
	if got := tb.NowMillis(); got != 1700000000*1000+2500 {
		t.Errorf("after 2500ms, expected %d, got %d", uint64(1700000000)*1000+2500, got)
	}
	if got := tb.NowSeconds(); got != 1700000002 {
		t.Errorf("expected truncation to 1700000002, got %d", got)
	}
}

func TestMonotonicRollover(t *testing.T) {
	// Anchor taken just before the uint32 counter wraps
	tick := &fakeTicker{now: 0xFFFFFF00}
	tb := newTimeBase(tick)
	tb.install(anchor{refEpochSeconds: 1700000000, refTicks: 0xFFFFFF00, valid: true})

	// 0x200 ticks later the counter has rolled past zero
	tick.now = 0x100

	elapsed := tb.NowMillis() - 1700000000*1000
	if elapsed != 0x200 {
		t.Errorf("expected small positive delta 0x200 across rollover, got %d", elapsed)
	}
}

func TestDisplayOffset(t *testing.T) {
	tick := &fakeTicker{now: 1000}
	tb := newTimeBase(tick)
	tb.install(anchor{refEpochSeconds: 1700000000, refTicks: 1000, valid: true})

	tb.SetOffsetHours(2)
	if got := tb.NowSeconds(); got != 1700000000+7200 {
		t.Errorf("expected +2h offset, got %d", got)
	}

	tb.SetOffsetSeconds(-3600)
	if got := tb.NowSeconds(); got != 1700000000-3600 {
		t.Errorf("expected -1h offset, got %d", got)
	}

	tb.SetOffsetSeconds(0)
	if got := tb.NowSeconds(); got != 1700000000 {
		t.Errorf("expected offset cleared, got %d", got)
	}
}

func TestCalendarBreakdown(t *testing.T) {
	// 2024-01-02 03:04:05 UTC, a Tuesday
	tick := &fakeTicker{}
	tb := newTimeBase(tick)
	tb.install(anchor{refEpochSeconds: 1704164645, refTicks: 0, valid: true})

	cal := tb.NowCalendar()
	if cal.Year != 2024 || cal.Month != 1 || cal.Day != 2 {
		t.Errorf("expected 2024-01-02, got %04d-%02d-%02d", cal.Year, cal.Month, cal.Day)
	}
	if cal.Hour != 3 || cal.Minute != 4 || cal.Second != 5 {
		t.Errorf("expected 03:04:05, got %02d:%02d:%02d", cal.Hour, cal.Minute, cal.Second)
	}
	if cal.Weekday != time.Tuesday {
		t.Errorf("expected Tuesday, got %v", cal.Weekday)
	}
}

func TestAnchorReplaceIsAtomic(t *testing.T) {
	tick := &fakeTicker{}
	tb := newTimeBase(tick)
	tb.install(anchor{refEpochSeconds: 1700000000, refTicks: 0, valid: true})

	done := make(chan bool, 4)
	for i := 0; i < 4; i++ {
		go func() {
			for j := 0; j < 1000; j++ {
				tb.NowMillis()
				tb.install(anchor{refEpochSeconds: 1700000000 + uint32(j), refTicks: 0, valid: true})
			}
			done <- true
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	// Readers must only ever see whole anchors
	got := tb.NowSeconds()
	if got < 1700000000 || got > 1700001000 {
		t.Errorf("saw a torn anchor: %d", got)
	}
}
