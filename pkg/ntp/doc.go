// ABOUTME: NTP client package
// ABOUTME: Single-shot UDP time sync with anchor-based interpolation
// Package ntp implements a minimal NTP client.
//
// One Sync exchanges a 48-byte NTPv3 request/reply with a server and
// anchors a wall clock; NowMillis and friends then interpolate from that
// anchor using a monotonic tick counter, with no further network I/O.
//
// Example:
//
//	client := ntp.New(ntp.Config{Server: "pool.ntp.org"})
//	if err := client.Begin(); err != nil {
//		log.Fatal(err)
//	}
//	now := client.NowCalendar()
package ntp
