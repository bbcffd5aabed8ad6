// ABOUTME: Failure taxonomy for sync attempts
// ABOUTME: Sentinel errors plus a wrapper for transport-reported failures
package ntp

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout means no reply arrived within the configured window.
	ErrTimeout = errors.New("ntp: request timed out")

	// ErrShortRead means fewer than 48 bytes could be obtained for one
	// reply, either because the datagram was undersized or the transport
	// ran out of data mid-read.
	ErrShortRead = errors.New("ntp: short read")

	// ErrMalformedReply means the reply buffer was too short to decode.
	ErrMalformedReply = errors.New("ntp: malformed reply")
)

// TransportError wraps a failure reported by the injected transport
// capability. Op is one of "open", "send", "poll", "read".
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ntp: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
