// ABOUTME: Two-phase NTP sync engine over an injected transport
// ABOUTME: Bootstrap direct assignment, then classic four-timestamp offset correction
package ntp

import (
	"fmt"
	"time"
)

// Defaults for Config zero values.
const (
	DefaultServer  = "pool.ntp.org"
	DefaultPort    = 123
	DefaultTimeout = 6 * time.Second
)

// pollBackoff is slept between empty polls so a transport whose Poll
// returns immediately does not spin for the whole timeout window.
const pollBackoff = 2 * time.Millisecond

// Config holds client configuration. Zero values take the defaults above.
type Config struct {
	// Server is the NTP server hostname or address.
	Server string

	// Port is the NTP server port.
	Port int

	// Timeout bounds the wait for a reply during one exchange.
	Timeout time.Duration

	// LocalPort is the local UDP port to bind (0 = ephemeral).
	LocalPort int

	// Transport overrides the datagram capability (default: UDPTransport).
	Transport Transport

	// Ticker overrides the monotonic millisecond source (default: counts
	// from client creation).
	Ticker Ticker
}

// Client synchronizes a continuously-advancing wall clock against one NTP
// server. A single Sync anchors the clock; reads interpolate from that
// anchor and never touch the network. The client performs no internal
// retries and starts no background work; re-sync scheduling belongs to
// the caller, and concurrent Sync calls must be serialized by the caller.
type Client struct {
	server    string
	port      int
	localPort int
	timeout   time.Duration

	transport Transport
	ticker    Ticker
	timeBase  *TimeBase
}

// New creates a client. It does not perform any I/O; call Begin or Sync.
func New(config Config) *Client {
	if config.Server == "" {
		config.Server = DefaultServer
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Transport == nil {
		config.Transport = NewUDPTransport()
	}
	if config.Ticker == nil {
		config.Ticker = newSysTicker()
	}

	return &Client{
		server:    config.Server,
		port:      config.Port,
		localPort: config.LocalPort,
		timeout:   config.Timeout,
		transport: config.Transport,
		ticker:    config.Ticker,
		timeBase:  newTimeBase(config.Ticker),
	}
}

// Begin resets the client state and performs the first synchronization.
func (c *Client) Begin() error {
	c.End()
	return c.Sync()
}

// End clears the anchor and display offset and closes the transport. The
// client remains usable; a later Sync bootstraps again.
func (c *Client) End() {
	c.timeBase.reset()
	c.transport.Close()
}

// Sync performs one synchronization. When no anchor exists yet it first
// runs a bootstrap exchange (transmit timestamp 0, direct assignment of
// the server's clock) to obtain a rough anchor, then an offset-correcting
// exchange using the four NTP timestamps. Either failure fails the call;
// a failed exchange never changes the anchor, so the bootstrap anchor (or
// any earlier one) survives a failed second phase.
func (c *Client) Sync() error {
	if !c.timeBase.HasAnchor() {
		// Bootstrap path: reopen the transport to guarantee a clean
		// socket, then sync without a local time reference.
		c.transport.Close()
		if err := c.transport.Open(c.localPort); err != nil {
			return &TransportError{Op: "open", Err: err}
		}
		if err := c.exchange(0); err != nil {
			return err
		}
	}
	return c.exchange(c.timeBase.NowSeconds() + ntpEpochDelta)
}

// exchange performs one request/response cycle and installs the resulting
// anchor. txSeconds 0 selects bootstrap mode.
func (c *Client) exchange(txSeconds uint32) error {
	req := newRequest(txSeconds)
	if err := c.transport.Send(c.server, c.port, req.marshal()); err != nil {
		return &TransportError{Op: "send", Err: err}
	}

	timeoutMs := uint32(c.timeout.Milliseconds())
	sent := c.ticker.Millis()

	var size int
	for {
		n, err := c.transport.Poll()
		if err != nil {
			return &TransportError{Op: "poll", Err: err}
		}
		if n > 0 {
			size = n
			break
		}
		if c.ticker.Millis()-sent >= timeoutMs {
			return ErrTimeout
		}
		time.Sleep(pollBackoff)
	}

	// The receive tick becomes the anchor's monotonic reference point.
	// Take it before draining the datagram so read latency cannot skew
	// the anchor.
	recvTick := c.ticker.Millis()

	if size < PacketSize {
		// Consume the runt so it cannot satisfy the next exchange's poll.
		c.drain()
		return fmt.Errorf("%w: datagram is %d bytes", ErrShortRead, size)
	}

	buf := make([]byte, PacketSize)
	total := 0
	for total < PacketSize {
		n, err := c.transport.Read(buf[total:])
		if err != nil {
			return &TransportError{Op: "read", Err: err}
		}
		if n <= 0 {
			return fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, total, PacketSize)
		}
		total += n
	}

	// Discard anything past the 48 bytes we decoded.
	c.drain()

	reply, err := unmarshalPacket(buf)
	if err != nil {
		return err
	}

	var a anchor
	if txSeconds == 0 {
		// No local reference: take the server's transmit time directly.
		a = anchor{
			refEpochSeconds: reply.TxTimeSec - ntpEpochDelta,
			refTicks:        recvTick,
			valid:           true,
		}
	} else {
		// Classic clock offset over whole seconds:
		//   offset = ((T2-T1) + (T3-T4)) / 2
		// T4 is the client's own current estimate in NTP seconds, derived
		// from the bootstrap anchor. The subtractions run in uint32 and
		// are reinterpreted as signed so wraparound deltas stay small.
		t1 := reply.OrigTimeSec
		t2 := reply.RecvTimeSec
		t3 := reply.TxTimeSec
		t4 := c.timeBase.NowSeconds() + ntpEpochDelta
		offset := (int64(int32(t2-t1)) + int64(int32(t3-t4))) / 2

		// The correction is folded into the reference seconds; the
		// anchor's own offset field stays zero.
		a = anchor{
			refEpochSeconds: uint32(int64(t3) - ntpEpochDelta + offset),
			refTicks:        recvTick,
			valid:           true,
		}
	}
	c.timeBase.install(a)
	return nil
}

// drain discards whatever remains of the current datagram. Leaving bytes
// buffered would wedge the transport: every later poll would report the
// stale datagram instead of going back to the socket.
func (c *Client) drain() {
	var scratch [64]byte
	for {
		n, err := c.transport.Read(scratch[:])
		if err != nil || n <= 0 {
			return
		}
	}
}

// Synchronized reports whether any sync has ever succeeded.
func (c *Client) Synchronized() bool {
	return c.timeBase.HasAnchor()
}

// NowMillis returns milliseconds since the Unix epoch, 0 if never synced.
func (c *Client) NowMillis() uint64 {
	return c.timeBase.NowMillis()
}

// NowSeconds returns whole seconds since the Unix epoch, truncating.
func (c *Client) NowSeconds() uint32 {
	return c.timeBase.NowSeconds()
}

// NowCalendar returns the civil breakdown of the current time.
func (c *Client) NowCalendar() CivilTime {
	return c.timeBase.NowCalendar()
}

// SetOffsetSeconds sets a fixed display offset, e.g. a timezone.
func (c *Client) SetOffsetSeconds(seconds int64) {
	c.timeBase.SetOffsetSeconds(seconds)
}

// SetOffsetHours sets the display offset in hours.
func (c *Client) SetOffsetHours(hours int) {
	c.timeBase.SetOffsetHours(hours)
}

// SetServer re-targets the client at another server.
func (c *Client) SetServer(server string, port int) {
	c.server = server
	if port != 0 {
		c.port = port
	}
}

// Transport exposes the injected transport capability.
func (c *Client) Transport() Transport {
	return c.transport
}
