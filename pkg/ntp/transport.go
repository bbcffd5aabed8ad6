// ABOUTME: UDP transport capability consumed by the sync engine
// ABOUTME: Interface plus the default net-based implementation
package ntp

import (
	"fmt"
	"net"
	"time"
)

// Transport is the datagram capability the client drives. The poll/read
// split mirrors embedded UDP APIs: Poll reports whether a datagram has
// arrived and how large it is, Read then drains it, possibly across
// several calls. Any UDP-capable primitive can satisfy this.
type Transport interface {
	// Open prepares the transport to send and receive datagrams.
	// localPort 0 lets the implementation pick an ephemeral port.
	Open(localPort int) error

	// Send transmits one datagram to host:port. Best effort; failure is
	// reported but delivery is never guaranteed.
	Send(host string, port int, payload []byte) error

	// Poll returns the size of a waiting datagram, or 0 if none has
	// arrived yet. It must not block for long.
	Poll() (int, error)

	// Read copies up to len(buf) bytes of the polled datagram into buf
	// and returns how many were copied. 0 means the datagram is drained.
	Read(buf []byte) (int, error)

	// Close releases the socket. Open may be called again afterwards.
	Close() error
}

// pollWait bounds how long a single UDPTransport.Poll blocks on the socket.
const pollWait = 2 * time.Millisecond

// UDPTransport is the default Transport over a net.UDPConn.
type UDPTransport struct {
	conn    *net.UDPConn
	pending []byte
}

// NewUDPTransport returns an unopened UDP transport.
func NewUDPTransport() *UDPTransport {
	return &UDPTransport{}
}

// Open binds a UDP socket on localPort.
func (t *UDPTransport) Open(localPort int) error {
	if t.conn != nil {
		return nil
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: localPort})
	if err != nil {
		return fmt.Errorf("listen udp: %w", err)
	}
	t.conn = conn
	t.pending = nil
	return nil
}

// Send resolves host and writes one datagram.
func (t *UDPTransport) Send(host string, port int, payload []byte) error {
	if t.conn == nil {
		return fmt.Errorf("transport not open")
	}
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("resolve %s: %w", host, err)
	}
	if _, err := t.conn.WriteToUDP(payload, addr); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Poll checks the socket for an arrived datagram. A datagram, once seen,
// is buffered internally until Read drains it.
func (t *UDPTransport) Poll() (int, error) {
	if t.conn == nil {
		return 0, fmt.Errorf("transport not open")
	}
	if len(t.pending) > 0 {
		return len(t.pending), nil
	}

	if err := t.conn.SetReadDeadline(time.Now().Add(pollWait)); err != nil {
		return 0, err
	}
	buf := make([]byte, 512)
	n, _, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, nil
		}
		return 0, err
	}
	t.pending = buf[:n]
	return n, nil
}

// Read copies out of the buffered datagram. Once the datagram is drained
// the buffer is released so Poll goes back to the socket.
func (t *UDPTransport) Read(buf []byte) (int, error) {
	if len(t.pending) == 0 {
		t.pending = nil
		return 0, nil
	}
	n := copy(buf, t.pending)
	t.pending = t.pending[n:]
	if len(t.pending) == 0 {
		t.pending = nil
	}
	return n, nil
}

// Close tears down the socket. Safe to call when not open.
func (t *UDPTransport) Close() error {
	t.pending = nil
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
