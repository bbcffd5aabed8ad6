// ABOUTME: 48-byte NTPv3 wire format encoding and decoding
// ABOUTME: Builds client requests and parses server replies in network byte order
package ntp

import (
	"encoding/binary"
	"fmt"
)

// PacketSize is the fixed NTP message length in bytes (RFC 5905, no
// extension fields).
const PacketSize = 48

// ntpEpochDelta is the number of seconds between the NTP epoch (1900-01-01)
// and the Unix epoch (1970-01-01): 70 years, 17 of them leap.
const ntpEpochDelta = 2208988800

// requestFlags packs LI=3 (clock unsynchronized), VN=3, Mode=3 (client)
// into the first header byte: 0b11_011_011.
const requestFlags = 0xDB

// Packet is one NTP message. Every multi-byte field is big-endian on the
// wire; the struct holds host-order values.
type Packet struct {
	Flags          uint8 // leap indicator, version, mode
	Stratum        uint8
	Poll           uint8
	Precision      uint8
	RootDelay      uint32
	RootDispersion uint32
	ReferenceID    uint32
	RefTimeSec     uint32
	RefTimeFrac    uint32
	OrigTimeSec    uint32 // T1: client transmit, echoed by the server
	OrigTimeFrac   uint32
	RecvTimeSec    uint32 // T2: server receive
	RecvTimeFrac   uint32
	TxTimeSec      uint32 // T3: server transmit
	TxTimeFrac     uint32
}

// newRequest builds a client request. txSeconds is the client's transmit
// timestamp in NTP seconds; zero means "no local time reference yet" and
// asks the peer exchange to run in direct-assignment mode.
func newRequest(txSeconds uint32) Packet {
	return Packet{
		Flags:     requestFlags,
		TxTimeSec: txSeconds,
	}
}

// marshal serializes the packet into its 48-byte wire form.
func (p Packet) marshal() []byte {
	buf := make([]byte, PacketSize)
	buf[0] = p.Flags
	buf[1] = p.Stratum
	buf[2] = p.Poll
	buf[3] = p.Precision
	binary.BigEndian.PutUint32(buf[4:], p.RootDelay)
	binary.BigEndian.PutUint32(buf[8:], p.RootDispersion)
	binary.BigEndian.PutUint32(buf[12:], p.ReferenceID)
	binary.BigEndian.PutUint32(buf[16:], p.RefTimeSec)
	binary.BigEndian.PutUint32(buf[20:], p.RefTimeFrac)
	binary.BigEndian.PutUint32(buf[24:], p.OrigTimeSec)
	binary.BigEndian.PutUint32(buf[28:], p.OrigTimeFrac)
	binary.BigEndian.PutUint32(buf[32:], p.RecvTimeSec)
	binary.BigEndian.PutUint32(buf[36:], p.RecvTimeFrac)
	binary.BigEndian.PutUint32(buf[40:], p.TxTimeSec)
	binary.BigEndian.PutUint32(buf[44:], p.TxTimeFrac)
	return buf
}

// unmarshalPacket parses a server reply. It only checks structure: any
// 48-byte buffer decodes, semantic validation of stratum or identity is
// deliberately not performed (no authentication).
func unmarshalPacket(buf []byte) (Packet, error) {
	if len(buf) < PacketSize {
		return Packet{}, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedReply, len(buf), PacketSize)
	}
	return Packet{
		Flags:          buf[0],
		Stratum:        buf[1],
		Poll:           buf[2],
		Precision:      buf[3],
		RootDelay:      binary.BigEndian.Uint32(buf[4:]),
		RootDispersion: binary.BigEndian.Uint32(buf[8:]),
		ReferenceID:    binary.BigEndian.Uint32(buf[12:]),
		RefTimeSec:     binary.BigEndian.Uint32(buf[16:]),
		RefTimeFrac:    binary.BigEndian.Uint32(buf[20:]),
		OrigTimeSec:    binary.BigEndian.Uint32(buf[24:]),
		OrigTimeFrac:   binary.BigEndian.Uint32(buf[28:]),
		RecvTimeSec:    binary.BigEndian.Uint32(buf[32:]),
		RecvTimeFrac:   binary.BigEndian.Uint32(buf[36:]),
		TxTimeSec:      binary.BigEndian.Uint32(buf[40:]),
		TxTimeFrac:     binary.BigEndian.Uint32(buf[44:]),
	}, nil
}
