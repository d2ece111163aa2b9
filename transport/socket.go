package transport

import (
	"net"

	"golang.org/x/net/ipv4"

	"github.com/stran9682/video-conferencing/config"
)

// dscpExpeditedForwarding is the DSCP "Expedited Forwarding" codepoint
// (RFC 3246), the conventional QoS marking for latency-sensitive
// real-time media traffic.
const dscpExpeditedForwarding = 0xb8

// NewSocket opens a UDP socket bound to addr, tunes its kernel
// receive buffer, and marks outgoing packets DSCP EF via
// golang.org/x/net/ipv4 so the stream gets real-time QoS treatment on
// networks that honor it. The returned conn is shared by a Sender and
// a Receiver: concurrent WriteTo/ReadFrom on one *net.UDPConn is safe.
func NewSocket(addr string) (*net.UDPConn, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}

	if err := conn.SetReadBuffer(config.SocketKernelReadBufferSize); err != nil {
		conn.Close()
		return nil, err
	}

	pc := ipv4.NewPacketConn(conn)
	// best-effort: not every platform/interface honors TOS marking, and
	// failure here must not block stream startup.
	_ = pc.SetTOS(dscpExpeditedForwarding)

	return conn, nil
}
