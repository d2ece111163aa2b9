package transport

import (
	"net"

	"github.com/stran9682/video-conferencing/framequeue"
	"github.com/stran9682/video-conferencing/peer"
	"github.com/stran9682/video-conferencing/rtph264"
)

// Sender drains a framequeue.Queue, packetizes each frame, and fans
// each resulting datagram out to every registered peer address.
// Per-destination send errors are logged and non-fatal.
type Sender struct {
	conn     *net.UDPConn
	encoder  *rtph264.Encoder
	registry *peer.Registry
	queue    *framequeue.Queue
	log      Logger
}

// NewSender builds a Sender writing on conn, packetizing via encoder,
// fanning out to every address in registry, draining queue. logger may
// be nil, in which case log.Default() is used.
func NewSender(conn *net.UDPConn, encoder *rtph264.Encoder, registry *peer.Registry, queue *framequeue.Queue, logger Logger) *Sender {
	return &Sender{conn: conn, encoder: encoder, registry: registry, queue: queue, log: defaultLogger(logger)}
}

// Run drains the queue until it is closed, blocking between frames.
// Intended to run in its own goroutine.
func (s *Sender) Run() {
	for {
		frame, ok := s.queue.Pop()
		if !ok {
			return
		}
		s.sendFrame(frame)
	}
}

func (s *Sender) sendFrame(frame framequeue.EncodedFrame) {
	defer func() {
		if frame.Release != nil {
			frame.Release()
		}
	}()

	addrs := s.registry.Addrs()
	if len(addrs) == 0 {
		return
	}

	datagrams, err := s.encoder.Encode(frame.Data)
	if err != nil {
		s.log.Printf("transport: encode failed: %v", err)
		return
	}

	for _, dg := range datagrams {
		buf, err := dg.Marshal()
		if err != nil {
			s.log.Printf("transport: marshal datagram failed: %v", err)
			continue
		}

		for _, addr := range addrs {
			if _, err := s.conn.WriteTo(buf, addr); err != nil {
				s.log.Printf("transport: send to %s failed: %v", addr, err)
			}
		}
	}
}
