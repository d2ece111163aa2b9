package transport

import (
	"errors"
	"net"
	"time"

	"github.com/stran9682/video-conferencing/config"
	"github.com/stran9682/video-conferencing/internal/liberrors"
	"github.com/stran9682/video-conferencing/peer"
	"github.com/stran9682/video-conferencing/rtph264"
	"github.com/stran9682/video-conferencing/rtpheader"
)

var errBeforeEpoch = errors.New("wall clock reads before the Unix epoch")

// FrameDelivery is invoked once per fully reassembled access unit.
type FrameDelivery func(consumerContext any, avcc []byte)

// Receiver reads RTP datagrams off a UDP socket, tracks per-peer
// jitter/playout state, and delivers reassembled AVCC frames once a
// marker-terminated access unit is complete.
type Receiver struct {
	conn     *net.UDPConn
	registry *peer.Registry
	deliver  FrameDelivery
	log      Logger

	decoders map[uint32]*rtph264.Decoder
}

// NewReceiver builds a Receiver reading from conn, tracking peers in
// registry, and calling deliver once per completed frame. logger may
// be nil, in which case log.Default() is used.
func NewReceiver(conn *net.UDPConn, registry *peer.Registry, deliver FrameDelivery, logger Logger) *Receiver {
	return &Receiver{
		conn:     conn,
		registry: registry,
		deliver:  deliver,
		log:      defaultLogger(logger),
		decoders: make(map[uint32]*rtph264.Decoder),
	}
}

// Run reads datagrams until the socket is closed. Intended to run in
// its own goroutine.
func (r *Receiver) Run() {
	buf := make([]byte, config.UDPReceiveBufferSize)
	for {
		n, _, err := r.conn.ReadFrom(buf)
		if err != nil {
			return
		}
		r.handleDatagram(buf[:n])
	}
}

func (r *Receiver) handleDatagram(datagram []byte) {
	now := time.Now()
	if now.Before(time.Unix(0, 0)) {
		r.log.Printf("transport: %v", liberrors.ErrClockFailure{Err: errBeforeEpoch})
		return
	}
	arrivalTicks := uint32(now.UnixMilli()) * (config.MediaClockRateVideo / 1000)

	hdr, aliasedPayload, err := rtpheader.UnmarshalDatagram(datagram)
	if err != nil {
		r.log.Printf("transport: malformed RTP header: %v", err)
		return
	}
	// datagram is Run's single reusable read buffer: aliasedPayload
	// points into it and would be clobbered by the next ReadFrom before
	// a multi-packet access unit's marker arrives, so it must be copied
	// into an owned buffer before it is ever stored.
	payload := append([]byte(nil), aliasedPayload...)

	difference := arrivalTicks - hdr.Timestamp

	offset, ok := r.registry.PushOffset(hdr.SSRC, difference)
	if !ok {
		// unknown SSRC: the estimator declines to produce an offset and
		// the packet is dropped.
		return
	}

	playoutTime := hdr.Timestamp + offset

	if _, ok := r.registry.Insert(hdr.SSRC, hdr.Timestamp, playoutTime, hdr.SequenceNumber, payload); !ok {
		return
	}

	if !hdr.Marker {
		return
	}

	node, ok := r.registry.PopNode(hdr.SSRC)
	if !ok {
		return
	}

	decoder := r.decoderFor(hdr.SSRC)

	payloads := make([][]byte, len(node.CodedData))
	for i, frag := range node.CodedData {
		payloads[i] = frag.Data
	}

	avcc, err := decoder.Decode(payloads)
	if err != nil {
		r.log.Printf("transport: reassembly failed for SSRC %d: %v", hdr.SSRC, err)
		return
	}

	ctx, ok := r.registry.ConsumerContext(hdr.SSRC)
	if !ok {
		return
	}

	r.deliver(ctx, avcc)
}

// decoderFor returns the per-SSRC decoder, creating one on first use.
// Not safe for concurrent calls from multiple goroutines; Run() is the
// sole caller and processes one datagram at a time.
func (r *Receiver) decoderFor(ssrc uint32) *rtph264.Decoder {
	d, ok := r.decoders[ssrc]
	if !ok {
		d = rtph264.NewDecoder()
		r.decoders[ssrc] = d
	}
	return d
}
