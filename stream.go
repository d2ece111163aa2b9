// Package videoconferencing wires the full peer-to-peer RTP/H.264
// transport together: the RTP send/receive loops, the per-peer
// playout/jitter pipeline, and the TCP signaling handshake. Stream is
// the single entry point a producer/consumer pair uses to join a
// session.
package videoconferencing

import (
	"net"
	"sync/atomic"

	"github.com/stran9682/video-conferencing/config"
	"github.com/stran9682/video-conferencing/framequeue"
	"github.com/stran9682/video-conferencing/internal/liberrors"
	"github.com/stran9682/video-conferencing/peer"
	"github.com/stran9682/video-conferencing/rtph264"
	"github.com/stran9682/video-conferencing/rtpsession"
	"github.com/stran9682/video-conferencing/signaling"
	"github.com/stran9682/video-conferencing/transport"
)

// streamInitialized guards against a second Stream in the same
// process. This is the one piece of process-wide state the module
// carries: configuration is otherwise threaded explicitly rather than
// kept in globals, but "has a Stream already been constructed in this
// process" is itself a process-wide fact, not session state, so it has
// no other natural home.
var streamInitialized atomic.Bool

// ReceiveSPSPPS is invoked when a peer's signaling record arrives with
// video parameters; its return value becomes that peer's consumer
// context for the lifetime of the session.
type ReceiveSPSPPS func(pps, sps []byte, rtpAddr string) (consumerContext any)

// Config configures a Stream.
type Config struct {
	// RTPAddress is the local UDP address to bind for sending and
	// receiving RTP datagrams, e.g. "0.0.0.0:0".
	RTPAddress string
	// SignalingAddress is the local TCP address for the signaling
	// listener, e.g. "0.0.0.0:0".
	SignalingAddress string
	// BootstrapAddress is a known peer's signaling address to dial on
	// startup. Empty means this is the first peer in the session.
	BootstrapAddress string

	InitialSPS []byte
	InitialPPS []byte

	OnReceiveFrame  transport.FrameDelivery
	OnReceiveSPSPPS ReceiveSPSPPS
}

// Stream owns every long-lived resource of one session: the RTP
// session state, peer registry, signaling specifications, and the
// sender/receiver/signaling goroutines.
type Stream struct {
	conn     *net.UDPConn
	session  *rtpsession.Session
	registry *peer.Registry
	specs    *signaling.Specifications
	queue    *framequeue.Queue
	sender   *transport.Sender
	receiver *transport.Receiver
	sigSrv   *signaling.Server
	identity signaling.Identity
}

// New constructs and starts a Stream. Only one Stream may exist per
// process; a second call returns liberrors.ErrDuplicateStreamInit.
func New(cfg Config) (*Stream, error) {
	if !streamInitialized.CompareAndSwap(false, true) {
		return nil, liberrors.ErrDuplicateStreamInit{}
	}

	conn, err := transport.NewSocket(cfg.RTPAddress)
	if err != nil {
		streamInitialized.Store(false)
		return nil, liberrors.ErrIO{Err: err}
	}

	session := rtpsession.New(config.VideoTimestampIncrement)
	registry := peer.NewRegistry(session.SSRC())
	specs := signaling.NewSpecifications(cfg.InitialSPS, cfg.InitialPPS)
	queue := framequeue.New(config.ChannelCapacity)

	encoder := rtph264.NewEncoder(session)
	sender := transport.NewSender(conn, encoder, registry, queue, nil)
	receiver := transport.NewReceiver(conn, registry, cfg.OnReceiveFrame, nil)

	identity := signaling.Identity{
		MediaType:  signaling.MediaVideo,
		RTPAddress: conn.LocalAddr().String(),
		SSRC:       session.SSRC(),
	}

	s := &Stream{
		conn:     conn,
		session:  session,
		registry: registry,
		specs:    specs,
		queue:    queue,
		sender:   sender,
		receiver: receiver,
		identity: identity,
	}

	onPeer := func(rec signaling.Record) any {
		ctx := cfg.OnReceiveSPSPPS(rec.PPS, rec.SPS, rec.RTPAddress)

		rtpAddr, err := net.ResolveUDPAddr("udp", rec.RTPAddress)
		if err != nil {
			return ctx
		}
		registry.AddPeer(rec.SSRC, rtpAddr, ctx)
		return ctx
	}

	sigSrv, err := signaling.Listen(cfg.SignalingAddress, identity, specs, onPeer)
	if err != nil {
		conn.Close()
		streamInitialized.Store(false)
		return nil, liberrors.ErrIO{Err: err}
	}
	s.sigSrv = sigSrv

	go sigSrv.Serve()
	go sender.Run()
	go receiver.Run()

	if err := signaling.Dial(cfg.BootstrapAddress, sigSrv.Addr(), identity, specs, onPeer); err != nil {
		return nil, liberrors.ErrIO{Err: err}
	}

	return s, nil
}

// SendFrame enqueues one AVCC access unit for transmission to every
// known peer. release is invoked exactly once, whether the frame is
// eventually sent, dropped because no peers are known yet, or dropped
// because the queue is full.
func (s *Stream) SendFrame(avcc []byte, release func()) bool {
	ok := s.queue.Push(framequeue.EncodedFrame{Data: avcc, Release: release})
	if !ok && release != nil {
		release()
	}
	return ok
}

// AnnounceSpecs updates the local SPS/PPS and re-announces them to the
// bootstrap peer. Already-known peers are not forgotten.
func (s *Stream) AnnounceSpecs(sps, pps []byte, bootstrapAddr string) error {
	s.specs.Announce(sps, pps)

	onPeer := func(rec signaling.Record) any {
		return rec.SSRC
	}
	return signaling.Dial(bootstrapAddr, s.sigSrv.Addr(), s.identity, s.specs, onPeer)
}

// SignalingAddr returns the bound signaling listener address, for
// passing to other peers as their BootstrapAddress.
func (s *Stream) SignalingAddr() string {
	return s.sigSrv.Addr()
}

// RTPAddr returns the bound RTP socket address.
func (s *Stream) RTPAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Close tears down every goroutine and socket owned by the Stream. No
// graceful RTP BYE is sent to remaining peers.
func (s *Stream) Close() {
	s.queue.Close()
	s.sigSrv.Close()
	s.conn.Close()
	streamInitialized.Store(false)
}
