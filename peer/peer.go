// Package peer implements the SSRC-keyed peer registry: per-peer
// playout buffers and jitter windows, plus the address-mirror map the
// sender loop reads so it never contends with receiver-side mutations.
package peer

import (
	"net"
	"sync"

	"github.com/stran9682/video-conferencing/config"
	"github.com/stran9682/video-conferencing/jitter"
	"github.com/stran9682/video-conferencing/playout"
)

// Peer holds everything the receive path tracks for one remote SSRC.
type Peer struct {
	mu sync.Mutex

	RemoteSSRC      uint32
	RTPAddr         net.Addr
	ConsumerContext any

	maxSequenceNumber  uint16
	haveMaxSequenceNum bool
	wrapAroundCount    uint32
	window             *jitter.Window
	playoutBuffer      *playout.Buffer
}

func newPeer(ssrc uint32, addr net.Addr, consumerContext any) *Peer {
	return &Peer{
		RemoteSSRC:      ssrc,
		RTPAddr:         addr,
		ConsumerContext: consumerContext,
		window:          jitter.NewWindow(config.WindowSize),
		playoutBuffer:   playout.New(),
	}
}

// extendSequence applies RFC 3550 appendix A.1-style wraparound
// bookkeeping and returns the extended (wraparound-expanded) sequence
// number for seq.
// Must be called with mu held.
func (p *Peer) extendSequence(seq uint16) uint64 {
	if p.haveMaxSequenceNum {
		delta := seq - p.maxSequenceNumber

		switch {
		case delta < config.MaxDropout:
			if seq < p.maxSequenceNumber {
				p.wrapAroundCount++
			}
			p.maxSequenceNumber = seq

		case delta <= 65535-100:
			// large forward jump: no wraparound bookkeeping.

		default:
			// misordered packet: leave state alone.
		}
	} else {
		p.maxSequenceNumber = seq
		p.haveMaxSequenceNum = true
	}

	return uint64(seq) + 65536*uint64(p.wrapAroundCount)
}

// PushOffset records a newly observed jitter offset and returns the
// wrap-aware minimum of the retained window.
func (p *Peer) PushOffset(offset uint32) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.window.Push(offset)
}

// Insert extends seq's sequence number, inserts the fragment into the
// playout buffer at (ts, extended-seq) order, and returns the computed
// extended sequence number.
func (p *Peer) Insert(ts uint32, playoutTime uint32, seq uint16, data []byte) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	extended := p.extendSequence(seq)

	p.playoutBuffer.Insert(ts, playoutTime, playout.Fragment{
		SequenceNum:         seq,
		ExtendedSequenceNum: extended,
		Data:                data,
	})

	return extended
}

// PopNode removes and returns the tail node (highest RTP timestamp) of
// the peer's playout buffer. Completeness is not checked.
func (p *Peer) PopNode() (playout.Node, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playoutBuffer.Pop()
}
