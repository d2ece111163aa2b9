// Package rtpsession holds the per-stream sender state: the monotonic
// sequence number and media-clock timestamp shared between the
// packetizer and the UDP send loop.
package rtpsession

import (
	"math/rand"
	"sync/atomic"

	"github.com/stran9682/video-conferencing/rtpheader"
)

// Session is the sender-side state for one local stream. It is safe for
// concurrent use; in practice only the sender loop mutates it, but
// sequence/timestamp updates are atomic regardless.
type Session struct {
	ssrc      uint32
	increment uint32

	sequenceNumber uint32 // low 16 bits hold the wrapping uint16 sequence number
	timestamp      uint32
}

// New allocates a Session with a randomly chosen SSRC and the given
// per-frame media-clock increment (3000 for 30fps at 90kHz).
func New(increment uint32) *Session {
	return &Session{
		ssrc:      rand.Uint32(),
		increment: increment,
	}
}

// NewWithSSRC allocates a Session with an explicitly chosen SSRC,
// bypassing the random default. Used when a caller needs a
// deterministic identifier (tests, or replaying a previously announced
// SSRC after a reconnect).
func NewWithSSRC(ssrc, increment uint32) *Session {
	return &Session{ssrc: ssrc, increment: increment}
}

// SSRC returns the session's synchronization source identifier.
func (s *Session) SSRC() uint32 {
	return s.ssrc
}

// NextPacket advances the session timestamp by increment. Called once
// per access unit, after all of that access unit's packets have been
// emitted.
func (s *Session) NextPacket() {
	atomic.AddUint32(&s.timestamp, s.increment)
}

// Header atomically advances the sequence number and returns a header
// carrying the current timestamp and SSRC. marker should be true only
// for the final RTP packet of the final NAL unit of an access unit.
func (s *Session) Header(marker bool) rtpheader.Header {
	seq := uint16(atomic.AddUint32(&s.sequenceNumber, 1))
	ts := atomic.LoadUint32(&s.timestamp)

	return rtpheader.Header{
		Version:        2,
		Marker:         marker,
		PayloadType:    0,
		SequenceNumber: seq,
		Timestamp:      ts,
		SSRC:           s.ssrc,
	}
}
