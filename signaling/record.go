// Package signaling implements the TCP bootstrap/gossip protocol: a
// single-shot request/response exchange of identity records used to
// discover peers and exchange H.264 SPS/PPS out of band from the RTP
// data plane.
package signaling

// MediaType identifies which media stream a Record describes. Only
// Video is implemented; Audio is carried in the wire schema so it can
// be added without a protocol break.
type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// Record is the identity a peer announces to another peer: where to
// reach it for further signaling, where to reach it for RTP, its SSRC,
// its current H.264 parameter sets, and the signaling addresses of
// peers it already knows (for transitive discovery).
type Record struct {
	// HandshakeID uniquely tags one request/response exchange for log
	// correlation. SSRC remains the sole identity key for peer state;
	// HandshakeID is never used to look anything up.
	HandshakeID            string
	MediaType              MediaType
	SignalingAddress       string
	RTPAddress             string
	SSRC                   uint32
	SPS                    []byte
	PPS                    []byte
	PeerSignalingAddresses []string
}
