// Package config holds the tunable constants shared across the
// transport.
package config

const (
	// MaxFragmentSize is the maximum RTP/H.264 payload size before a NAL
	// unit must be split into FU-A fragments.
	MaxFragmentSize = 1200

	// WindowSize is the number of recent jitter offsets retained per peer.
	WindowSize = 50

	// MaxDropout bounds how large a forward sequence-number step may be
	// and still count as in-order forward motion (including a wraparound
	// past 65535); larger steps are treated as large jumps or misordered
	// packets.
	MaxDropout = 3000

	// SkewThreshold clamps the skew estimator's divergence adjustment, in
	// media-clock ticks.
	SkewThreshold = 3000

	// ChannelCapacity is the capacity of the producer-to-sender frame
	// queue. Must be a power of two (see framequeue.New).
	ChannelCapacity = 64

	// MediaClockRateVideo is the RTP clock rate for H.264 video, in Hz.
	MediaClockRateVideo = 90000

	// VideoTimestampIncrement is the media-clock ticks added per encoded
	// frame at 30fps/90kHz.
	VideoTimestampIncrement = 3000

	// UDPReceiveBufferSize is the size of the fixed per-receiver-task
	// datagram read buffer.
	UDPReceiveBufferSize = 1500

	// SocketKernelReadBufferSize is the requested kernel socket receive
	// buffer size for the RTP UDP socket.
	SocketKernelReadBufferSize = 0x80000
)
