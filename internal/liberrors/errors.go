// Package liberrors contains the error types returned by the rest of the
// module.
package liberrors

import "fmt"

// ErrMalformedHeader is returned when a buffer is too short to contain a
// valid RTP fixed header.
type ErrMalformedHeader struct {
	Len int
}

// Error implements the error interface.
func (e ErrMalformedHeader) Error() string {
	return fmt.Sprintf("malformed RTP header: buffer has %d bytes, need at least 12", e.Len)
}

// ErrUnknownPeer is returned when a datagram arrives with an SSRC that is
// not present in the registry.
type ErrUnknownPeer struct {
	SSRC uint32
}

// Error implements the error interface.
func (e ErrUnknownPeer) Error() string {
	return fmt.Sprintf("unknown peer with SSRC %d", e.SSRC)
}

// ErrChannelFull is returned when the producer-to-sender queue is at
// capacity.
type ErrChannelFull struct{}

// Error implements the error interface.
func (e ErrChannelFull) Error() string {
	return "frame queue is full"
}

// ErrChannelClosed is returned when a frame is submitted after the
// producer-to-sender queue has been closed.
type ErrChannelClosed struct{}

// Error implements the error interface.
func (e ErrChannelClosed) Error() string {
	return "frame queue is closed"
}

// ErrClockFailure is returned when the wall clock cannot be read relative
// to the Unix epoch.
type ErrClockFailure struct {
	Err error
}

// Error implements the error interface.
func (e ErrClockFailure) Error() string {
	return fmt.Sprintf("wall clock failure: %v", e.Err)
}

// ErrAddressParse is returned when a signaling field does not parse as a
// valid network address.
type ErrAddressParse struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e ErrAddressParse) Error() string {
	return fmt.Sprintf("invalid address in field %q: %v", e.Field, e.Err)
}

// ErrIO wraps a socket I/O error encountered on a non-fatal path.
type ErrIO struct {
	Err error
}

// Error implements the error interface.
func (e ErrIO) Error() string {
	return fmt.Sprintf("I/O error: %v", e.Err)
}

// ErrDuplicateStreamInit is returned when a Stream is initialized more
// than once within a process.
type ErrDuplicateStreamInit struct{}

// Error implements the error interface.
func (e ErrDuplicateStreamInit) Error() string {
	return "stream is already initialized"
}

// ErrMissingSpecs is returned when an outbound handshake is attempted
// before the producer has announced SPS/PPS.
type ErrMissingSpecs struct{}

// Error implements the error interface.
func (e ErrMissingSpecs) Error() string {
	return "codec parameters (SPS/PPS) not yet announced"
}
