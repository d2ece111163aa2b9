// Package rtpheader implements the RFC 3550 fixed 12-byte RTP header used
// by every datagram this module sends or receives. CSRC is never used.
package rtpheader

import (
	"github.com/pion/rtp"
	"github.com/stran9682/video-conferencing/internal/liberrors"
)

// headerSize is the fixed size of the header on the wire: CSRC is never
// carried by this transport.
const headerSize = 12

// Header is the RFC 3550 fixed RTP header.
type Header struct {
	Version        uint8
	Padding        bool
	Extension      bool
	Marker         bool
	PayloadType    uint8
	SequenceNumber uint16
	Timestamp      uint32
	SSRC           uint32
}

// Marshal encodes h into its 12-byte wire representation. Version is
// always written as 2 regardless of h.Version.
func (h Header) Marshal() ([]byte, error) {
	pkt := rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			Padding:        h.Padding,
			Marker:         h.Marker,
			PayloadType:    h.PayloadType,
			SequenceNumber: h.SequenceNumber,
			Timestamp:      h.Timestamp,
			SSRC:           h.SSRC,
		},
	}
	buf, err := pkt.Header.Marshal()
	if err != nil {
		return nil, err
	}
	// the extension bit is written as a plain flag: no extension header
	// follows the fixed 12 bytes.
	if h.Extension {
		buf[0] |= 1 << 4
	}
	return buf, nil
}

// Unmarshal decodes a 12-byte RTP fixed header from buf. It rejects
// buffers shorter than 12 bytes.
func Unmarshal(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, liberrors.ErrMalformedHeader{Len: len(buf)}
	}

	// the extension bit is read as a plain flag, so it is cleared before
	// parsing to keep the parser from expecting an extension header.
	fixed := append([]byte(nil), buf[:headerSize]...)
	fixed[0] &^= 1 << 4

	var rh rtp.Header
	_, err := rh.Unmarshal(fixed)
	if err != nil {
		return Header{}, liberrors.ErrMalformedHeader{Len: len(buf)}
	}

	return Header{
		Version:        rh.Version,
		Padding:        rh.Padding,
		Extension:      buf[0]&(1<<4) != 0,
		Marker:         rh.Marker,
		PayloadType:    rh.PayloadType,
		SequenceNumber: rh.SequenceNumber,
		Timestamp:      rh.Timestamp,
		SSRC:           rh.SSRC,
	}, nil
}

// UnmarshalDatagram decodes a full RTP datagram (header and payload),
// correctly honoring any CSRC list, header extension, or padding the
// wire bytes carry, unlike Unmarshal which assumes a bare 12-byte
// fixed header. The receive path uses this; Unmarshal exists mainly
// to exercise the fixed-header codec in isolation.
func UnmarshalDatagram(buf []byte) (Header, []byte, error) {
	if len(buf) < headerSize {
		return Header{}, nil, liberrors.ErrMalformedHeader{Len: len(buf)}
	}

	var pkt rtp.Packet
	if err := pkt.Unmarshal(buf); err != nil {
		return Header{}, nil, liberrors.ErrMalformedHeader{Len: len(buf)}
	}

	return Header{
		Version:        pkt.Header.Version,
		Padding:        pkt.Header.Padding,
		Extension:      pkt.Header.Extension,
		Marker:         pkt.Header.Marker,
		PayloadType:    pkt.Header.PayloadType,
		SequenceNumber: pkt.Header.SequenceNumber,
		Timestamp:      pkt.Header.Timestamp,
		SSRC:           pkt.Header.SSRC,
	}, pkt.Payload, nil
}
