// Package rtph264 implements RFC 6184 RTP/H.264 packetization (Encoder)
// and depacketization (Decoder) on top of a per-stream rtpsession.Session.
package rtph264

import (
	"github.com/stran9682/video-conferencing/config"
	"github.com/stran9682/video-conferencing/rtpheader"
	"github.com/stran9682/video-conferencing/rtpsession"
)

// Datagram is one RTP packet ready for transmission: a serialized header
// followed by its payload.
type Datagram struct {
	Header  rtpheader.Header
	Payload []byte
}

// Marshal returns the wire bytes of the datagram (header || payload).
func (d Datagram) Marshal() ([]byte, error) {
	hb, err := d.Header.Marshal()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(hb)+len(d.Payload))
	copy(buf, hb)
	copy(buf[len(hb):], d.Payload)
	return buf, nil
}

// Encoder packetizes AVCC-framed H.264 access units into RTP datagrams,
// fragmenting NAL units larger than config.MaxFragmentSize into FU-A
// chunks (RFC 6184 §5.8).
type Encoder struct {
	session *rtpsession.Session
}

// NewEncoder allocates an Encoder bound to session.
func NewEncoder(session *rtpsession.Session) *Encoder {
	return &Encoder{session: session}
}

// Encode splits an AVCC access unit into NAL units and packetizes each
// one. It advances the session timestamp exactly once, after the last
// datagram has been produced.
func (e *Encoder) Encode(avcc []byte) ([]Datagram, error) {
	nalus := splitAVCC(avcc)

	var out []Datagram
	for i, nalu := range nalus {
		isLastUnit := i == len(nalus)-1
		out = append(out, e.encodeNALU(nalu, isLastUnit)...)
	}

	e.session.NextPacket()

	return out, nil
}

func (e *Encoder) encodeNALU(nalu []byte, isLastUnit bool) []Datagram {
	if len(nalu) <= config.MaxFragmentSize {
		return []Datagram{{
			Header:  e.session.Header(isLastUnit),
			Payload: nalu,
		}}
	}
	return e.encodeFUA(nalu, isLastUnit)
}

func (e *Encoder) encodeFUA(nalu []byte, isLastUnit bool) []Datagram {
	indicator := (nalu[0] & 0x60) | byte(naluTypeFUA)
	naluHeaderBits := nalu[0] & 0x1F
	payload := nalu[1:]

	var out []Datagram
	for offset := 0; offset < len(payload); offset += config.MaxFragmentSize {
		end := offset + config.MaxFragmentSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[offset:end]
		isFirstChunk := offset == 0
		isLastChunk := end == len(payload)

		fuHeader := naluHeaderBits
		if isFirstChunk {
			fuHeader |= 0x80
		}
		if isLastChunk {
			fuHeader |= 0x40
		}

		datagramPayload := make([]byte, 2+len(chunk))
		datagramPayload[0] = indicator
		datagramPayload[1] = fuHeader
		copy(datagramPayload[2:], chunk)

		out = append(out, Datagram{
			Header:  e.session.Header(isLastUnit && isLastChunk),
			Payload: datagramPayload,
		})
	}

	return out
}

// splitAVCC walks an AVCC-framed access unit into individual NAL unit
// byte slices. It stops (without error) as soon as the remaining buffer
// cannot hold a complete 4-byte length prefix plus its payload, or the
// length prefix reads zero: a malformed trailing NALU is treated as
// the end of the access unit, not as a decode failure.
func splitAVCC(buf []byte) [][]byte {
	var nalus [][]byte
	offset := 0

	for {
		if len(buf)-offset < 4 {
			break
		}

		length := uint32(buf[offset])<<24 | uint32(buf[offset+1])<<16 |
			uint32(buf[offset+2])<<8 | uint32(buf[offset+3])
		offset += 4

		if length == 0 || len(buf)-offset < int(length) {
			break
		}

		nalus = append(nalus, buf[offset:offset+int(length)])
		offset += int(length)
	}

	return nalus
}
