package rtph264

import (
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h264"
)

// Decoder reassembles an ordered run of RTP/H.264 payloads, all sharing
// one rtp timestamp, into an AVCC-framed access unit.
//
// The caller guarantees ordering: payloads are not re-sorted here, and a
// missing start bit is tolerated (start is inferred from ordering).
type Decoder struct{}

// NewDecoder allocates a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode reassembles payloads (RTP payload bytes only, header already
// stripped) into an AVCC buffer. Aggregation packet types (STAP-A/B,
// MTAP16/24) and FU-B are not implemented and are silently skipped.
func (d *Decoder) Decode(payloads [][]byte) ([]byte, error) {
	var nalus [][]byte
	var fuBuffer []byte

	for _, payload := range payloads {
		if len(payload) == 0 {
			continue
		}

		b0 := payload[0]
		typ := naluType(b0 & 0x1F)

		switch {
		case typ >= naluTypeFirstSingle && typ <= naluTypeLastSingle:
			nalus = append(nalus, payload)

		case typ == naluTypeFUA:
			if len(payload) < 2 {
				continue
			}
			fuBuffer = append(fuBuffer, payload[2:]...)

			if payload[1]&0x40 != 0 { // end bit
				header := (b0 & 0x60) | (payload[1] & 0x1F)
				nalu := make([]byte, 0, len(fuBuffer)+1)
				nalu = append(nalu, header)
				nalu = append(nalu, fuBuffer...)
				nalus = append(nalus, nalu)
				fuBuffer = nil
			}

		default:
			// STAP-A/B, MTAP16/24, FU-B: aggregation not implemented.
		}
	}

	return h264.AVCCMarshal(nalus)
}
