package rtpsession

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderSequenceMonotonic(t *testing.T) {
	s := New(3000)

	var first uint16
	for i := 0; i < 10; i++ {
		h := s.Header(false)
		if i == 0 {
			first = h.SequenceNumber
		}
		require.Equal(t, first+uint16(i), h.SequenceNumber)
	}
}

func TestTimestampAdvancesOnlyOnNextPacket(t *testing.T) {
	s := New(3000)

	h1 := s.Header(false)
	h2 := s.Header(true)
	require.Equal(t, h1.Timestamp, h2.Timestamp)

	s.NextPacket()

	h3 := s.Header(false)
	require.Equal(t, h1.Timestamp+3000, h3.Timestamp)
}

func TestMarkerPassThrough(t *testing.T) {
	s := New(3000)
	require.False(t, s.Header(false).Marker)
	require.True(t, s.Header(true).Marker)
}
