package jitter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindowMinimum(t *testing.T) {
	w := NewWindow(50)

	offsets := []uint32{10, 4, 7, 3}
	var last uint32
	for _, o := range offsets {
		last = w.Push(o)
	}
	require.Equal(t, uint32(3), last)

	last = w.Push(9)
	require.Equal(t, uint32(3), last)

	last = w.Push(2)
	require.Equal(t, uint32(2), last)
}

func TestWindowEvictsOldestPastSize(t *testing.T) {
	w := NewWindow(3)
	w.Push(100)
	w.Push(5)
	w.Push(50)
	require.Equal(t, uint32(5), w.Min())

	// evicts the 100, leaving [5, 50, 200]; min stays 5
	w.Push(200)
	require.Equal(t, uint32(5), w.Min())

	// evicts the 5, leaving [50, 200, 300]; min becomes 50
	w.Push(300)
	require.Equal(t, uint32(50), w.Min())
}

func TestSkewEstimatorFirstCallIsZero(t *testing.T) {
	s := NewSkewEstimator(3000)
	require.Equal(t, int32(0), s.Adjust(1000))
}

func TestSkewEstimatorClampsDivergence(t *testing.T) {
	s := NewSkewEstimator(3000)
	s.Adjust(1000) // seeds delayEstimate=activeDelay=1000

	// a single large jump pushes delayEstimate far above activeDelay,
	// producing a divergence past -threshold.
	adjustment := s.Adjust(100000)
	require.Equal(t, int32(-3000), adjustment)

	// activeDelay has caught up to delayEstimate, so a repeat of the
	// same difference no longer diverges past threshold.
	adjustment = s.Adjust(100000)
	require.Equal(t, int32(0), adjustment)
}
