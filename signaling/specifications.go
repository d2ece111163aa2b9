package signaling

import "sync"

// Specifications holds the local peer's own codec parameters and the
// set of signaling addresses already known, guarded by a single mutex.
type Specifications struct {
	mu             sync.Mutex
	sps            []byte
	pps            []byte
	knownAddresses map[string]struct{}

	onAnnounce []func(sps, pps []byte)
}

// NewSpecifications allocates a Specifications seeded with the local
// stream's initial SPS/PPS.
func NewSpecifications(sps, pps []byte) *Specifications {
	return &Specifications{
		sps:            sps,
		pps:            pps,
		knownAddresses: make(map[string]struct{}),
	}
}

// Current returns the local SPS and PPS.
func (s *Specifications) Current() (sps, pps []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sps, s.pps
}

// Announce replaces the local SPS/PPS and notifies every registered
// listener. The set of known signaling addresses is left unchanged.
func (s *Specifications) Announce(sps, pps []byte) {
	s.mu.Lock()
	s.sps = sps
	s.pps = pps
	listeners := append([]func(sps, pps []byte){}, s.onAnnounce...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(sps, pps)
	}
}

// OnAnnounce registers a callback invoked every time Announce is
// called.
func (s *Specifications) OnAnnounce(f func(sps, pps []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAnnounce = append(s.onAnnounce, f)
}

// AddKnownAddress records addr as a known signaling peer, returning
// false if it was already known.
func (s *Specifications) AddKnownAddress(addr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.knownAddresses[addr]; ok {
		return false
	}
	s.knownAddresses[addr] = struct{}{}
	return true
}

// KnownAddresses returns every signaling address currently known.
func (s *Specifications) KnownAddresses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.knownAddresses))
	for a := range s.knownAddresses {
		out = append(out, a)
	}
	return out
}
