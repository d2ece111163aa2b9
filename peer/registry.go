package peer

import (
	"net"
	"sync"

	"github.com/stran9682/video-conferencing/playout"
)

// Registry tracks every known remote peer by SSRC. It keeps a second,
// address-only map so the sender hot path can read destination
// addresses without contending with receiver-side peer mutation.
type Registry struct {
	LocalSSRC uint32

	mu        sync.RWMutex
	peers     map[uint32]*Peer
	addrsByID map[uint32]net.Addr
}

// NewRegistry allocates an empty Registry for the given local SSRC.
func NewRegistry(localSSRC uint32) *Registry {
	return &Registry{
		LocalSSRC: localSSRC,
		peers:     make(map[uint32]*Peer),
		addrsByID: make(map[uint32]net.Addr),
	}
}

// AddPeer registers ssrc at addr with the given opaque consumer
// context. Returns false if ssrc is already registered (the existing
// entry is left untouched).
func (r *Registry) AddPeer(ssrc uint32, addr net.Addr, consumerContext any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.peers[ssrc]; ok {
		return false
	}

	p := newPeer(ssrc, addr, consumerContext)
	r.peers[ssrc] = p
	r.addrsByID[ssrc] = addr
	return true
}

// RemovePeer drops ssrc from the registry.
func (r *Registry) RemovePeer(ssrc uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, ssrc)
	delete(r.addrsByID, ssrc)
}

// Get returns the Peer for ssrc, if any.
func (r *Registry) Get(ssrc uint32) (*Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.peers[ssrc]
	return p, ok
}

// Addrs returns the current destination address of every registered
// peer. Read by the sender loop; never touches per-peer locks.
func (r *Registry) Addrs() []net.Addr {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addrs := make([]net.Addr, 0, len(r.addrsByID))
	for _, a := range r.addrsByID {
		addrs = append(addrs, a)
	}
	return addrs
}

// ConsumerContext returns the opaque consumer context registered for
// ssrc, if known.
func (r *Registry) ConsumerContext(ssrc uint32) (any, bool) {
	p, ok := r.Get(ssrc)
	if !ok {
		return nil, false
	}
	return p.ConsumerContext, true
}

// PopNode pops the tail playout node (highest RTP timestamp) for ssrc.
// Completeness is not checked.
func (r *Registry) PopNode(ssrc uint32) (playout.Node, bool) {
	p, ok := r.Get(ssrc)
	if !ok {
		return playout.Node{}, false
	}
	return p.PopNode()
}

// Insert records an incoming fragment for ssrc, returning false if
// ssrc is not a known peer.
func (r *Registry) Insert(ssrc uint32, ts, playoutTime uint32, seq uint16, data []byte) (uint64, bool) {
	p, ok := r.Get(ssrc)
	if !ok {
		return 0, false
	}
	return p.Insert(ts, playoutTime, seq, data), true
}

// PushOffset records a jitter offset observation for ssrc and returns
// the peer's current window minimum, or false if ssrc is unknown.
func (r *Registry) PushOffset(ssrc uint32, offset uint32) (uint32, bool) {
	p, ok := r.Get(ssrc)
	if !ok {
		return 0, false
	}
	return p.PushOffset(offset), true
}
