// Package playout implements the per-peer ordered fragment buffer:
// fragments are inserted in (timestamp, extended sequence number)
// order and popped as whole access units once a marker bit has been
// observed.
package playout

import "sort"

// Fragment is one RTP payload (header already stripped), tagged with
// its wire and wraparound-expanded sequence numbers.
type Fragment struct {
	SequenceNum         uint16
	ExtendedSequenceNum uint64
	Data                []byte
}

// Node holds every fragment observed for one RTP timestamp (one access
// unit), ordered ascending by ExtendedSequenceNum.
type Node struct {
	RTPTimestamp uint32
	PlayoutTime  uint32
	CodedData    []Fragment
}

// Buffer is the ordered sequence of Nodes for a single peer, ascending
// by RTPTimestamp.
//
// Pop deliberately returns the node at the tail of the buffer, the one
// with the highest RTPTimestamp (LIFO on the timestamp-ordered buffer;
// this is the most recently inserted node only when frames arrive in
// timestamp order): this works when a frame's marker packet arrives
// last, but loses ordering
// if a later frame's first fragment arrives before the current frame's
// marker completes. A FIFO alternative (pop the oldest node whose
// playout_time has elapsed or which is complete) is left as future
// work rather than guessed at here.
type Buffer struct {
	nodes []Node
}

// New allocates an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Insert places fragment into the node for timestamp ts, creating the
// node if it does not yet exist. Both node-level (by RTPTimestamp) and
// fragment-level (by ExtendedSequenceNum) insertion points are found by
// binary search, keeping both orderings invariant.
func (b *Buffer) Insert(ts uint32, playoutTime uint32, fragment Fragment) {
	idx := sort.Search(len(b.nodes), func(i int) bool {
		return b.nodes[i].RTPTimestamp >= ts
	})

	if idx < len(b.nodes) && b.nodes[idx].RTPTimestamp == ts {
		node := &b.nodes[idx]
		fi := sort.Search(len(node.CodedData), func(i int) bool {
			return node.CodedData[i].ExtendedSequenceNum >= fragment.ExtendedSequenceNum
		})
		node.CodedData = append(node.CodedData, Fragment{})
		copy(node.CodedData[fi+1:], node.CodedData[fi:])
		node.CodedData[fi] = fragment
		return
	}

	node := Node{
		RTPTimestamp: ts,
		PlayoutTime:  playoutTime,
		CodedData:    []Fragment{fragment},
	}
	b.nodes = append(b.nodes, Node{})
	copy(b.nodes[idx+1:], b.nodes[idx:])
	b.nodes[idx] = node
}

// Pop removes and returns the tail node, the one with the highest
// RTPTimestamp. Completeness
// is not tracked by Buffer: the caller must only invoke Pop once it has
// observed a marker bit for the peer's SSRC.
func (b *Buffer) Pop() (Node, bool) {
	if len(b.nodes) == 0 {
		return Node{}, false
	}
	n := b.nodes[len(b.nodes)-1]
	b.nodes = b.nodes[:len(b.nodes)-1]
	return n, true
}

// Len reports the number of nodes currently buffered.
func (b *Buffer) Len() int {
	return len(b.nodes)
}
