// Package framequeue implements the bounded producer-to-sender queue:
// a fixed-capacity ring buffer of encoded frames with a non-blocking
// push (drops on full) and a blocking pop.
package framequeue

import "sync"

// EncodedFrame is one AVCC-framed encoded frame handed from the
// producer to the sender loop, along with the release callback the
// producer must have invoked exactly once regardless of whether the
// frame was ever sent.
type EncodedFrame struct {
	Data    []byte
	Release func()
}

// Queue is a fixed-capacity ring buffer of EncodedFrame. Capacity must
// be a power of two.
type Queue struct {
	size       uint64
	mu         sync.Mutex
	cond       *sync.Cond
	buffer     []*EncodedFrame
	readIndex  uint64
	writeIndex uint64
	closed     bool
}

// New allocates a Queue of the given power-of-two capacity.
func New(capacity uint64) *Queue {
	if capacity == 0 || (capacity&(capacity-1)) != 0 {
		panic("framequeue: capacity must be a power of two")
	}

	q := &Queue{
		size:   capacity,
		buffer: make([]*EncodedFrame, capacity),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues frame. Returns false without blocking if the queue is
// full or already closed; the caller is responsible for invoking
// frame.Release in that case.
func (q *Queue) Push(frame EncodedFrame) bool {
	q.mu.Lock()

	if q.closed || q.buffer[q.writeIndex] != nil {
		q.mu.Unlock()
		return false
	}

	q.buffer[q.writeIndex] = &frame
	q.writeIndex = (q.writeIndex + 1) % q.size

	q.mu.Unlock()
	q.cond.Broadcast()

	return true
}

// Pop blocks until a frame is available or the queue is closed.
func (q *Queue) Pop() (EncodedFrame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if f := q.buffer[q.readIndex]; f != nil {
			q.buffer[q.readIndex] = nil
			q.readIndex = (q.readIndex + 1) % q.size
			return *f, true
		}

		if q.closed {
			return EncodedFrame{}, false
		}

		q.cond.Wait()
	}
}

// Close stops the queue, unblocks any pending Pop, and invokes the
// release callback of every frame still queued — exactly once each —
// so no frame's resources leak on shutdown.
func (q *Queue) Close() {
	q.mu.Lock()

	q.closed = true

	for i := uint64(0); i < q.size; i++ {
		if f := q.buffer[i]; f != nil {
			if f.Release != nil {
				f.Release()
			}
			q.buffer[i] = nil
		}
	}

	q.mu.Unlock()
	q.cond.Broadcast()
}
