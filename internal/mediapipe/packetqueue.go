package mediapipe

import (
	"errors"
	"sync"
)

// MaxQueueSize is the byte-bounded capacity of a PacketQueue, taken
// from the same figure hacktv borrows from ffplay.c.
const MaxQueueSize = 15 * 1024 * 1024

// approxPacketOverhead approximates the per-node bookkeeping cost the
// original C queue adds via sizeof(_packet_queue_item_t), so the byte
// bound accounts for more than just payload size.
const approxPacketOverhead = 64

// ErrAborted is returned by PacketQueue and FrameDoubleBuffer
// operations once Abort has been called.
var ErrAborted = errors.New("mediapipe: aborted")

// ErrEOF is returned by Pop once the queue is empty and has been
// marked end-of-stream.
var ErrEOF = errors.New("mediapipe: eof")

// Sized is implemented by anything a PacketQueue can hold: its Size
// reports the payload byte count that counts against the queue's
// byte-bounded capacity, mirroring AVPacket.size in the original
// queue.
type Sized interface {
	Size() int
}

type packetNode[T Sized] struct {
	pkt  T
	next *packetNode[T]
}

// PacketQueue is a FIFO of demuxed packets belonging to a single
// stream, bounded by total byte size rather than item count so a
// burst of large packets cannot exhaust memory. Single producer,
// single consumer; Push/Pop block on a condition variable, and Abort
// is a one-way latch that wakes every waiter.
type PacketQueue[T Sized] struct {
	mu   sync.Mutex
	cond *sync.Cond

	first, last *packetNode[T]
	length      int
	size        int

	eof   bool
	abort bool
}

// NewPacketQueue creates an empty, open PacketQueue.
func NewPacketQueue[T Sized]() *PacketQueue[T] {
	q := &PacketQueue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a packet to the queue, blocking while the queue is at
// capacity. Ownership of pkt passes to the queue; the popper is
// responsible for freeing it. Returns ErrAborted if Abort is called
// while waiting for space, without enqueuing the packet.
func (q *PacketQueue[T]) Push(pkt T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	size := pkt.Size() + approxPacketOverhead
	for !q.abort && q.size+size > MaxQueueSize {
		q.cond.Wait()
	}

	if q.abort {
		q.cond.Signal()
		return ErrAborted
	}

	node := &packetNode[T]{pkt: pkt}
	if q.length == 0 {
		q.first = node
	} else {
		q.last.next = node
	}
	q.last = node
	q.length++
	q.size += size

	q.cond.Signal()
	return nil
}

// PushEOF marks the queue as end-of-stream. Any packets already
// queued are still delivered by Pop before ErrEOF is returned.
func (q *PacketQueue[T]) PushEOF() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.eof = true
	q.cond.Signal()
}

// Pop removes and returns the next packet, blocking while the queue
// is empty and neither aborted nor at EOF. Returns ErrEOF once the
// queue has drained after PushEOF, or ErrAborted if Abort is called.
func (q *PacketQueue[T]) Pop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.length == 0 {
		if q.abort {
			var zero T
			return zero, ErrAborted
		}
		if q.eof {
			var zero T
			return zero, ErrEOF
		}
		q.cond.Wait()
	}

	node := q.first
	q.first = node.next
	q.length--
	q.size -= node.pkt.Size() + approxPacketOverhead
	if q.length == 0 {
		q.last = nil
	}

	q.cond.Signal()
	return node.pkt, nil
}

// Abort is a one-way latch: once set it stays set, and every blocked
// or future Push call returns ErrAborted, as does every Pop that finds
// the queue empty. Packets already queued are still returned by Pop.
// Safe to call more than once or concurrently with Push/Pop.
func (q *PacketQueue[T]) Abort() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.abort = true
	q.cond.Broadcast()
}

// Len reports the current number of queued packets.
func (q *PacketQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length
}

// Size reports the current estimated byte usage of the queue.
func (q *PacketQueue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}
