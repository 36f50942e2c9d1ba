package mediapipe

import "sync"

// FrameDoubleBuffer is a single-slot rendezvous between one producer
// and one consumer backed by two preallocated buffers, avoiding
// per-frame allocation on the hot path. The producer calls
// BackBuffer to get a buffer to fill, then MarkReady to publish it;
// the consumer calls Flip to receive the published buffer, which
// swaps the two slots unless the producer asked to repeat the
// previous one. Abort is a one-way latch that wakes every waiter.
type FrameDoubleBuffer[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond

	slots  [2]T
	ready  bool
	repeat bool
	abort  bool
}

// NewFrameDoubleBuffer creates a FrameDoubleBuffer with the two given
// backing buffers preallocated by the caller.
func NewFrameDoubleBuffer[T any](front, back T) *FrameDoubleBuffer[T] {
	d := &FrameDoubleBuffer[T]{slots: [2]T{front, back}}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// BackBuffer returns the producer's scratch buffer (slot 1), blocking
// until the previously published frame has been consumed. Returns the
// zero value and false if the buffer has been aborted.
func (d *FrameDoubleBuffer[T]) BackBuffer() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for d.ready && !d.abort {
		d.cond.Wait()
	}
	if d.abort {
		var zero T
		return zero, false
	}
	return d.slots[1], true
}

// MarkReady publishes the back buffer for the consumer. repeat tells
// the consumer to re-deliver the previously flipped frame instead of
// swapping in the new one (used when the video scaler is told to
// repeat a frame to catch up a slow source).
func (d *FrameDoubleBuffer[T]) MarkReady(repeat bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for d.ready && !d.abort {
		d.cond.Wait()
	}
	if d.abort {
		return
	}

	d.ready = true
	d.repeat = repeat
	d.cond.Signal()
}

// Flip blocks until a frame is published or the buffer is aborted. On
// success it swaps the front and back slots (unless repeat was
// requested) and returns the now-current front buffer. Returns false
// once Abort has been called.
func (d *FrameDoubleBuffer[T]) Flip() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for !d.ready && !d.abort {
		d.cond.Wait()
	}
	if d.abort {
		var zero T
		return zero, false
	}

	if !d.repeat {
		d.slots[0], d.slots[1] = d.slots[1], d.slots[0]
	}

	frame := d.slots[0]
	d.ready = false
	d.cond.Signal()
	return frame, true
}

// Abort is a one-way latch: once set, every blocked or future
// BackBuffer/MarkReady/Flip call returns immediately with its failure
// value.
func (d *FrameDoubleBuffer[T]) Abort() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.abort = true
	d.cond.Broadcast()
}
