package mediapipe

import "sync/atomic"

// Clock is a per-stream integer counter in the pipeline's output time
// base. There is no global lock across streams: video and audio each
// own one Clock, and cross-stream timing is arbitrated purely by
// comparing a frame's rescaled PTS against the owning stream's Clock
// value, never by a shared mutex.
//
// For video, one unit is one output frame period (doubled denominator
// when the output is interlaced, per the design note that interlaced
// output still emits whole frames rather than fields). For audio, one
// unit is one output sample at the fixed 32kHz rate.
type Clock struct {
	value int64
}

// NewClock creates a Clock starting at the given value, typically the
// rescaled seek/start timestamp computed at Open.
func NewClock(start int64) *Clock {
	return &Clock{value: start}
}

// Load returns the current clock value.
func (c *Clock) Load() int64 {
	return atomic.LoadInt64(&c.value)
}

// Add advances the clock by delta units and returns the new value.
func (c *Clock) Add(delta int64) int64 {
	return atomic.AddInt64(&c.value, delta)
}

// Set forces the clock to an absolute value. Open does not use it: it
// creates each clock at its seek position with NewClock.
func (c *Clock) Set(v int64) {
	atomic.StoreInt64(&c.value, v)
}
