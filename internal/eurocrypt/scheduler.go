package eurocrypt

import "sync"

// Scheduler rotates the active control word parity on a cadence
// external to the cipher itself (hacktv's scrambler does the same:
// eurocrypt.c only ever regenerates one parity per call, a driving
// loop decides when). Both parities are generated once at
// construction; thereafter each Switch regenerates the parity that
// just became inactive, so the next-to-publish CW is always freshly
// keyed while the currently-active one keeps broadcasting.
type Scheduler struct {
	mu     sync.Mutex
	ctx    *Context
	active Parity
}

// NewScheduler creates a Scheduler around an already-initialised
// Context. The context's two parities were both generated by
// NewContext, so the scheduler starts from a consistent state without
// generating anything itself.
func NewScheduler(ctx *Context, initial Parity) *Scheduler {
	return &Scheduler{ctx: ctx, active: initial}
}

// Switch flips the active parity and regenerates the ECM for the
// parity that just became inactive.
func (s *Scheduler) Switch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	inactive := ParityOdd
	if s.active == ParityOdd {
		inactive = ParityEven
	}
	s.active = inactive

	justInactive := ParityOdd
	if inactive == ParityOdd {
		justInactive = ParityEven
	}
	s.ctx.GenerateECM(justInactive)
}

// Active returns the currently active parity.
func (s *Scheduler) Active() Parity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ECM returns the context's current 42-byte ECM packet.
func (s *Scheduler) ECM() [42]byte {
	return s.ctx.ECM()
}
