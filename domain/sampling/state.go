package sampling

import (
	"fmt"
	"math/rand"
)

// Source yields uniform values in [0,1). *rand.Rand satisfies it; no code in
// this module reaches for a process-global generator.
type Source interface {
	Float64() float64
}

var _ Source = (*rand.Rand)(nil)

// RandState walks a block of uniform random slots during one decay chain.
// In buffered mode the slots are a caller-owned pre-drawn block: the state
// only reads forward through it, never writes it, and never retains it past
// the call. In live mode every read draws fresh from the source.
//
// Slot 0 of the current window carries the chained value: the level choice
// consumes it and leaves a renormalized residual behind for the fired
// transition's own nested selections and its polar angle. Chain exposes that
// residual as a mutable pointer; Advance discards it and moves the window.
type RandState struct {
	slots []float64
	cur   int
	src   Source
	x     float64
	hasX  bool
}

// NewRandState wraps a caller-owned slot buffer; ambient draws outside the
// slot budget (atomic relaxation) come from src.
func NewRandState(slots []float64, src Source) *RandState {
	return &RandState{slots: slots, src: src}
}

// Live returns a state with no slot buffer: every value is drawn from src
func Live(src Source) *RandState {
	return &RandState{src: src}
}

// Buffered reports whether a slot buffer is in use
func (rs *RandState) Buffered() bool { return rs.slots != nil }

// Chain returns a pointer to the current window's chained slot-0 value, or
// nil in live mode (selections then draw fresh values instead).
func (rs *RandState) Chain() *float64 {
	if rs.slots == nil {
		return nil
	}
	rs.loadChain()
	return &rs.x
}

// ChainValue returns the current chained value itself: the slot-0 residual in
// buffered mode, a fresh draw in live mode.
func (rs *RandState) ChainValue() float64 {
	if rs.slots == nil {
		return rs.src.Float64()
	}
	rs.loadChain()
	return rs.x
}

func (rs *RandState) loadChain() {
	if !rs.hasX {
		rs.x = rs.at(0)
		rs.hasX = true
	}
}

// Slot reads slot i of the current window; live mode draws fresh
func (rs *RandState) Slot(i int) float64 {
	if rs.slots == nil {
		return rs.src.Float64()
	}
	return rs.at(i)
}

func (rs *RandState) at(i int) float64 {
	if rs.cur+i >= len(rs.slots) {
		panic(fmt.Sprintf("sampling: slot %d beyond random buffer of %d", rs.cur+i, len(rs.slots)))
	}
	return rs.slots[rs.cur+i]
}

// Advance moves the window past the n slots a fired transition consumed
func (rs *RandState) Advance(n int) {
	rs.hasX = false
	if rs.slots != nil {
		rs.cur += n
	}
}

// Ambient draws a value outside the slot budget
func (rs *RandState) Ambient() float64 { return rs.src.Float64() }

// Src returns the underlying source
func (rs *RandState) Src() Source { return rs.src }
