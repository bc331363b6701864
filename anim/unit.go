// Package anim steps timed visual changes once per physics tick.
//
// A Unit wraps a step function that reports completion. Units may carry
// successors that the Scheduler activates when the unit completes on its
// own; stopping a unit cancels it together with its whole chain.
package anim

import (
	"math"

	"github.com/phanxgames/quadfold/scene"
)

// StepFunc advances a unit by one physics tick and reports whether the unit
// has finished.
type StepFunc func() bool

// Unit is a steppable, one-shot or repeating piece of state mutation.
type Unit struct {
	step     StepFunc
	next     []*Unit
	finished bool
	stopped  bool
}

// New creates a unit that runs step each tick and activates next, in order,
// once step reports completion.
func New(step StepFunc, next ...*Unit) *Unit {
	if step == nil {
		step = func() bool { return true }
	}
	return &Unit{step: step, next: next}
}

// Step runs one tick. Once the unit is done, Step is a no-op that reports
// completion.
func (u *Unit) Step() bool {
	if u.Done() {
		return true
	}
	if u.step() {
		u.finished = true
	}
	return u.Done()
}

// Stop cancels the unit. Its successors are never activated, even when Stop
// is called from within the unit's own step.
func (u *Unit) Stop() {
	u.stopped = true
}

// Done reports whether the unit finished or was stopped.
func (u *Unit) Done() bool {
	return u.finished || u.stopped
}

// Stopped reports whether the unit was cancelled.
func (u *Unit) Stopped() bool {
	return u.stopped
}

// Next returns the successors activated on natural completion. The returned
// slice MUST NOT be mutated by the caller.
func (u *Unit) Next() []*Unit {
	return u.next
}

// Then appends successors and returns u for chaining.
func (u *Unit) Then(next ...*Unit) *Unit {
	u.next = append(u.next, next...)
	return u
}

// --- Constructors ---

// Tween wraps a tween group advanced by dt seconds per tick.
func Tween(g *scene.TweenGroup, dt float32, next ...*Unit) *Unit {
	return New(func() bool {
		g.Update(dt)
		return g.Done
	}, next...)
}

// Ticks runs fn for n ticks, passing the 1-based tick number, then finishes.
func Ticks(n int, fn func(tick int), next ...*Unit) *Unit {
	tick := 0
	return New(func() bool {
		tick++
		if fn != nil {
			fn(tick)
		}
		return tick >= n
	}, next...)
}

// Sequence chains units so each one starts the tick after its predecessor
// completes. It returns the head of the chain, or nil for no units.
func Sequence(units ...*Unit) *Unit {
	if len(units) == 0 {
		return nil
	}
	for i := 0; i < len(units)-1; i++ {
		units[i].Then(units[i+1])
	}
	return units[0]
}

// Repeat runs fn every tick forever; the unit only ends when stopped. fn
// receives the elapsed tick count.
func Repeat(fn func(tick int)) *Unit {
	tick := 0
	return New(func() bool {
		fn(tick)
		tick++
		return false
	})
}

// Oscillate returns base + amplitude*sin(speed*tick), the breathing curve
// used by idle animations.
func Oscillate(base, amplitude, speed float64, tick int) float64 {
	return base + amplitude*math.Sin(speed*float64(tick))
}
