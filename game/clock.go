package game

import "time"

// Clock is a fixed-step accumulator. It turns real frame timestamps into a
// whole number of physics ticks; the remainder carries over to the next frame.
//
// Integer durations keep the tick count for a total elapsed time S at exactly
// S/step however the time arrives in chunks.
type Clock struct {
	step    time.Duration
	acc     time.Duration
	last    time.Duration
	started bool
}

// NewClock creates a clock that emits one tick per step.
func NewClock(step time.Duration) *Clock {
	if step <= 0 {
		panic("game: clock step must be positive")
	}
	return &Clock{step: step}
}

// Step returns the length of one tick.
func (c *Clock) Step() time.Duration {
	return c.step
}

// Advance records the frame timestamp now and returns the number of ticks
// due. The first call after NewClock or Reset only primes the clock.
func (c *Clock) Advance(now time.Duration) int {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	elapsed := now - c.last
	c.last = now
	return c.AdvanceBy(elapsed)
}

// AdvanceBy adds elapsed real time and returns the number of ticks due.
// Negative elapsed time is ignored.
func (c *Clock) AdvanceBy(elapsed time.Duration) int {
	if elapsed > 0 {
		c.acc += elapsed
	}
	n := c.acc / c.step
	c.acc -= n * c.step
	return int(n)
}

// Pending returns the accumulated time not yet converted to ticks.
func (c *Clock) Pending() time.Duration {
	return c.acc
}

// Reset forgets the last timestamp and any pending time, so time spent
// paused is never replayed.
func (c *Clock) Reset() {
	c.started = false
	c.acc = 0
}
