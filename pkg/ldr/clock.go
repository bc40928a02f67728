package ldr

import "sync/atomic"

// TickStep is the real-time period of one timer tick in milliseconds.
const TickStep int32 = 1000

// Clock accumulates elapsed tick time and decides when a reporting cycle is due.
// Only the timer handler calls Tick.
type Clock struct {
	elapsed atomic.Int32
}

// Tick advances the accumulator by TickStep. When the accumulator reaches
// interval it is reset to exactly zero and Tick returns true.
func (c *Clock) Tick(interval int32) bool {
	e := c.elapsed.Load() + TickStep
	if e >= interval {
		c.elapsed.Store(0)
		return true
	}
	c.elapsed.Store(e)
	return false
}

// Elapsed returns the accumulated time since the last reporting cycle.
func (c *Clock) Elapsed() int32 {
	return c.elapsed.Load()
}
