package ldr

import (
	"sync/atomic"
	"time"
)

// Remote adjust command bytes. They act like the matching button press.
const (
	CommandIncrease byte = '+'
	CommandDecrease byte = '-'
)

// Adjuster connects the two falling-edge inputs to an Interval.
//
// A zero debounce window accepts every edge, bounce included. A non-zero
// window drops edges that arrive within the window after the last accepted
// edge of the same input.
type Adjuster struct {
	interval *Interval
	window   time.Duration
	now      func() time.Duration

	lastUp   atomic.Int64
	lastDown atomic.Int64
}

// NewAdjuster creates an Adjuster. now is only consulted when window > 0.
func NewAdjuster(interval *Interval, window time.Duration, now func() time.Duration) *Adjuster {
	a := &Adjuster{
		interval: interval,
		window:   window,
		now:      now,
	}
	a.lastUp.Store(-1)
	a.lastDown.Store(-1)
	return a
}

// OnIncrease is the handler for the increase input.
func (a *Adjuster) OnIncrease() bool {
	if !a.accept(&a.lastUp) {
		return false
	}
	return a.interval.Increase()
}

// OnDecrease is the handler for the decrease input.
func (a *Adjuster) OnDecrease() bool {
	if !a.accept(&a.lastDown) {
		return false
	}
	return a.interval.Decrease()
}

// OnCommand applies a remote adjust command byte. Any other byte is ignored.
func (a *Adjuster) OnCommand(c byte) bool {
	switch c {
	case CommandIncrease:
		return a.OnIncrease()
	case CommandDecrease:
		return a.OnDecrease()
	}
	return false
}

func (a *Adjuster) accept(last *atomic.Int64) bool {
	if a.window <= 0 || a.now == nil {
		return true
	}
	t := int64(a.now())
	prev := last.Load()
	if prev >= 0 && time.Duration(t-prev) < a.window {
		return false
	}
	return last.CompareAndSwap(prev, t)
}
