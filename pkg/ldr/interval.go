package ldr

import "sync/atomic"

// Interval bounds in milliseconds.
const (
	MinInterval     int32 = 1000
	MaxInterval     int32 = 10000
	IntervalStep    int32 = 1000
	DefaultInterval int32 = 5000
)

// Interval is the reporting threshold shared between the timer handler and
// the two button handlers. Its value always stays within [MinInterval, MaxInterval].
type Interval struct {
	ms atomic.Int32
}

// NewInterval returns an Interval set to DefaultInterval.
func NewInterval() *Interval {
	i := &Interval{}
	i.ms.Store(DefaultInterval)
	return i
}

// Load returns the current threshold in milliseconds.
func (i *Interval) Load() int32 {
	return i.ms.Load()
}

// Increase raises the threshold by one step unless it is already at MaxInterval.
// It reports whether the value changed.
func (i *Interval) Increase() bool {
	for {
		cur := i.ms.Load()
		if cur >= MaxInterval {
			return false
		}
		if i.ms.CompareAndSwap(cur, cur+IntervalStep) {
			return true
		}
	}
}

// Decrease lowers the threshold by one step unless it is already at MinInterval.
// It reports whether the value changed.
func (i *Interval) Decrease() bool {
	for {
		cur := i.ms.Load()
		if cur <= MinInterval {
			return false
		}
		if i.ms.CompareAndSwap(cur, cur-IntervalStep) {
			return true
		}
	}
}
