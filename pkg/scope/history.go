package scope

import (
	"time"

	"github.com/itohio/goldr/pkg/ldr"
	"github.com/itohio/goldr/pkg/link"
)

// point is one report projected into the trace.
type point struct {
	t time.Time
	v float64 // Reported units (0.0 - 1.0)
}

// history keeps the reports of each channel that fall inside a time window.
type history struct {
	window    time.Duration
	maxPoints int
	channels  [2][]point
}

func newHistory(window time.Duration, maxPoints int) *history {
	return &history{
		window:    window,
		maxPoints: maxPoints,
	}
}

// add appends r and drops points older than the window relative to r.
func (h *history) add(r link.Report) {
	if int(r.Channel) >= len(h.channels) {
		return
	}
	pts := append(h.channels[r.Channel], point{t: r.Timestamp, v: float64(r.Value) / 100})
	h.channels[r.Channel] = pts
	h.prune(r.Timestamp)
}

func (h *history) prune(now time.Time) {
	cutoff := now.Add(-h.window)
	for ch, pts := range h.channels {
		drop := 0
		for drop < len(pts) && pts[drop].t.Before(cutoff) {
			drop++
		}
		if over := len(pts) - drop - h.maxPoints; over > 0 {
			drop += over
		}
		if drop > 0 {
			h.channels[ch] = append(pts[:0], pts[drop:]...)
		}
	}
}

// span returns the time range covered by the trace. The range is at least
// the window wide and ends at the newest point.
func (h *history) span(now time.Time) (time.Time, time.Time) {
	xMax := now
	for _, pts := range h.channels {
		if n := len(pts); n > 0 && pts[n-1].t.After(xMax) {
			xMax = pts[n-1].t
		}
	}
	return xMax.Add(-h.window), xMax
}

// points returns a copy of the points of ch.
func (h *history) points(ch ldr.Channel) []point {
	return append([]point(nil), h.channels[ch]...)
}

func (h *history) clear() {
	for ch := range h.channels {
		h.channels[ch] = h.channels[ch][:0]
	}
}
