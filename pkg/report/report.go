package report

import (
	"sort"
	"time"

	"github.com/itohio/goldr/pkg/ldr"
	"github.com/itohio/goldr/pkg/link"
)

// Stats aggregates the reports won by one channel.
type Stats struct {
	Count int
	Min   ldr.Fixed2
	Max   ldr.Fixed2
	Mean  float64 // In reported units (0.0 - 1.0)
	Last  ldr.Fixed2
}

// Summary is the running state after each report.
type Summary struct {
	Channels [2]Stats
	Total    int
	Last     link.Report
	// Interval is the observed reporting period: the median of recent gaps
	// between reports rounded to the tracker step. Zero until two reports arrived.
	Interval time.Duration
}

// Share returns the fraction of reports won by ch.
func (s Summary) Share(ch ldr.Channel) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Channels[ch].Count) / float64(s.Total)
}

// Converter is a function type that converts a Report channel into a Summary channel.
type Converter func(in <-chan link.Report) <-chan Summary

// NewTracker creates a converter that emits an updated Summary for every report.
// history is the number of gaps used for the interval estimate, step is the
// device tick period the estimate is rounded to.
func NewTracker(history int, step time.Duration, bufSize int) Converter {
	if history <= 0 {
		history = 8
	}
	if step <= 0 {
		step = time.Duration(ldr.TickStep) * time.Millisecond
	}
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan link.Report) <-chan Summary {
		out := make(chan Summary, bufSize)

		go func() {
			defer close(out)

			t := newTracker(history, step)
			for r := range in {
				summary := t.add(r)

				select {
				case out <- summary:
				case <-time.After(time.Second):
					// Consumer stalled, drop this summary
				}
			}
		}()

		return out
	}
}

type tracker struct {
	history int
	step    time.Duration

	summary Summary
	sums    [2]float64
	gaps    []time.Duration
}

func newTracker(history int, step time.Duration) *tracker {
	return &tracker{
		history: history,
		step:    step,
		gaps:    make([]time.Duration, 0, history),
	}
}

// add folds r into the running summary and returns a copy of it.
func (t *tracker) add(r link.Report) Summary {
	if t.summary.Total > 0 {
		gap := r.Timestamp.Sub(t.summary.Last.Timestamp)
		if gap > 0 {
			t.gaps = append(t.gaps, gap)
			if len(t.gaps) > t.history {
				t.gaps = t.gaps[1:] // Remove oldest
			}
			t.summary.Interval = roundTo(median(t.gaps), t.step)
		}
	}

	st := &t.summary.Channels[r.Channel]
	if st.Count == 0 || r.Value < st.Min {
		st.Min = r.Value
	}
	if st.Count == 0 || r.Value > st.Max {
		st.Max = r.Value
	}
	st.Count++
	st.Last = r.Value
	t.sums[r.Channel] += float64(r.Value) / 100
	st.Mean = t.sums[r.Channel] / float64(st.Count)

	t.summary.Total++
	t.summary.Last = r

	return t.summary
}

// median returns the median of gaps without modifying it.
func median(gaps []time.Duration) time.Duration {
	if len(gaps) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(gaps))
	copy(sorted, gaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func roundTo(d, step time.Duration) time.Duration {
	return d.Round(step)
}
