package report

import (
	"testing"
	"time"

	"github.com/itohio/goldr/pkg/ldr"
	"github.com/itohio/goldr/pkg/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportAt(start time.Time, offset time.Duration, ch ldr.Channel, v ldr.Fixed2) link.Report {
	return link.Report{Timestamp: start.Add(offset), Channel: ch, Value: v}
}

func TestTracker_Stats(t *testing.T) {
	start := time.Unix(1700000000, 0)
	tr := newTracker(8, time.Second)

	tr.add(reportAt(start, 0, ldr.LDR1, 73))
	tr.add(reportAt(start, 5*time.Second, ldr.LDR1, 41))
	tr.add(reportAt(start, 10*time.Second, ldr.LDR2, 100))
	s := tr.add(reportAt(start, 15*time.Second, ldr.LDR1, 52))

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Channels[ldr.LDR1].Count)
	assert.Equal(t, ldr.Fixed2(41), s.Channels[ldr.LDR1].Min)
	assert.Equal(t, ldr.Fixed2(73), s.Channels[ldr.LDR1].Max)
	assert.Equal(t, ldr.Fixed2(52), s.Channels[ldr.LDR1].Last)
	assert.InDelta(t, (0.73+0.41+0.52)/3, s.Channels[ldr.LDR1].Mean, 1e-9)

	assert.Equal(t, 1, s.Channels[ldr.LDR2].Count)
	assert.Equal(t, ldr.Fixed2(100), s.Channels[ldr.LDR2].Min)
	assert.Equal(t, ldr.Fixed2(100), s.Channels[ldr.LDR2].Max)

	assert.Equal(t, ldr.LDR1, s.Last.Channel)
	assert.Equal(t, 5*time.Second, s.Interval)
	assert.InDelta(t, 0.75, s.Share(ldr.LDR1), 1e-9)
	assert.InDelta(t, 0.25, s.Share(ldr.LDR2), 1e-9)
}

func TestTracker_IntervalFollowsChanges(t *testing.T) {
	start := time.Unix(1700000000, 0)
	tr := newTracker(3, time.Second)

	s := tr.add(reportAt(start, 0, ldr.LDR1, 10))
	assert.Zero(t, s.Interval)

	offset := time.Duration(0)
	// jittered 5 s period
	for _, gap := range []time.Duration{5010 * time.Millisecond, 4990 * time.Millisecond, 5003 * time.Millisecond} {
		offset += gap
		s = tr.add(reportAt(start, offset, ldr.LDR1, 10))
	}
	assert.Equal(t, 5*time.Second, s.Interval)

	// the device was switched to 2 s, history of 3 forgets the old period
	for i := 0; i < 3; i++ {
		offset += 2 * time.Second
		s = tr.add(reportAt(start, offset, ldr.LDR2, 10))
	}
	assert.Equal(t, 2*time.Second, s.Interval)
}

func TestMedian(t *testing.T) {
	assert.Zero(t, median(nil))
	assert.Equal(t, 3*time.Second, median([]time.Duration{5 * time.Second, time.Second, 3 * time.Second}))
	assert.Equal(t, 2*time.Second, median([]time.Duration{time.Second, 3 * time.Second}))

	gaps := []time.Duration{3, 1, 2}
	median(gaps)
	assert.Equal(t, []time.Duration{3, 1, 2}, gaps, "input must stay unsorted")
}

func TestSummary_ShareEmpty(t *testing.T) {
	assert.Zero(t, Summary{}.Share(ldr.LDR1))
}

func TestNewTracker(t *testing.T) {
	in := make(chan link.Report, 4)
	out := NewTracker(4, time.Second, 4)(in)

	start := time.Unix(1700000000, 0)
	in <- reportAt(start, 0, ldr.LDR1, 20)
	in <- reportAt(start, time.Second, ldr.LDR2, 30)
	close(in)

	var got []Summary
	for s := range out {
		got = append(got, s)
	}

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Total)
	assert.Equal(t, 2, got[1].Total)
	assert.Equal(t, time.Second, got[1].Interval)
	// Summaries are copies
	assert.Equal(t, 0, got[0].Channels[ldr.LDR2].Count)
}
