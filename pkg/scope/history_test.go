package scope

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/itohio/goldr/pkg/ldr"
	"github.com/itohio/goldr/pkg/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AddAndPrune(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := newHistory(10*time.Second, 100)

	for i := 0; i < 20; i++ {
		ch := ldr.LDR1
		if i%2 == 1 {
			ch = ldr.LDR2
		}
		h.add(link.Report{Timestamp: base.Add(time.Duration(i) * time.Second), Channel: ch, Value: ldr.Fixed2(i)})
	}

	// Newest is at 19s, so everything before 9s is gone
	ldr1 := h.points(ldr.LDR1)
	ldr2 := h.points(ldr.LDR2)
	require.NotEmpty(t, ldr1)
	require.NotEmpty(t, ldr2)
	assert.Equal(t, base.Add(10*time.Second), ldr1[0].t)
	assert.Equal(t, base.Add(9*time.Second), ldr2[0].t)
	assert.InDelta(t, 0.19, ldr2[len(ldr2)-1].v, 1e-9)
}

func TestHistory_MaxPoints(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := newHistory(time.Hour, 5)

	for i := 0; i < 12; i++ {
		h.add(link.Report{Timestamp: base.Add(time.Duration(i) * time.Second), Channel: ldr.LDR1, Value: 50})
	}

	pts := h.points(ldr.LDR1)
	assert.Len(t, pts, 5)
	assert.Equal(t, base.Add(7*time.Second), pts[0].t)
}

func TestHistory_Span(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := newHistory(time.Minute, 100)

	xMin, xMax := h.span(base)
	assert.Equal(t, base, xMax)
	assert.Equal(t, base.Add(-time.Minute), xMin)

	h.add(link.Report{Timestamp: base.Add(5 * time.Second), Channel: ldr.LDR2, Value: 10})
	xMin, xMax = h.span(base)
	assert.Equal(t, base.Add(5*time.Second), xMax)
	assert.Equal(t, base.Add(5*time.Second-time.Minute), xMin)

	h.clear()
	assert.Empty(t, h.points(ldr.LDR2))
}

func TestHistory_PointsIsCopy(t *testing.T) {
	h := newHistory(time.Minute, 10)
	h.add(link.Report{Timestamp: time.Now(), Channel: ldr.LDR1, Value: 73})

	pts := h.points(ldr.LDR1)
	pts[0].v = 0
	assert.InDelta(t, 0.73, h.points(ldr.LDR1)[0].v, 1e-9)
}

func TestPlotArea_Pos(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := plotArea{x: 10, y: 20, width: 100, height: 50, xMin: base, xMax: base.Add(10 * time.Second)}

	tests := []struct {
		name string
		pt   point
		want fyne.Position
	}{
		{"bottom left", point{t: base, v: 0}, fyne.NewPos(10, 70)},
		{"top right", point{t: base.Add(10 * time.Second), v: 1}, fyne.NewPos(110, 20)},
		{"middle", point{t: base.Add(5 * time.Second), v: 0.5}, fyne.NewPos(60, 45)},
		{"clamped", point{t: base, v: 1.5}, fyne.NewPos(10, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.pos(tt.pt)
			assert.InDelta(t, tt.want.X, got.X, 1e-3)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-3)
		})
	}
}

func TestFormatAgo(t *testing.T) {
	assert.Equal(t, "now", formatAgo(0))
	assert.Equal(t, "-30s", formatAgo(30*time.Second))
	assert.Equal(t, "-2m", formatAgo(2*time.Minute))
	assert.Equal(t, "-90s", formatAgo(90*time.Second))
}

func TestTraceWidget_AddAndClear(t *testing.T) {
	test.NewTempApp(t)

	w := New(time.Minute)
	now := time.Now()
	w.Add(
		link.Report{Timestamp: now, Channel: ldr.LDR1, Value: 40},
		link.Report{Timestamp: now.Add(time.Second), Channel: ldr.LDR2, Value: 60},
	)

	pts, _, xMax := w.snapshot()
	assert.Len(t, pts[ldr.LDR1], 1)
	assert.Len(t, pts[ldr.LDR2], 1)
	assert.Equal(t, now.Add(time.Second), xMax)

	w.Clear()
	pts, _, _ = w.snapshot()
	assert.Empty(t, pts[ldr.LDR1])
	assert.Empty(t, pts[ldr.LDR2])
}
