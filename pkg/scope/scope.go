package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/goldr/pkg/ldr"
	"github.com/itohio/goldr/pkg/link"
)

// TraceWidget is a custom Fyne widget that plots recent reports of both sensors.
type TraceWidget struct {
	widget.BaseWidget

	// Data (protected by mu)
	mu      sync.RWMutex
	history *history
	now     time.Time
}

// New creates a new TraceWidget showing the given time window.
func New(window time.Duration) *TraceWidget {
	if window <= 0 {
		window = 5 * time.Minute
	}
	s := &TraceWidget{
		history: newHistory(window, 1000), // Limit points for efficient rendering
		now:     time.Now(),
	}
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// Add appends reports to the trace and redraws it.
// This should be called on the main thread using fyne.Do().
func (s *TraceWidget) Add(reports ...link.Report) {
	s.mu.Lock()
	for _, r := range reports {
		s.history.add(r)
		if r.Timestamp.After(s.now) {
			s.now = r.Timestamp
		}
	}
	s.mu.Unlock()

	s.Refresh()
}

// Clear removes all points.
func (s *TraceWidget) Clear() {
	s.mu.Lock()
	s.history.clear()
	s.now = time.Now()
	s.mu.Unlock()

	s.Refresh()
}

// snapshot copies the data needed for one render.
func (s *TraceWidget) snapshot() (pts [2][]point, xMin, xMax time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range []ldr.Channel{ldr.LDR1, ldr.LDR2} {
		pts[ch] = s.history.points(ch)
	}
	xMin, xMax = s.history.span(s.now)
	return pts, xMin, xMax
}

// CreateRenderer creates the widget renderer.
func (s *TraceWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &traceRenderer{
		trace:   s,
		grid:    grid,
		objects: []fyne.CanvasObject{grid},
	}
}
