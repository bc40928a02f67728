package scope

import (
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/goldr/pkg/ldr"
)

var channelColors = [2]color.Color{
	color.RGBA{R: 255, G: 165, B: 0, A: 255},   // LDR1 orange
	color.RGBA{R: 100, G: 200, B: 255, A: 255}, // LDR2 light blue
}

// traceRenderer renders the trace widget.
type traceRenderer struct {
	trace *TraceWidget

	// Background
	grid *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// plotArea maps trace coordinates onto the widget.
type plotArea struct {
	x, y, width, height float32
	xMin, xMax          time.Time
}

func (p plotArea) pos(pt point) fyne.Position {
	span := p.xMax.Sub(p.xMin).Seconds()
	fx := float32(0)
	if span > 0 {
		fx = float32(pt.t.Sub(p.xMin).Seconds() / span)
	}
	v := pt.v
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return fyne.NewPos(p.x+fx*p.width, p.y+p.height-float32(v)*p.height)
}

// MinSize returns the minimum size of the widget.
func (r *traceRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 200)
}

// Layout arranges the widget components.
func (r *traceRenderer) Layout(size fyne.Size) {
	r.grid.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.trace.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *traceRenderer) Refresh() {
	pts, xMin, xMax := r.trace.snapshot()

	size := r.trace.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	// Clear old objects (but keep grid)
	r.objects = []fyne.CanvasObject{r.grid}

	const (
		marginLeft   = float32(45.0)
		marginRight  = float32(20.0)
		marginTop    = float32(20.0)
		marginBottom = float32(30.0)
	)
	area := plotArea{
		x:      marginLeft,
		y:      marginTop,
		width:  size.Width - marginLeft - marginRight,
		height: size.Height - marginTop - marginBottom,
		xMin:   xMin,
		xMax:   xMax,
	}

	r.drawGrid(area)
	for _, ch := range []ldr.Channel{ldr.LDR1, ldr.LDR2} {
		r.drawChannel(area, ch, pts[ch])
	}
	r.drawLegend(area)
}

// drawGrid draws the oscilloscope-style grid.
func (r *traceRenderer) drawGrid(a plotArea) {
	gridColor := color.RGBA{R: 40, G: 40, B: 40, A: 255}
	textColor := color.RGBA{R: 150, G: 150, B: 150, A: 255}

	// Horizontal grid lines (reported value)
	numHLines := 4
	for i := range numHLines + 1 {
		y := a.y + float32(i)*a.height/float32(numHLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(a.x, y)
		line.Position2 = fyne.NewPos(a.x+a.width, y)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)

		hundredths := ldr.Fixed2(100 - i*100/numHLines)
		text := canvas.NewText(hundredths.String(), textColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(a.x-5, y-6))
		r.objects = append(r.objects, text)
	}

	// Vertical grid lines (time before newest report)
	numVLines := 5
	window := a.xMax.Sub(a.xMin)
	for i := range numVLines + 1 {
		x := a.x + float32(i)*a.width/float32(numVLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(x, a.y)
		line.Position2 = fyne.NewPos(x, a.y+a.height)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)

		ago := window - time.Duration(i)*window/time.Duration(numVLines)
		text := canvas.NewText(formatAgo(ago), textColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, a.y+a.height+5))
		r.objects = append(r.objects, text)
	}
}

// drawChannel draws the reports of one channel as a step line, since a
// reported value holds until the next report.
func (r *traceRenderer) drawChannel(a plotArea, ch ldr.Channel, pts []point) {
	for i, pt := range pts {
		if pt.t.Before(a.xMin) {
			continue
		}
		p := a.pos(pt)

		dot := canvas.NewCircle(channelColors[ch])
		dot.Resize(fyne.NewSize(4, 4))
		dot.Move(fyne.NewPos(p.X-2, p.Y-2))
		r.objects = append(r.objects, dot)

		if i+1 >= len(pts) {
			continue
		}
		next := a.pos(pts[i+1])
		for _, seg := range [2][2]fyne.Position{
			{p, fyne.NewPos(next.X, p.Y)},
			{fyne.NewPos(next.X, p.Y), next},
		} {
			line := canvas.NewLine(channelColors[ch])
			line.Position1 = seg[0]
			line.Position2 = seg[1]
			line.StrokeWidth = 1.5
			r.objects = append(r.objects, line)
		}
	}
}

func (r *traceRenderer) drawLegend(a plotArea) {
	for _, ch := range []ldr.Channel{ldr.LDR1, ldr.LDR2} {
		text := canvas.NewText(ch.String(), channelColors[ch])
		text.TextSize = 11
		text.Move(fyne.NewPos(a.x+10+float32(ch)*50, a.y+5))
		r.objects = append(r.objects, text)
	}
}

// Objects returns all canvas objects for rendering.
func (r *traceRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *traceRenderer) Destroy() {}

// formatAgo renders a relative time axis label such as "-30s" or "-2m".
func formatAgo(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	if d >= time.Minute && d%time.Minute == 0 {
		return "-" + strconv.FormatInt(int64(d/time.Minute), 10) + "m"
	}
	return "-" + strconv.FormatInt(int64(d.Round(time.Second)/time.Second), 10) + "s"
}
