package link

import (
	"context"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/goldr/pkg/config"
	"github.com/itohio/goldr/pkg/ldr"
)

// Mock simulates the reporter firmware for testing and development.
// It runs the real ldr.Monitor against two simulated light sensors and
// parses its serial output back into Reports.
type Mock struct {
	cfg *config.MockConfig

	reports   chan Report
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
	done      chan struct{}

	monitor  *ldr.Monitor
	adjuster *ldr.Adjuster
	light    *simulatedLight
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		def := config.Default().Mock
		cfg = &def
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Mock{
		cfg:     cfg,
		reports: make(chan Report, DefaultBufferSize),
		ctx:     ctx,
		cancel:  cancel,
		light:   &simulatedLight{cfg: cfg},
	}

	w := &lineWriter{onLine: m.handleLine}
	m.monitor = ldr.NewMonitor(ldr.NewInterval(), m.light, ldr.NewReporter(w))
	m.adjuster = ldr.NewAdjuster(m.monitor.Interval(), 0, nil)

	return m
}

// Connect starts the simulated firmware.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}

	m.connected = true
	m.done = make(chan struct{})

	go m.run(m.done)

	return nil
}

// Close stops the simulated firmware and closes the reports channel.
func (m *Mock) Close() error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil
	}

	m.cancel()
	m.connected = false
	done := m.done
	m.mu.Unlock()

	<-done
	close(m.reports)

	return nil
}

// Reports returns the channel for reading reports.
func (m *Mock) Reports() <-chan Report {
	return m.reports
}

// Increase acts like a press of the increase button.
func (m *Mock) Increase() error {
	if !m.IsConnected() {
		return ErrNotConnected
	}
	m.adjuster.OnCommand(ldr.CommandIncrease)
	return nil
}

// Decrease acts like a press of the decrease button.
func (m *Mock) Decrease() error {
	if !m.IsConnected() {
		return ErrNotConnected
	}
	m.adjuster.OnCommand(ldr.CommandDecrease)
	return nil
}

// IsConnected returns whether the mocked device is running.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Interval returns the simulated firmware's current reporting interval.
func (m *Mock) Interval() time.Duration {
	return time.Duration(m.monitor.Interval().Load()) * time.Millisecond
}

// run plays the role of the timer interrupt.
func (m *Mock) run(done chan struct{}) {
	defer close(done)

	period := m.cfg.TickPeriod
	if period <= 0 {
		period = config.Default().Mock.TickPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.light.advance(time.Duration(ldr.TickStep) * time.Millisecond)
			// lineWriter never fails
			_, _ = m.monitor.OnTick()
		}
	}
}

func (m *Mock) handleLine(line string) {
	report, err := parseReport(line, time.Now())
	if err != nil {
		return
	}

	select {
	case m.reports <- report:
	case <-m.ctx.Done():
	default:
		// Channel full, skip
	}
}

// simulatedLight produces raw readings from a sine light curve per sensor.
type simulatedLight struct {
	cfg *config.MockConfig
	now time.Duration // simulated time since start
}

func (s *simulatedLight) advance(d time.Duration) {
	s.now += d
}

// Read implements ldr.Sampler.
func (s *simulatedLight) Read(ch ldr.Channel) uint16 {
	lc := s.cfg.LDR1
	if ch == ldr.LDR2 {
		lc = s.cfg.LDR2
	}
	return rawLevel(lc, s.now)
}

// rawLevel evaluates a light curve at simulated time t and clamps it to 10 bits.
func rawLevel(lc config.LightConfig, t time.Duration) uint16 {
	var phase float32
	if lc.Period > 0 {
		phase = 2 * math32.Pi * float32(t.Seconds()/lc.Period.Seconds())
	}
	phase += lc.Phase

	// Deterministic pseudo-noise
	secs := float32(t.Seconds())
	noise := (math32.Sin(secs*12.9898) + math32.Cos(secs*78.233)) * 0.5 * lc.Noise

	v := lc.Mean + lc.Amplitude*math32.Sin(phase) + noise
	v = math32.Round(v)
	if v < 0 {
		return 0
	}
	if v > ldr.MaxRaw {
		return ldr.MaxRaw
	}
	return uint16(v)
}

// lineWriter collects transmitted bytes and hands over complete lines
// without their CRLF terminator.
type lineWriter struct {
	buf    []byte
	onLine func(string)
}

func (w *lineWriter) WriteByte(c byte) error {
	switch c {
	case '\r':
	case '\n':
		if len(w.buf) > 0 && w.onLine != nil {
			w.onLine(string(w.buf))
		}
		w.buf = w.buf[:0]
	default:
		w.buf = append(w.buf, c)
	}
	return nil
}
