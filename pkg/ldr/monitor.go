package ldr

// Monitor composes the interval clock, the sampler and the reporter.
// OnTick is meant to run as the periodic timer handler; it is not re-entrant.
type Monitor struct {
	interval *Interval
	clock    Clock
	sampler  Sampler
	reporter *Reporter
}

// NewMonitor creates a Monitor. A nil interval gets a fresh default one.
func NewMonitor(interval *Interval, sampler Sampler, reporter *Reporter) *Monitor {
	if interval == nil {
		interval = NewInterval()
	}
	return &Monitor{
		interval: interval,
		sampler:  sampler,
		reporter: reporter,
	}
}

// Interval returns the shared threshold so the adjuster can be wired to it.
func (m *Monitor) Interval() *Interval {
	return m.interval
}

// Elapsed returns the time accumulated towards the next cycle.
func (m *Monitor) Elapsed() int32 {
	return m.clock.Elapsed()
}

// OnTick advances the clock by one tick and runs a reporting cycle when due.
// The threshold is read once per tick.
func (m *Monitor) OnTick() (bool, error) {
	if !m.clock.Tick(m.interval.Load()) {
		return false, nil
	}
	_, err := m.Cycle()
	return true, err
}

// Cycle samples both channels and transmits the brighter one.
func (m *Monitor) Cycle() (Reading, error) {
	raw1 := m.sampler.Read(LDR1)
	raw2 := m.sampler.Read(LDR2)
	p1, p2 := Percent(raw1), Percent(raw2)

	ch, err := m.reporter.SendBrighter(p1, p2)
	if ch == LDR1 {
		return Reading{Channel: LDR1, Raw: raw1, Percent: p1}, err
	}
	return Reading{Channel: LDR2, Raw: raw2, Percent: p2}, err
}
