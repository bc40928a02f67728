package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/goldr/pkg/config"
	"github.com/itohio/goldr/pkg/ldr"
	"github.com/itohio/goldr/pkg/link"
	"github.com/itohio/goldr/pkg/report"
	"github.com/itohio/goldr/pkg/scope"
	"github.com/rs/zerolog"
)

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	device     link.Device
	window     fyne.Window
	useMock    bool
	sinks      *sinks
	log        zerolog.Logger
	chain      *reportChain // Current report chain (nil if not connected)

	connectBtn  *widget.Button
	increaseBtn *widget.Button
	decreaseBtn *widget.Button
	rows        [2]*channelRow
	interval    *widget.Label
	status      *widget.Label
	trace       *scope.TraceWidget
}

// channelRow displays the latest state of one sensor.
type channelRow struct {
	value *widget.Label
	bar   *widget.ProgressBar
	stats *widget.Label
}

func newChannelRow() *channelRow {
	r := &channelRow{
		value: widget.NewLabel("-.--"),
		bar:   widget.NewProgressBar(),
		stats: widget.NewLabel(""),
	}
	r.bar.Min = 0
	r.bar.Max = 1
	r.value.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
	return r
}

func (r *channelRow) update(st report.Stats, share float64) {
	if st.Count == 0 {
		return
	}
	r.value.SetText(st.Last.String())
	r.bar.SetValue(float64(st.Last) / 100)
	r.stats.SetText(fmt.Sprintf("%d reports (%.0f%%)  min %s  max %s  mean %.2f",
		st.Count, share*100, st.Min, st.Max, st.Mean))
}

// buildUI creates the toolbar and the sensor panel.
func buildUI(state *appState) fyne.CanvasObject {
	state.interval = widget.NewLabel("Interval: -")
	state.status = widget.NewLabel("Disconnected")
	state.trace = scope.New(state.cfg.Tracker.TraceWindow)
	loadHistory(state)

	grid := container.NewVBox()
	for _, ch := range []ldr.Channel{ldr.LDR1, ldr.LDR2} {
		row := newChannelRow()
		state.rows[ch] = row
		grid.Add(container.NewBorder(nil, row.stats, widget.NewLabel(ch.String()), row.value, row.bar))
	}

	return container.NewBorder(
		createToolbar(state),
		state.status,
		nil,
		nil,
		container.NewBorder(
			container.NewVBox(grid, widget.NewSeparator(), state.interval),
			nil, nil, nil,
			state.trace,
		),
	)
}

// loadHistory resets the trace to the stored reports from the last window.
func loadHistory(state *appState) {
	if state.sinks == nil || state.sinks.store == nil {
		state.trace.Clear()
		return
	}
	state.trace.Clear()
	recent, err := state.sinks.store.Recent(historyReports)
	if err != nil {
		state.log.Warn().Err(err).Msg("Failed to load report history")
		return
	}
	state.trace.Add(oldestFirst(recent, state.cfg.Tracker.TraceWindow)...)
}

// historyReports bounds the number of stored reports loaded at startup.
const historyReports = 1000

// oldestFirst reverses newest-first reports and keeps those within window of the newest.
func oldestFirst(reports []link.Report, window time.Duration) []link.Report {
	out := make([]link.Report, 0, len(reports))
	for i := len(reports) - 1; i >= 0; i-- {
		if reports[0].Timestamp.Sub(reports[i].Timestamp) > window {
			continue
		}
		out = append(out, reports[i])
	}
	return out
}

// createToolbar creates the application toolbar with Connect, Settings and interval buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	decreaseBtn := widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() {
		handleAdjust(state, false)
	})
	decreaseBtn.Disable()
	state.decreaseBtn = decreaseBtn

	increaseBtn := widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		handleAdjust(state, true)
	})
	increaseBtn.Disable()
	state.increaseBtn = increaseBtn

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(connectBtn, settingsBtn),
		container.NewHBox(decreaseBtn, increaseBtn),
		nil,
	)
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		disconnect(state)
		return
	}

	if state.chain != nil {
		disconnect(state)
	}

	device := newDevice(state)
	if err := device.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to connect to mocked device: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = device

	if state.useMock {
		state.log.Info().Msg("Connected to mocked device")
		state.status.SetText("Connected to mocked device")
	} else {
		state.log.Info().Str("port", state.cfg.Serial.Port).Msg("Connected to serial port")
		state.status.SetText("Connected to " + state.cfg.Serial.Port)
	}
	state.connectBtn.SetIcon(theme.LogoutIcon())
	state.increaseBtn.Enable()
	state.decreaseBtn.Enable()

	loadHistory(state)

	chain := startChain(device, state.cfg, state.useMock, state.sinks)
	state.chain = chain

	go func() {
		consumeChain(chain, state.sinks, func(sum report.Summary) {
			fyne.Do(func() {
				updateSummary(state, sum)
			})
		})
		fyne.Do(func() {
			// A user disconnect has already cleared the chain
			if state.chain != chain {
				return
			}
			state.log.Warn().Msg("Device lost")
			disconnect(state)
			state.status.SetText("Device lost")
		})
	}()
}

// disconnect closes the report chain and resets the toolbar.
func disconnect(state *appState) {
	closeChain(state.chain)
	state.chain = nil
	state.device = nil

	state.connectBtn.SetIcon(theme.LoginIcon())
	state.increaseBtn.Disable()
	state.decreaseBtn.Disable()
	state.status.SetText("Disconnected")
	state.log.Info().Msg("Disconnected")
}

// handleAdjust sends an interval command to the device.
func handleAdjust(state *appState, increase bool) {
	if state.device == nil || !state.device.IsConnected() {
		return
	}

	var err error
	if increase {
		err = state.device.Increase()
	} else {
		err = state.device.Decrease()
	}
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to adjust interval: %w", err), state.window)
	}
}

// updateSummary refreshes the sensor panel. Must run on the main thread.
func updateSummary(state *appState, sum report.Summary) {
	for _, ch := range []ldr.Channel{ldr.LDR1, ldr.LDR2} {
		state.rows[ch].update(sum.Channels[ch], sum.Share(ch))
	}
	state.trace.Add(sum.Last)
	if sum.Interval > 0 {
		state.interval.SetText(fmt.Sprintf("Interval: %s", sum.Interval))
	}
}
