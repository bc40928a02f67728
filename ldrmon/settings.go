package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/goldr/pkg/config"
	"github.com/itohio/goldr/pkg/link"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createTrackerTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(480, 420))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(480, 420))
	d.Show()
}

// saveConfig writes the configuration back to the file it was loaded from.
func saveConfig(state *appState) bool {
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
		return false
	}
	return true
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := link.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err != nil {
		state.log.Warn().Err(err).Msg("Failed to enumerate serial ports")
	}
	for _, port := range ports {
		displayName := port.Name
		if port.Description != "" && port.Description != port.Name {
			displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
		}
		portOptions = append(portOptions, displayName)
		portMap[displayName] = port.Name
	}

	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			if portSelect.Selected == "" {
				return
			}
			selectedPort := portMap[portSelect.Selected]
			if selectedPort == "" {
				selectedPort = portSelect.Selected
			}

			baud := state.cfg.Serial.BaudRate
			if b, err := strconv.Atoi(baudEntry.Text); err == nil && b > 0 {
				baud = b
			}

			changed := state.cfg.Serial.Port != selectedPort || state.cfg.Serial.BaudRate != baud
			wasConnected := state.device != nil && state.device.IsConnected()

			state.cfg.Serial.Port = selectedPort
			state.cfg.Serial.BaudRate = baud
			if !saveConfig(state) {
				return
			}

			// Reconnect so the new port takes effect
			if changed && wasConnected && !state.useMock {
				disconnect(state)
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createTrackerTab creates the report tracker configuration tab.
func createTrackerTab(state *appState) *container.TabItem {
	historyEntry := widget.NewEntry()
	historyEntry.SetText(strconv.Itoa(state.cfg.Tracker.History))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Interval History (reports)", Widget: historyEntry},
		},
		OnSubmit: func() {
			if h, err := strconv.Atoi(historyEntry.Text); err == nil && h > 0 {
				state.cfg.Tracker.History = h
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Tracker", form)
}

// createMockTab creates the Mock device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	tickEntry := widget.NewEntry()
	tickEntry.SetText(state.cfg.Mock.TickPeriod.String())

	items := []*widget.FormItem{
		{Text: "Tick Period", Widget: tickEntry},
	}
	apply1 := lightItems(&items, "LDR1", &state.cfg.Mock.LDR1)
	apply2 := lightItems(&items, "LDR2", &state.cfg.Mock.LDR2)

	form := &widget.Form{
		Items: items,
		OnSubmit: func() {
			if tp, err := time.ParseDuration(tickEntry.Text); err == nil && tp > 0 {
				state.cfg.Mock.TickPeriod = tp
			}
			apply1()
			apply2()
			saveConfig(state)
		},
	}

	return container.NewTabItem("Mock", container.NewVScroll(form))
}

// lightItems appends form entries for one simulated sensor and returns a
// function that copies the entered values back into lc.
func lightItems(items *[]*widget.FormItem, name string, lc *config.LightConfig) func() {
	meanEntry := widget.NewEntry()
	meanEntry.SetText(fmt.Sprintf("%.0f", lc.Mean))

	amplitudeEntry := widget.NewEntry()
	amplitudeEntry.SetText(fmt.Sprintf("%.0f", lc.Amplitude))

	periodEntry := widget.NewEntry()
	periodEntry.SetText(lc.Period.String())

	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(fmt.Sprintf("%.1f", lc.Noise))

	*items = append(*items,
		&widget.FormItem{Text: name + " Mean (counts)", Widget: meanEntry},
		&widget.FormItem{Text: name + " Amplitude (counts)", Widget: amplitudeEntry},
		&widget.FormItem{Text: name + " Period", Widget: periodEntry},
		&widget.FormItem{Text: name + " Noise (counts)", Widget: noiseEntry},
	)

	return func() {
		if v, err := strconv.ParseFloat(meanEntry.Text, 32); err == nil {
			lc.Mean = float32(v)
		}
		if v, err := strconv.ParseFloat(amplitudeEntry.Text, 32); err == nil {
			lc.Amplitude = float32(v)
		}
		if d, err := time.ParseDuration(periodEntry.Text); err == nil && d > 0 {
			lc.Period = d
		}
		if v, err := strconv.ParseFloat(noiseEntry.Text, 32); err == nil {
			lc.Noise = float32(v)
		}
	}
}
