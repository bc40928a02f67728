//go:build tinygo

//go:generate tinygo flash -target=arduino

package main

import (
	"machine"
	"time"

	"github.com/itohio/goldr/pkg/ldr"
)

var (
	uart = machine.UART0

	monitor  *ldr.Monitor
	adjuster *ldr.Adjuster

	bootTime = time.Now()
)

func main() {
	// Configure ADC for both light sensors
	machine.InitADC()
	sampler := newADCSampler(PIN_LDR1, PIN_LDR2)

	// Configure UART for reports, 8N1
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	monitor = ldr.NewMonitor(ldr.NewInterval(), sampler, ldr.NewReporter(uartWriter{uart: uart}))
	adjuster = ldr.NewAdjuster(monitor.Interval(), DEBOUNCE_MS*time.Millisecond, sinceBoot)

	// Buttons pull the pins low when pressed
	PIN_INTERVAL_UP.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	PIN_INTERVAL_DOWN.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	PIN_INTERVAL_UP.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		adjuster.OnIncrease()
	})
	PIN_INTERVAL_DOWN.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		adjuster.OnDecrease()
	})

	startTicker()

	// Everything else happens in interrupt handlers
	if !REMOTE_ADJUST {
		transmitOnly()
		select {}
	}

	for {
		processSerial()
		time.Sleep(10 * time.Millisecond)
	}
}

// tick is the timer interrupt body.
func tick() {
	// A failed transmit has no reporting path other than the line itself.
	_, _ = monitor.OnTick()
}

func sinceBoot() time.Duration {
	return time.Since(bootTime)
}

// processSerial applies '+' and '-' bytes from the host as button presses.
// Anything else is ignored.
func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		adjuster.OnCommand(data)
	}
}
