//go:build tinygo

package main

import "machine"

const (
	// Light sensors
	PIN_LDR1 = machine.ADC0
	PIN_LDR2 = machine.ADC1

	// Interval buttons, active low, falling edge
	PIN_INTERVAL_UP   = machine.D2
	PIN_INTERVAL_DOWN = machine.D3

	// Serial configuration, 8N1 without flow control.
	// Longest line is "LDR1: 1.00\r\n" = 12 bytes, at most once a second,
	// so 9600 baud leaves the link mostly idle.
	UART_BAUD_RATE = 9600

	// Button debounce window in milliseconds. 0 counts every edge, bounce included.
	DEBOUNCE_MS = 0

	// Accept '+' and '-' bytes from the host as button presses.
	// Off keeps the UART transmit-only.
	REMOTE_ADJUST = false
)
