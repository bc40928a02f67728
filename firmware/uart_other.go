//go:build tinygo && !avr

package main

// transmitOnly leaves the UART as configured; received bytes are never read.
func transmitOnly() {}
