//go:build tinygo && avr

package main

import "device/avr"

// transmitOnly turns off the USART receiver and its interrupt.
func transmitOnly() {
	avr.UCSR0B.ClearBits(avr.UCSR0B_RXEN0 | avr.UCSR0B_RXCIE0)
}
