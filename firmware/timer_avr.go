//go:build tinygo && avr

package main

import (
	"device/avr"
	"runtime/interrupt"
)

// 16 MHz / 1024 prescaler / (15624 + 1) = 1 Hz
const timer1Compare = 15624

// startTicker configures Timer1 in CTC mode and runs tick from its
// compare-match interrupt once a second.
func startTicker() {
	interrupt.New(avr.IRQ_TIMER1_COMPA, func(interrupt.Interrupt) {
		tick()
	})

	avr.TCCR1A.Set(0)
	avr.TCCR1B.Set(avr.TCCR1B_WGM12 | avr.TCCR1B_CS12 | avr.TCCR1B_CS10)
	// 16-bit register: high byte first
	avr.OCR1AH.Set(uint8(timer1Compare >> 8))
	avr.OCR1AL.Set(uint8(timer1Compare & 0xFF))
	avr.TIMSK1.SetBits(avr.TIMSK1_OCIE1A)
}
