//go:build tinygo

package main

import (
	"machine"

	"github.com/itohio/goldr/pkg/ldr"
)

// adcSampler reads the two light sensors.
// TinyGo scales every conversion to 16 bits; the top 10 bits are the raw value.
type adcSampler struct {
	adcs [2]machine.ADC
}

func newADCSampler(ldr1, ldr2 machine.Pin) *adcSampler {
	s := &adcSampler{
		adcs: [2]machine.ADC{{Pin: ldr1}, {Pin: ldr2}},
	}
	for i := range s.adcs {
		s.adcs[i].Configure(machine.ADCConfig{})
	}
	return s
}

func (s *adcSampler) Read(ch ldr.Channel) uint16 {
	return s.adcs[ch].Get() >> 6
}

// uartWriter transmits one byte at a time, spinning until the transmit buffer is empty.
type uartWriter struct {
	uart *machine.UART
}

func (w uartWriter) WriteByte(c byte) error {
	return w.uart.WriteByte(c)
}
