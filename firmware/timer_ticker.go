//go:build tinygo && !avr

package main

import (
	"time"

	"github.com/itohio/goldr/pkg/ldr"
)

// startTicker runs tick once a second on boards without a Timer1 setup.
func startTicker() {
	go func() {
		ticker := time.NewTicker(time.Duration(ldr.TickStep) * time.Millisecond)
		for range ticker.C {
			tick()
		}
	}()
}
