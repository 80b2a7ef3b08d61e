package periphhal

import (
	"periph.io/x/periph/conn/gpio"

	"github.com/Miceuz/motoplugas/hal"
)

// PulseSource turns Hall-sensor falling edges into hal.PulseSource events
// via gpio.PinIn.WaitForEdge, the periph analogue of the original
// firmware's INT0 edge interrupt.
type PulseSource struct {
	pin gpio.PinIn
	ch  chan struct{}
}

// NewPulseSource starts a goroutine blocked on pin.WaitForEdge, forwarding
// each falling edge to Pulses(). pin must already be configured for
// FallingEdge (periphhal.Setup does this).
func NewPulseSource(pin gpio.PinIn) *PulseSource {
	s := &PulseSource{pin: pin, ch: make(chan struct{})}
	go s.watch()
	return s
}

func (s *PulseSource) watch() {
	for {
		if !s.pin.WaitForEdge(-1) {
			continue
		}
		s.ch <- struct{}{}
	}
}

func (s *PulseSource) Pulses() <-chan struct{} { return s.ch }

var _ hal.PulseSource = &PulseSource{}
