package periphhal

import (
	"testing"

	"periph.io/x/periph/conn/gpio"

	"github.com/Miceuz/motoplugas/hal"
	"github.com/Miceuz/motoplugas/hal/simhal"
)

func TestSetupDrivesOutputsToIdle(t *testing.T) {
	pins := simhal.NewPins()

	if err := Setup(pins); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if lvl := pins.ModePullDown.(*simhal.Pin).Level(); lvl != gpio.Low {
		t.Fatalf("ModePullDown = %v, want Low", lvl)
	}
	if lvl := pins.RelayUp.(*simhal.Pin).Level(); lvl != gpio.Low {
		t.Fatalf("RelayUp = %v, want Low", lvl)
	}
	if lvl := pins.RelayDown.(*simhal.Pin).Level(); lvl != gpio.Low {
		t.Fatalf("RelayDown = %v, want Low", lvl)
	}
	if lvl := pins.SpeedSelect.(*simhal.Pin).Level(); lvl != gpio.High {
		t.Fatalf("SpeedSelect = %v, want High", lvl)
	}
}

func TestSetupConfiguresInputPulls(t *testing.T) {
	pins := simhal.NewPins()

	if err := Setup(pins); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if p := pins.Up.(*simhal.Pin).Pull(); p != hal.PullUp {
		t.Fatalf("Up pull = %v, want PullUp", p)
	}
	if p := pins.Hall.(*simhal.Pin).Pull(); p != hal.PullUp {
		t.Fatalf("Hall pull = %v, want PullUp", p)
	}
}
