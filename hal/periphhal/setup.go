package periphhal

import (
	"github.com/Miceuz/motoplugas/hal"
)

// Setup drives every pin into its idle direction and level, mirroring
// setupGPIO() in the original firmware: buttons and the mode selector
// input with a pull-up, the Hall pin input with a falling-edge watch, and
// the mode pull-down, relays and speed line driven low/high as outputs.
// controller.Supervisor.setup repeats the same calls when Run starts;
// calling Setup first puts the relays and speed select into a safe state
// before the supervisor takes over.
func Setup(pins hal.Pins) error {
	if err := pins.Up.In(hal.PullUp, hal.NoEdge); err != nil {
		return err
	}
	if err := pins.Down.In(hal.PullUp, hal.NoEdge); err != nil {
		return err
	}
	if err := pins.Program.In(hal.PullUp, hal.NoEdge); err != nil {
		return err
	}
	if err := pins.ModeSelector.In(hal.PullUp, hal.NoEdge); err != nil {
		return err
	}
	if err := pins.Hall.In(hal.PullUp, hal.FallingEdge); err != nil {
		return err
	}
	if err := pins.ModePullDown.Out(hal.Low); err != nil {
		return err
	}
	if err := pins.RelayUp.Out(hal.Low); err != nil {
		return err
	}
	if err := pins.RelayDown.Out(hal.Low); err != nil {
		return err
	}
	return pins.SpeedSelect.Out(hal.High)
}
