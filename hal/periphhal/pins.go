// Package periphhal backs hal.Pins, hal.Clock and hal.NVRAM with real
// periph.io/x/periph GPIO pins, a time.Ticker-driven clock, and a small
// file-backed byte store, for deployment on actual hardware.
package periphhal

import (
	"fmt"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"

	"github.com/Miceuz/motoplugas/hal"
)

// Names maps the logical signals of hal.Pins to the GPIO pin names
// gpioreg.ByName expects for the target board (e.g. "GPIO17", "P1_11").
// Keeping this as data, rather than hardcoding pin names in Resolve, is
// what lets one controller binary serve more than one board pinout.
type Names struct {
	Up, Down, Program             string
	ModeSelector, ModePullDown    string
	Hall                          string
	LedTop, LedMid, LedBot        string
	RelayUp, RelayDown            string
	SpeedSelect                   string
}

// Resolve looks up every pin named in n through gpioreg, failing closed on
// the first miss so a bad board config is caught at startup rather than as
// a nil-pointer panic deep in the supervisor loop.
func Resolve(n Names) (hal.Pins, error) {
	var pins hal.Pins

	byName := func(name string) (gpio.PinIO, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("periphhal: pin %q not found", name)
		}
		return p, nil
	}

	var err error
	if pins.Up, err = byName(n.Up); err != nil {
		return hal.Pins{}, err
	}
	if pins.Down, err = byName(n.Down); err != nil {
		return hal.Pins{}, err
	}
	if pins.Program, err = byName(n.Program); err != nil {
		return hal.Pins{}, err
	}
	if pins.ModeSelector, err = byName(n.ModeSelector); err != nil {
		return hal.Pins{}, err
	}
	if pins.ModePullDown, err = byName(n.ModePullDown); err != nil {
		return hal.Pins{}, err
	}
	if pins.Hall, err = byName(n.Hall); err != nil {
		return hal.Pins{}, err
	}
	if pins.LedTop, err = byName(n.LedTop); err != nil {
		return hal.Pins{}, err
	}
	if pins.LedMid, err = byName(n.LedMid); err != nil {
		return hal.Pins{}, err
	}
	if pins.LedBot, err = byName(n.LedBot); err != nil {
		return hal.Pins{}, err
	}
	if pins.RelayUp, err = byName(n.RelayUp); err != nil {
		return hal.Pins{}, err
	}
	if pins.RelayDown, err = byName(n.RelayDown); err != nil {
		return hal.Pins{}, err
	}
	if pins.SpeedSelect, err = byName(n.SpeedSelect); err != nil {
		return hal.Pins{}, err
	}
	return pins, nil
}
