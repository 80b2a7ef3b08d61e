// Package hal is the seam between the controller package and any concrete
// hardware or simulation backend. It re-exports the subset of
// periph.io/x/periph/conn/gpio that controller needs, so controller itself
// never imports periph directly.
package hal

import (
	"time"

	"periph.io/x/periph/conn/gpio"
)

// Pin is a single digital I/O line.
type Pin = gpio.PinIO

// Level is a digital pin level.
type Level = gpio.Level

// Pull is an input pin's bias configuration.
type Pull = gpio.Pull

// Edge is an input pin's edge-detection configuration.
type Edge = gpio.Edge

const (
	Low  = gpio.Low
	High = gpio.High

	PullUp       = gpio.PullUp
	PullDown     = gpio.PullDown
	PullNoChange = gpio.PullNoChange

	NoEdge      = gpio.NoEdge
	FallingEdge = gpio.FallingEdge
	RisingEdge  = gpio.RisingEdge
)

// Pins is the full set of logical GPIO signals the controller drives.
type Pins struct {
	Up, Down, Program Pin

	ModeSelector Pin
	ModePullDown Pin

	Hall Pin

	LedTop, LedMid, LedBot Pin

	RelayUp, RelayDown Pin
	SpeedSelect        Pin
}

// NVRAM is a flat byte-addressed non-volatile store holding the learned
// middle/top thresholds.
type NVRAM interface {
	ReadU32(offset uint32) uint32
	WriteU32(offset uint32, value uint32)
}

// OneShot is a single-shot timer used for the settle and block windows.
// Arm (re)starts it; firing sends once on the channel returned by C. Stop
// cancels a pending firing — the block timer is never stopped early, only
// allowed to expire.
type OneShot interface {
	Arm(d time.Duration)
	Stop()
	C() <-chan struct{}
}

// Clock is the tick source driving debounce sampling, mode-sensor bias
// alternation, and LED blink phase, plus the factory for one-shot timers.
type Clock interface {
	Ticks() <-chan time.Time
	NewOneShot() OneShot
}

// PulseSource delivers Hall-effect sensor edges.
type PulseSource interface {
	Pulses() <-chan struct{}
}
