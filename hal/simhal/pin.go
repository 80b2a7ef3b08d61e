// Package simhal is an in-memory HAL implementation for tests and the
// cmd/bench tool. Its fake pins follow the same gpio.PinIO shape as the
// teacher's own syncPin/invalidPin (periph-extra/hostextra/d2xx), rather
// than depending on periph's own gpiotest package.
package simhal

import (
	"sync"
	"time"

	"periph.io/x/periph/conn/gpio"

	"github.com/Miceuz/motoplugas/hal"
)

// Pin is a software-backed gpio.PinIO: an input/output line whose level
// can be driven by test code (via Set) and read back by the code under
// test (via Read), or vice-versa for outputs driven by the code under
// test and inspected by assertions (via Level).
type Pin struct {
	mu   sync.Mutex
	name string
	num  int

	level gpio.Level
	pull  gpio.Pull
	edge  gpio.Edge

	edges chan struct{}
}

// NewPin returns a named Pin, initially reading Low.
func NewPin(name string, num int) *Pin {
	return &Pin{name: name, num: num, level: gpio.Low, edges: make(chan struct{}, 1)}
}

func (p *Pin) String() string   { return p.name }
func (p *Pin) Halt() error      { return nil }
func (p *Pin) Name() string     { return p.name }
func (p *Pin) Number() int      { return p.num }
func (p *Pin) Function() string { return "" }

func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pull = pull
	p.edge = edge
	switch pull {
	case gpio.PullUp:
		p.level = gpio.High
	case gpio.PullDown:
		p.level = gpio.Low
	}
	return nil
}

func (p *Pin) Read() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	select {
	case <-p.edges:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (p *Pin) Pull() gpio.Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

func (p *Pin) DefaultPull() gpio.Pull { return gpio.PullNoChange }

func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = l
	return nil
}

// Set drives the pin's level from test code, as if external hardware
// changed it, and signals a pending edge wait if the new level is Low
// (matching the Hall sensor's falling-edge wiring).
func (p *Pin) Set(l gpio.Level) {
	p.mu.Lock()
	was := p.level
	p.level = l
	p.mu.Unlock()
	if was == gpio.High && l == gpio.Low {
		select {
		case p.edges <- struct{}{}:
		default:
		}
	}
}

// Level returns the pin's current level, for assertions against pins the
// code under test drives as outputs.
func (p *Pin) Level() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

var _ gpio.PinIO = &Pin{}

// NewPins returns a fully populated hal.Pins backed by fresh simhal Pins,
// named after their logical role.
func NewPins() hal.Pins {
	n := 0
	next := func(name string) *Pin {
		n++
		return NewPin(name, n)
	}
	return hal.Pins{
		Up:           next("UP"),
		Down:         next("DOWN"),
		Program:      next("PROGRAM"),
		ModeSelector: next("MODE_SEL"),
		ModePullDown: next("MODE_PULL_DOWN"),
		Hall:         next("HALL"),
		LedTop:       next("LED_TOP"),
		LedMid:       next("LED_MID"),
		LedBot:       next("LED_BOT"),
		RelayUp:      next("RELAY_UP"),
		RelayDown:    next("RELAY_DOWN"),
		SpeedSelect:  next("SPEED_SELECT"),
	}
}
