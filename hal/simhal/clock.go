package simhal

import (
	"sync"
	"time"

	"github.com/Miceuz/motoplugas/hal"
)

// Clock is a manually-driven fake hal.Clock: ticks are only delivered when
// the test calls Tick (pulses come from PulseSource.Pulse), and one-shot timers only fire
// when the test calls Fire on them. This keeps controller tests
// deterministic instead of racing real wall-clock timers.
type Clock struct {
	ticks chan time.Time

	mu       sync.Mutex
	oneShots []*OneShot
}

// NewClock returns a Clock with an unbuffered tick channel: Tick blocks
// until the Supervisor's select loop consumes it, giving tests a
// synchronization point.
func NewClock() *Clock {
	return &Clock{ticks: make(chan time.Time)}
}

func (c *Clock) Ticks() <-chan time.Time { return c.ticks }

// Tick delivers one synthetic tick.
func (c *Clock) Tick() { c.ticks <- time.Time{} }

func (c *Clock) NewOneShot() hal.OneShot {
	o := &OneShot{ch: make(chan struct{}, 1)}
	c.mu.Lock()
	c.oneShots = append(c.oneShots, o)
	c.mu.Unlock()
	return o
}

// OneShotAt returns the i-th hal.OneShot created by NewOneShot, in
// creation order. Supervisor creates the settle timer first, then the
// block timer, so tests can reach them as clk.OneShotAt(0) and
// clk.OneShotAt(1) respectively.
func (c *Clock) OneShotAt(i int) *OneShot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.oneShots[i]
}

// OneShot is a fake hal.OneShot fired explicitly by test code via Fire,
// regardless of the duration passed to Arm.
type OneShot struct {
	mu    sync.Mutex
	armed bool
	ch    chan struct{}
}

func (o *OneShot) Arm(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.armed = true
}

func (o *OneShot) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.armed = false
}

func (o *OneShot) C() <-chan struct{} { return o.ch }

// Fire simulates the timer's duration elapsing: if armed, it disarms and
// sends on C, returning true. If not armed (e.g. it was Stopped first),
// it does nothing and returns false.
func (o *OneShot) Fire() bool {
	o.mu.Lock()
	if !o.armed {
		o.mu.Unlock()
		return false
	}
	o.armed = false
	o.mu.Unlock()
	o.ch <- struct{}{}
	return true
}

// Armed reports whether the timer is currently armed.
func (o *OneShot) Armed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.armed
}
