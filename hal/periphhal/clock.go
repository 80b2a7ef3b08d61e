package periphhal

import (
	"sync"
	"time"

	"github.com/Miceuz/motoplugas/hal"
)

// Clock drives hal.Clock off a real time.Ticker. periph has no tick-source
// abstraction of its own — a GPIO pin library has no opinion on scheduling
// — so this is plain time, not a periph type.
type Clock struct {
	ticker *time.Ticker
	ch     chan time.Time
	done   chan struct{}
}

// NewClock starts ticking immediately at the given period and keeps
// ticking until Stop is called.
func NewClock(period time.Duration) *Clock {
	c := &Clock{
		ticker: time.NewTicker(period),
		ch:     make(chan time.Time),
		done:   make(chan struct{}),
	}
	go c.pump()
	return c
}

func (c *Clock) pump() {
	for {
		select {
		case t := <-c.ticker.C:
			select {
			case c.ch <- t:
			case <-c.done:
				return
			}
		case <-c.done:
			return
		}
	}
}

// Stop halts the underlying ticker. Not part of hal.Clock; callers that
// own the Clock call it directly during shutdown.
func (c *Clock) Stop() {
	c.ticker.Stop()
	close(c.done)
}

func (c *Clock) Ticks() <-chan time.Time { return c.ch }

func (c *Clock) NewOneShot() hal.OneShot {
	return &OneShot{ch: make(chan struct{}, 1)}
}

// OneShot implements hal.OneShot on top of time.AfterFunc.
type OneShot struct {
	mu    sync.Mutex
	timer *time.Timer
	ch    chan struct{}
}

func (o *OneShot) Arm(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(d, func() {
		select {
		case o.ch <- struct{}{}:
		default:
		}
	})
}

func (o *OneShot) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.timer != nil {
		o.timer.Stop()
	}
}

func (o *OneShot) C() <-chan struct{} { return o.ch }
