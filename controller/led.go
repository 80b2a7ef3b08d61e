package controller

import (
	"context"
	"time"

	"github.com/Miceuz/motoplugas/hal"
)

// LEDIndicator drives the three position LEDs: solid on the current
// position, blinking on the target position.
type LEDIndicator struct {
	pins hal.Pins

	blinkPhase int
	blinkOn    bool
}

// NewLEDIndicator returns an LEDIndicator driving the given pins.
func NewLEDIndicator(pins hal.Pins) *LEDIndicator {
	return &LEDIndicator{pins: pins}
}

func (l *LEDIndicator) pin(p Position) hal.Pin {
	switch p {
	case PosBot:
		return l.pins.LedBot
	case PosMid:
		return l.pins.LedMid
	default:
		return l.pins.LedTop
	}
}

func (l *LEDIndicator) set(p Position, on bool) {
	lvl := hal.Low
	if on {
		lvl = hal.High
	}
	_ = l.pin(p).Out(lvl)
}

// AllOff extinguishes all three position LEDs.
func (l *LEDIndicator) AllOff() {
	l.set(PosBot, false)
	l.set(PosMid, false)
	l.set(PosTop, false)
}

// SetCurrent sets the solid current-position LED.
func (l *LEDIndicator) SetCurrent(p Position, on bool) {
	l.set(p, on)
}

// Tick advances the blink phase for the target position by one tick,
// toggling it after blinkRate ticks without a toggle (one toggle per
// blinkRate+1 ticks). It is a no-op while suppressed
// (block latched, or MANUAL mode, which has no target LED at all).
func (l *LEDIndicator) Tick(target Position, blinkRate int, suppressed bool) {
	if suppressed {
		return
	}
	if l.blinkPhase <= 0 {
		l.blinkOn = !l.blinkOn
		l.set(target, l.blinkOn)
		l.blinkPhase = blinkRate
		return
	}
	l.blinkPhase--
}

// ResetBlink extinguishes target and clears the blink phase, used whenever
// the target position changes so the new target starts its blink cycle
// from off.
func (l *LEDIndicator) ResetBlink(target Position) {
	l.blinkPhase = 0
	l.blinkOn = false
	l.set(target, false)
}

// BootAnimation reproduces the original firmware's startup LED sweep from
// blinkHello(): TOP, then MID, then BOT, each lit for step before the next.
func (l *LEDIndicator) BootAnimation(ctx context.Context, step time.Duration) {
	for _, p := range [...]Position{PosTop, PosMid, PosBot} {
		l.set(p, true)
		select {
		case <-time.After(step):
		case <-ctx.Done():
			return
		}
		l.set(p, false)
	}
}
