package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"periph.io/x/periph/conn/gpio"

	"github.com/Miceuz/motoplugas/hal"
	"github.com/Miceuz/motoplugas/hal/simhal"
)

// harness wires a Supervisor against simhal for deterministic, manually
// stepped tests. It is not itself the thing under test.
type harness struct {
	sup    *Supervisor
	pins   hal.Pins
	clock  *simhal.Clock
	pulses *simhal.PulseSource
	nvram  *simhal.NVRAM

	// modePullUpHigh/modePullDownHigh model the mode selector switch's
	// fixed wiring: what the pin reads under each bias phase. tick keeps
	// reasserting whichever one matches the sensor's currently active
	// bias, the way a real pull resistor interacting with a fixed switch
	// position would, instead of leaving a stale level in place.
	modePullUpHigh, modePullDownHigh bool
}

func newHarness(t *testing.T, th Thresholds) *harness {
	pins := simhal.NewPins()
	nvram := simhal.NewNVRAM()
	if th.Middle != 0 {
		nvram.WriteU32(0, uint32(th.Middle))
	}
	if th.Top != 0 {
		nvram.WriteU32(4, uint32(th.Top))
	}
	clock := simhal.NewClock()
	pulseSrc := simhal.NewPulseSource()

	cfg := DefaultConfig()
	cfg.BootStep = 0
	sup := NewSupervisor(pins, nvram, clock, pulseSrc, cfg)
	sup.afterStep = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go sup.Run(ctx)
	t.Cleanup(cancel)

	return &harness{sup: sup, pins: pins, clock: clock, pulses: pulseSrc, nvram: nvram}
}

// step triggers the given action, which must unblock exactly one pending
// receive on the supervisor's event channels, then waits for the
// supervisor to finish processing it.
func (h *harness) step(trigger func()) {
	trigger()
	<-h.sup.afterStep
}

func (h *harness) tick() {
	if h.sup.ModePullUpActive() {
		setSelectorLevel(h.pins.ModeSelector, h.modePullUpHigh)
	} else {
		setSelectorLevel(h.pins.ModeSelector, h.modePullDownHigh)
	}
	h.step(h.clock.Tick)
}

func (h *harness) ticks(n int) {
	for i := 0; i < n; i++ {
		h.tick()
	}
}

func (h *harness) pulse() { h.step(h.pulses.Pulse) }

func (h *harness) pulseN(n int) {
	for i := 0; i < n; i++ {
		h.pulse()
	}
}

func (h *harness) fire(o *simhal.OneShot) { h.step(func() { o.Fire() }) }

func setPin(p hal.Pin, pressed bool) {
	lvl := gpio.High
	if pressed {
		lvl = gpio.Low
	}
	p.(*simhal.Pin).Set(lvl)
}

func (h *harness) setUp(pressed bool)      { setPin(h.pins.Up, pressed) }
func (h *harness) setDown(pressed bool)    { setPin(h.pins.Down, pressed) }
func (h *harness) setProgram(pressed bool) { setPin(h.pins.Program, pressed) }

// settleMode sets the mode selector's simulated wiring to decode as
// whichever mode corresponds to (pullUpReadsHigh, pullDownReadsHigh), then
// feeds enough ticks for the two-phase pull alternation to converge. The
// wiring persists across subsequent ticks (see harness.tick), so the
// decoded mode stays stable for the rest of the test.
func (h *harness) settleMode(pullUpReadsHigh, pullDownReadsHigh bool) {
	h.modePullUpHigh = pullUpReadsHigh
	h.modePullDownHigh = pullDownReadsHigh
	h.ticks(40)
}

func setSelectorLevel(p hal.Pin, high bool) {
	lvl := gpio.Low
	if high {
		lvl = gpio.High
	}
	p.(*simhal.Pin).Set(lvl)
}

func (h *harness) press(set func(bool)) {
	set(true)
	h.ticks(8)
}

func (h *harness) release(set func(bool)) {
	set(false)
	h.ticks(8)
}

func TestScenarioTeachInFromZero(t *testing.T) {
	h := newHarness(t, Thresholds{})
	h.settleMode(false, false) // PROGRAM: pull-up reads low, pull-down reads low
	require.Equal(t, ModeProgram, h.sup.Mode())

	h.press(h.setProgram) // commit BOT
	h.release(h.setProgram)

	h.press(h.setUp) // pulses only count while a direction is commanded
	h.pulseN(300)
	h.release(h.setUp)
	h.press(h.setProgram) // commit MID at 300 clicks
	h.release(h.setProgram)

	snap := h.sup.Snapshot()
	require.EqualValues(t, 300, snap.Thresholds.Middle)

	h.press(h.setUp)
	h.pulseN(600)
	h.release(h.setUp)
	h.press(h.setProgram) // commit TOP at 900 clicks
	h.release(h.setProgram)

	snap = h.sup.Snapshot()
	require.EqualValues(t, 900, snap.Thresholds.Top)
	require.True(t, snap.BlockArmed)
	require.EqualValues(t, 300, h.nvram.ReadU32(0))
	require.EqualValues(t, 900, h.nvram.ReadU32(4))
}

func TestScenarioRunAutostopUp(t *testing.T) {
	h := newHarness(t, Thresholds{Middle: 500, Top: 1000})
	h.settleMode(true, false) // RUN
	require.Equal(t, ModeRun, h.sup.Mode())
	require.Equal(t, PosTop, h.sup.Snapshot().Current)
	require.Equal(t, PosBot, h.sup.Snapshot().Next)

	// walk the carriage down to BOT first so UP is eligible.
	h.press(h.setDown)
	h.pulseN(1000)
	h.release(h.setDown)
	require.Equal(t, PosBot, h.sup.Snapshot().Current)

	// the autostop latched the block window; let it expire so UP is serviced.
	h.fire(h.clock.OneShotAt(1))

	h.press(h.setUp)
	h.pulseN(500)
	h.tick() // autostop is only evaluated on a tick, not per pulse

	snap := h.sup.Snapshot()
	require.Equal(t, PosMid, snap.Current)
	require.True(t, snap.BlockArmed)
}

func TestScenarioRunAutostopDown(t *testing.T) {
	h := newHarness(t, Thresholds{Middle: 500, Top: 1000})
	h.settleMode(true, false) // RUN

	h.press(h.setDown)
	h.pulseN(1000)
	h.tick() // autostop is only evaluated on a tick, not per pulse

	snap := h.sup.Snapshot()
	require.Equal(t, PosBot, snap.Current)
	require.True(t, snap.BlockArmed)
}

func TestScenarioSettleIntoMiddle(t *testing.T) {
	h := newHarness(t, Thresholds{Middle: 500, Top: 1000})
	h.settleMode(true, false) // RUN

	h.press(h.setDown)
	h.pulseN(1000)
	h.release(h.setDown)
	h.fire(h.clock.OneShotAt(1)) // let the block window from the autostop at BOT expire

	// jog up into the settle window (middle-10 = 490) but short of the
	// middle threshold, then release.
	h.press(h.setUp)
	h.pulseN(491)
	h.release(h.setUp)

	require.True(t, h.sup.Snapshot().SettleArmed)

	settle := h.clock.OneShotAt(0)
	require.True(t, settle.Armed())
	h.fire(settle)

	snap := h.sup.Snapshot()
	require.Equal(t, PosMid, snap.Current)
	require.False(t, snap.SettleArmed)
}

func TestScenarioModeCycle(t *testing.T) {
	h := newHarness(t, Thresholds{Middle: 500, Top: 1000})
	h.settleMode(true, false) // RUN
	require.Equal(t, ModeRun, h.sup.Mode())

	h.settleMode(false, false) // PROGRAM
	require.Equal(t, ModeProgram, h.sup.Mode())

	h.settleMode(true, true) // MANUAL
	require.Equal(t, ModeManual, h.sup.Mode())
}

func TestScenarioProgramSafety(t *testing.T) {
	h := newHarness(t, Thresholds{Middle: 500, Top: 1000})
	h.settleMode(false, false) // PROGRAM

	// commit BOT so the teach walker's target becomes MID.
	h.press(h.setProgram)
	h.release(h.setProgram)
	require.Equal(t, PosMid, h.sup.Snapshot().Next)

	// jog up a little, then hold DOWN back past the bottom boundary: the
	// safety check must cut both relays even though DOWN is still held.
	h.press(h.setUp)
	h.pulseN(50)
	h.release(h.setUp)

	h.press(h.setDown)
	h.pulseN(60)
	h.tick()

	snap := h.sup.Snapshot()
	require.LessOrEqual(t, snap.Clicks, snap.Thresholds.Bottom)
	require.Equal(t, gpio.Low, h.pins.RelayDown.(*simhal.Pin).Level())
}

func TestBootAnimationEndsWithAllLedsOff(t *testing.T) {
	pins := simhal.NewPins()
	led := NewLEDIndicator(pins)
	ctx := context.Background()
	led.BootAnimation(ctx, time.Millisecond)
	require.Equal(t, gpio.Low, pins.LedTop.(*simhal.Pin).Level())
	require.Equal(t, gpio.Low, pins.LedMid.(*simhal.Pin).Level())
	require.Equal(t, gpio.Low, pins.LedBot.(*simhal.Pin).Level())
}
