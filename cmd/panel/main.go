// Command panel replays the end-to-end scenarios used to validate the
// actuator controller and prints a colorized front-panel snapshot after
// each step: LED state as colored blocks, relay state, mode, position and
// click count. It never touches real GPIO — it is a scripted walk of
// hal/simhal, not an operator tool.
package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"periph.io/x/periph/conn/gpio"

	"github.com/Miceuz/motoplugas/controller"
	"github.com/Miceuz/motoplugas/devices/panel"
	"github.com/Miceuz/motoplugas/hal"
	"github.com/Miceuz/motoplugas/hal/simhal"
)

var (
	colorGreen = color.NRGBA{G: 0xff, A: 0xff}
	colorRed   = color.NRGBA{R: 0xff, A: 0xff}
	colorDim   = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
)

// settle is how long panel waits after poking a simhal channel before
// reading state back. The supervisor goroutine processes events quickly,
// but panel has no access to controller's test-only step synchronization,
// so a short real sleep stands in for it here.
const settle = 2 * time.Millisecond

// rig bundles a Supervisor against simhal plus the mode-selector wiring
// bookkeeping, mirroring the pattern controller's own tests use.
type rig struct {
	sup    *controller.Supervisor
	pins   hal.Pins
	clock  *simhal.Clock
	pulses *simhal.PulseSource
	nvram  *simhal.NVRAM

	pullUpHigh, pullDownHigh bool
}

func newRig(middle, top int32) *rig {
	pins := simhal.NewPins()
	nvram := simhal.NewNVRAM()
	if middle != 0 {
		nvram.WriteU32(0, uint32(middle))
	}
	if top != 0 {
		nvram.WriteU32(4, uint32(top))
	}
	clock := simhal.NewClock()
	pulses := simhal.NewPulseSource()
	cfg := controller.DefaultConfig()
	cfg.BootStep = 0
	sup := controller.NewSupervisor(pins, nvram, clock, pulses, cfg)
	go sup.Run(context.Background())
	time.Sleep(settle)
	return &rig{sup: sup, pins: pins, clock: clock, pulses: pulses, nvram: nvram}
}

func (r *rig) tick() {
	lvl := gpio.Low
	if r.sup.ModePullUpActive() {
		if r.pullUpHigh {
			lvl = gpio.High
		}
	} else if r.pullDownHigh {
		lvl = gpio.High
	}
	r.pins.ModeSelector.(*simhal.Pin).Set(lvl)
	r.clock.Tick()
	time.Sleep(settle)
}

func (r *rig) ticks(n int) {
	for i := 0; i < n; i++ {
		r.tick()
	}
}

func (r *rig) pulse() {
	r.pulses.Pulse()
	time.Sleep(settle)
}

func (r *rig) pulseN(n int) {
	for i := 0; i < n; i++ {
		r.pulse()
	}
}

func (r *rig) set(p hal.Pin, pressed bool) {
	lvl := gpio.High
	if pressed {
		lvl = gpio.Low
	}
	p.(*simhal.Pin).Set(lvl)
}

func (r *rig) press(p hal.Pin) {
	r.set(p, true)
	r.ticks(8)
}

func (r *rig) release(p hal.Pin) {
	r.set(p, false)
	r.ticks(8)
}

func (r *rig) settleMode(pullUpHigh, pullDownHigh bool) {
	r.pullUpHigh, r.pullDownHigh = pullUpHigh, pullDownHigh
	r.ticks(40)
}

func ledColor(on bool) color.NRGBA {
	if on {
		return colorGreen
	}
	return colorDim
}

func relayColor(lvl gpio.Level) color.NRGBA {
	if lvl == gpio.High {
		return colorRed
	}
	return colorDim
}

func printSnapshot(dev *panel.Dev, step string, r *rig) {
	snap := r.sup.Snapshot()
	top := r.pins.LedTop.(*simhal.Pin).Level() == gpio.High
	mid := r.pins.LedMid.(*simhal.Pin).Level() == gpio.High
	bot := r.pins.LedBot.(*simhal.Pin).Level() == gpio.High

	fmt.Printf("%-26s mode=%-8s pos=%s->%s clicks=%-5d  ",
		step, snap.Mode, snap.Current, snap.Next, snap.Clicks)

	_, _ = dev.Render(
		panel.Cell{Label: "TOP", Color: ledColor(top)},
		panel.Cell{Label: "MID", Color: ledColor(mid)},
		panel.Cell{Label: "BOT", Color: ledColor(bot)},
		panel.Cell{Label: "UP", Color: relayColor(r.pins.RelayUp.(*simhal.Pin).Level())},
		panel.Cell{Label: "DOWN", Color: relayColor(r.pins.RelayDown.(*simhal.Pin).Level())},
	)
}

func runTeachIn(dev *panel.Dev) {
	fmt.Println("-- teach-in from a blank board --")
	r := newRig(0, 0)
	r.settleMode(false, false) // PROGRAM
	printSnapshot(dev, "PROGRAM selected", r)

	r.press(r.pins.Program)
	r.release(r.pins.Program)
	printSnapshot(dev, "commit BOT", r)

	r.press(r.pins.Up)
	r.pulseN(300)
	r.release(r.pins.Up)
	r.press(r.pins.Program)
	r.release(r.pins.Program)
	printSnapshot(dev, "commit MID at 300", r)

	r.press(r.pins.Up)
	r.pulseN(600)
	r.release(r.pins.Up)
	r.press(r.pins.Program)
	r.release(r.pins.Program)
	printSnapshot(dev, "commit TOP at 900", r)
}

func runAutostop(dev *panel.Dev) {
	fmt.Println("-- RUN-mode autostop --")
	r := newRig(500, 1000)
	r.settleMode(true, false) // RUN
	printSnapshot(dev, "RUN selected, starts at TOP", r)

	r.press(r.pins.Down)
	r.pulseN(1000)
	r.tick()
	printSnapshot(dev, "held DOWN to BOT, autostops", r)

	r.release(r.pins.Down)
	r.clock.OneShotAt(1).Fire() // let the block window from the first autostop expire
	time.Sleep(settle)
	r.press(r.pins.Up)
	r.pulseN(500)
	r.tick()
	printSnapshot(dev, "held UP to MID, autostops", r)
}

func runModeCycle(dev *panel.Dev) {
	fmt.Println("-- mode selector cycle --")
	r := newRig(500, 1000)
	r.settleMode(true, false)
	printSnapshot(dev, "RUN", r)
	r.settleMode(false, false)
	printSnapshot(dev, "PROGRAM", r)
	r.settleMode(true, true)
	printSnapshot(dev, "MANUAL", r)
}

func main() {
	var dev *panel.Dev
	if isatty.IsTerminal(os.Stdout.Fd()) {
		dev = panel.New()
	} else {
		dev = panel.NewWriter(os.Stdout)
	}
	defer dev.Halt()

	runTeachIn(dev)
	runAutostop(dev)
	runModeCycle(dev)
}
