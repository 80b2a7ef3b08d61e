package controller

import (
	"context"
	"sync"
	"time"

	"github.com/Miceuz/motoplugas/hal"
)

// Config holds the nominal timing tunables: the settle grace window and the
// post-autostop block window.
type Config struct {
	SettleTimeout time.Duration
	BlockTimeout  time.Duration
	BootStep      time.Duration
}

// DefaultConfig returns reasonable defaults for a human-scale actuator.
func DefaultConfig() Config {
	return Config{
		SettleTimeout: 150 * time.Millisecond,
		BlockTimeout:  600 * time.Millisecond,
		BootStep:      200 * time.Millisecond,
	}
}

// Supervisor wires the debouncers, mode sensor, pulse counter, position
// machine, and LED indicator together and drives the motor relays. It folds
// the original firmware's main loop and three interrupt service routines
// into one goroutine whose select loop is the single scheduling point; mu
// is the ATOMIC_BLOCK(ATOMIC_FORCEON) substitute guarding every state
// transition below.
type Supervisor struct {
	pins   hal.Pins
	nvram  hal.NVRAM
	clock  hal.Clock
	pulses hal.PulseSource
	cfg    Config

	mu sync.Mutex

	pm   *PositionMachine
	led  *LEDIndicator
	mode *ModeSensor
	pc   *PulseCounter

	upBtn, downBtn, progBtn *ButtonState

	settle hal.OneShot
	block  hal.OneShot

	// afterStep, when non-nil, is signalled once after each processed
	// event. It exists purely so tests in this package can step the
	// supervisor's goroutine deterministically instead of racing it;
	// production callers never set it.
	afterStep chan struct{}
}

// NewSupervisor constructs a Supervisor reading its initial thresholds
// from nvram.
func NewSupervisor(pins hal.Pins, nvram hal.NVRAM, clock hal.Clock, pulses hal.PulseSource, cfg Config) *Supervisor {
	pm := NewPositionMachine(LoadThresholds(nvram))
	return &Supervisor{
		pins:    pins,
		nvram:   nvram,
		clock:   clock,
		pulses:  pulses,
		cfg:     cfg,
		pm:      pm,
		led:     NewLEDIndicator(pins),
		mode:    NewModeSensor(),
		pc:      NewPulseCounter(&pm.Clicks),
		upBtn:   NewButtonState(),
		downBtn: NewButtonState(),
		progBtn: NewButtonState(),
		settle:  clock.NewOneShot(),
		block:   clock.NewOneShot(),
	}
}

// Position returns the current position under lock, for callers outside
// the supervisor goroutine (e.g. a UI polling loop).
func (s *Supervisor) Position() (current, next Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pm.Current, s.pm.Next
}

// Mode returns the current decoded mode under lock.
func (s *Supervisor) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pm.Mode
}

// ModePullUpActive reports which bias phase the mode sensor currently has
// active, under lock.
func (s *Supervisor) ModePullUpActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode.PullUpActive()
}

// Snapshot is a consistent, lock-free-to-read copy of the supervisor's
// externally visible state, useful for UIs and tests.
type Snapshot struct {
	Mode          Mode
	Current, Next Position
	Clicks        int32
	Thresholds    Thresholds
	BlockArmed    bool
	SettleArmed   bool
	Direction     Direction
}

// Snapshot returns a consistent copy of the supervisor's state.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Mode:        s.pm.Mode,
		Current:     s.pm.Current,
		Next:        s.pm.Next,
		Clicks:      s.pm.Clicks,
		Thresholds:  s.pm.Thresholds,
		BlockArmed:  s.pm.blockArmed,
		SettleArmed: s.pm.settleArmed,
		Direction:   s.pm.Direction,
	}
}

// Run configures the GPIO pins, plays the boot animation, then services
// ticks, Hall pulses, and timer expiries until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) {
	s.setup()

	s.mu.Lock()
	s.led.SetCurrent(s.pm.Current, true)
	s.mu.Unlock()
	s.led.BootAnimation(ctx, s.cfg.BootStep)

	ticks := s.clock.Ticks()
	pulses := s.pulses.Pulses()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			s.onTick()
		case <-pulses:
			s.onPulse()
		case <-s.settle.C():
			s.onSettleExpired()
		case <-s.block.C():
			s.onBlockExpired()
		}
		if s.afterStep != nil {
			s.afterStep <- struct{}{}
		}
	}
}

// setup configures initial pin direction and pull state, mirroring the
// original firmware's setupGPIO().
func (s *Supervisor) setup() {
	_ = s.pins.Up.In(hal.PullUp, hal.NoEdge)
	_ = s.pins.Down.In(hal.PullUp, hal.NoEdge)
	_ = s.pins.Program.In(hal.PullUp, hal.NoEdge)
	_ = s.pins.ModeSelector.In(hal.PullUp, hal.NoEdge)
	_ = s.pins.Hall.In(hal.PullUp, hal.FallingEdge)
	_ = s.pins.ModePullDown.Out(hal.Low)
	_ = s.pins.RelayUp.Out(hal.Low)
	_ = s.pins.RelayDown.Out(hal.Low)
	_ = s.pins.SpeedSelect.Out(hal.High)
	s.led.AllOff()
}

func (s *Supervisor) onTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.serviceModeSensor()

	// Button debounce with UP/DOWN mutual exclusion and PROGRAM gated on
	// neither held.
	if !s.downBtn.Pressed() {
		s.upBtn.Sample(s.pins.Up.Read() == hal.High)
	}
	if !s.upBtn.Pressed() {
		s.downBtn.Sample(s.pins.Down.Read() == hal.High)
	}
	if !s.upBtn.Pressed() && !s.downBtn.Pressed() {
		s.progBtn.Sample(s.pins.Program.Read() == hal.High)
	}

	suppressed := s.pm.BlockArmed() || s.pm.Mode == ModeManual
	if s.pm.Mode == ModeProgram || s.pm.Mode == ModeRun {
		s.led.Tick(s.pm.Next, s.pm.BlinkRate, suppressed)
	}

	if s.pm.Mode == ModeProgram {
		s.progBtn.Service(s.onProgramPressed, nil)
	}

	if s.pm.BlockArmed() {
		_ = s.pins.RelayUp.Out(hal.Low)
		_ = s.pins.RelayDown.Out(hal.Low)
		return
	}

	s.upBtn.Service(s.onUpPressed, s.onUpReleased)
	s.downBtn.Service(s.onDownPressed, s.onDownReleased)

	switch s.pm.Mode {
	case ModeRun:
		s.evaluateRunMode()
	case ModeProgram:
		if s.pm.GoingBelowPreviousThreshold(s.downBtn.Pressed()) {
			_ = s.pins.RelayUp.Out(hal.Low)
			_ = s.pins.RelayDown.Out(hal.Low)
		}
	}
}

func (s *Supervisor) serviceModeSensor() {
	level := s.pins.ModeSelector.Read() == hal.High
	if newMode, changed := s.mode.Sample(level); changed {
		s.changeMode(newMode)
	}
	if s.mode.PullUpActive() {
		_ = s.pins.ModeSelector.In(hal.PullUp, hal.NoEdge)
		_ = s.pins.ModePullDown.Out(hal.Low)
	} else {
		_ = s.pins.ModeSelector.In(hal.PullNoChange, hal.NoEdge)
		_ = s.pins.ModePullDown.Out(hal.High)
	}
}

// changeMode applies the mode-change side effects. Must be called with
// s.mu held.
func (s *Supervisor) changeMode(newMode Mode) {
	s.led.AllOff()
	s.cancelSettle()
	s.pm.ChangeMode(newMode)
	if newMode == ModeRun {
		s.pm.ClearBlock()
		s.led.SetCurrent(s.pm.Current, true)
	}
}

func (s *Supervisor) onUpPressed() {
	if s.pm.OnUpPressed() {
		_ = s.pins.RelayUp.Out(hal.High)
	}
}

func (s *Supervisor) onUpReleased() {
	s.pm.OnUpReleased()
	_ = s.pins.RelayUp.Out(hal.Low)
}

func (s *Supervisor) onDownPressed() {
	if s.pm.OnDownPressed() {
		_ = s.pins.RelayDown.Out(hal.High)
	}
}

func (s *Supervisor) onDownReleased() {
	s.pm.OnDownReleased()
	_ = s.pins.RelayDown.Out(hal.Low)
}

func (s *Supervisor) onProgramPressed() {
	commit := s.pm.TeachPress()
	s.led.SetCurrent(commit.Position, false)
	if commit.PersistNVRAMOffset >= 0 {
		s.nvram.WriteU32(uint32(commit.PersistNVRAMOffset), uint32(commit.Value))
	}
	if commit.ArmBlock {
		s.armBlock()
	}
}

func (s *Supervisor) evaluateRunMode() {
	switch {
	case s.upBtn.Pressed():
		s.cancelSettle()
		if s.pm.AutostopUp() {
			s.armBlock()
			s.pm.BlinkRate = BlinkSlow
			_ = s.pins.RelayUp.Out(hal.Low)
			s.advance()
		}
	case s.downBtn.Pressed():
		s.cancelSettle()
		if s.pm.AutostopDown() {
			s.armBlock()
			s.pm.BlinkRate = BlinkSlow
			_ = s.pins.RelayDown.Out(hal.Low)
			s.advance()
		}
	default:
		if s.pm.ShouldArmSettle() && !s.pm.SettleArmed() {
			s.pm.ArmSettle()
			s.led.SetCurrent(PosBot, false)
			s.settle.Arm(s.cfg.SettleTimeout)
		}
	}
}

func (s *Supervisor) cancelSettle() {
	s.pm.ClearSettle()
	s.settle.Stop()
}

func (s *Supervisor) armBlock() {
	s.pm.ArmBlock()
	s.block.Arm(s.cfg.BlockTimeout)
}

// advance commits PositionMachine.Advance and updates the LEDs and speed
// select line to match. Must be called with s.mu held.
func (s *Supervisor) advance() {
	old := s.pm.Current
	s.pm.Advance()
	s.led.SetCurrent(old, false)
	s.led.SetCurrent(s.pm.Current, true)
	s.led.ResetBlink(s.pm.Next)
	lvl := hal.Low
	if s.pm.SpeedFull {
		lvl = hal.High
	}
	_ = s.pins.SpeedSelect.Out(lvl)
}

func (s *Supervisor) onPulse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pc.OnEdge(s.pm.Direction)
}

func (s *Supervisor) onSettleExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pm.SettleArmed() {
		return
	}
	s.pm.ClearSettle()
	s.advance()
}

func (s *Supervisor) onBlockExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pm.ClearBlock()
}
