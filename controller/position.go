package controller

// PositionMachine holds the position-control state and the pure decision
// rules governing current/next position, learned thresholds, the
// signed click accumulator, eligibility, autostop, teach-in, and
// mode-change handling. It performs no I/O itself — Supervisor applies its
// decisions to the LEDs and relays under a single critical section.
type PositionMachine struct {
	Mode Mode

	Current Position
	Next    Position

	Thresholds    Thresholds
	CurrThreshold int32

	// Clicks is the signed pulse accumulator. PulseCounter integrates into
	// it by pointer; the position machine reads and resets it directly
	// during teach-in and autostop.
	Clicks int32

	Direction Direction
	BlinkRate int

	// SpeedFull reflects the speed-select line chosen by the most recent
	// Advance: full speed approaching BOT/TOP, slow approaching MID.
	SpeedFull bool

	settleArmed bool
	blockArmed  bool
}

// NewPositionMachine returns a PositionMachine with the carriage assumed
// docked at TOP.
func NewPositionMachine(th Thresholds) *PositionMachine {
	pm := &PositionMachine{
		Current:       PosTop,
		Thresholds:    th,
		Clicks:        th.Top,
		CurrThreshold: th.Bottom,
		BlinkRate:     BlinkSlow,
	}
	pm.Next = pm.Current.Succ()
	return pm
}

// CanGoUp reports whether an UP press is currently eligible to move the
// carriage.
func (pm *PositionMachine) CanGoUp() bool {
	switch pm.Mode {
	case ModeProgram, ModeManual:
		return true
	case ModeRun:
		return pm.Current == PosBot || pm.Current == PosMid
	default:
		return false
	}
}

// CanGoDown reports whether a DOWN press is currently eligible to move the
// carriage.
func (pm *PositionMachine) CanGoDown() bool {
	switch pm.Mode {
	case ModeProgram, ModeManual:
		return true
	case ModeRun:
		return pm.Current == PosMid || pm.Current == PosTop
	default:
		return false
	}
}

// OnUpPressed applies eligibility rules to a fresh UP press. It returns
// whether the UP relay should be energised.
func (pm *PositionMachine) OnUpPressed() bool {
	if !pm.CanGoUp() {
		return false
	}
	pm.Direction = DirUp
	pm.BlinkRate = BlinkFast
	return true
}

// OnUpReleased resets the blink rate to idle. The relay is always
// de-energised on release by the caller, regardless of eligibility.
func (pm *PositionMachine) OnUpReleased() {
	pm.BlinkRate = BlinkSlow
}

// OnDownPressed is the DOWN-button analogue of OnUpPressed.
func (pm *PositionMachine) OnDownPressed() bool {
	if !pm.CanGoDown() {
		return false
	}
	pm.Direction = DirDown
	pm.BlinkRate = BlinkFast
	return true
}

// OnDownReleased is the DOWN-button analogue of OnUpReleased.
func (pm *PositionMachine) OnDownReleased() {
	pm.BlinkRate = BlinkSlow
}

// AutostopUp reports whether, in RUN mode with UP held, the carriage has
// reached the threshold for its target position.
func (pm *PositionMachine) AutostopUp() bool {
	return (pm.Next == PosMid && pm.Clicks >= pm.Thresholds.Middle) ||
		(pm.Next == PosTop && pm.Clicks >= pm.Thresholds.Top)
}

// AutostopDown is the DOWN-held analogue of AutostopUp: RUN mode only ever
// autostops downward at BOT.
func (pm *PositionMachine) AutostopDown() bool {
	return pm.Next == PosBot && pm.Clicks <= pm.Thresholds.Bottom
}

// ShouldArmSettle reports whether the carriage, moving up toward MID in
// RUN mode with neither button held, has entered the settle grace window
// (ten clicks shy of the middle threshold).
func (pm *PositionMachine) ShouldArmSettle() bool {
	return pm.Next == PosMid && pm.Clicks >= pm.Thresholds.Middle-10
}

// SettleArmed reports whether the settle timer is currently latched.
func (pm *PositionMachine) SettleArmed() bool { return pm.settleArmed }

// ArmSettle latches the settle timer.
func (pm *PositionMachine) ArmSettle() { pm.settleArmed = true }

// ClearSettle un-latches the settle timer.
func (pm *PositionMachine) ClearSettle() { pm.settleArmed = false }

// BlockArmed reports whether the carriage is in its post-autostop block
// window, during which both relays are held open and blink is suppressed.
func (pm *PositionMachine) BlockArmed() bool { return pm.blockArmed }

// ArmBlock latches the block window.
func (pm *PositionMachine) ArmBlock() { pm.blockArmed = true }

// ClearBlock un-latches the block window.
func (pm *PositionMachine) ClearBlock() { pm.blockArmed = false }

// Advance commits Next as the new Current, recomputes Next, and selects
// the threshold and speed for the new target.
func (pm *PositionMachine) Advance() {
	pm.Current = pm.Next
	pm.Next = pm.Current.Succ()
	switch pm.Next {
	case PosBot:
		pm.CurrThreshold = pm.Thresholds.Bottom
		pm.SpeedFull = true
	case PosMid:
		pm.CurrThreshold = pm.Thresholds.Middle
		pm.SpeedFull = false
	case PosTop:
		pm.CurrThreshold = pm.Thresholds.Top
		pm.SpeedFull = true
	}
}

// TeachCommit describes the side effects of one PROGRAM-button press
// during teach-in.
type TeachCommit struct {
	Position Position
	// PersistNVRAMOffset is the NVRAM offset to write Value to, or -1 if
	// this commit has nothing to persist (committing BOT resets to zero
	// in memory only; BOT is never written to NVRAM).
	PersistNVRAMOffset int
	Value               int32
	// ArmBlock is true only when TOP was just committed, completing a
	// full teach-in walk.
	ArmBlock bool
}

// TeachPress commits one taught position per PROGRAM-button press,
// advancing the teach-in walk. The walker shares Current/Next with normal
// operation: each press moves Current/Next exactly as Advance would, but
// leaves CurrThreshold and SpeedFull untouched and instead derives the
// taught threshold from the accumulated Clicks.
func (pm *PositionMachine) TeachPress() TeachCommit {
	target := pm.Next
	pm.Current = pm.Next
	pm.Next = pm.Current.Succ()

	commit := TeachCommit{Position: target, PersistNVRAMOffset: -1}
	switch target {
	case PosBot:
		pm.Thresholds.Bottom = 0
		pm.Clicks = 0
	case PosMid:
		if pm.Clicks > pm.Thresholds.Bottom {
			pm.Thresholds.Middle = pm.Clicks
		} else {
			pm.Thresholds.Middle = pm.Thresholds.Bottom
		}
		commit.Value = pm.Thresholds.Middle
		commit.PersistNVRAMOffset = nvramOffsetMiddle
	case PosTop:
		if pm.Clicks > pm.Thresholds.Middle {
			pm.Thresholds.Top = pm.Clicks
		} else {
			pm.Thresholds.Top = pm.Thresholds.Middle
		}
		commit.Value = pm.Thresholds.Top
		commit.PersistNVRAMOffset = nvramOffsetTop
		commit.ArmBlock = true
	}
	return commit
}

// GoingBelowPreviousThreshold is the PROGRAM-mode safety check: while
// jogging DOWN during re-teach, forbid crossing back below the boundary
// already taught for the position below the one currently being (re)taught.
// downPressed must reflect the DOWN button's current debounced state.
func (pm *PositionMachine) GoingBelowPreviousThreshold(downPressed bool) bool {
	if !downPressed {
		return false
	}
	return (pm.Next == PosMid && pm.Clicks <= pm.Thresholds.Bottom) ||
		(pm.Next == PosTop && pm.Clicks <= pm.Thresholds.Middle)
}

// ChangeMode applies the mode-transition rules. Entering RUN resets
// CurrThreshold to bottom; entering PROGRAM while the walker's target is TOP
// rewinds it to current BOT, next MID. Any other target is left as it is.
// Block/LED/settle-timer side effects are the Supervisor's responsibility.
func (pm *PositionMachine) ChangeMode(newMode Mode) {
	switch newMode {
	case ModeRun:
		pm.CurrThreshold = pm.Thresholds.Bottom
	case ModeProgram:
		if pm.Next == PosTop {
			pm.Current = PosBot
			pm.Next = PosMid
		}
	}
	pm.Mode = newMode
}
