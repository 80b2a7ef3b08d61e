package controller

// ModeSensor decodes the tri-state mode selector by alternating its input
// bias between internal pull-up and external pull-down and comparing the
// two settled readings:
//
//	pull-up settles high, pull-down settles low  -> RUN
//	pull-up settles low,  pull-down settles low  -> PROGRAM
//	pull-up settles high, pull-down settles high -> MANUAL
//
// Each phase runs its own 8-sample debounce using the same shift-register
// technique as Debouncer; ModeSensor keeps its own register rather than
// embedding Debouncer because it needs the raw settled byte, not just a
// pressed/released bit.
type ModeSensor struct {
	reg    byte
	pullUp bool

	stateOnPullUp   byte
	stateOnPullDown byte

	mode Mode
}

// sentinel is a non-terminal byte value used to seed stateOnPullUp and
// stateOnPullDown so neither phase's decode condition matches before both
// phases have genuinely settled at least once.
const sentinel = 0x0E

// NewModeSensor returns a ModeSensor starting on the pull-up phase (the
// bias Supervisor.setup enables first) with an undecided mode.
func NewModeSensor() *ModeSensor {
	return &ModeSensor{reg: 0x01, pullUp: true, stateOnPullUp: sentinel, stateOnPullDown: sentinel, mode: ModeUnknown}
}

// PullUpActive reports which bias phase is currently active, so the caller
// can drive the physical pull-up/pull-down accordingly.
func (m *ModeSensor) PullUpActive() bool {
	return m.pullUp
}

// Sample feeds one raw level sample (true = high) taken under the
// currently active bias. Once the register settles to all-high or all-low
// (from the 0x01 seed: seven consecutive highs or eight consecutive lows),
// it records that phase's result, flips to the other bias, and
// re-evaluates the decoded mode. It returns the current mode and whether
// this call changed it.
func (m *ModeSensor) Sample(level bool) (mode Mode, changed bool) {
	m.reg <<= 1
	if level {
		m.reg |= 1
	}
	if m.reg != 0xFF && m.reg != 0x00 {
		return m.mode, false
	}

	if m.pullUp {
		m.stateOnPullUp = m.reg
	} else {
		m.stateOnPullDown = m.reg
	}
	m.pullUp = !m.pullUp
	m.reg = 0x01 // reseed to a non-terminal value; only a fresh settle commits again.

	decoded := decodeMode(m.stateOnPullUp, m.stateOnPullDown)
	if decoded != ModeUnknown && decoded != m.mode {
		m.mode = decoded
		return m.mode, true
	}
	return m.mode, false
}

func decodeMode(onPullUp, onPullDown byte) Mode {
	switch {
	case onPullUp == 0xFF && onPullDown == 0x00:
		return ModeRun
	case onPullUp == 0x00 && onPullDown == 0x00:
		return ModeProgram
	case onPullUp == 0xFF && onPullDown == 0xFF:
		return ModeManual
	default:
		return ModeUnknown
	}
}
