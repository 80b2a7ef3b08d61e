package controller

// ButtonState tracks one momentary input's debounced state plus the
// last-serviced flag needed to dispatch edge-triggered callbacks exactly
// once per transition.
type ButtonState struct {
	debouncer *Debouncer
	last      bool
}

// NewButtonState returns a ButtonState seeded as released.
func NewButtonState() *ButtonState {
	return &ButtonState{debouncer: NewDebouncer()}
}

// Sample feeds one raw tick-rate pin-level sample into the underlying
// debouncer.
func (b *ButtonState) Sample(level bool) {
	b.debouncer.Sample(level)
}

// Pressed reports the current debounced state.
func (b *ButtonState) Pressed() bool {
	return b.debouncer.Stable()
}

// Service dispatches onPress/onRelease exactly on transitions of the
// stable flag since the last call. Either callback may be nil.
func (b *ButtonState) Service(onPress, onRelease func()) {
	pressed := b.debouncer.Stable()
	if pressed == b.last {
		return
	}
	b.last = pressed
	if pressed {
		if onPress != nil {
			onPress()
		}
	} else if onRelease != nil {
		onRelease()
	}
}
