package controller

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func press(b *ButtonState) {
	for i := 0; i < 8; i++ {
		b.Sample(false)
	}
}

func release(b *ButtonState) {
	for i := 0; i < 8; i++ {
		b.Sample(true)
	}
}

func TestButtonServiceDispatchesOnPressOnce(t *testing.T) {
	b := NewButtonState()
	presses := 0
	press(b)
	b.Service(func() { presses++ }, nil)
	b.Service(func() { presses++ }, nil)
	require.Equal(t, 1, presses)
}

func TestButtonServiceDispatchesOnReleaseAfterPress(t *testing.T) {
	b := NewButtonState()
	var events []string
	dispatch := func() {
		b.Service(func() { events = append(events, "press") }, func() { events = append(events, "release") })
	}
	press(b)
	dispatch()
	release(b)
	dispatch()
	require.Equal(t, []string{"press", "release"}, events)
}
