package controller

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func thresholds() Thresholds {
	return Thresholds{Bottom: 0, Middle: 500, Top: 1000}
}

func TestNewPositionMachineStartsAtTopWithClicksAtTop(t *testing.T) {
	pm := NewPositionMachine(thresholds())
	require.Equal(t, PosTop, pm.Current)
	require.Equal(t, PosBot, pm.Next)
	require.EqualValues(t, 1000, pm.Clicks)
}

func TestRunModeEligibility(t *testing.T) {
	pm := NewPositionMachine(thresholds())
	pm.Mode = ModeRun

	pm.Current = PosTop
	require.False(t, pm.CanGoUp())
	require.True(t, pm.CanGoDown())

	pm.Current = PosMid
	require.True(t, pm.CanGoUp())
	require.True(t, pm.CanGoDown())

	pm.Current = PosBot
	require.True(t, pm.CanGoUp())
	require.False(t, pm.CanGoDown())
}

func TestManualAndProgramAlwaysEligible(t *testing.T) {
	for _, mode := range []Mode{ModeManual, ModeProgram} {
		pm := NewPositionMachine(thresholds())
		pm.Mode = mode
		pm.Current = PosTop
		require.True(t, pm.CanGoUp())
		require.True(t, pm.CanGoDown())
	}
}

func TestAutostopUpAtMiddleAndTop(t *testing.T) {
	pm := NewPositionMachine(thresholds())
	pm.Mode = ModeRun
	pm.Current = PosBot
	pm.Next = PosMid
	pm.Clicks = 499
	require.False(t, pm.AutostopUp())
	pm.Clicks = 500
	require.True(t, pm.AutostopUp())

	pm.Advance()
	require.Equal(t, PosMid, pm.Current)
	require.Equal(t, PosTop, pm.Next)
	pm.Clicks = 999
	require.False(t, pm.AutostopUp())
	pm.Clicks = 1000
	require.True(t, pm.AutostopUp())
}

func TestAutostopDownOnlyAtBottom(t *testing.T) {
	pm := NewPositionMachine(thresholds())
	pm.Mode = ModeRun
	pm.Current = PosMid
	pm.Next = PosBot
	pm.Clicks = 1
	require.False(t, pm.AutostopDown())
	pm.Clicks = 0
	require.True(t, pm.AutostopDown())
}

func TestAdvanceSelectsThresholdAndSpeed(t *testing.T) {
	pm := NewPositionMachine(thresholds())
	pm.Current = PosBot
	pm.Next = PosMid
	pm.Advance()
	require.Equal(t, PosMid, pm.Current)
	require.Equal(t, PosTop, pm.Next)
	require.EqualValues(t, pm.Thresholds.Top, pm.CurrThreshold)
	require.True(t, pm.SpeedFull)
}

func TestTeachInWalksBotMidTop(t *testing.T) {
	pm := NewPositionMachine(Thresholds{})
	pm.Mode = ModeProgram
	pm.Current = PosBot
	pm.Next = PosMid
	pm.Clicks = 0

	// teach BOT
	pm.Current = PosTop
	pm.Next = PosBot
	commit := pm.TeachPress()
	require.Equal(t, PosBot, commit.Position)
	require.Equal(t, -1, commit.PersistNVRAMOffset)
	require.EqualValues(t, 0, pm.Clicks)
	require.Equal(t, PosMid, pm.Next)

	// jog up, then teach MID
	pm.Clicks = 300
	commit = pm.TeachPress()
	require.Equal(t, PosMid, commit.Position)
	require.EqualValues(t, 300, pm.Thresholds.Middle)
	require.Equal(t, 0, commit.PersistNVRAMOffset)
	require.Equal(t, PosTop, pm.Next)

	// jog up, then teach TOP
	pm.Clicks = 900
	commit = pm.TeachPress()
	require.Equal(t, PosTop, commit.Position)
	require.EqualValues(t, 900, pm.Thresholds.Top)
	require.Equal(t, 4, commit.PersistNVRAMOffset)
	require.True(t, commit.ArmBlock)
}

func TestTeachInClampsMiddleToBottomWhenNotAdvanced(t *testing.T) {
	pm := NewPositionMachine(Thresholds{})
	pm.Current = PosBot
	pm.Next = PosMid
	pm.Clicks = 0 // carriage never moved up from BOT before committing MID
	commit := pm.TeachPress()
	require.EqualValues(t, pm.Thresholds.Bottom, commit.Value)
}

func TestGoingBelowPreviousThresholdOnlyWhenDownHeld(t *testing.T) {
	pm := NewPositionMachine(thresholds())
	pm.Next = PosMid
	pm.Clicks = 0
	require.False(t, pm.GoingBelowPreviousThreshold(false))
	require.True(t, pm.GoingBelowPreviousThreshold(true))
}

func TestChangeModeIntoRunResetsCurrThreshold(t *testing.T) {
	pm := NewPositionMachine(thresholds())
	pm.CurrThreshold = 12345
	pm.ChangeMode(ModeRun)
	require.EqualValues(t, pm.Thresholds.Bottom, pm.CurrThreshold)
	require.Equal(t, ModeRun, pm.Mode)
}

func TestChangeModeIntoProgramRewindsWalkerOnlyFromTop(t *testing.T) {
	pm := NewPositionMachine(thresholds())
	pm.Current = PosMid
	pm.Next = PosTop
	pm.ChangeMode(ModeProgram)
	require.Equal(t, PosBot, pm.Current)
	require.Equal(t, PosMid, pm.Next)

	pm2 := NewPositionMachine(thresholds())
	pm2.Current = PosBot
	pm2.Next = PosMid
	pm2.ChangeMode(ModeProgram)
	require.Equal(t, PosBot, pm2.Current)
	require.Equal(t, PosMid, pm2.Next)
}
