// Command bench is an interactive terminal bench for the actuator
// controller: it drives a controller.Supervisor against hal/simhal and
// lets an operator toggle the buttons and mode selector by hand, watching
// position, mode and thresholds update live.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"periph.io/x/periph/conn/gpio"

	"github.com/Miceuz/motoplugas/controller"
	"github.com/Miceuz/motoplugas/hal"
	"github.com/Miceuz/motoplugas/hal/simhal"
)

type tickMsg struct{}

type keyMap struct {
	Up, Down, Program, Release key.Binding
	Run, Program2, Manual      key.Binding
	Quit                       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Program, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Program, k.Release},
		{k.Run, k.Program2, k.Manual, k.Quit},
	}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "toggle UP")),
	Down:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "toggle DOWN")),
	Program:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "press PROGRAM")),
	Release:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "release PROGRAM")),
	Run:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "selector -> RUN")),
	Program2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "selector -> PROGRAM")),
	Manual:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "selector -> MANUAL")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func doTick() tea.Cmd {
	return tea.Tick(30*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	titleStyle = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(40)

	onStyle  = lipgloss.NewStyle().Foreground(special).Bold(true)
	offStyle = lipgloss.NewStyle().Foreground(subtle)

	helpStyle = lipgloss.NewStyle().Foreground(subtle)
)

// bench holds the simulated rig and the bench's own idea of how the mode
// selector switch is wired, the same two-field trick controller's own
// tests use: the sensor alternates bias each time a phase settles, and the switch's
// fixed position must be reasserted under whichever bias is active.
type bench struct {
	sup    *controller.Supervisor
	pins   hal.Pins
	clock  *simhal.Clock
	pulses *simhal.PulseSource
	nvram  *simhal.NVRAM

	modePullUpHigh, modePullDownHigh bool
	modeLabel                        string

	upHeld, downHeld, progPressed bool

	cfg                           controller.Config
	settleWasArmed, blockWasArmed bool

	help help.Model
}

func newBench() *bench {
	pins := simhal.NewPins()
	nvram := simhal.NewNVRAM()
	nvram.WriteU32(0, 400)
	nvram.WriteU32(4, 900)
	clock := simhal.NewClock()
	pulseSrc := simhal.NewPulseSource()

	cfg := controller.DefaultConfig()
	cfg.BootStep = 0
	sup := controller.NewSupervisor(pins, nvram, clock, pulseSrc, cfg)

	go sup.Run(context.Background())

	b := &bench{sup: sup, pins: pins, clock: clock, pulses: pulseSrc, nvram: nvram, cfg: cfg, help: help.New()}
	b.setMode("RUN", true, false)
	return b
}

// watchOneShots bridges simhal's manually-fired OneShots to real elapsed
// time for the interactive bench: simhal.Clock.Tick doesn't know wall-clock
// duration, so the bench fires the timer itself after cfg's nominal delay,
// the way periphhal's real timers would on hardware.
func (b *bench) watchOneShots() {
	settle := b.clock.OneShotAt(0)
	block := b.clock.OneShotAt(1)
	if settle.Armed() && !b.settleWasArmed {
		time.AfterFunc(b.cfg.SettleTimeout, func() { settle.Fire() })
	}
	if block.Armed() && !b.blockWasArmed {
		time.AfterFunc(b.cfg.BlockTimeout, func() { block.Fire() })
	}
	b.settleWasArmed = settle.Armed()
	b.blockWasArmed = block.Armed()
}

func (b *bench) setMode(label string, pullUpHigh, pullDownHigh bool) {
	b.modeLabel = label
	b.modePullUpHigh = pullUpHigh
	b.modePullDownHigh = pullDownHigh
}

func levelOf(high bool) gpio.Level {
	if high {
		return gpio.High
	}
	return gpio.Low
}

// step advances the rig by one tick, reasserting the mode selector's
// wiring and, if a direction button is held, feeding one Hall pulse —
// each tick of simulated time produces one click of simulated travel.
func (b *bench) step() {
	if b.sup.ModePullUpActive() {
		b.pins.ModeSelector.(*simhal.Pin).Set(levelOf(b.modePullUpHigh))
	} else {
		b.pins.ModeSelector.(*simhal.Pin).Set(levelOf(b.modePullDownHigh))
	}
	b.clock.Tick()
	if snap := b.sup.Snapshot(); snap.Direction != controller.DirNone && (b.upHeld || b.downHeld) {
		b.pulses.Pulse()
	}
	b.watchOneShots()
}

func (b *bench) setButton(p hal.Pin, held bool) {
	lvl := gpio.High
	if held {
		lvl = gpio.Low
	}
	p.(*simhal.Pin).Set(lvl)
}

func (m bench) Init() tea.Cmd { return doTick() }

func (m bench) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.step()
		return m, doTick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.help.ShowAll = !m.help.ShowAll
		case "u":
			m.upHeld = !m.upHeld
			m.setButton(m.pins.Up, m.upHeld)
		case "d":
			m.downHeld = !m.downHeld
			m.setButton(m.pins.Down, m.downHeld)
		case "p":
			m.setButton(m.pins.Program, true)
			m.progPressed = true
		case "P":
			m.setButton(m.pins.Program, false)
			m.progPressed = false
		case "1":
			m.setMode("RUN", true, false)
		case "2":
			m.setMode("PROGRAM", false, false)
		case "3":
			m.setMode("MANUAL", true, true)
		}
	}
	return m, nil
}

func onOff(b bool) string {
	if b {
		return onStyle.Render("ON")
	}
	return offStyle.Render("off")
}

func (m bench) View() string {
	snap := m.sup.Snapshot()
	title := titleStyle.Render("motoplugas bench")

	status := fmt.Sprintf(
		"Mode:      %s\nCurrent:   %s\nNext:      %s\nDirection: %s\nClicks:    %d\n\nThresholds: bot=%d mid=%d top=%d\nBlockArmed:  %s\nSettleArmed: %s",
		snap.Mode, snap.Current, snap.Next, snap.Direction, snap.Clicks,
		snap.Thresholds.Bottom, snap.Thresholds.Middle, snap.Thresholds.Top,
		onOff(snap.BlockArmed), onOff(snap.SettleArmed),
	)

	controls := fmt.Sprintf(
		"Switch wiring: %s\n\nUP held:   %s\nDOWN held: %s\n\n%s",
		m.modeLabel, onOff(m.upHeld), onOff(m.downHeld), m.help.View(keys),
	)

	return title + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(status), panelStyle.Render(controls)) + "\n" +
		helpStyle.Render("ticks run automatically every 30ms; each tick while a button is held feeds one Hall pulse (? for full help)")
}

func main() {
	p := tea.NewProgram(newBench())
	if _, err := p.Run(); err != nil {
		fmt.Println("bench: " + err.Error())
	}
}
