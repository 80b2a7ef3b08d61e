package simhal

// PulseSource is a manually-driven fake hal.PulseSource. Pulse blocks
// until the Supervisor's select loop consumes it, giving tests a
// synchronization point the same way Clock.Tick does.
type PulseSource struct {
	ch chan struct{}
}

// NewPulseSource returns an empty PulseSource.
func NewPulseSource() *PulseSource {
	return &PulseSource{ch: make(chan struct{})}
}

func (p *PulseSource) Pulses() <-chan struct{} { return p.ch }

// Pulse delivers one synthetic Hall edge.
func (p *PulseSource) Pulse() { p.ch <- struct{}{} }
