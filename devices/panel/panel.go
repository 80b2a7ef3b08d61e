// Package panel renders a line of labeled, colored indicator cells to a
// terminal — the front-panel LEDs and relays of the actuator controller,
// viewed from a development host that has no real LEDs to look at.
//
// It is adapted from an earlier devices/screen package, which drew an
// image.Image onto an LED strip one pixel at a time; a fixed three-LED,
// two-relay control panel has no image to draw, just a handful of named
// cells, so Dev trades the display.Drawer interface for a single Render
// method built on the same ansi256 terminal-color technique.
package panel

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	colorable "github.com/mattn/go-colorable"
)

// Cell is one labeled indicator on the panel.
type Cell struct {
	Label string
	Color color.NRGBA
}

// Dev is a row of indicator cells rendered to a terminal with ANSI colors.
type Dev struct {
	w   io.Writer
	buf bytes.Buffer
}

// New returns a Dev writing to the console via go-colorable, so ANSI
// sequences render correctly on Windows terminals too.
func New() *Dev {
	return &Dev{w: colorable.NewColorableStdout()}
}

// NewWriter returns a Dev writing to an arbitrary writer, for tests or for
// callers that have already resolved their own colorable/plain writer.
func NewWriter(w io.Writer) *Dev {
	return &Dev{w: w}
}

func (d *Dev) String() string { return "Panel" }

// Halt implements conn.Resource: it resets the terminal's color state.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

// Render writes one line: each cell's label followed by a colored block,
// in order.
func (d *Dev) Render(cells ...Cell) (int, error) {
	d.buf.Reset()
	for _, c := range cells {
		_, _ = d.buf.WriteString(c.Label)
		_, _ = io.WriteString(&d.buf, ansi256.Default.Block(c.Color))
		_, _ = d.buf.WriteString(" ")
	}
	_, _ = d.buf.WriteString("\033[0m\n")
	_, err := d.buf.WriteTo(d.w)
	return d.buf.Len(), err
}
