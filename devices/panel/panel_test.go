package panel

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
)

func TestRenderWritesEachLabel(t *testing.T) {
	var buf bytes.Buffer
	d := NewWriter(&buf)
	if _, err := d.Render(
		Cell{Label: "TOP", Color: color.NRGBA{G: 0xff, A: 0xff}},
		Cell{Label: "BOT", Color: color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}},
	); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "TOP") || !strings.Contains(out, "BOT") {
		t.Fatalf("expected both labels in output, got %q", out)
	}
}

func TestHaltResetsColor(t *testing.T) {
	var buf bytes.Buffer
	d := NewWriter(&buf)
	if err := d.Halt(); err != nil {
		t.Fatalf("Halt: %v", err)
	}
	if !strings.Contains(buf.String(), "\033[0m") {
		t.Fatalf("expected a reset sequence, got %q", buf.String())
	}
}
