package controller

import "github.com/Miceuz/motoplugas/hal"

// Thresholds is the ordered (bottom, middle, top) pulse-count triple
// defining the three learned stops. Bottom is always 0 and is
// never persisted; middle and top live at NVRAM offsets 0 and 4.
type Thresholds struct {
	Bottom int32
	Middle int32
	Top    int32
}

const (
	nvramOffsetMiddle = 0
	nvramOffsetTop    = 4
)

// LoadThresholds reads the persisted middle/top thresholds from nv. Bottom
// always starts at zero. Uninitialised NVRAM is trusted as-is — no magic
// word or checksum guards it; see DESIGN.md open question 2.
func LoadThresholds(nv hal.NVRAM) Thresholds {
	return Thresholds{
		Bottom: 0,
		Middle: int32(nv.ReadU32(nvramOffsetMiddle)),
		Top:    int32(nv.ReadU32(nvramOffsetTop)),
	}
}

// Valid reports the ordering invariant bottom <= middle <= top.
func (t Thresholds) Valid() bool {
	return t.Bottom <= t.Middle && t.Middle <= t.Top
}
