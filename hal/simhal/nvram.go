package simhal

import "sync"

// NVRAM is an in-memory hal.NVRAM backed by a map, for tests and cmd/bench.
type NVRAM struct {
	mu   sync.Mutex
	data map[uint32]uint32
}

// NewNVRAM returns an empty NVRAM; all offsets read back as zero until
// written.
func NewNVRAM() *NVRAM {
	return &NVRAM{data: make(map[uint32]uint32)}
}

func (n *NVRAM) ReadU32(offset uint32) uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.data[offset]
}

func (n *NVRAM) WriteU32(offset uint32, value uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.data[offset] = value
}
