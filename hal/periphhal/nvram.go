package periphhal

import (
	"encoding/binary"
	"os"
	"sync"
)

// NVRAM persists threshold bytes to a small flat file, the closest
// standing in for the original firmware's internal EEPROM that a Linux
// host actually has. periph has no EEPROM/NVRAM device of its own to
// reuse here — it is a GPIO/bus library, not a storage one — so this one
// corner of periphhal is plain os/encoding-binary rather than a
// third-party dependency; see DESIGN.md.
type NVRAM struct {
	mu   sync.Mutex
	path string
}

// NewNVRAM opens (creating if absent) a backing file at path. The file is
// grown lazily as offsets are written; reads past the end return 0,
// matching blank/erased EEPROM cells reading back as zero.
func NewNVRAM(path string) (*NVRAM, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	f.Close()
	return &NVRAM{path: path}, nil
}

func (n *NVRAM) ReadU32(offset uint32) uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	f, err := os.Open(n.path)
	if err != nil {
		return 0
	}
	defer f.Close()
	buf := make([]byte, 4)
	if _, err := f.ReadAt(buf, int64(offset)); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(buf)
}

func (n *NVRAM) WriteU32(offset uint32, value uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	f, err := os.OpenFile(n.path, os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	_, _ = f.WriteAt(buf, int64(offset))
}
