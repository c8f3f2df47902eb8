// Package flatbus provides a flat 64 KiB memory for driving the CPU
// outside the NES, as the standalone 6502 runner does.
package flatbus

import (
	"fmt"
	"os"
)

// Bus is 64 KiB of RAM with no mirroring or mapping.
type Bus struct {
	ram [0x10000]uint8
}

// New creates a zeroed flat bus.
func New() *Bus {
	return &Bus{}
}

// Read implements cpu.MemoryInterface.
func (b *Bus) Read(address uint16) uint8 {
	return b.ram[address]
}

// Write implements cpu.MemoryInterface.
func (b *Bus) Write(address uint16, value uint8) {
	b.ram[address] = value
}

// LoadFile copies a binary image into RAM at base. Images that would
// run past the top of the 64 KiB address space are rejected.
func (b *Bus) LoadFile(path string, base uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("flatbus: %w", err)
	}
	return b.Load(data, base)
}

// Load copies data into RAM at base.
func (b *Bus) Load(data []uint8, base uint16) error {
	if int(base)+len(data) > len(b.ram) {
		return fmt.Errorf("flatbus: %d bytes at $%04X exceeds 64KB address space", len(data), base)
	}
	copy(b.ram[base:], data)
	return nil
}
