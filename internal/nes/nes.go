// Package nes wires the CPU, PPU, APU, cartridge and controllers into
// a complete system and drives them at the NTSC 3:1 PPU:CPU ratio.
package nes

import (
	"ricoh/internal/apu"
	"ricoh/internal/cartridge"
	"ricoh/internal/cpu"
	"ricoh/internal/input"
	"ricoh/internal/ppu"
)

// System owns every component for its full lifetime: 2 KiB of internal
// RAM, two controller ports, the OAM-DMA latch, and the CPU, PPU, APU
// and cartridge. It is the bus the CPU sees.
type System struct {
	CPU *cpu.CPU
	PPU *ppu.PPU
	APU *apu.APU

	cart        *cartridge.Cartridge
	ram         [0x0800]uint8
	controllers [2]*input.Controller

	dmaPending bool
	dmaPage    uint8
}

// New assembles a system around a loaded cartridge and resets the CPU
// so PC holds the reset vector.
func New(cart *cartridge.Cartridge) *System {
	sys := &System{
		APU:  apu.New(),
		cart: cart,
	}
	sys.controllers[0] = input.New()
	sys.controllers[1] = input.New()
	sys.PPU = ppu.New(cart, cart.Mirror())
	sys.CPU = cpu.New(sys)
	sys.CPU.Reset()
	return sys
}

// Read routes a CPU address: internal RAM mirrored every $0800, PPU
// registers mirrored every 8 bytes, controller ports, the APU/IO stub,
// and cartridge space from $4020 up.
func (s *System) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return s.ram[address&0x07FF]
	case address < 0x4000:
		return s.PPU.ReadRegister(address)
	case address == 0x4016:
		return s.controllers[0].Read()
	case address == 0x4017:
		return s.controllers[1].Read()
	case address < 0x4020:
		return s.APU.ReadRegister(address)
	default:
		return s.cart.ReadPRG(address)
	}
}

// Write routes a CPU write. $4014 arms the OAM-DMA latch; $4016
// strobes both controllers.
func (s *System) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		s.ram[address&0x07FF] = value
	case address < 0x4000:
		s.PPU.WriteRegister(address, value)
	case address == 0x4014:
		s.dmaPending = true
		s.dmaPage = value
	case address == 0x4016:
		s.controllers[0].Write(value)
		s.controllers[1].Write(value)
	case address < 0x4020:
		s.APU.WriteRegister(address, value)
	default:
		s.cart.WritePRG(address, value)
	}
}

// Step advances the system by one unit of work: either the pending OAM
// DMA, or one CPU instruction followed by three PPU ticks per CPU
// cycle. NMIs signalled by the PPU enter the CPU inline, between
// instructions.
func (s *System) Step() {
	if s.dmaPending {
		s.runDMA()
		return
	}

	cycles := s.CPU.Step()
	for i := uint64(0); i < cycles*3; i++ {
		if s.PPU.Step() {
			s.CPU.NMI()
		}
	}
}

// runDMA copies 256 bytes from the selected CPU page into OAM against
// the live bus, then models the stall: 1542 PPU ticks and 514 CPU
// cycles.
func (s *System) runDMA() {
	s.dmaPending = false

	base := uint16(s.dmaPage) << 8
	for i := 0; i < 256; i++ {
		s.PPU.WriteOAM(uint8(i), s.Read(base+uint16(i)))
	}

	for i := 0; i < 1542; i++ {
		if s.PPU.Step() {
			s.CPU.NMI()
		}
	}
	s.CPU.AddCycles(514)
}

// StepFrame runs until the PPU's frame counter advances. A halted CPU
// stops the loop early; the framebuffer is complete when this returns
// normally.
func (s *System) StepFrame() {
	start := s.PPU.Frame()
	for s.PPU.Frame() == start {
		if s.CPU.Halted {
			return
		}
		s.Step()
	}
}

// SetController replaces the live button byte for port 0 or 1.
func (s *System) SetController(port int, buttons uint8) {
	if port < 0 || port > 1 {
		return
	}
	s.controllers[port].Set(buttons)
}

// Framebuffer exposes the PPU's 256x240 ARGB image, read-only.
func (s *System) Framebuffer() []uint32 {
	return s.PPU.Framebuffer()
}

// Halted reports whether the CPU trapped on an illegal opcode.
func (s *System) Halted() bool {
	return s.CPU.Halted
}

// Reset returns the whole system to power-on state: RAM cleared, PPU
// reset, controllers released, CPU vectored through $FFFC.
func (s *System) Reset() {
	s.ram = [0x0800]uint8{}
	s.dmaPending = false
	s.dmaPage = 0
	s.controllers[0].Reset()
	s.controllers[1].Reset()
	s.PPU.Reset()
	s.CPU.Reset()
}
