// Package cpu implements the MOS 6502 interpreter.
package cpu

import "log"

// AddressingMode identifies how an instruction locates its operand.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	// Stack page base address
	stackBase = 0x0100
	// Status register bit masks (N V - B D I Z C)
	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01
	// Address masks
	zeroPageMask = 0xFF
	pageMask     = 0xFF00
	// Interrupt vectors
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Instruction describes one legal opcode encoding. PageCross marks
// read-type indexed instructions that charge one extra cycle when the
// effective address crosses a page boundary; RMW and store encodings
// keep their fixed cost.
type Instruction struct {
	Name      string
	Opcode    uint8
	Bytes     uint8
	Cycles    uint8
	PageCross bool
	Mode      AddressingMode
}

// CPU is a 6502 core driven through a MemoryInterface. The status
// register is held as individual flags; the byte form always carries
// bit 5 set and bit 4 clear — the break marker exists only in copies
// pushed on the stack.
type CPU struct {
	A  uint8  // Accumulator
	X  uint8  // X index
	Y  uint8  // Y index
	SP uint8  // Stack pointer (offset into page $01)
	PC uint16 // Program counter

	// Status flags
	C bool // Carry
	Z bool // Zero
	I bool // Interrupt disable
	D bool // Decimal mode
	V bool // Overflow
	N bool // Negative

	// Halted is set when an illegal opcode is dispatched. The only way
	// out is Reset.
	Halted bool

	memory MemoryInterface
	cycles uint64

	instructions [256]*Instruction
}

// MemoryInterface is the bus seen by the CPU. The same core drives a
// flat 64 KiB RAM or the NES bus, depending on what is installed here.
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// New creates a CPU with zeroed registers, status $24 (I + unused) and
// the given bus installed. Call Reset to load PC from the reset vector.
func New(memory MemoryInterface) *CPU {
	cpu := &CPU{
		memory: memory,
		I:      true,
	}
	cpu.initInstructions()
	return cpu
}

// Reset loads PC from the reset vector at $FFFC/$FFFD, forces SP to $FD
// (the hardware decrements it by 3 during the reset sequence), sets the
// interrupt disable flag and charges 7 cycles. Prior PC and status are
// not saved; this is a hardware reset, not an interrupt.
func (cpu *CPU) Reset() {
	lo := uint16(cpu.memory.Read(resetVector))
	hi := uint16(cpu.memory.Read(resetVector + 1))
	cpu.PC = hi<<8 | lo

	cpu.SP = 0xFD
	cpu.I = true
	cpu.Halted = false
	cpu.cycles += 7
}

// Step executes one instruction and returns the cycles it consumed:
// the opcode's base cost plus page-crossing and taken-branch penalties.
// A halted CPU does nothing and returns 0.
func (cpu *CPU) Step() uint64 {
	if cpu.Halted {
		return 0
	}

	opcode := cpu.memory.Read(cpu.PC)
	instruction := cpu.instructions[opcode]

	if instruction == nil {
		log.Printf("cpu: illegal opcode $%02X at $%04X", opcode, cpu.PC)
		cpu.Halted = true
		cpu.PC++
		return 0
	}

	address, pageCrossed := cpu.getOperandAddress(instruction.Mode)
	extraCycles := cpu.executeInstruction(opcode, address, pageCrossed)

	if pageCrossed && instruction.PageCross {
		extraCycles++
	}

	totalCycles := uint64(instruction.Cycles) + uint64(extraCycles)
	cpu.cycles += totalCycles
	return totalCycles
}

// Cycles returns the cumulative cycle count.
func (cpu *CPU) Cycles() uint64 {
	return cpu.cycles
}

// AddCycles charges cycles that happen outside instruction execution,
// such as the OAM DMA stall.
func (cpu *CPU) AddCycles(n uint64) {
	cpu.cycles += n
}

// getOperandAddress resolves the effective address for the given mode,
// advancing PC past the opcode and operand bytes. The second return is
// true when an indexed address crossed a page boundary (for Relative,
// when the branch target is on a different page than the instruction
// following the branch).
func (cpu *CPU) getOperandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		cpu.PC++
		return 0, false

	case Immediate:
		address := cpu.PC + 1
		cpu.PC += 2
		return address, false

	case ZeroPage:
		address := uint16(cpu.memory.Read(cpu.PC + 1))
		cpu.PC += 2
		return address, false

	case ZeroPageX:
		base := cpu.memory.Read(cpu.PC + 1)
		cpu.PC += 2
		return uint16(base+cpu.X) & zeroPageMask, false

	case ZeroPageY:
		base := cpu.memory.Read(cpu.PC + 1)
		cpu.PC += 2
		return uint16(base+cpu.Y) & zeroPageMask, false

	case Relative:
		offset := int8(cpu.memory.Read(cpu.PC + 1))
		cpu.PC += 2
		target := uint16(int32(cpu.PC) + int32(offset))
		return target, (cpu.PC & pageMask) != (target & pageMask)

	case Absolute:
		lo := uint16(cpu.memory.Read(cpu.PC + 1))
		hi := uint16(cpu.memory.Read(cpu.PC + 2))
		cpu.PC += 3
		return hi<<8 | lo, false

	case AbsoluteX:
		lo := uint16(cpu.memory.Read(cpu.PC + 1))
		hi := uint16(cpu.memory.Read(cpu.PC + 2))
		cpu.PC += 3
		base := hi<<8 | lo
		address := base + uint16(cpu.X)
		return address, (base & pageMask) != (address & pageMask)

	case AbsoluteY:
		lo := uint16(cpu.memory.Read(cpu.PC + 1))
		hi := uint16(cpu.memory.Read(cpu.PC + 2))
		cpu.PC += 3
		base := hi<<8 | lo
		address := base + uint16(cpu.Y)
		return address, (base & pageMask) != (address & pageMask)

	case Indirect: // JMP only
		lo := uint16(cpu.memory.Read(cpu.PC + 1))
		hi := uint16(cpu.memory.Read(cpu.PC + 2))
		cpu.PC += 3
		ptr := hi<<8 | lo
		// NMOS bug: the high byte of the target is fetched from the
		// start of the same page when the pointer sits at $xxFF.
		targetLo := uint16(cpu.memory.Read(ptr))
		targetHi := uint16(cpu.memory.Read((ptr & pageMask) | ((ptr + 1) & zeroPageMask)))
		return targetHi<<8 | targetLo, false

	case IndexedIndirect: // (zp,X)
		base := cpu.memory.Read(cpu.PC + 1)
		cpu.PC += 2
		ptr := (base + cpu.X) & zeroPageMask
		lo := uint16(cpu.memory.Read(uint16(ptr)))
		hi := uint16(cpu.memory.Read(uint16((ptr + 1) & zeroPageMask)))
		return hi<<8 | lo, false

	case IndirectIndexed: // (zp),Y
		ptr := uint16(cpu.memory.Read(cpu.PC + 1))
		cpu.PC += 2
		lo := uint16(cpu.memory.Read(ptr))
		hi := uint16(cpu.memory.Read((ptr + 1) & zeroPageMask))
		base := hi<<8 | lo
		address := base + uint16(cpu.Y)
		return address, (base & pageMask) != (address & pageMask)

	default:
		return 0, false
	}
}

// Stack operations. SP always indexes into page $01.

func (cpu *CPU) push(value uint8) {
	cpu.memory.Write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pull() uint8 {
	cpu.SP++
	return cpu.memory.Read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value & 0xFF))
}

func (cpu *CPU) pullWord() uint16 {
	lo := uint16(cpu.pull())
	hi := uint16(cpu.pull())
	return hi<<8 | lo
}

// setZN sets the Zero and Negative flags from a result byte.
func (cpu *CPU) setZN(value uint8) {
	cpu.Z = value == 0
	cpu.N = value&nFlagMask != 0
}

// StatusByte composes the live status register. Bit 5 is always 1 and
// bit 4 is always 0; the B marker appears only in stacked copies.
func (cpu *CPU) StatusByte() uint8 {
	var status uint8 = unusedMask
	if cpu.N {
		status |= nFlagMask
	}
	if cpu.V {
		status |= vFlagMask
	}
	if cpu.D {
		status |= dFlagMask
	}
	if cpu.I {
		status |= iFlagMask
	}
	if cpu.Z {
		status |= zFlagMask
	}
	if cpu.C {
		status |= cFlagMask
	}
	return status
}

// SetStatusByte unpacks a status byte into the flag set. Bits 4 and 5
// have no storage in the live register and are ignored.
func (cpu *CPU) SetStatusByte(status uint8) {
	cpu.N = status&nFlagMask != 0
	cpu.V = status&vFlagMask != 0
	cpu.D = status&dFlagMask != 0
	cpu.I = status&iFlagMask != 0
	cpu.Z = status&zFlagMask != 0
	cpu.C = status&cFlagMask != 0
}

// NMI runs the non-maskable interrupt entry sequence: push PC, push
// status with B clear, set I, jump through $FFFA/$FFFB. Fires
// regardless of the I flag.
func (cpu *CPU) NMI() {
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.StatusByte())
	cpu.I = true
	lo := uint16(cpu.memory.Read(nmiVector))
	hi := uint16(cpu.memory.Read(nmiVector + 1))
	cpu.PC = hi<<8 | lo
	cpu.cycles += 7
}

// IRQ runs the maskable interrupt entry sequence through $FFFE/$FFFF.
// Ignored while the I flag is set.
func (cpu *CPU) IRQ() {
	if cpu.I {
		return
	}
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.StatusByte())
	cpu.I = true
	lo := uint16(cpu.memory.Read(irqVector))
	hi := uint16(cpu.memory.Read(irqVector + 1))
	cpu.PC = hi<<8 | lo
	cpu.cycles += 7
}
