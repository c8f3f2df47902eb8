package cpu

// Instruction handlers. Handlers shared across addressing modes take
// the resolved effective address; branch handlers also receive the
// page-cross result for the target and return the extra cycles of a
// taken branch.

// Loads set N and Z from the loaded value. Stores touch no flags.

func (cpu *CPU) lda(address uint16) {
	cpu.A = cpu.memory.Read(address)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) ldx(address uint16) {
	cpu.X = cpu.memory.Read(address)
	cpu.setZN(cpu.X)
}

func (cpu *CPU) ldy(address uint16) {
	cpu.Y = cpu.memory.Read(address)
	cpu.setZN(cpu.Y)
}

func (cpu *CPU) sta(address uint16) {
	cpu.memory.Write(address, cpu.A)
}

func (cpu *CPU) stx(address uint16) {
	cpu.memory.Write(address, cpu.X)
}

func (cpu *CPU) sty(address uint16) {
	cpu.memory.Write(address, cpu.Y)
}

// adcValue adds with carry. In decimal mode the NMOS quirks apply:
// Z comes from the binary sum, N and V from the value before the high
// nibble fixup, C from the adjusted high nibble.
func (cpu *CPU) adcValue(value uint8) {
	carry := 0
	if cpu.C {
		carry = 1
	}

	if cpu.D {
		a := cpu.A

		bin := uint16(a) + uint16(value) + uint16(carry)
		cpu.Z = bin&0xFF == 0

		al := int(a&0x0F) + int(value&0x0F) + carry
		if al > 9 {
			al += 6
		}

		ah := int(a>>4) + int(value>>4)
		if al > 0x0F {
			ah++
		}

		partial := uint8(ah<<4) | uint8(al&0x0F)
		cpu.N = partial&0x80 != 0
		cpu.V = (^(a^value))&(a^uint8(ah<<4))&0x80 != 0

		if ah > 9 {
			ah += 6
		}
		cpu.C = ah > 0x0F
		cpu.A = uint8((ah&0x0F)<<4) | uint8(al&0x0F)
		return
	}

	sum := uint16(cpu.A) + uint16(value) + uint16(carry)
	cpu.V = (^(cpu.A^value))&(cpu.A^uint8(sum))&0x80 != 0
	cpu.C = sum > 0xFF
	cpu.A = uint8(sum)
	cpu.setZN(cpu.A)
}

// sbcValue subtracts with borrow. In decimal mode all flags come from
// the binary difference; only A gets the BCD adjustment. Binary mode is
// ADC with the operand complemented.
func (cpu *CPU) sbcValue(value uint8) {
	if cpu.D {
		borrow := 1
		if cpu.C {
			borrow = 0
		}
		a := cpu.A

		bin := int(a) - int(value) - borrow
		cpu.C = bin >= 0
		cpu.Z = uint8(bin) == 0
		cpu.N = uint8(bin)&0x80 != 0
		cpu.V = (a^value)&(a^uint8(bin))&0x80 != 0

		al := int(a&0x0F) - int(value&0x0F) - borrow
		if al < 0 {
			al = ((al - 6) & 0x0F) - 0x10
		}
		ah := int(a>>4) - int(value>>4)
		if al < 0 {
			ah--
		}
		if ah < 0 {
			ah -= 6
		}
		cpu.A = uint8((ah&0x0F)<<4) | uint8(al&0x0F)
		return
	}

	cpu.adcValue(^value)
}

func (cpu *CPU) adc(address uint16) {
	cpu.adcValue(cpu.memory.Read(address))
}

func (cpu *CPU) sbc(address uint16) {
	cpu.sbcValue(cpu.memory.Read(address))
}

func (cpu *CPU) and(address uint16) {
	cpu.A &= cpu.memory.Read(address)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) ora(address uint16) {
	cpu.A |= cpu.memory.Read(address)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) eor(address uint16) {
	cpu.A ^= cpu.memory.Read(address)
	cpu.setZN(cpu.A)
}

// compare sets C = reg >= value, Z = reg == value, N from the low 8
// bits of the difference.
func (cpu *CPU) compare(reg uint8, address uint16) {
	value := cpu.memory.Read(address)
	result := reg - value
	cpu.C = reg >= value
	cpu.setZN(result)
}

// Shift and rotate cores, applied to A or memory by the dispatch arms.

func (cpu *CPU) aslValue(value uint8) uint8 {
	cpu.C = value&0x80 != 0
	value <<= 1
	cpu.setZN(value)
	return value
}

func (cpu *CPU) lsrValue(value uint8) uint8 {
	cpu.C = value&0x01 != 0
	value >>= 1
	cpu.setZN(value)
	return value
}

func (cpu *CPU) rolValue(value uint8) uint8 {
	oldCarry := cpu.C
	cpu.C = value&0x80 != 0
	value <<= 1
	if oldCarry {
		value |= 0x01
	}
	cpu.setZN(value)
	return value
}

func (cpu *CPU) rorValue(value uint8) uint8 {
	oldCarry := cpu.C
	cpu.C = value&0x01 != 0
	value >>= 1
	if oldCarry {
		value |= 0x80
	}
	cpu.setZN(value)
	return value
}

// modify applies a read-modify-write core to a memory location.
func (cpu *CPU) modify(address uint16, core func(uint8) uint8) {
	value := cpu.memory.Read(address)
	cpu.memory.Write(address, core(value))
}

func (cpu *CPU) inc(address uint16) {
	value := cpu.memory.Read(address) + 1
	cpu.memory.Write(address, value)
	cpu.setZN(value)
}

func (cpu *CPU) dec(address uint16) {
	value := cpu.memory.Read(address) - 1
	cpu.memory.Write(address, value)
	cpu.setZN(value)
}

func (cpu *CPU) bit(address uint16) {
	value := cpu.memory.Read(address)
	cpu.N = value&nFlagMask != 0
	cpu.V = value&vFlagMask != 0
	cpu.Z = cpu.A&value == 0
}

// branch takes the branch when cond holds: 1 extra cycle, 2 when the
// target is on a different page than the following instruction.
func (cpu *CPU) branch(cond bool, target uint16, pageCrossed bool) uint8 {
	if !cond {
		return 0
	}
	cpu.PC = target
	if pageCrossed {
		return 2
	}
	return 1
}

func (cpu *CPU) jsr(address uint16) {
	cpu.pushWord(cpu.PC - 1)
	cpu.PC = address
}

func (cpu *CPU) rts() {
	cpu.PC = cpu.pullWord() + 1
}

// brk pushes the address past a padding byte, pushes status with the B
// marker set, sets I and jumps through the IRQ/BRK vector.
func (cpu *CPU) brk() {
	cpu.PC++
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.StatusByte() | bFlagMask)
	cpu.I = true
	lo := uint16(cpu.memory.Read(irqVector))
	hi := uint16(cpu.memory.Read(irqVector + 1))
	cpu.PC = hi<<8 | lo
}

// rti pulls status then PC. Unlike RTS there is no +1.
func (cpu *CPU) rti() {
	cpu.SetStatusByte(cpu.pull())
	cpu.PC = cpu.pullWord()
}

// executeInstruction dispatches a decoded opcode. The returned count is
// the extra cycles charged by taken branches; page-cross penalties are
// accounted in Step from the instruction metadata.
func (cpu *CPU) executeInstruction(opcode uint8, address uint16, pageCrossed bool) uint8 {
	switch opcode {
	// Load/store
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1: // LDA
		cpu.lda(address)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE: // LDX
		cpu.ldx(address)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC: // LDY
		cpu.ldy(address)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91: // STA
		cpu.sta(address)
	case 0x86, 0x96, 0x8E: // STX
		cpu.stx(address)
	case 0x84, 0x94, 0x8C: // STY
		cpu.sty(address)

	// Arithmetic
	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71: // ADC
		cpu.adc(address)
	case 0xE9, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1: // SBC
		cpu.sbc(address)

	// Bitwise
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31: // AND
		cpu.and(address)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11: // ORA
		cpu.ora(address)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51: // EOR
		cpu.eor(address)

	// Shifts and rotates
	case 0x0A: // ASL A
		cpu.A = cpu.aslValue(cpu.A)
	case 0x06, 0x16, 0x0E, 0x1E: // ASL
		cpu.modify(address, cpu.aslValue)
	case 0x4A: // LSR A
		cpu.A = cpu.lsrValue(cpu.A)
	case 0x46, 0x56, 0x4E, 0x5E: // LSR
		cpu.modify(address, cpu.lsrValue)
	case 0x2A: // ROL A
		cpu.A = cpu.rolValue(cpu.A)
	case 0x26, 0x36, 0x2E, 0x3E: // ROL
		cpu.modify(address, cpu.rolValue)
	case 0x6A: // ROR A
		cpu.A = cpu.rorValue(cpu.A)
	case 0x66, 0x76, 0x6E, 0x7E: // ROR
		cpu.modify(address, cpu.rorValue)

	// Compares
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1: // CMP
		cpu.compare(cpu.A, address)
	case 0xE0, 0xE4, 0xEC: // CPX
		cpu.compare(cpu.X, address)
	case 0xC0, 0xC4, 0xCC: // CPY
		cpu.compare(cpu.Y, address)

	// Increments and decrements
	case 0xE6, 0xF6, 0xEE, 0xFE: // INC
		cpu.inc(address)
	case 0xC6, 0xD6, 0xCE, 0xDE: // DEC
		cpu.dec(address)
	case 0xE8: // INX
		cpu.X++
		cpu.setZN(cpu.X)
	case 0xC8: // INY
		cpu.Y++
		cpu.setZN(cpu.Y)
	case 0xCA: // DEX
		cpu.X--
		cpu.setZN(cpu.X)
	case 0x88: // DEY
		cpu.Y--
		cpu.setZN(cpu.Y)

	// Transfers (TXS alone touches no flags)
	case 0xAA: // TAX
		cpu.X = cpu.A
		cpu.setZN(cpu.X)
	case 0xA8: // TAY
		cpu.Y = cpu.A
		cpu.setZN(cpu.Y)
	case 0x8A: // TXA
		cpu.A = cpu.X
		cpu.setZN(cpu.A)
	case 0x98: // TYA
		cpu.A = cpu.Y
		cpu.setZN(cpu.A)
	case 0xBA: // TSX
		cpu.X = cpu.SP
		cpu.setZN(cpu.X)
	case 0x9A: // TXS
		cpu.SP = cpu.X

	// Stack
	case 0x48: // PHA
		cpu.push(cpu.A)
	case 0x68: // PLA
		cpu.A = cpu.pull()
		cpu.setZN(cpu.A)
	case 0x08: // PHP pushes with B and unused set
		cpu.push(cpu.StatusByte() | bFlagMask)
	case 0x28: // PLP
		cpu.SetStatusByte(cpu.pull())

	// Flag set/clear
	case 0x18: // CLC
		cpu.C = false
	case 0x38: // SEC
		cpu.C = true
	case 0x58: // CLI
		cpu.I = false
	case 0x78: // SEI
		cpu.I = true
	case 0xB8: // CLV
		cpu.V = false
	case 0xD8: // CLD
		cpu.D = false
	case 0xF8: // SED
		cpu.D = true

	// Jumps and subroutines
	case 0x4C, 0x6C: // JMP
		cpu.PC = address
	case 0x20: // JSR
		cpu.jsr(address)
	case 0x60: // RTS
		cpu.rts()
	case 0x40: // RTI
		cpu.rti()
	case 0x00: // BRK
		cpu.brk()

	// Branches
	case 0x10: // BPL
		return cpu.branch(!cpu.N, address, pageCrossed)
	case 0x30: // BMI
		return cpu.branch(cpu.N, address, pageCrossed)
	case 0x50: // BVC
		return cpu.branch(!cpu.V, address, pageCrossed)
	case 0x70: // BVS
		return cpu.branch(cpu.V, address, pageCrossed)
	case 0x90: // BCC
		return cpu.branch(!cpu.C, address, pageCrossed)
	case 0xB0: // BCS
		return cpu.branch(cpu.C, address, pageCrossed)
	case 0xD0: // BNE
		return cpu.branch(!cpu.Z, address, pageCrossed)
	case 0xF0: // BEQ
		return cpu.branch(cpu.Z, address, pageCrossed)

	case 0x24, 0x2C: // BIT
		cpu.bit(address)

	case 0xEA: // NOP
	}
	return 0
}

// initInstructions fills the 256-entry dispatch table with the 151
// legal encodings. Unset entries trap as illegal opcodes in Step.
func (cpu *CPU) initInstructions() {
	add := func(name string, opcode, bytes, cycles uint8, pageCross bool, mode AddressingMode) {
		cpu.instructions[opcode] = &Instruction{
			Name:      name,
			Opcode:    opcode,
			Bytes:     bytes,
			Cycles:    cycles,
			PageCross: pageCross,
			Mode:      mode,
		}
	}

	// Load
	add("LDA", 0xA9, 2, 2, false, Immediate)
	add("LDA", 0xA5, 2, 3, false, ZeroPage)
	add("LDA", 0xB5, 2, 4, false, ZeroPageX)
	add("LDA", 0xAD, 3, 4, false, Absolute)
	add("LDA", 0xBD, 3, 4, true, AbsoluteX)
	add("LDA", 0xB9, 3, 4, true, AbsoluteY)
	add("LDA", 0xA1, 2, 6, false, IndexedIndirect)
	add("LDA", 0xB1, 2, 5, true, IndirectIndexed)

	add("LDX", 0xA2, 2, 2, false, Immediate)
	add("LDX", 0xA6, 2, 3, false, ZeroPage)
	add("LDX", 0xB6, 2, 4, false, ZeroPageY)
	add("LDX", 0xAE, 3, 4, false, Absolute)
	add("LDX", 0xBE, 3, 4, true, AbsoluteY)

	add("LDY", 0xA0, 2, 2, false, Immediate)
	add("LDY", 0xA4, 2, 3, false, ZeroPage)
	add("LDY", 0xB4, 2, 4, false, ZeroPageX)
	add("LDY", 0xAC, 3, 4, false, Absolute)
	add("LDY", 0xBC, 3, 4, true, AbsoluteX)

	// Store
	add("STA", 0x85, 2, 3, false, ZeroPage)
	add("STA", 0x95, 2, 4, false, ZeroPageX)
	add("STA", 0x8D, 3, 4, false, Absolute)
	add("STA", 0x9D, 3, 5, false, AbsoluteX)
	add("STA", 0x99, 3, 5, false, AbsoluteY)
	add("STA", 0x81, 2, 6, false, IndexedIndirect)
	add("STA", 0x91, 2, 6, false, IndirectIndexed)

	add("STX", 0x86, 2, 3, false, ZeroPage)
	add("STX", 0x96, 2, 4, false, ZeroPageY)
	add("STX", 0x8E, 3, 4, false, Absolute)

	add("STY", 0x84, 2, 3, false, ZeroPage)
	add("STY", 0x94, 2, 4, false, ZeroPageX)
	add("STY", 0x8C, 3, 4, false, Absolute)

	// Arithmetic
	add("ADC", 0x69, 2, 2, false, Immediate)
	add("ADC", 0x65, 2, 3, false, ZeroPage)
	add("ADC", 0x75, 2, 4, false, ZeroPageX)
	add("ADC", 0x6D, 3, 4, false, Absolute)
	add("ADC", 0x7D, 3, 4, true, AbsoluteX)
	add("ADC", 0x79, 3, 4, true, AbsoluteY)
	add("ADC", 0x61, 2, 6, false, IndexedIndirect)
	add("ADC", 0x71, 2, 5, true, IndirectIndexed)

	add("SBC", 0xE9, 2, 2, false, Immediate)
	add("SBC", 0xE5, 2, 3, false, ZeroPage)
	add("SBC", 0xF5, 2, 4, false, ZeroPageX)
	add("SBC", 0xED, 3, 4, false, Absolute)
	add("SBC", 0xFD, 3, 4, true, AbsoluteX)
	add("SBC", 0xF9, 3, 4, true, AbsoluteY)
	add("SBC", 0xE1, 2, 6, false, IndexedIndirect)
	add("SBC", 0xF1, 2, 5, true, IndirectIndexed)

	// Bitwise
	add("AND", 0x29, 2, 2, false, Immediate)
	add("AND", 0x25, 2, 3, false, ZeroPage)
	add("AND", 0x35, 2, 4, false, ZeroPageX)
	add("AND", 0x2D, 3, 4, false, Absolute)
	add("AND", 0x3D, 3, 4, true, AbsoluteX)
	add("AND", 0x39, 3, 4, true, AbsoluteY)
	add("AND", 0x21, 2, 6, false, IndexedIndirect)
	add("AND", 0x31, 2, 5, true, IndirectIndexed)

	add("ORA", 0x09, 2, 2, false, Immediate)
	add("ORA", 0x05, 2, 3, false, ZeroPage)
	add("ORA", 0x15, 2, 4, false, ZeroPageX)
	add("ORA", 0x0D, 3, 4, false, Absolute)
	add("ORA", 0x1D, 3, 4, true, AbsoluteX)
	add("ORA", 0x19, 3, 4, true, AbsoluteY)
	add("ORA", 0x01, 2, 6, false, IndexedIndirect)
	add("ORA", 0x11, 2, 5, true, IndirectIndexed)

	add("EOR", 0x49, 2, 2, false, Immediate)
	add("EOR", 0x45, 2, 3, false, ZeroPage)
	add("EOR", 0x55, 2, 4, false, ZeroPageX)
	add("EOR", 0x4D, 3, 4, false, Absolute)
	add("EOR", 0x5D, 3, 4, true, AbsoluteX)
	add("EOR", 0x59, 3, 4, true, AbsoluteY)
	add("EOR", 0x41, 2, 6, false, IndexedIndirect)
	add("EOR", 0x51, 2, 5, true, IndirectIndexed)

	add("BIT", 0x24, 2, 3, false, ZeroPage)
	add("BIT", 0x2C, 3, 4, false, Absolute)

	// Shifts and rotates (RMW costs are fixed, no page-cross penalty)
	add("ASL", 0x0A, 1, 2, false, Accumulator)
	add("ASL", 0x06, 2, 5, false, ZeroPage)
	add("ASL", 0x16, 2, 6, false, ZeroPageX)
	add("ASL", 0x0E, 3, 6, false, Absolute)
	add("ASL", 0x1E, 3, 7, false, AbsoluteX)

	add("LSR", 0x4A, 1, 2, false, Accumulator)
	add("LSR", 0x46, 2, 5, false, ZeroPage)
	add("LSR", 0x56, 2, 6, false, ZeroPageX)
	add("LSR", 0x4E, 3, 6, false, Absolute)
	add("LSR", 0x5E, 3, 7, false, AbsoluteX)

	add("ROL", 0x2A, 1, 2, false, Accumulator)
	add("ROL", 0x26, 2, 5, false, ZeroPage)
	add("ROL", 0x36, 2, 6, false, ZeroPageX)
	add("ROL", 0x2E, 3, 6, false, Absolute)
	add("ROL", 0x3E, 3, 7, false, AbsoluteX)

	add("ROR", 0x6A, 1, 2, false, Accumulator)
	add("ROR", 0x66, 2, 5, false, ZeroPage)
	add("ROR", 0x76, 2, 6, false, ZeroPageX)
	add("ROR", 0x6E, 3, 6, false, Absolute)
	add("ROR", 0x7E, 3, 7, false, AbsoluteX)

	// Compares
	add("CMP", 0xC9, 2, 2, false, Immediate)
	add("CMP", 0xC5, 2, 3, false, ZeroPage)
	add("CMP", 0xD5, 2, 4, false, ZeroPageX)
	add("CMP", 0xCD, 3, 4, false, Absolute)
	add("CMP", 0xDD, 3, 4, true, AbsoluteX)
	add("CMP", 0xD9, 3, 4, true, AbsoluteY)
	add("CMP", 0xC1, 2, 6, false, IndexedIndirect)
	add("CMP", 0xD1, 2, 5, true, IndirectIndexed)

	add("CPX", 0xE0, 2, 2, false, Immediate)
	add("CPX", 0xE4, 2, 3, false, ZeroPage)
	add("CPX", 0xEC, 3, 4, false, Absolute)

	add("CPY", 0xC0, 2, 2, false, Immediate)
	add("CPY", 0xC4, 2, 3, false, ZeroPage)
	add("CPY", 0xCC, 3, 4, false, Absolute)

	// Increments and decrements
	add("INC", 0xE6, 2, 5, false, ZeroPage)
	add("INC", 0xF6, 2, 6, false, ZeroPageX)
	add("INC", 0xEE, 3, 6, false, Absolute)
	add("INC", 0xFE, 3, 7, false, AbsoluteX)

	add("DEC", 0xC6, 2, 5, false, ZeroPage)
	add("DEC", 0xD6, 2, 6, false, ZeroPageX)
	add("DEC", 0xCE, 3, 6, false, Absolute)
	add("DEC", 0xDE, 3, 7, false, AbsoluteX)

	add("INX", 0xE8, 1, 2, false, Implied)
	add("INY", 0xC8, 1, 2, false, Implied)
	add("DEX", 0xCA, 1, 2, false, Implied)
	add("DEY", 0x88, 1, 2, false, Implied)

	// Transfers
	add("TAX", 0xAA, 1, 2, false, Implied)
	add("TAY", 0xA8, 1, 2, false, Implied)
	add("TXA", 0x8A, 1, 2, false, Implied)
	add("TYA", 0x98, 1, 2, false, Implied)
	add("TSX", 0xBA, 1, 2, false, Implied)
	add("TXS", 0x9A, 1, 2, false, Implied)

	// Stack
	add("PHA", 0x48, 1, 3, false, Implied)
	add("PLA", 0x68, 1, 4, false, Implied)
	add("PHP", 0x08, 1, 3, false, Implied)
	add("PLP", 0x28, 1, 4, false, Implied)

	// Flags
	add("CLC", 0x18, 1, 2, false, Implied)
	add("SEC", 0x38, 1, 2, false, Implied)
	add("CLI", 0x58, 1, 2, false, Implied)
	add("SEI", 0x78, 1, 2, false, Implied)
	add("CLV", 0xB8, 1, 2, false, Implied)
	add("CLD", 0xD8, 1, 2, false, Implied)
	add("SED", 0xF8, 1, 2, false, Implied)

	// Control flow
	add("JMP", 0x4C, 3, 3, false, Absolute)
	add("JMP", 0x6C, 3, 5, false, Indirect)
	add("JSR", 0x20, 3, 6, false, Absolute)
	add("RTS", 0x60, 1, 6, false, Implied)
	add("RTI", 0x40, 1, 6, false, Implied)
	add("BRK", 0x00, 1, 7, false, Implied)

	// Branches
	add("BPL", 0x10, 2, 2, false, Relative)
	add("BMI", 0x30, 2, 2, false, Relative)
	add("BVC", 0x50, 2, 2, false, Relative)
	add("BVS", 0x70, 2, 2, false, Relative)
	add("BCC", 0x90, 2, 2, false, Relative)
	add("BCS", 0xB0, 2, 2, false, Relative)
	add("BNE", 0xD0, 2, 2, false, Relative)
	add("BEQ", 0xF0, 2, 2, false, Relative)

	add("NOP", 0xEA, 1, 2, false, Implied)
}
