package cpu

import "fmt"

// Trace formats the instruction at PC in a nestest.log-compatible
// single line, with register state sampled before execution:
//
//	PC  OP B1 B2  MNEMONIC  A:xx X:xx Y:xx P:xx SP:xx CYC:n
//
// The operand byte count comes from the instruction table, so illegal
// opcodes render as a one-byte "???".
func (cpu *CPU) Trace() string {
	opcode := cpu.memory.Read(cpu.PC)
	instruction := cpu.instructions[opcode]

	name := "???"
	length := 1
	if instruction != nil {
		name = instruction.Name
		length = int(instruction.Bytes)
	}

	var operands string
	switch length {
	case 2:
		operands = fmt.Sprintf(" %02X    ", cpu.memory.Read(cpu.PC+1))
	case 3:
		operands = fmt.Sprintf(" %02X %02X ", cpu.memory.Read(cpu.PC+1), cpu.memory.Read(cpu.PC+2))
	default:
		operands = "       "
	}

	return fmt.Sprintf("%04X  %02X%s %-4s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		cpu.PC, opcode, operands, name,
		cpu.A, cpu.X, cpu.Y, cpu.StatusByte(), cpu.SP, cpu.cycles)
}
