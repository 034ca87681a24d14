// Package disassemble formats a single documented 6502 instruction as text,
// given its address and a byte source. It never encounters undocumented
// opcodes, since cpu.Opcodes has no descriptor for any of them.
package disassemble

import (
	"fmt"

	"github.com/mos6502/nes6502/cpu"
)

// Reader is the minimal byte source disassembly needs; satisfied by
// bus.Bus and by cpu.Chip's own bus.
type Reader interface {
	Read(addr uint16) uint8
}

// Step formats the instruction at pc and returns its text and length in
// bytes. If pc addresses a byte with no descriptor, Step reports it as an
// unknown byte of length 1 rather than erroring, since disassembly is a
// best-effort tracing aid, not part of the core's error taxonomy.
func Step(pc uint16, r Reader) (string, int) {
	opcodeByte := r.Read(pc)
	desc := cpu.Opcodes[opcodeByte]
	if desc == nil {
		return fmt.Sprintf("$%04X: .byte $%02X (unknown)", pc, opcodeByte), 1
	}

	operands := make([]byte, desc.Length-1)
	for i := range operands {
		operands[i] = r.Read(pc + 1 + uint16(i))
	}

	return fmt.Sprintf("$%04X: %02X %s %s", pc, opcodeByte, desc.Mnemonic, operandText(desc, operands)), int(desc.Length)
}

func operandText(desc *cpu.Opcode, operands []byte) string {
	switch desc.Mode {
	case cpu.Implicit:
		return ""
	case cpu.Accumulator:
		return "A"
	case cpu.Immediate:
		return fmt.Sprintf("#$%02X", operands[0])
	case cpu.ZeroPage:
		return fmt.Sprintf("$%02X", operands[0])
	case cpu.ZeroPageX:
		return fmt.Sprintf("$%02X,X", operands[0])
	case cpu.ZeroPageY:
		return fmt.Sprintf("$%02X,Y", operands[0])
	case cpu.Relative:
		return fmt.Sprintf("*%+d", int8(operands[0]))
	case cpu.Absolute:
		return fmt.Sprintf("$%04X", word(operands))
	case cpu.AbsoluteX:
		return fmt.Sprintf("$%04X,X", word(operands))
	case cpu.AbsoluteY:
		return fmt.Sprintf("$%04X,Y", word(operands))
	case cpu.Indirect:
		return fmt.Sprintf("($%04X)", word(operands))
	case cpu.IndirectX:
		return fmt.Sprintf("($%02X,X)", operands[0])
	case cpu.IndirectY:
		return fmt.Sprintf("($%02X),Y", operands[0])
	default:
		return ""
	}
}

func word(b []byte) uint16 {
	return uint16(b[1])<<8 | uint16(b[0])
}
