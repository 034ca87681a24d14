package cpu

// AddressingModeMisuse indicates the table assigned an addressing mode that
// has no address to resolve (Implicit or Accumulator) to an instruction
// that tried to resolve one anyway — a bug in the instruction table, not a
// recoverable runtime condition.
type AddressingModeMisuse struct {
	Mode Mode
}

func (e *AddressingModeMisuse) Error() string {
	return "addressing mode misuse: " + e.Mode.String() + " has no resolvable address"
}

// GetAbsoluteAddress resolves the effective 16-bit address (or, for
// Immediate, the operand's own address) that addr and the current register
// file denote under mode. addr points at the first operand byte of the
// instruction being resolved. Exposed for tracing per the CPU's public
// contract; the interpreter loop uses the same logic internally.
func (c *Chip) GetAbsoluteAddress(mode Mode, addr uint16) (uint16, error) {
	switch mode {
	case Immediate:
		return addr, nil
	case ZeroPage:
		return uint16(c.Bus.Read(addr)), nil
	case ZeroPageX:
		return uint16(c.Bus.Read(addr) + c.X), nil
	case ZeroPageY:
		return uint16(c.Bus.Read(addr) + c.Y), nil
	case Absolute:
		return c.Bus.ReadU16(addr), nil
	case AbsoluteX:
		return c.Bus.ReadU16(addr) + uint16(c.X), nil
	case AbsoluteY:
		return c.Bus.ReadU16(addr) + uint16(c.Y), nil
	case IndirectX:
		ptr := c.Bus.Read(addr) + c.X
		lo := uint16(c.Bus.Read(uint16(ptr)))
		hi := uint16(c.Bus.Read(uint16(ptr + 1)))
		return hi<<8 | lo, nil
	case IndirectY:
		ptr := c.Bus.Read(addr)
		lo := uint16(c.Bus.Read(uint16(ptr)))
		hi := uint16(c.Bus.Read(uint16(ptr + 1)))
		base := hi<<8 | lo
		return base + uint16(c.Y), nil
	case Indirect:
		ptr := c.Bus.ReadU16(addr)
		lo := uint16(c.Bus.Read(ptr))
		var hiAddr uint16
		if ptr&0x00FF == 0x00FF {
			hiAddr = ptr & 0xFF00
		} else {
			hiAddr = ptr + 1
		}
		hi := uint16(c.Bus.Read(hiAddr))
		return hi<<8 | lo, nil
	case Relative:
		offset := int8(c.Bus.Read(addr))
		return uint16(int32(addr) + 1 + int32(offset)), nil
	default:
		return 0, &AddressingModeMisuse{Mode: mode}
	}
}
