package cpu

// execute dispatches on desc.Mnemonic with a single switch (tagged-variant
// dispatch, not polymorphism) and carries out the instruction's semantic
// action. snapshot is the address of the instruction's first operand byte
// (or, for a one-byte instruction, the address of the next opcode).
func (c *Chip) execute(desc *Opcode, snapshot uint16) (halted bool, err error) {
	switch desc.Mnemonic {
	case LDA:
		addr, err := c.resolve(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.A = c.Bus.Read(addr)
		c.UpdateZeroAndNegative(c.A)
	case LDX:
		addr, err := c.resolve(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.X = c.Bus.Read(addr)
		c.UpdateZeroAndNegative(c.X)
	case LDY:
		addr, err := c.resolve(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.Y = c.Bus.Read(addr)
		c.UpdateZeroAndNegative(c.Y)

	case STA:
		addr, err := c.resolve(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.Bus.Write(addr, c.A)
	case STX:
		addr, err := c.resolve(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.Bus.Write(addr, c.X)
	case STY:
		addr, err := c.resolve(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.Bus.Write(addr, c.Y)

	case TAX:
		c.X = c.A
		c.UpdateZeroAndNegative(c.X)
	case TAY:
		c.Y = c.A
		c.UpdateZeroAndNegative(c.Y)
	case TXA:
		c.A = c.X
		c.UpdateZeroAndNegative(c.A)
	case TYA:
		c.A = c.Y
		c.UpdateZeroAndNegative(c.A)
	case TSX:
		c.X = c.SP
		c.UpdateZeroAndNegative(c.X)
	case TXS:
		c.SP = c.X

	case PHA:
		c.pushStack8(c.A)
	case PHP:
		c.pushStack8(c.P | uint8(FlagBreak) | uint8(FlagUnused))
	case PLA:
		c.A = c.popStack8()
		c.UpdateZeroAndNegative(c.A)
	case PLP:
		c.P = c.popStack8()
		c.Remove(FlagBreak)
		c.Insert(FlagUnused)

	case AND:
		m, err := c.readOperand(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.A &= m
		c.UpdateZeroAndNegative(c.A)
	case EOR:
		m, err := c.readOperand(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.A ^= m
		c.UpdateZeroAndNegative(c.A)
	case ORA:
		m, err := c.readOperand(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.A |= m
		c.UpdateZeroAndNegative(c.A)
	case BIT:
		m, err := c.readOperand(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.Set(FlagZero, c.A&m == 0)
		c.Set(FlagNegative, m&0x80 != 0)
		c.Set(FlagOverflow, m&0x40 != 0)

	case ADC:
		m, err := c.readOperand(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.adc(m)
	case SBC:
		m, err := c.readOperand(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.adc(^m)

	case CMP:
		m, err := c.readOperand(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.compare(c.A, m)
	case CPX:
		m, err := c.readOperand(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.compare(c.X, m)
	case CPY:
		m, err := c.readOperand(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		c.compare(c.Y, m)

	case INC:
		addr, err := c.resolve(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		v := c.Bus.Read(addr) + 1
		c.Bus.Write(addr, v)
		c.UpdateZeroAndNegative(v)
	case INX:
		c.X++
		c.UpdateZeroAndNegative(c.X)
	case INY:
		c.Y++
		c.UpdateZeroAndNegative(c.Y)
	case DEC:
		addr, err := c.resolve(desc.Mode, snapshot)
		if err != nil {
			return false, err
		}
		v := c.Bus.Read(addr) - 1
		c.Bus.Write(addr, v)
		c.UpdateZeroAndNegative(v)
	case DEX:
		c.X--
		c.UpdateZeroAndNegative(c.X)
	case DEY:
		c.Y--
		c.UpdateZeroAndNegative(c.Y)

	case ASL:
		err = c.shiftRotate(desc.Mode, snapshot, func(v uint8) (uint8, bool) {
			return v << 1, v&0x80 != 0
		})
	case LSR:
		err = c.shiftRotate(desc.Mode, snapshot, func(v uint8) (uint8, bool) {
			return v >> 1, v&0x01 != 0
		})
	case ROL:
		oldCarry := c.Contains(FlagCarry)
		err = c.shiftRotate(desc.Mode, snapshot, func(v uint8) (uint8, bool) {
			out := v << 1
			if oldCarry {
				out |= 0x01
			}
			return out, v&0x80 != 0
		})
	case ROR:
		oldCarry := c.Contains(FlagCarry)
		err = c.shiftRotate(desc.Mode, snapshot, func(v uint8) (uint8, bool) {
			out := v >> 1
			if oldCarry {
				out |= 0x80
			}
			return out, v&0x01 != 0
		})

	case JMP:
		switch desc.Mode {
		case Absolute:
			c.PC = c.Bus.ReadU16(snapshot)
		case Indirect:
			addr, ierr := c.GetAbsoluteAddress(Indirect, snapshot)
			if ierr != nil {
				return false, ierr
			}
			c.PC = addr
		}
	case JSR:
		c.pushStack16(snapshot + 1)
		c.PC = c.Bus.ReadU16(snapshot)
	case RTS:
		c.PC = c.popStack16() + 1

	case BRK:
		// This core treats BRK as session termination, not a true software
		// interrupt: no push, no vector through 0xFFFE. See the real
		// IRQ/NMI sequence in enterInterrupt, which BRK deliberately never
		// calls.
		return true, nil
	case RTI:
		c.P = c.popStack8()
		c.Remove(FlagBreak)
		c.Insert(FlagUnused)
		c.PC = c.popStack16()

	case BCC:
		c.branch(snapshot, !c.Contains(FlagCarry))
	case BCS:
		c.branch(snapshot, c.Contains(FlagCarry))
	case BEQ:
		c.branch(snapshot, c.Contains(FlagZero))
	case BMI:
		c.branch(snapshot, c.Contains(FlagNegative))
	case BNE:
		c.branch(snapshot, !c.Contains(FlagZero))
	case BPL:
		c.branch(snapshot, !c.Contains(FlagNegative))
	case BVC:
		c.branch(snapshot, !c.Contains(FlagOverflow))
	case BVS:
		c.branch(snapshot, c.Contains(FlagOverflow))

	case CLC:
		c.Remove(FlagCarry)
	case CLD:
		c.Remove(FlagDecimal)
	case CLI:
		c.Remove(FlagInterrupt)
	case CLV:
		c.Remove(FlagOverflow)
	case SEC:
		c.Insert(FlagCarry)
	case SED:
		c.Insert(FlagDecimal)
	case SEI:
		c.Insert(FlagInterrupt)

	case NOP:
		// no-op
	}
	return false, err
}

// resolve looks up the effective address for a memory-operand instruction.
func (c *Chip) resolve(mode Mode, snapshot uint16) (uint16, error) {
	return c.GetAbsoluteAddress(mode, snapshot)
}

// readOperand resolves the effective address (or the PC itself, for
// Immediate) and reads the byte at it.
func (c *Chip) readOperand(mode Mode, snapshot uint16) (uint8, error) {
	addr, err := c.GetAbsoluteAddress(mode, snapshot)
	if err != nil {
		return 0, err
	}
	return c.Bus.Read(addr), nil
}

// adc performs the unsigned sum A+M+C, updating C, V, Z, N, per the exact
// formula the data model specifies.
func (c *Chip) adc(m uint8) {
	carry := uint16(0)
	if c.Contains(FlagCarry) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(m) + carry
	result := uint8(sum)
	c.Set(FlagCarry, sum > 0xFF)
	c.Set(FlagOverflow, (m^result)&(result^c.A)&0x80 != 0)
	c.A = result
	c.UpdateZeroAndNegative(c.A)
}

// compare implements CMP/CPX/CPY: D = register - operand (modular); C is
// set iff operand <= register; Z/N come from D.
func (c *Chip) compare(register, operand uint8) {
	d := register - operand
	c.Set(FlagCarry, operand <= register)
	c.UpdateZeroAndNegative(d)
}

// shiftRotate implements ASL/LSR/ROL/ROR for both the Accumulator variant
// and the memory-operand variants. op computes (output, newCarry) from the
// input byte. Both variants update Z and N from the output: the documented
// behavior, not the N-only-update some 6502 source variants carry for the
// memory forms of ROL/ROR.
func (c *Chip) shiftRotate(mode Mode, snapshot uint16, op func(uint8) (uint8, bool)) error {
	if mode == Accumulator {
		out, newCarry := op(c.A)
		c.A = out
		c.Set(FlagCarry, newCarry)
		c.UpdateZeroAndNegative(c.A)
		return nil
	}
	addr, err := c.GetAbsoluteAddress(mode, snapshot)
	if err != nil {
		return err
	}
	in := c.Bus.Read(addr)
	out, newCarry := op(in)
	c.Bus.Write(addr, out)
	c.Set(FlagCarry, newCarry)
	c.UpdateZeroAndNegative(out)
	return nil
}

// branch implements the eight conditional branches: if taken, PC becomes
// snapshot+1+offset (16-bit wrap); if not, PC is left at snapshot so the
// Step advance logic skips the offset byte on its own.
func (c *Chip) branch(snapshot uint16, taken bool) {
	if !taken {
		return
	}
	offset := int8(c.Bus.Read(snapshot))
	c.PC = uint16(int32(snapshot) + 1 + int32(offset))
}
