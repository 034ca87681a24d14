// Package cpu implements the fetch-decode-execute interpreter for the
// documented MOS 6502 instruction set as embedded in the NES (Ricoh 2A03,
// decimal mode disabled). It consumes a bus.Bus and drives it; it never
// models cycle-accurate timing, undocumented opcodes, or decimal-mode
// arithmetic: CLD/SED change the D flag, but ADC and SBC ignore it.
package cpu

import (
	"fmt"

	"github.com/mos6502/nes6502/bus"
	"github.com/mos6502/nes6502/irq"
)

const (
	stackBase    uint16 = 0x0100
	resetVector  uint16 = 0xFFFC
	nmiVector    uint16 = 0xFFFA
	irqVector    uint16 = 0xFFFE
	resetSP      uint8  = 0xFD
	resetStatus  uint8  = uint8(FlagInterrupt) | uint8(FlagUnused)
)

// InvalidOpcode is returned when the fetch step reads a byte with no
// descriptor in Opcodes. Fatal: the interpreter does not recover from it.
type InvalidOpcode struct {
	Opcode uint8
	PC     uint16
}

func (e *InvalidOpcode) Error() string {
	return fmt.Sprintf("unrecognized opcode 0x%02x at PC=0x%04x", e.Opcode, e.PC)
}

// Chip is the single CPU instance owned by an emulation session: the
// register file, status register, and the bus it's wired to. It is created
// once per session and mutated only by the interpreter loop.
type Chip struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	Bus bus.Bus
	IRQ irq.Sender
	NMI irq.Sender
}

// ChipDef configures a Chip at construction time.
type ChipDef struct {
	Bus bus.Bus
	IRQ irq.Sender
	NMI irq.Sender
}

// Init constructs a Chip wired to def.Bus. def.IRQ and def.NMI are optional;
// a nil Sender is simply never raised.
func Init(def ChipDef) (*Chip, error) {
	if def.Bus == nil {
		return nil, fmt.Errorf("cpu: ChipDef.Bus must not be nil")
	}
	c := &Chip{Bus: def.Bus, IRQ: def.IRQ, NMI: def.NMI}
	c.PowerOn()
	return c, nil
}

// PowerOn brings the chip to its post-reset state. Equivalent to Reset;
// kept as a distinct name to mirror real hardware's power-on/reset
// distinction even though this core treats them identically.
func (c *Chip) PowerOn() {
	c.Reset()
}

// Reset zeroes A/X/Y, sets SP and P to their documented reset values, and
// loads PC from the reset vector at 0xFFFC.
func (c *Chip) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = resetSP
	c.P = resetStatus
	c.PC = c.Bus.ReadU16(resetVector)
}

// Load copies data into the bus at base and points the reset vector there,
// per the CPU's public contract: "copy into the program region ... and set
// the reset vector at 0xFFFC to that base." The ambiguity between program
// bases (0x0600 vs 0x8000) in prior source variants is resolved by always
// taking base explicitly; the reset vector is the sole source of truth for
// where execution begins.
//
// The reset vector itself is set via ProgramLoader.SetResetVector, not a
// plain WriteU16: on a bus like bus.NES the vector address (0xFFFC) falls
// inside the write-protected PRG-ROM region, so an ordinary Write would be
// silently dropped exactly like any other ROM write. Buses that don't
// implement ProgramLoader are assumed to have no write-protected regions,
// so a plain byte-by-byte Write/WriteU16 is correct for them.
func (c *Chip) Load(base uint16, data []byte) {
	if loader, ok := c.Bus.(bus.ProgramLoader); ok {
		loader.LoadProgram(base, data)
		loader.SetResetVector(base)
		return
	}
	for i, b := range data {
		c.Bus.Write(base+uint16(i), b)
	}
	c.Bus.WriteU16(resetVector, base)
}

// LoadAndRun loads data at base, resets, and runs to completion, invoking cb
// after every completed instruction. cb may be nil.
func (c *Chip) LoadAndRun(base uint16, data []byte, cb Callback) error {
	c.Load(base, data)
	c.Reset()
	return c.RunWithCallback(cb)
}

// Callback is invoked after every completed instruction with mutable access
// to the chip. It is a parameter to the run routine, never stored by the
// core, and must not be retained past the call that receives it.
type Callback func(*Chip)

// Run drives the interpreter loop with no observer.
func (c *Chip) Run() error {
	return c.RunWithCallback(nil)
}

// RunWithCallback drives fetch-decode-execute-advance until BRK halts the
// session or a fatal error aborts it, invoking cb (if non-nil) after every
// completed instruction.
func (c *Chip) RunWithCallback(cb Callback) error {
	for {
		halted, err := c.Step()
		if err != nil {
			return err
		}
		if cb != nil {
			cb(c)
		}
		if halted {
			return nil
		}
		c.serviceInterrupts()
	}
}

// Step performs one fetch-decode-execute-advance cycle: fetch the opcode
// byte, look it up, dispatch, and advance PC by the instruction's remaining
// length unless the instruction itself changed PC. Returns halted=true if
// the instruction was BRK.
func (c *Chip) Step() (halted bool, err error) {
	opcodeByte := c.Bus.Read(c.PC)
	fetchedAt := c.PC
	c.PC++
	snapshot := c.PC

	desc := Opcodes[opcodeByte]
	if desc == nil {
		return false, &InvalidOpcode{Opcode: opcodeByte, PC: fetchedAt}
	}

	halted, err = c.execute(desc, snapshot)
	if err != nil {
		return false, err
	}
	if c.PC == snapshot {
		c.PC += uint16(desc.Length) - 1
	}
	return halted, nil
}

// serviceInterrupts checks the optional NMI/IRQ lines once per completed
// instruction (not per cycle, per the timing Non-goal) and runs a real
// interrupt sequence if one is asserted. NMI takes priority over IRQ; IRQ is
// masked by the I flag. BRK never goes through here — it halts the loop
// directly in execute.
func (c *Chip) serviceInterrupts() {
	switch {
	case c.NMI != nil && c.NMI.Raised():
		c.enterInterrupt(nmiVector)
	case c.IRQ != nil && c.IRQ.Raised() && !c.Contains(FlagInterrupt):
		c.enterInterrupt(irqVector)
	}
}

// enterInterrupt pushes PC and P (with B forced to 0, U to 1 — hardware
// interrupts never set B; only BRK/PHP do) and vectors PC to the given
// address, setting the I flag. BRK never calls this: per the core's halt
// convention it returns straight out of the run loop instead.
func (c *Chip) enterInterrupt(vector uint16) {
	c.pushStack16(c.PC)
	status := (c.P | uint8(FlagUnused)) &^ uint8(FlagBreak)
	c.pushStack8(status)
	c.Insert(FlagInterrupt)
	c.PC = c.Bus.ReadU16(vector)
}

func (c *Chip) pushStack8(v uint8) {
	c.Bus.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *Chip) popStack8() uint8 {
	c.SP++
	return c.Bus.Read(stackBase + uint16(c.SP))
}

func (c *Chip) pushStack16(v uint16) {
	c.pushStack8(uint8(v >> 8))
	c.pushStack8(uint8(v & 0xFF))
}

func (c *Chip) popStack16() uint16 {
	lo := uint16(c.popStack8())
	hi := uint16(c.popStack8())
	return hi<<8 | lo
}
