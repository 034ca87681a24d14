// Package trace formats one nestest-style line per completed instruction,
// intended as the canonical example cpu.Callback: wire Line into
// RunWithCallback to stream a trace exactly as the original tutorial's
// run_with_callback(|cpu| println!("{}", trace(cpu))) did.
package trace

import (
	"fmt"

	"github.com/mos6502/nes6502/cpu"
	"github.com/mos6502/nes6502/disassemble"
)

// Reader is the byte source the disassembler needs, satisfied by the bus a
// Chip is wired to.
type Reader interface {
	Read(addr uint16) uint8
}

// Line formats a single trace line for the instruction at c.PC, before it
// executes. Callers typically pass c.Bus as r.
func Line(c *cpu.Chip, r Reader) string {
	text, _ := disassemble.Step(c.PC, r)
	return fmt.Sprintf("%s  A:%02X X:%02X Y:%02X P:%02X SP:%02X",
		text, c.A, c.X, c.Y, c.P, c.SP)
}

// Printer returns a cpu.Callback that writes a Line to a sink for every
// completed instruction, the idiomatic way to attach tracing to RunWithCallback.
func Printer(r Reader, sink func(string)) cpu.Callback {
	return func(c *cpu.Chip) {
		sink(Line(c, r))
	}
}
