// Package bus routes 16-bit CPU addresses to backing storage: work RAM,
// program ROM (with mirroring), and stub MMIO regions. The CPU never
// addresses memory directly; it only ever talks to a Bus.
package bus

import (
	"github.com/golang/glog"

	"github.com/mos6502/nes6502/io"
)

// Bus is the memory port the CPU consumes. Multi-byte accesses are
// little-endian: low byte at addr, high byte at addr+1.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	ReadU16(addr uint16) uint16
	WriteU16(addr uint16, val uint16)
}

// ProgramLoader is an optional extension a Bus may implement so a program
// image — and the reset vector that must point at it — can be seeded into
// an otherwise write-protected region (PRG-ROM) during bootstrap, without
// weakening the bus's normal read-only contract for writes that occur once
// the CPU is running.
type ProgramLoader interface {
	LoadProgram(base uint16, data []byte)
	// SetResetVector writes addr, little-endian, at the reset vector
	// (0xFFFC/0xFFFD), bypassing the same write-protection LoadProgram
	// bypasses: the vector lives in PRG-ROM regardless of where the
	// program itself was loaded.
	SetResetVector(addr uint16)
}

// resetVectorAddr is the bus-level address of the reset vector. Kept local
// to this package (rather than imported from cpu) to avoid a package cycle;
// it is the same 0xFFFC the data model names.
const resetVectorAddr uint16 = 0xFFFC

// readU16 and writeU16 compose two byte accesses; they are supplied once
// here and each concrete bus type's ReadU16/WriteU16 method delegates to
// them rather than reimplementing the composition.
func readU16(b Bus, addr uint16) uint16 {
	lo := uint16(b.Read(addr))
	hi := uint16(b.Read(addr + 1))
	return hi<<8 | lo
}

func writeU16(b Bus, addr uint16, val uint16) {
	b.Write(addr, uint8(val&0xFF))
	b.Write(addr+1, uint8(val>>8))
}

const (
	wramSize       = 0x0800
	wramEnd        = 0x1FFF
	ppuEnd         = 0x3FFF
	apuIOEnd       = 0x401F
	controllerAddr = 0x4016
	sramStart      = 0x6000
	sramEnd        = 0x7FFF
	sramSize       = sramEnd - sramStart + 1
	prgStart       = 0x8000
	prgMirrorCap   = 0x4000
)

// NES is the concrete memory bus for the NES layout described in the
// component design: 2 KiB work RAM mirrored every 0x0800, PPU/APU stub
// regions, optional battery RAM, and mirrored PRG-ROM.
type NES struct {
	wram       [wramSize]uint8
	sram       [sramSize]uint8
	prg        []uint8
	controller io.Port8
}

// NewNES constructs a bus with no program loaded; LoadProgram populates prg.
func NewNES() *NES {
	return &NES{}
}

// AttachController wires an input port at the standard 1P controller address.
func (n *NES) AttachController(p io.Port8) {
	n.controller = p
}

func (n *NES) Read(addr uint16) uint8 {
	switch {
	case addr <= wramEnd:
		return n.wram[addr%wramSize]
	case addr <= ppuEnd:
		glog.V(1).Infof("stub PPU register read: 0x%04x", addr)
		return 0
	case addr == controllerAddr && n.controller != nil:
		return n.controller.Input()
	case addr <= apuIOEnd:
		glog.Infof("unimplemented CPU bus read: address=0x%04x", addr)
		return 0
	case addr >= sramStart && addr <= sramEnd:
		return n.sram[addr-sramStart]
	case addr >= prgStart:
		return n.readPRG(addr)
	default:
		glog.Infof("illegal CPU bus read: address=0x%04x", addr)
		return 0
	}
}

func (n *NES) growPRG(size int) {
	if size > len(n.prg) {
		grown := make([]uint8, size)
		copy(grown, n.prg)
		n.prg = grown
	}
}

func (n *NES) readPRG(addr uint16) uint8 {
	if len(n.prg) == 0 {
		return 0
	}
	off := int(addr - prgStart)
	if len(n.prg) <= prgMirrorCap {
		off %= len(n.prg)
	}
	if off >= len(n.prg) {
		return 0
	}
	return n.prg[off]
}

func (n *NES) Write(addr uint16, val uint8) {
	switch {
	case addr <= wramEnd:
		n.wram[addr%wramSize] = val
	case addr <= ppuEnd:
		glog.V(1).Infof("stub PPU register write: 0x%04x = 0x%02x", addr, val)
	case addr == controllerAddr:
		// Controller strobe write; no shift-register emulation behind the stub.
	case addr <= apuIOEnd:
		glog.Infof("unimplemented CPU bus write: address=0x%04x, data=0x%02x", addr, val)
	case addr >= sramStart && addr <= sramEnd:
		n.sram[addr-sramStart] = val
	case addr >= prgStart:
		glog.Infof("write to PRG-ROM ignored: address=0x%04x, data=0x%02x", addr, val)
	default:
		glog.Infof("illegal CPU bus write: address=0x%04x, data=0x%02x", addr, val)
	}
}

func (n *NES) ReadU16(addr uint16) uint16       { return readU16(n, addr) }
func (n *NES) WriteU16(addr uint16, val uint16) { writeU16(n, addr, val) }

// LoadProgram seeds data starting at base. Bases in the PRG-ROM region
// (>= 0x8000) are written directly into the backing ROM array, bypassing
// the write-ignore rule that applies once the CPU is running (see Write).
// Lower bases — e.g. the classic 0x0600 WRAM-resident convention one prior
// source variant used — are written through the ordinary Write path,
// since those regions were never write-protected in the first place.
func (n *NES) LoadProgram(base uint16, data []byte) {
	if base < prgStart {
		for i, b := range data {
			n.Write(base+uint16(i), b)
		}
		return
	}
	n.growPRG(int(base-prgStart) + len(data))
	copy(n.prg[base-prgStart:], data)
}

// SetResetVector writes addr, little-endian, directly into PRG-ROM at
// 0xFFFC/0xFFFD, bypassing the write-ignore rule the same way LoadProgram
// does: the reset vector always lives in ROM regardless of where the
// program itself was loaded.
func (n *NES) SetResetVector(addr uint16) {
	off := int(resetVectorAddr - prgStart)
	n.growPRG(off + 2)
	n.prg[off] = uint8(addr & 0xFF)
	n.prg[off+1] = uint8(addr >> 8)
}

var _ Bus = (*NES)(nil)
var _ ProgramLoader = (*NES)(nil)
