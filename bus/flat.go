package bus

// Flat is a 64 KiB flat address space with no mirroring and no region
// decoding: every byte is independently readable and writable, including the
// "PRG-ROM" range. It exists for tests that need precise control over every
// byte of address space, matching the teacher's flatMemory test helper.
type Flat struct {
	mem [0x10000]uint8
}

// NewFlat returns an empty 64 KiB address space.
func NewFlat() *Flat {
	return &Flat{}
}

func (f *Flat) Read(addr uint16) uint8 { return f.mem[addr] }

func (f *Flat) Write(addr uint16, val uint8) { f.mem[addr] = val }

func (f *Flat) ReadU16(addr uint16) uint16       { return readU16(f, addr) }
func (f *Flat) WriteU16(addr uint16, val uint16) { writeU16(f, addr, val) }

// LoadProgram copies data starting at base with plain writes; Flat has no
// write-protected regions so this is equivalent to a loop of Write calls.
func (f *Flat) LoadProgram(base uint16, data []byte) {
	for i, b := range data {
		f.mem[int(base)+i] = b
	}
}

// SetResetVector writes addr, little-endian, at 0xFFFC/0xFFFD. Flat has no
// write-protected regions, so this is a plain WriteU16.
func (f *Flat) SetResetVector(addr uint16) {
	f.WriteU16(resetVectorAddr, addr)
}

var _ Bus = (*Flat)(nil)
var _ ProgramLoader = (*Flat)(nil)
