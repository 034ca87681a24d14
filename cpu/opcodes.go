package cpu

// Mode is one of the closed set of addressing modes the addressing unit
// understands.
type Mode uint8

const (
	Implicit Mode = iota
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
	IndirectX
	IndirectY
)

var modeNames = [...]string{
	Implicit:    "Implicit",
	Accumulator: "Accumulator",
	Immediate:   "Immediate",
	ZeroPage:    "ZeroPage",
	ZeroPageX:   "ZeroPageX",
	ZeroPageY:   "ZeroPageY",
	Relative:    "Relative",
	Absolute:    "Absolute",
	AbsoluteX:   "AbsoluteX",
	AbsoluteY:   "AbsoluteY",
	Indirect:    "Indirect",
	IndirectX:   "IndirectX",
	IndirectY:   "IndirectY",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Unknown"
}

// Mnemonic is one of the 56 documented 6502 instructions.
type Mnemonic uint8

const (
	LDA Mnemonic = iota
	LDX
	LDY
	STA
	STX
	STY
	TAX
	TAY
	TXA
	TYA
	TSX
	TXS
	PHA
	PHP
	PLA
	PLP
	AND
	EOR
	ORA
	BIT
	ADC
	SBC
	CMP
	CPX
	CPY
	INC
	INX
	INY
	DEC
	DEX
	DEY
	ASL
	LSR
	ROL
	ROR
	JMP
	JSR
	RTS
	BCC
	BCS
	BEQ
	BMI
	BNE
	BPL
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	SEC
	SED
	SEI
	BRK
	NOP
	RTI
)

var mnemonicNames = [...]string{
	LDA: "LDA", LDX: "LDX", LDY: "LDY", STA: "STA", STX: "STX", STY: "STY",
	TAX: "TAX", TAY: "TAY", TXA: "TXA", TYA: "TYA", TSX: "TSX", TXS: "TXS",
	PHA: "PHA", PHP: "PHP", PLA: "PLA", PLP: "PLP",
	AND: "AND", EOR: "EOR", ORA: "ORA", BIT: "BIT",
	ADC: "ADC", SBC: "SBC", CMP: "CMP", CPX: "CPX", CPY: "CPY",
	INC: "INC", INX: "INX", INY: "INY", DEC: "DEC", DEX: "DEX", DEY: "DEY",
	ASL: "ASL", LSR: "LSR", ROL: "ROL", ROR: "ROR",
	JMP: "JMP", JSR: "JSR", RTS: "RTS",
	BCC: "BCC", BCS: "BCS", BEQ: "BEQ", BMI: "BMI", BNE: "BNE", BPL: "BPL", BVC: "BVC", BVS: "BVS",
	CLC: "CLC", CLD: "CLD", CLI: "CLI", CLV: "CLV", SEC: "SEC", SED: "SED", SEI: "SEI",
	BRK: "BRK", NOP: "NOP", RTI: "RTI",
}

func (m Mnemonic) String() string {
	if int(m) < len(mnemonicNames) {
		return mnemonicNames[m]
	}
	return "???"
}

// Opcode is a static, immutable instruction descriptor.
type Opcode struct {
	Byte     uint8
	Mnemonic Mnemonic
	Mode     Mode
	Length   uint8
	Cycles   uint8
}

// Opcodes is the process-wide instruction table: a 256-entry array indexed
// by opcode byte, nil for every byte with no documented instruction. It is
// filled once by this package's init function and only read after that. No
// lazy construction, no map, no hashing on the hot path.
var Opcodes [256]*Opcode

func op(byte uint8, m Mnemonic, mode Mode, length, cycles uint8) {
	Opcodes[byte] = &Opcode{Byte: byte, Mnemonic: m, Mode: mode, Length: length, Cycles: cycles}
}

func init() {
	op(0xA9, LDA, Immediate, 2, 2)
	op(0xA5, LDA, ZeroPage, 2, 3)
	op(0xB5, LDA, ZeroPageX, 2, 4)
	op(0xAD, LDA, Absolute, 3, 4)
	op(0xBD, LDA, AbsoluteX, 3, 4)
	op(0xB9, LDA, AbsoluteY, 3, 4)
	op(0xA1, LDA, IndirectX, 2, 6)
	op(0xB1, LDA, IndirectY, 2, 5)

	op(0xA2, LDX, Immediate, 2, 2)
	op(0xA6, LDX, ZeroPage, 2, 3)
	op(0xB6, LDX, ZeroPageY, 2, 4)
	op(0xAE, LDX, Absolute, 3, 4)
	op(0xBE, LDX, AbsoluteY, 3, 4)

	op(0xA0, LDY, Immediate, 2, 2)
	op(0xA4, LDY, ZeroPage, 2, 3)
	op(0xB4, LDY, ZeroPageX, 2, 4)
	op(0xAC, LDY, Absolute, 3, 4)
	op(0xBC, LDY, AbsoluteX, 3, 4)

	op(0x85, STA, ZeroPage, 2, 3)
	op(0x95, STA, ZeroPageX, 2, 4)
	op(0x8D, STA, Absolute, 3, 4)
	op(0x9D, STA, AbsoluteX, 3, 5)
	op(0x99, STA, AbsoluteY, 3, 5)
	op(0x81, STA, IndirectX, 2, 6)
	op(0x91, STA, IndirectY, 2, 6)

	op(0x86, STX, ZeroPage, 2, 3)
	op(0x96, STX, ZeroPageY, 2, 4)
	op(0x8E, STX, Absolute, 3, 4)

	op(0x84, STY, ZeroPage, 2, 3)
	op(0x94, STY, ZeroPageX, 2, 4)
	op(0x8C, STY, Absolute, 3, 4)

	op(0xAA, TAX, Implicit, 1, 2)
	op(0xA8, TAY, Implicit, 1, 2)
	op(0x8A, TXA, Implicit, 1, 2)
	op(0x98, TYA, Implicit, 1, 2)
	op(0xBA, TSX, Implicit, 1, 2)
	op(0x9A, TXS, Implicit, 1, 2)

	op(0x48, PHA, Implicit, 1, 3)
	op(0x08, PHP, Implicit, 1, 3)
	op(0x68, PLA, Implicit, 1, 4)
	op(0x28, PLP, Implicit, 1, 4)

	op(0x29, AND, Immediate, 2, 2)
	op(0x25, AND, ZeroPage, 2, 3)
	op(0x35, AND, ZeroPageX, 2, 4)
	op(0x2D, AND, Absolute, 3, 4)
	op(0x3D, AND, AbsoluteX, 3, 4)
	op(0x39, AND, AbsoluteY, 3, 4)
	op(0x21, AND, IndirectX, 2, 6)
	op(0x31, AND, IndirectY, 2, 5)

	op(0x49, EOR, Immediate, 2, 2)
	op(0x45, EOR, ZeroPage, 2, 3)
	op(0x55, EOR, ZeroPageX, 2, 4)
	op(0x4D, EOR, Absolute, 3, 4)
	op(0x5D, EOR, AbsoluteX, 3, 4)
	op(0x59, EOR, AbsoluteY, 3, 4)
	op(0x41, EOR, IndirectX, 2, 6)
	op(0x51, EOR, IndirectY, 2, 5)

	op(0x09, ORA, Immediate, 2, 2)
	op(0x05, ORA, ZeroPage, 2, 3)
	op(0x15, ORA, ZeroPageX, 2, 4)
	op(0x0D, ORA, Absolute, 3, 4)
	op(0x1D, ORA, AbsoluteX, 3, 4)
	op(0x19, ORA, AbsoluteY, 3, 4)
	op(0x01, ORA, IndirectX, 2, 6)
	op(0x11, ORA, IndirectY, 2, 5)

	op(0x24, BIT, ZeroPage, 2, 3)
	op(0x2C, BIT, Absolute, 3, 4)

	op(0x69, ADC, Immediate, 2, 2)
	op(0x65, ADC, ZeroPage, 2, 3)
	op(0x75, ADC, ZeroPageX, 2, 4)
	op(0x6D, ADC, Absolute, 3, 4)
	op(0x7D, ADC, AbsoluteX, 3, 4)
	op(0x79, ADC, AbsoluteY, 3, 4)
	op(0x61, ADC, IndirectX, 2, 6)
	op(0x71, ADC, IndirectY, 2, 5)

	op(0xE9, SBC, Immediate, 2, 2)
	op(0xE5, SBC, ZeroPage, 2, 3)
	op(0xF5, SBC, ZeroPageX, 2, 4)
	op(0xED, SBC, Absolute, 3, 4)
	op(0xFD, SBC, AbsoluteX, 3, 4)
	op(0xF9, SBC, AbsoluteY, 3, 4)
	op(0xE1, SBC, IndirectX, 2, 6)
	op(0xF1, SBC, IndirectY, 2, 5)

	op(0xC9, CMP, Immediate, 2, 2)
	op(0xC5, CMP, ZeroPage, 2, 3)
	op(0xD5, CMP, ZeroPageX, 2, 4)
	op(0xCD, CMP, Absolute, 3, 4)
	op(0xDD, CMP, AbsoluteX, 3, 4)
	op(0xD9, CMP, AbsoluteY, 3, 4)
	op(0xC1, CMP, IndirectX, 2, 6)
	op(0xD1, CMP, IndirectY, 2, 5)

	op(0xE0, CPX, Immediate, 2, 2)
	op(0xE4, CPX, ZeroPage, 2, 3)
	op(0xEC, CPX, Absolute, 3, 4)

	op(0xC0, CPY, Immediate, 2, 2)
	op(0xC4, CPY, ZeroPage, 2, 3)
	op(0xCC, CPY, Absolute, 3, 4)

	op(0xE6, INC, ZeroPage, 2, 5)
	op(0xF6, INC, ZeroPageX, 2, 6)
	op(0xEE, INC, Absolute, 3, 6)
	op(0xFE, INC, AbsoluteX, 3, 7)

	op(0xE8, INX, Implicit, 1, 2)
	op(0xC8, INY, Implicit, 1, 2)

	op(0xC6, DEC, ZeroPage, 2, 5)
	op(0xD6, DEC, ZeroPageX, 2, 6)
	op(0xCE, DEC, Absolute, 3, 6)
	op(0xDE, DEC, AbsoluteX, 3, 7)

	op(0xCA, DEX, Implicit, 1, 2)
	op(0x88, DEY, Implicit, 1, 2)

	op(0x0A, ASL, Accumulator, 1, 2)
	op(0x06, ASL, ZeroPage, 2, 5)
	op(0x16, ASL, ZeroPageX, 2, 6)
	op(0x0E, ASL, Absolute, 3, 6)
	op(0x1E, ASL, AbsoluteX, 3, 7)

	op(0x4A, LSR, Accumulator, 1, 2)
	op(0x46, LSR, ZeroPage, 2, 5)
	op(0x56, LSR, ZeroPageX, 2, 6)
	op(0x4E, LSR, Absolute, 3, 6)
	op(0x5E, LSR, AbsoluteX, 3, 7)

	op(0x2A, ROL, Accumulator, 1, 2)
	op(0x26, ROL, ZeroPage, 2, 5)
	op(0x36, ROL, ZeroPageX, 2, 6)
	op(0x2E, ROL, Absolute, 3, 6)
	op(0x3E, ROL, AbsoluteX, 3, 7)

	op(0x6A, ROR, Accumulator, 1, 2)
	op(0x66, ROR, ZeroPage, 2, 5)
	op(0x76, ROR, ZeroPageX, 2, 6)
	op(0x6E, ROR, Absolute, 3, 6)
	op(0x7E, ROR, AbsoluteX, 3, 7)

	op(0x4C, JMP, Absolute, 3, 3)
	op(0x6C, JMP, Indirect, 3, 5)

	op(0x20, JSR, Absolute, 3, 6)
	op(0x60, RTS, Implicit, 1, 6)

	op(0x90, BCC, Relative, 2, 2)
	op(0xB0, BCS, Relative, 2, 2)
	op(0xF0, BEQ, Relative, 2, 2)
	op(0x30, BMI, Relative, 2, 2)
	op(0xD0, BNE, Relative, 2, 2)
	op(0x10, BPL, Relative, 2, 2)
	op(0x50, BVC, Relative, 2, 2)
	op(0x70, BVS, Relative, 2, 2)

	op(0x18, CLC, Implicit, 1, 2)
	op(0xD8, CLD, Implicit, 1, 2)
	op(0x58, CLI, Implicit, 1, 2)
	op(0xB8, CLV, Implicit, 1, 2)
	op(0x38, SEC, Implicit, 1, 2)
	op(0xF8, SED, Implicit, 1, 2)
	op(0x78, SEI, Implicit, 1, 2)

	op(0x00, BRK, Implicit, 1, 7)
	op(0xEA, NOP, Implicit, 1, 2)
	op(0x40, RTI, Implicit, 1, 6)
}
