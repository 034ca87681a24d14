// Command nesdebug is an interactive single-step debugger: a register/flag
// panel, a page-table memory view, and the live disassembly of the
// instruction at PC, stepped one instruction at a time.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/mos6502/nes6502/bus"
	"github.com/mos6502/nes6502/cpu"
	"github.com/mos6502/nes6502/disassemble"
)

const loadBase = 0x8000

type model struct {
	chip *cpu.Chip
	bus  *bus.Flat

	prevPC uint16
	err    error
	halted bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "s":
			if m.halted {
				return m, nil
			}
			m.prevPC = m.chip.PC
			halted, err := m.chip.Step()
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.halted = halted
		case "r":
			m.chip.Reset()
			m.halted = false
		}
	}
	return m, nil
}

func (m model) renderPage(start uint16) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04X | ", start)
	for i := 0; i < 16; i++ {
		addr := start + uint16(i)
		val := m.bus.Read(addr)
		if addr == m.chip.PC {
			fmt.Fprintf(&sb, "[%02X] ", val)
		} else {
			fmt.Fprintf(&sb, " %02X  ", val)
		}
	}
	return sb.String()
}

func (m model) pageTable() string {
	header := "page | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01X  ", b)
	}
	lines := []string{header}
	base := m.chip.PC &^ 0x00FF
	for p := 0; p < 5; p++ {
		lines = append(lines, m.renderPage(base+uint16(p*16)))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	flagBits := []struct {
		name string
		set  bool
	}{
		{"N", m.chip.Contains(cpu.FlagNegative)},
		{"V", m.chip.Contains(cpu.FlagOverflow)},
		{"U", m.chip.Contains(cpu.FlagUnused)},
		{"B", m.chip.Contains(cpu.FlagBreak)},
		{"D", m.chip.Contains(cpu.FlagDecimal)},
		{"I", m.chip.Contains(cpu.FlagInterrupt)},
		{"Z", m.chip.Contains(cpu.FlagZero)},
		{"C", m.chip.Contains(cpu.FlagCarry)},
	}
	var names, marks strings.Builder
	for _, f := range flagBits {
		fmt.Fprintf(&names, "%s ", f.name)
		if f.set {
			marks.WriteString("/ ")
		} else {
			marks.WriteString("  ")
		}
	}
	return fmt.Sprintf(
		"PC: %04X (was %04X)\n A: %02X\n X: %02X\n Y: %02X\nSP: %02X\n%s\n%s",
		m.chip.PC, m.prevPC, m.chip.A, m.chip.X, m.chip.Y, m.chip.SP,
		names.String(), marks.String(),
	)
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("halted with error: %v\n", m.err)
	}
	text, _ := disassemble.Step(m.chip.PC, m.bus)
	tips := "SPACE/s = step    r = reset    q = quit"
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), "   "+m.status()),
		"",
		text,
		"",
		tips,
		"",
		spew.Sdump(m.chip),
	)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: nesdebug <program-file>")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	b := bus.NewFlat()
	chip, err := cpu.Init(cpu.ChipDef{Bus: b})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	chip.Load(loadBase, data)
	chip.Reset()

	p := tea.NewProgram(model{chip: chip, bus: b})
	finished, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if m, ok := finished.(model); ok && m.err != nil {
		fmt.Println("error:", m.err)
	}
}
