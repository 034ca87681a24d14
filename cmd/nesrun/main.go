// Command nesrun loads a raw 6502 program image and runs it to completion
// (BRK) or to a fatal error, optionally streaming a trace line per
// instruction. It is the host-process bootstrap the core spec treats as an
// external collaborator.
package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/urfave/cli.v2"

	"github.com/mos6502/nes6502/bus"
	"github.com/mos6502/nes6502/cpu"
	"github.com/mos6502/nes6502/trace"
)

func main() {
	app := &cli.App{
		Name:    "nesrun",
		Usage:   "run a raw 6502 program image against the NES memory map",
		Version: "v0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "program",
				Aliases: []string{"p"},
				Usage:   "path to a raw program image",
			},
			&cli.UintFlag{
				Name:  "base",
				Usage: "address the program is loaded at and the reset vector points to",
				Value: 0x8000,
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print a trace line after every instruction",
			},
		},
		Action: run,
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	path := c.String("program")
	if path == "" {
		cli.ShowAppHelp(c)
		return cli.Exit("", 86)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading program: %v", err), 1)
	}

	b := bus.NewNES()
	chip, err := cpu.Init(cpu.ChipDef{Bus: b})
	if err != nil {
		return cli.Exit(fmt.Sprintf("initializing cpu: %v", err), 1)
	}

	base := uint16(c.Uint("base"))

	var cb cpu.Callback
	if c.Bool("trace") {
		cb = trace.Printer(b, func(line string) { fmt.Println(line) })
	}

	if err := chip.LoadAndRun(base, data, cb); err != nil {
		return cli.Exit(fmt.Sprintf("run halted: %v", err), 1)
	}
	fmt.Printf("halted: A=%02X X=%02X Y=%02X SP=%02X P=%02X PC=%04X\n",
		chip.A, chip.X, chip.Y, chip.SP, chip.P, chip.PC)
	return nil
}
