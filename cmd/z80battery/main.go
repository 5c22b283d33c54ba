// Command z80battery runs .in/.expected test batteries against the Z80
// executor and disassembles raw binary images.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charmbracelet/lipgloss"

	"github.com/darrenedale/Spectrum-sub003/disasm"
	"github.com/darrenedale/Spectrum-sub003/harness"
	"github.com/darrenedale/Spectrum-sub003/iodevice"
	"github.com/darrenedale/Spectrum-sub003/memory"
	"github.com/darrenedale/Spectrum-sub003/z80"
)

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "z80battery",
		Short: "Drive the Z80 executor against fixture batteries and disassemble code",
	}
	root.AddCommand(runCmd(), disasmCmd(), execCmd())
	return root
}

func runCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "run <dir>",
		Short: "Run every .in/.expected case found in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := harness.Load(args[0])
			if err != nil {
				return fmt.Errorf("z80battery: %w", err)
			}
			failures, err := b.Run()
			if err != nil {
				return fmt.Errorf("z80battery: %w", err)
			}

			styled := term.IsTerminal(int(os.Stdout.Fd()))
			if len(failures) == 0 {
				printStatus(styled, true, "all cases passed")
				return nil
			}

			printStatus(styled, false, fmt.Sprintf("%d failure(s)", len(failures)))
			for _, f := range failures {
				fmt.Println(f.String())
			}
			if verbose {
				fmt.Println(spew.Sdump(failures))
			}
			return fmt.Errorf("z80battery: %d failure(s)", len(failures))
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "dump the full failure set with spew")
	return cmd
}

func printStatus(styled, ok bool, msg string) {
	if !styled {
		fmt.Println(msg)
		return
	}
	if ok {
		fmt.Println(passStyle.Render("PASS") + " " + dimStyle.Render(msg))
		return
	}
	fmt.Println(failStyle.Render("FAIL") + " " + dimStyle.Render(msg))
}

func disasmCmd() *cobra.Command {
	var (
		origin uint16
		count  int
	)
	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Disassemble a raw binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("z80battery: %w", err)
			}
			image := make([]byte, 0x10000)
			for i, b := range data {
				image[origin+uint16(i)] = b
			}
			r := disasm.NewSliceReader(image)
			for _, line := range disasm.Listing(r, origin, count) {
				fmt.Printf("%04X  % -12X %s\n", line.Address, line.Bytes, line.Mnemonic)
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&origin, "org", 0, "address the first byte of the file is loaded at")
	cmd.Flags().IntVar(&count, "count", 16, "number of instructions to decode")
	return cmd
}

func execCmd() *cobra.Command {
	var (
		origin  uint16
		entry   uint16
		cycles  uint64
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "exec <file>",
		Short: "Run a raw binary image on flat RAM for a fixed T-state budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("z80battery: %w", err)
			}

			mem := memory.NewFlatRAM()
			for i, b := range data {
				mem.WriteByte(origin+uint16(i), b)
			}
			io := iodevice.NewBus()
			cpu := z80.New(mem, io)
			cpu.PC = entry

			spent := cpu.RunFor(cycles)
			fmt.Printf("ran %d T-states (budget %d)\n", spent, cycles)
			if verbose {
				fmt.Println(spew.Sdump(cpu))
			} else {
				fmt.Printf("PC=%04X SP=%04X AF=%02X%02X BC=%02X%02X DE=%02X%02X HL=%02X%02X\n",
					cpu.PC, cpu.SP, cpu.A, cpu.F, cpu.B, cpu.C, cpu.D, cpu.E, cpu.H, cpu.L)
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&origin, "org", 0, "address the file is loaded at")
	cmd.Flags().Uint16Var(&entry, "entry", 0, "initial PC")
	cmd.Flags().Uint64Var(&cycles, "cycles", 1000, "T-state budget to run for")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "dump the full CPU state with spew")
	return cmd
}
