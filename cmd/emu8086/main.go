package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asmbox/emu8086/pkg/emu"
	"github.com/asmbox/emu8086/pkg/script"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "emu8086",
		Short: "8086 emulator — interpret line-oriented assembly text",
	}

	var memSize int
	var verbose bool
	rootCmd.PersistentFlags().IntVar(&memSize, "mem", 0, "Linear memory size in bytes (0 = 1 MiB)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log simulated effects of stub instructions")

	newEmu := func() *emu.Emulator {
		e := emu.New(memSize)
		if verbose {
			e.SetLogger(emu.WriterLogger{W: os.Stderr})
		}
		return e
	}

	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Load an assembly file and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(args[0])
			if err != nil {
				return err
			}
			e := newEmu()
			if err := e.LoadProgram(lines); err != nil {
				return err
			}
			if err := e.Run(); err != nil {
				return err
			}
			printRegisters(e)
			return nil
		},
	}

	debugCmd := &cobra.Command{
		Use:   "debug [file]",
		Short: "Load an assembly file and step it interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(args[0])
			if err != nil {
				return err
			}
			e := newEmu()
			if err := e.LoadProgram(lines); err != nil {
				return err
			}
			return debugLoop(e)
		},
	}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive instruction-at-a-time mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl(newEmu())
		},
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file.lua]",
		Short: "Drive the emulator from a Lua script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := script.New(newEmu())
			defer r.Close()
			return r.RunFile(args[0])
		},
	}

	rootCmd.AddCommand(runCmd, debugCmd, replCmd, scriptCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
