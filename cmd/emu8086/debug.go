package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/asmbox/emu8086/pkg/emu"
)

// debugLoop single-steps a loaded program from stdin commands:
// n/next, r/run, b <index> to toggle a breakpoint, program for the
// listing, reg/stack/mem for state, q to quit.
func debugLoop(e *emu.Emulator) error {
	fmt.Println("Commands: n(ext), r(un), b <index>, program, reg, stack, mem ADDR COUNT, q(uit)")
	printCurrent(e)

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("-> ")
		if !in.Scan() {
			return in.Err()
		}
		line := strings.ToLower(strings.TrimSpace(in.Text()))

		switch {
		case line == "q" || line == "quit":
			return nil
		case line == "" || line == "n" || line == "next":
			res, err := e.Step()
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			if res == emu.Finished {
				fmt.Println("program finished")
				printRegisters(e)
				return nil
			}
			printCurrent(e)
		case line == "r" || line == "run":
			if err := e.Run(); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			if int(e.IP()) < e.Program().Len() && e.HasBreak(int(e.IP())) {
				fmt.Println("breakpoint")
				printCurrent(e)
				continue
			}
			fmt.Println("program finished")
			printRegisters(e)
			return nil
		case strings.HasPrefix(line, "b "):
			idx, err := strconv.Atoi(strings.TrimSpace(line[2:]))
			if err != nil {
				fmt.Println("Unknown instruction index:", err)
				continue
			}
			if e.ToggleBreak(idx) {
				fmt.Println("breakpoint set at", idx)
			} else {
				fmt.Println("breakpoint removed at", idx)
			}
		case line == "program":
			for _, l := range e.Listing() {
				marker := "  "
				if l.Current {
					marker = "=>"
				}
				bp := " "
				if l.Break {
					bp = "*"
				}
				fmt.Printf("%s%s %3d: %s\n", marker, bp, l.Index, l.Text)
			}
		case line == "reg":
			printRegisters(e)
		case line == "stack":
			printStack(e)
		case strings.HasPrefix(line, "mem "):
			fields := strings.Fields(line[4:])
			if len(fields) == 2 {
				addr, err1 := strconv.ParseUint(fields[0], 16, 16)
				count, err2 := strconv.ParseUint(fields[1], 16, 16)
				if err1 == nil && err2 == nil {
					printMemory(e, uint16(addr), int(count))
					continue
				}
			}
			fmt.Println("usage: mem ADDR COUNT (hex)")
		default:
			fmt.Println("unknown command:", line)
		}
	}
}

func printCurrent(e *emu.Emulator) {
	p := e.Program()
	ip := int(e.IP())
	if p != nil && ip < p.Len() {
		fmt.Printf("  next instruction> %d: %s\n", ip, p.Instrs[ip].Text)
	}
}
