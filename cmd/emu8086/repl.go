package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/asmbox/emu8086/pkg/emu"
)

// repl reads one line at a time: debugger commands first, anything
// else is executed as an assembly instruction. Errors are reported and
// the loop continues; only I/O failure is fatal.
func repl(e *emu.Emulator) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Println("8086 emulator")
		fmt.Println("Commands:")
		fmt.Println("  '?'                  - display help")
		fmt.Println("  'reg'                - display registers")
		fmt.Println("  'stack'              - display stack")
		fmt.Println("  'mem ADDR COUNT'     - display memory (hex args, e.g. 'mem 100 80')")
		fmt.Println("  'exit'               - quit")
		fmt.Println("Enter assembly instructions:")
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())

		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return nil
		case line == "?":
			printHelp()
			continue
		case line == "reg":
			printRegisters(e)
			continue
		case line == "stack":
			printStack(e)
			continue
		case strings.HasPrefix(line, "mem "):
			fields := strings.Fields(line[4:])
			if len(fields) != 2 {
				fmt.Println("usage: mem ADDR COUNT (hex)")
				continue
			}
			addr, err1 := strconv.ParseUint(fields[0], 16, 16)
			count, err2 := strconv.ParseUint(fields[1], 16, 16)
			if err1 != nil || err2 != nil {
				fmt.Println("usage: mem ADDR COUNT (hex)")
				continue
			}
			printMemory(e, uint16(addr), int(count))
			continue
		}

		if err := e.ExecuteLine(line); err != nil {
			if errors.Is(err, emu.ErrHalt) {
				fmt.Println("halted")
				continue
			}
			fmt.Println("Error:", err)
		}
	}
}

func printRegisters(e *emu.Emulator) {
	r := e.Registers()
	fmt.Printf("AX: %04X %016b AH: %08b AL: %08b\n", r.AX, r.AX, uint8(r.AX>>8), uint8(r.AX))
	fmt.Printf("BX: %04X %016b BH: %08b BL: %08b\n", r.BX, r.BX, uint8(r.BX>>8), uint8(r.BX))
	fmt.Printf("CX: %04X %016b CH: %08b CL: %08b\n", r.CX, r.CX, uint8(r.CX>>8), uint8(r.CX))
	fmt.Printf("DX: %04X %016b DH: %08b DL: %08b\n", r.DX, r.DX, uint8(r.DX>>8), uint8(r.DX))
	fmt.Printf("SI: %04X  DI: %04X  BP: %04X  SP: %04X\n", r.SI, r.DI, r.BP, r.SP)
	fmt.Printf("CS: %04X  DS: %04X  ES: %04X  SS: %04X\n", r.CS, r.DS, r.ES, r.SS)
	fmt.Printf("IP: %04X  FLAGS: %04X %016b\n", r.IP, r.Flags, r.Flags)
}

func printStack(e *emu.Emulator) {
	words := e.StackWindow()
	if len(words) == 0 {
		fmt.Println("stack is empty")
		return
	}
	r := e.Registers()
	for i, w := range words {
		fmt.Printf("%04X: %04X\n", r.SP+uint16(2*i), w)
	}
}

// printMemory renders a 16-byte-per-row hexdump with an ASCII gutter.
func printMemory(e *emu.Emulator, addr uint16, count int) {
	data := e.MemoryWindow(addr, count)
	for off := 0; off < len(data); off += 16 {
		row := data[off:min(off+16, len(data))]
		fmt.Printf("%04X: ", addr+uint16(off))
		for i := 0; i < 16; i++ {
			if i < len(row) {
				fmt.Printf("%02X ", row[i])
			} else {
				fmt.Print("   ")
			}
		}
		fmt.Print(" | ")
		for _, b := range row {
			if b >= 0x20 && b <= 0x7E {
				fmt.Printf("%c", b)
			} else {
				fmt.Print(".")
			}
		}
		fmt.Println()
	}
}

func printHelp() {
	fmt.Println("Supported instruction families:")
	fmt.Println("  Data transfer:  MOV PUSH POP XCHG LEA LDS LES LAHF SAHF PUSHF POPF PUSHA POPA XLAT")
	fmt.Println("  Arithmetic:     ADD ADC SUB SBB INC DEC NEG MUL IMUL DIV IDIV CBW CWD AAA AAS DAA DAS AAM AAD")
	fmt.Println("  Logical:        AND OR XOR NOT TEST CMP")
	fmt.Println("  Shift/rotate:   SHL/SAL SHR SAR ROL ROR RCL RCR (count: immediate or CL)")
	fmt.Println("  String:         MOVSB/W CMPSB/W SCASB/W LODSB/W STOSB/W with REP/REPE/REPNE")
	fmt.Println("  Control:        JMP CALL RET RETF Jcc JCXZ LOOP LOOPZ LOOPNZ (targets are labels)")
	fmt.Println("  Processor:      CLC STC CMC CLD STD CLI STI HLT NOP WAIT LOCK ESC")
	fmt.Println("  Interrupt/IO:   INT INTO IRET IN OUT (simulated)")
	fmt.Println("Immediates: decimal (42) or hex with h suffix (1Fh, 0FFFFh).")
	fmt.Println("Memory: [BX+SI+10h] — one base (BX/BP), one index (SI/DI), one displacement.")
}
