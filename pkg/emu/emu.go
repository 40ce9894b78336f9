// Package emu implements the 8086 interpretive emulator: machine
// state, the instruction dispatch table, the seven handler families,
// the single-step driver, and the read-only debug surface.
package emu

import (
	"errors"
	"fmt"

	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/cpu"
)

// StepResult is the outcome of one stepper invocation.
type StepResult int

const (
	Continue StepResult = iota
	Finished
)

func (r StepResult) String() string {
	if r == Finished {
		return "finished"
	}
	return "continue"
}

// Emulator owns the machine state, the loaded program, and the
// breakpoint set. It is strictly single-threaded: callers serialize
// their invocations.
type Emulator struct {
	state  cpu.State
	mem    cpu.Memory
	prog   *asm.Program
	breaks map[int]struct{}
	log    Logger
}

// New creates an emulator with the given linear memory size (bytes).
// Non-positive sizes get the 1 MiB default.
func New(memSize int) *Emulator {
	e := &Emulator{
		mem:    cpu.NewMemory(memSize),
		breaks: make(map[int]struct{}),
		log:    nopLogger{},
	}
	e.state.Reset()
	return e
}

// SetLogger installs a trace logger for the stub instructions. A nil
// logger restores the no-op default.
func (e *Emulator) SetLogger(l Logger) {
	if l == nil {
		e.log = nopLogger{}
	} else {
		e.log = l
	}
}

// LoadProgram compiles the source lines, replaces the current program
// and label index, and resets all machine state.
func (e *Emulator) LoadProgram(lines []string) error {
	prog, err := asm.Load(lines)
	if err != nil {
		return err
	}
	e.prog = prog
	e.Reset()
	return nil
}

// Reset re-initializes registers, flags and memory. The program, label
// index and breakpoints are preserved.
func (e *Emulator) Reset() {
	e.state.Reset()
	e.mem.Zero()
}

// State exposes the register file for direct manipulation by drivers
// and tests.
func (e *Emulator) State() *cpu.State { return &e.state }

// Program returns the loaded program, or nil.
func (e *Emulator) Program() *asm.Program { return e.prog }

// IP returns the instruction pointer.
func (e *Emulator) IP() uint16 { return e.state.IP }

// SetIP moves the instruction pointer.
func (e *Emulator) SetIP(i uint16) { e.state.IP = i }

// HasLabel reports whether the label exists in the current program.
func (e *Emulator) HasLabel(name string) bool {
	_, ok := e.prog.LabelAddress(name)
	return ok
}

// LabelAddress resolves a label to its instruction index.
func (e *Emulator) LabelAddress(name string) (int, error) {
	idx, ok := e.prog.LabelAddress(name)
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownLabel)
	}
	return idx, nil
}

// ReadByte reads program memory.
func (e *Emulator) ReadByte(addr uint16) (uint8, error) { return e.mem.ReadByte(addr) }

// ReadWord reads a little-endian word.
func (e *Emulator) ReadWord(addr uint16) (uint16, error) { return e.mem.ReadWord(addr) }

// WriteByte writes program memory.
func (e *Emulator) WriteByte(addr uint16, v uint8) error { return e.mem.WriteByte(addr, v) }

// WriteWord writes a little-endian word.
func (e *Emulator) WriteWord(addr uint16, v uint16) error { return e.mem.WriteWord(addr, v) }

// Step executes the instruction at IP. IP is advanced before dispatch
// so a control-transfer handler that writes IP wins over the default
// advance. HLT leaves IP on the halting instruction and reports
// Finished. Errors carry the offending instruction index; state
// mutated before the error remains visible.
func (e *Emulator) Step() (StepResult, error) {
	if e.prog == nil || int(e.state.IP) >= e.prog.Len() {
		return Finished, nil
	}
	cur := e.state.IP
	e.state.IP++
	ins := &e.prog.Instrs[cur]
	if err := e.exec(ins); err != nil {
		if errors.Is(err, ErrHalt) {
			e.state.IP = cur
			return Finished, nil
		}
		return Continue, fmt.Errorf("instruction %d (%s): %w", cur, ins.Text, err)
	}
	return Continue, nil
}

// RunUntil steps while the predicate holds. It stops without error on
// Finished; handler errors are surfaced to the caller with the partial
// effects already applied.
func (e *Emulator) RunUntil(pred func(*Emulator) bool) error {
	for pred(e) {
		res, err := e.Step()
		if err != nil {
			return err
		}
		if res == Finished {
			return nil
		}
	}
	return nil
}

// Run steps until the program finishes, a breakpoint is hit, or a
// handler fails. The instruction at the starting IP always executes,
// so Run can resume from a breakpoint.
func (e *Emulator) Run() error {
	first := true
	return e.RunUntil(func(e *Emulator) bool {
		if first {
			first = false
			return true
		}
		return !e.HasBreak(int(e.state.IP))
	})
}

// ExecuteLine compiles and executes a single instruction without
// touching the program stream. Control transfers resolve against the
// loaded program's label index and move IP as usual.
func (e *Emulator) ExecuteLine(text string) error {
	text = asm.StripComment(text)
	ins, err := asm.ParseInstruction(text)
	if err != nil {
		return err
	}
	return e.exec(&ins)
}
