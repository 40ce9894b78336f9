package emu

import (
	"sort"

	"github.com/asmbox/emu8086/pkg/cpu"
)

// Snapshot is a read-only copy of the register file.
type Snapshot struct {
	AX, BX, CX, DX uint16
	SI, DI, BP, SP uint16
	CS, DS, ES, SS uint16
	IP             uint16
	Flags          uint16
}

// Registers returns a snapshot of the register file.
func (e *Emulator) Registers() Snapshot {
	s := &e.state
	return Snapshot{
		AX: s.Reg(cpu.AX), BX: s.Reg(cpu.BX), CX: s.Reg(cpu.CX), DX: s.Reg(cpu.DX),
		SI: s.Reg(cpu.SI), DI: s.Reg(cpu.DI), BP: s.Reg(cpu.BP), SP: s.Reg(cpu.SP),
		CS: s.SegVal(cpu.CS), DS: s.SegVal(cpu.DS), ES: s.SegVal(cpu.ES), SS: s.SegVal(cpu.SS),
		IP: s.IP, Flags: s.Flags,
	}
}

// MemoryWindow copies length bytes starting at start. The window is
// clipped to the backing array.
func (e *Emulator) MemoryWindow(start uint16, length int) []byte {
	if length <= 0 || int(start) >= len(e.mem) {
		return nil
	}
	end := int(start) + length
	if end > len(e.mem) {
		end = len(e.mem)
	}
	out := make([]byte, end-int(start))
	copy(out, e.mem[start:end])
	return out
}

// StackWindow returns the live stack as words from SP upward to the
// empty-stack mark. An empty slice means the stack is empty.
func (e *Emulator) StackWindow() []uint16 {
	var words []uint16
	for sp := e.state.Reg(cpu.SP); sp < cpu.InitialSP; sp += 2 {
		w, err := e.mem.ReadWord(sp)
		if err != nil {
			break
		}
		words = append(words, w)
	}
	return words
}

// Labels returns a copy of the label index.
func (e *Emulator) Labels() map[string]int {
	out := make(map[string]int)
	if e.prog != nil {
		for k, v := range e.prog.Labels {
			out[k] = v
		}
	}
	return out
}

// ListingLine is one instruction of the program listing, annotated
// with the current-IP and breakpoint markers.
type ListingLine struct {
	Index   int
	Text    string
	Current bool
	Break   bool
}

// Listing renders the instruction stream with markers.
func (e *Emulator) Listing() []ListingLine {
	if e.prog == nil {
		return nil
	}
	lines := make([]ListingLine, 0, e.prog.Len())
	for i, ins := range e.prog.Instrs {
		lines = append(lines, ListingLine{
			Index:   i,
			Text:    ins.Text,
			Current: int(e.state.IP) == i,
			Break:   e.HasBreak(i),
		})
	}
	return lines
}

// AddBreak sets a breakpoint at an instruction index.
func (e *Emulator) AddBreak(i int) { e.breaks[i] = struct{}{} }

// RemoveBreak clears a breakpoint.
func (e *Emulator) RemoveBreak(i int) { delete(e.breaks, i) }

// ToggleBreak flips a breakpoint and reports the new state.
func (e *Emulator) ToggleBreak(i int) bool {
	if e.HasBreak(i) {
		e.RemoveBreak(i)
		return false
	}
	e.AddBreak(i)
	return true
}

// HasBreak reports whether an index is in the breakpoint set.
func (e *Emulator) HasBreak(i int) bool {
	_, ok := e.breaks[i]
	return ok
}

// Breakpoints returns the sorted breakpoint indices.
func (e *Emulator) Breakpoints() []int {
	out := make([]int, 0, len(e.breaks))
	for i := range e.breaks {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
