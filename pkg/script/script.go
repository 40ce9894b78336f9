// Package script embeds a Lua interpreter as a headless driver for the
// emulator: load a program, step it, poke registers and memory, and
// assert on the results — automation without a UI attached.
package script

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/asmbox/emu8086/pkg/cpu"
	"github.com/asmbox/emu8086/pkg/emu"
)

// Runner binds one emulator instance to one Lua state.
type Runner struct {
	emu *emu.Emulator
	L   *lua.LState
}

// New creates a runner and registers the driver functions as globals:
//
//	load(source)        compile a program from a source string
//	step()              one step; returns "continue" or "finished"
//	run()               run to completion or breakpoint
//	exec(line)          execute one instruction outside the program
//	reg(name)           read a register by name (AX, AL, IP, FLAGS, ...)
//	setreg(name, v)     write a register by name
//	readb/readw(addr)   read memory
//	writeb/writew(a, v) write memory
//	breakat(index)      toggle a breakpoint
//	label(name)         label index, or nil
func New(e *emu.Emulator) *Runner {
	r := &Runner{emu: e, L: lua.NewState()}
	r.register()
	return r
}

// Close releases the Lua state.
func (r *Runner) Close() { r.L.Close() }

// Run executes a Lua chunk.
func (r *Runner) Run(chunk string) error { return r.L.DoString(chunk) }

// RunFile executes a Lua file.
func (r *Runner) RunFile(path string) error { return r.L.DoFile(path) }

func (r *Runner) register() {
	fns := map[string]lua.LGFunction{
		"load":   r.luaLoad,
		"step":   r.luaStep,
		"run":    r.luaRun,
		"exec":   r.luaExec,
		"reg":    r.luaReg,
		"setreg": r.luaSetReg,
		"readb":  r.luaReadByte,
		"readw":  r.luaReadWord,
		"writeb": r.luaWriteByte,
		"writew": r.luaWriteWord,
		"breakat": r.luaBreakAt,
		"label":  r.luaLabel,
	}
	for name, fn := range fns {
		r.L.SetGlobal(name, r.L.NewFunction(fn))
	}
}

func (r *Runner) luaLoad(L *lua.LState) int {
	src := L.CheckString(1)
	if err := r.emu.LoadProgram(strings.Split(src, "\n")); err != nil {
		L.RaiseError("load: %v", err)
	}
	return 0
}

func (r *Runner) luaStep(L *lua.LState) int {
	res, err := r.emu.Step()
	if err != nil {
		L.RaiseError("step: %v", err)
	}
	L.Push(lua.LString(res.String()))
	return 1
}

func (r *Runner) luaRun(L *lua.LState) int {
	if err := r.emu.Run(); err != nil {
		L.RaiseError("run: %v", err)
	}
	return 0
}

func (r *Runner) luaExec(L *lua.LState) int {
	if err := r.emu.ExecuteLine(L.CheckString(1)); err != nil {
		L.RaiseError("exec: %v", err)
	}
	return 0
}

func (r *Runner) luaReg(L *lua.LState) int {
	v, err := r.readReg(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (r *Runner) luaSetReg(L *lua.LState) int {
	if err := r.writeReg(L.CheckString(1), uint16(L.CheckInt(2))); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (r *Runner) luaReadByte(L *lua.LState) int {
	b, err := r.emu.ReadByte(uint16(L.CheckInt(1)))
	if err != nil {
		L.RaiseError("readb: %v", err)
	}
	L.Push(lua.LNumber(b))
	return 1
}

func (r *Runner) luaReadWord(L *lua.LState) int {
	w, err := r.emu.ReadWord(uint16(L.CheckInt(1)))
	if err != nil {
		L.RaiseError("readw: %v", err)
	}
	L.Push(lua.LNumber(w))
	return 1
}

func (r *Runner) luaWriteByte(L *lua.LState) int {
	if err := r.emu.WriteByte(uint16(L.CheckInt(1)), uint8(L.CheckInt(2))); err != nil {
		L.RaiseError("writeb: %v", err)
	}
	return 0
}

func (r *Runner) luaWriteWord(L *lua.LState) int {
	if err := r.emu.WriteWord(uint16(L.CheckInt(1)), uint16(L.CheckInt(2))); err != nil {
		L.RaiseError("writew: %v", err)
	}
	return 0
}

func (r *Runner) luaBreakAt(L *lua.LState) int {
	on := r.emu.ToggleBreak(L.CheckInt(1))
	L.Push(lua.LBool(on))
	return 1
}

func (r *Runner) luaLabel(L *lua.LState) int {
	idx, err := r.emu.LabelAddress(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
	} else {
		L.Push(lua.LNumber(idx))
	}
	return 1
}

func (r *Runner) readReg(name string) (uint16, error) {
	s := r.emu.State()
	switch strings.ToUpper(name) {
	case "IP":
		return s.IP, nil
	case "FLAGS":
		return s.Flags, nil
	}
	if r8, ok := cpu.Reg8ByName(name); ok {
		return uint16(s.Reg8(r8)), nil
	}
	if reg, ok := cpu.RegByName(name); ok {
		return s.Reg(reg), nil
	}
	if sr, ok := cpu.SegByName(name); ok {
		return s.SegVal(sr), nil
	}
	return 0, fmt.Errorf("reg: unknown register %q", name)
}

func (r *Runner) writeReg(name string, v uint16) error {
	s := r.emu.State()
	switch strings.ToUpper(name) {
	case "IP":
		s.IP = v
		return nil
	case "FLAGS":
		s.Flags = v
		return nil
	}
	if r8, ok := cpu.Reg8ByName(name); ok {
		s.SetReg8(r8, uint8(v))
		return nil
	}
	if reg, ok := cpu.RegByName(name); ok {
		s.SetReg(reg, v)
		return nil
	}
	if sr, ok := cpu.SegByName(name); ok {
		s.SetSeg(sr, v)
		return nil
	}
	return fmt.Errorf("setreg: unknown register %q", name)
}
