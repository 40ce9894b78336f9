package emu

import (
	"fmt"

	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/cpu"
)

// stubPorts is the fixed port table consulted by IN. Unlisted ports
// read as zero. Writes are logged, never stored.
var stubPorts = map[uint16]uint16{
	0x60: 0x00, // keyboard data
	0x61: 0x10, // system control port B
	0x64: 0x1C, // keyboard status
}

// intOp mirrors the hardware bookkeeping of a software interrupt —
// push FLAGS, CS, IP and clear IF — without transferring control.
// Vector dispatch is out of scope.
func (e *Emulator) intOp(arg asm.Operand) error {
	if arg.Kind != asm.KindImm {
		return fmt.Errorf("INT vector must be an immediate: %w", asm.ErrParse)
	}
	if err := e.push(e.state.Flags); err != nil {
		return err
	}
	if err := e.push(e.state.SegVal(cpu.CS)); err != nil {
		return err
	}
	if err := e.push(e.state.IP); err != nil {
		return err
	}
	e.state.SetFlag(cpu.FlagIF, false)
	e.log.Log(fmt.Sprintf("INT %02Xh: simulated, no vector dispatch", arg.Imm))
	return nil
}

// into raises interrupt 4 bookkeeping iff OF is set.
func (e *Emulator) into() error {
	if !e.state.Flag(cpu.FlagOF) {
		e.log.Log("INTO: overflow clear, no interrupt")
		return nil
	}
	return e.intOp(asm.Operand{Kind: asm.KindImm, Imm: 4, Text: "4"})
}

// iret pops IP, CS and FLAGS in that order, regardless of whether a
// matching INT pushed them.
func (e *Emulator) iret() error {
	ip, err := e.pop()
	if err != nil {
		return err
	}
	cs, err := e.pop()
	if err != nil {
		return err
	}
	flags, err := e.pop()
	if err != nil {
		return err
	}
	e.state.IP = ip
	e.state.SetSeg(cpu.CS, cs)
	e.state.Flags = flags
	e.log.Log("IRET: simulated return")
	return nil
}

// inOp reads from the fixed stub port table into AL or AX.
func (e *Emulator) inOp(dst, port asm.Operand) error {
	p, err := e.portNumber(port)
	if err != nil {
		return err
	}
	v := stubPorts[p]
	switch {
	case dst.Kind == asm.KindReg8 && dst.R8 == cpu.AL:
		e.state.SetReg8(cpu.AL, uint8(v))
	case dst.Kind == asm.KindReg16 && dst.R16 == cpu.AX:
		e.state.SetReg(cpu.AX, v)
	default:
		return fmt.Errorf("IN destination must be AL or AX, got %s: %w", dst.Text, ErrOperandMismatch)
	}
	e.log.Log(fmt.Sprintf("IN %s, %02Xh: read %04Xh from stub port", dst.Text, p, v))
	return nil
}

// outOp logs the write; there is no device behind the port.
func (e *Emulator) outOp(port, src asm.Operand) error {
	p, err := e.portNumber(port)
	if err != nil {
		return err
	}
	var v uint16
	switch {
	case src.Kind == asm.KindReg8 && src.R8 == cpu.AL:
		v = uint16(e.state.Reg8(cpu.AL))
	case src.Kind == asm.KindReg16 && src.R16 == cpu.AX:
		v = e.state.Reg(cpu.AX)
	default:
		return fmt.Errorf("OUT source must be AL or AX, got %s: %w", src.Text, ErrOperandMismatch)
	}
	e.log.Log(fmt.Sprintf("OUT %02Xh, %s: wrote %04Xh to stub port", p, src.Text, v))
	return nil
}

// portNumber accepts an immediate port or the DX register.
func (e *Emulator) portNumber(op asm.Operand) (uint16, error) {
	switch {
	case op.Kind == asm.KindImm:
		return op.Imm, nil
	case op.Kind == asm.KindReg16 && op.R16 == cpu.DX:
		return e.state.Reg(cpu.DX), nil
	}
	return 0, fmt.Errorf("port must be an immediate or DX, got %s: %w", op.Text, asm.ErrParse)
}
