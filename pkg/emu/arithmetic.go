package emu

import (
	"fmt"

	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/cpu"
)

// addLike implements ADD and ADC. The result is computed in a 32-bit
// container so the carry survives truncation; OF and AF are derived
// from the operand signs.
func (e *Emulator) addLike(dst, src asm.Operand, withCarry bool) error {
	isByte, err := width(dst, src)
	if err != nil {
		return err
	}
	a, err := e.get(dst, isByte)
	if err != nil {
		return err
	}
	b, err := e.get(src, isByte)
	if err != nil {
		return err
	}
	wide := uint32(a) + uint32(b)
	if withCarry && e.state.Flag(cpu.FlagCF) {
		wide++
	}
	r := truncate(wide, isByte)
	if err := e.set(dst, r, isByte); err != nil {
		return err
	}
	e.state.UpdateFlags(wide, isByte, true)
	e.state.SetAddFlags(a, b, r, isByte)
	return nil
}

// subLike implements SUB, SBB and CMP (store=false). Borrow shows up
// as an out-of-range 32-bit difference, which the flag updater reads
// as a carry.
func (e *Emulator) subLike(dst, src asm.Operand, withBorrow, store bool) error {
	isByte, err := width(dst, src)
	if err != nil {
		return err
	}
	a, err := e.get(dst, isByte)
	if err != nil {
		return err
	}
	b, err := e.get(src, isByte)
	if err != nil {
		return err
	}
	wide := uint32(a) - uint32(b)
	if withBorrow && e.state.Flag(cpu.FlagCF) {
		wide--
	}
	r := truncate(wide, isByte)
	if store {
		if err := e.set(dst, r, isByte); err != nil {
			return err
		}
	}
	e.state.UpdateFlags(wide, isByte, true)
	e.state.SetSubFlags(a, b, r, isByte)
	return nil
}

// incDec adds delta (+1 or -1) without touching CF.
func (e *Emulator) incDec(dst asm.Operand, delta int) error {
	isByte, err := widthOne(dst)
	if err != nil {
		return err
	}
	a, err := e.get(dst, isByte)
	if err != nil {
		return err
	}
	wide := uint32(a) + uint32(int32(delta))
	r := truncate(wide, isByte)
	if err := e.set(dst, r, isByte); err != nil {
		return err
	}
	e.state.UpdateFlags(wide, isByte, false)
	if delta > 0 {
		e.state.SetAddFlags(a, 1, r, isByte)
	} else {
		e.state.SetSubFlags(a, 1, r, isByte)
	}
	return nil
}

// neg computes the two's complement. CF is set unless the operand was
// zero; negating the minimum signed value overflows.
func (e *Emulator) neg(dst asm.Operand) error {
	isByte, err := widthOne(dst)
	if err != nil {
		return err
	}
	a, err := e.get(dst, isByte)
	if err != nil {
		return err
	}
	wide := uint32(0) - uint32(a)
	r := truncate(wide, isByte)
	if err := e.set(dst, r, isByte); err != nil {
		return err
	}
	e.state.UpdateFlags(wide, isByte, false)
	e.state.SetSubFlags(0, a, r, isByte)
	e.state.SetFlag(cpu.FlagCF, a != 0)
	return nil
}

func (e *Emulator) mul(src asm.Operand) error {
	isByte, err := widthOne(src)
	if err != nil {
		return err
	}
	v, err := e.get(src, isByte)
	if err != nil {
		return err
	}
	if isByte {
		prod := uint16(e.state.Reg8(cpu.AL)) * v
		e.state.SetReg(cpu.AX, prod)
		e.state.UpdateFlags(uint32(prod), false, false)
		upper := prod>>8 != 0
		e.state.SetFlag(cpu.FlagCF, upper)
		e.state.SetFlag(cpu.FlagOF, upper)
		return nil
	}
	prod := uint32(e.state.Reg(cpu.AX)) * uint32(v)
	e.state.SetReg(cpu.AX, uint16(prod))
	e.state.SetReg(cpu.DX, uint16(prod>>16))
	e.state.UpdateFlags(prod, false, false)
	upper := prod>>16 != 0
	e.state.SetFlag(cpu.FlagCF, upper)
	e.state.SetFlag(cpu.FlagOF, upper)
	return nil
}

func (e *Emulator) imul(src asm.Operand) error {
	isByte, err := widthOne(src)
	if err != nil {
		return err
	}
	v, err := e.get(src, isByte)
	if err != nil {
		return err
	}
	if isByte {
		prod := int16(int8(e.state.Reg8(cpu.AL))) * int16(int8(v))
		e.state.SetReg(cpu.AX, uint16(prod))
		e.state.UpdateFlags(uint32(uint16(prod)), false, false)
		// Upper half significant when AH is not the sign fill of AL.
		fits := prod >= -128 && prod <= 127
		e.state.SetFlag(cpu.FlagCF, !fits)
		e.state.SetFlag(cpu.FlagOF, !fits)
		return nil
	}
	prod := int32(int16(e.state.Reg(cpu.AX))) * int32(int16(v))
	e.state.SetReg(cpu.AX, uint16(prod))
	e.state.SetReg(cpu.DX, uint16(uint32(prod)>>16))
	e.state.UpdateFlags(uint32(prod), false, false)
	fits := prod >= -32768 && prod <= 32767
	e.state.SetFlag(cpu.FlagCF, !fits)
	e.state.SetFlag(cpu.FlagOF, !fits)
	return nil
}

func (e *Emulator) div(src asm.Operand) error {
	isByte, err := widthOne(src)
	if err != nil {
		return err
	}
	v, err := e.get(src, isByte)
	if err != nil {
		return err
	}
	if v == 0 {
		return fmt.Errorf("DIV %s: %w", src.Text, ErrDivisionByZero)
	}
	if isByte {
		dividend := e.state.Reg(cpu.AX)
		q := dividend / v
		if q > 0xFF {
			return fmt.Errorf("DIV %s: quotient overflow: %w", src.Text, ErrDivisionByZero)
		}
		e.state.SetReg8(cpu.AL, uint8(q))
		e.state.SetReg8(cpu.AH, uint8(dividend%v))
		return nil
	}
	dividend := uint32(e.state.Reg(cpu.DX))<<16 | uint32(e.state.Reg(cpu.AX))
	q := dividend / uint32(v)
	if q > 0xFFFF {
		return fmt.Errorf("DIV %s: quotient overflow: %w", src.Text, ErrDivisionByZero)
	}
	e.state.SetReg(cpu.AX, uint16(q))
	e.state.SetReg(cpu.DX, uint16(dividend%uint32(v)))
	return nil
}

func (e *Emulator) idiv(src asm.Operand) error {
	isByte, err := widthOne(src)
	if err != nil {
		return err
	}
	v, err := e.get(src, isByte)
	if err != nil {
		return err
	}
	if isByte {
		divisor := int16(int8(v))
		if divisor == 0 {
			return fmt.Errorf("IDIV %s: %w", src.Text, ErrDivisionByZero)
		}
		dividend := int16(e.state.Reg(cpu.AX))
		q := dividend / divisor
		if q < -128 || q > 127 {
			return fmt.Errorf("IDIV %s: quotient overflow: %w", src.Text, ErrDivisionByZero)
		}
		e.state.SetReg8(cpu.AL, uint8(q))
		e.state.SetReg8(cpu.AH, uint8(dividend%divisor))
		return nil
	}
	divisor := int32(int16(v))
	if divisor == 0 {
		return fmt.Errorf("IDIV %s: %w", src.Text, ErrDivisionByZero)
	}
	dividend := int32(uint32(e.state.Reg(cpu.DX))<<16 | uint32(e.state.Reg(cpu.AX)))
	q := dividend / divisor
	if q < -32768 || q > 32767 {
		return fmt.Errorf("IDIV %s: quotient overflow: %w", src.Text, ErrDivisionByZero)
	}
	e.state.SetReg(cpu.AX, uint16(q))
	e.state.SetReg(cpu.DX, uint16(dividend%divisor))
	return nil
}

// cbw sign-extends AL into AX.
func (e *Emulator) cbw() error {
	e.state.SetReg(cpu.AX, uint16(int16(int8(e.state.Reg8(cpu.AL)))))
	return nil
}

// cwd sign-extends AX into DX:AX.
func (e *Emulator) cwd() error {
	if e.state.Reg(cpu.AX)&0x8000 != 0 {
		e.state.SetReg(cpu.DX, 0xFFFF)
	} else {
		e.state.SetReg(cpu.DX, 0)
	}
	return nil
}

func (e *Emulator) aaa() error {
	al := e.state.Reg8(cpu.AL)
	if al&0x0F > 9 || e.state.Flag(cpu.FlagAF) {
		e.state.SetReg8(cpu.AL, al+6)
		e.state.SetReg8(cpu.AH, e.state.Reg8(cpu.AH)+1)
		e.state.SetFlag(cpu.FlagAF, true)
		e.state.SetFlag(cpu.FlagCF, true)
	} else {
		e.state.SetFlag(cpu.FlagAF, false)
		e.state.SetFlag(cpu.FlagCF, false)
	}
	e.state.SetReg8(cpu.AL, e.state.Reg8(cpu.AL)&0x0F)
	return nil
}

func (e *Emulator) aas() error {
	al := e.state.Reg8(cpu.AL)
	if al&0x0F > 9 || e.state.Flag(cpu.FlagAF) {
		e.state.SetReg8(cpu.AL, al-6)
		e.state.SetReg8(cpu.AH, e.state.Reg8(cpu.AH)-1)
		e.state.SetFlag(cpu.FlagAF, true)
		e.state.SetFlag(cpu.FlagCF, true)
	} else {
		e.state.SetFlag(cpu.FlagAF, false)
		e.state.SetFlag(cpu.FlagCF, false)
	}
	e.state.SetReg8(cpu.AL, e.state.Reg8(cpu.AL)&0x0F)
	return nil
}

func (e *Emulator) daa() error {
	al := e.state.Reg8(cpu.AL)
	if al&0x0F > 9 || e.state.Flag(cpu.FlagAF) {
		al += 6
		e.state.SetFlag(cpu.FlagAF, true)
	}
	if e.state.Reg8(cpu.AL) > 0x99 || e.state.Flag(cpu.FlagCF) {
		al += 0x60
		e.state.SetFlag(cpu.FlagCF, true)
	}
	e.state.SetReg8(cpu.AL, al)
	e.state.UpdateFlags(uint32(al), true, false)
	return nil
}

func (e *Emulator) das() error {
	al := e.state.Reg8(cpu.AL)
	if al&0x0F > 9 || e.state.Flag(cpu.FlagAF) {
		al -= 6
		e.state.SetFlag(cpu.FlagAF, true)
	}
	if e.state.Reg8(cpu.AL) > 0x99 || e.state.Flag(cpu.FlagCF) {
		al -= 0x60
		e.state.SetFlag(cpu.FlagCF, true)
	}
	e.state.SetReg8(cpu.AL, al)
	e.state.UpdateFlags(uint32(al), true, false)
	return nil
}

// aam splits AL into decimal digits: AH gets the tens, AL the units.
func (e *Emulator) aam() error {
	al := e.state.Reg8(cpu.AL)
	e.state.SetReg8(cpu.AH, al/10)
	e.state.SetReg8(cpu.AL, al%10)
	e.state.UpdateFlags(uint32(e.state.Reg(cpu.AX)), false, false)
	return nil
}

// aad folds the unpacked digits back: AL <- AH*10 + AL, AH <- 0.
func (e *Emulator) aad() error {
	al := e.state.Reg8(cpu.AH)*10 + e.state.Reg8(cpu.AL)
	e.state.SetReg8(cpu.AL, al)
	e.state.SetReg8(cpu.AH, 0)
	e.state.UpdateFlags(uint32(e.state.Reg(cpu.AX)), false, false)
	return nil
}

func truncate(wide uint32, isByte bool) uint16 {
	if isByte {
		return uint16(wide & 0xFF)
	}
	return uint16(wide & 0xFFFF)
}
