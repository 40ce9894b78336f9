package emu

import (
	"fmt"

	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/inst"
)

// exec dispatches one compiled instruction to its handler. The switch
// is on the mnemonic tag resolved at load time; no string comparison
// happens here.
func (e *Emulator) exec(ins *asm.Instruction) error {
	if ins.Prefix != inst.RepNone {
		return e.execRep(ins)
	}

	a := ins.Args
	switch ins.Op {
	// Data transfer
	case inst.MOV:
		return e.mov(a[0], a[1])
	case inst.PUSH:
		return e.pushOp(a[0])
	case inst.POP:
		return e.popOp(a[0])
	case inst.XCHG:
		return e.xchg(a[0], a[1])
	case inst.LEA:
		return e.lea(a[0], a[1])
	case inst.LDS:
		return e.loadPointer(a[0], a[1], segDS)
	case inst.LES:
		return e.loadPointer(a[0], a[1], segES)
	case inst.LAHF:
		return e.lahf()
	case inst.SAHF:
		return e.sahf()
	case inst.PUSHF:
		return e.push(e.state.Flags)
	case inst.POPF:
		return e.popf()
	case inst.PUSHA:
		return e.pusha()
	case inst.POPA:
		return e.popa()
	case inst.XLAT:
		return e.xlat()

	// Arithmetic
	case inst.ADD:
		return e.addLike(a[0], a[1], false)
	case inst.ADC:
		return e.addLike(a[0], a[1], true)
	case inst.SUB:
		return e.subLike(a[0], a[1], false, true)
	case inst.SBB:
		return e.subLike(a[0], a[1], true, true)
	case inst.INC:
		return e.incDec(a[0], 1)
	case inst.DEC:
		return e.incDec(a[0], -1)
	case inst.NEG:
		return e.neg(a[0])
	case inst.MUL:
		return e.mul(a[0])
	case inst.IMUL:
		return e.imul(a[0])
	case inst.DIV:
		return e.div(a[0])
	case inst.IDIV:
		return e.idiv(a[0])
	case inst.CBW:
		return e.cbw()
	case inst.CWD:
		return e.cwd()
	case inst.AAA:
		return e.aaa()
	case inst.AAS:
		return e.aas()
	case inst.DAA:
		return e.daa()
	case inst.DAS:
		return e.das()
	case inst.AAM:
		return e.aam()
	case inst.AAD:
		return e.aad()

	// Logical and compare
	case inst.AND:
		return e.logical(a[0], a[1], opAnd, true)
	case inst.OR:
		return e.logical(a[0], a[1], opOr, true)
	case inst.XOR:
		return e.logical(a[0], a[1], opXor, true)
	case inst.TEST:
		return e.logical(a[0], a[1], opAnd, false)
	case inst.NOT:
		return e.not(a[0])
	case inst.CMP:
		return e.subLike(a[0], a[1], false, false)

	// Shift / rotate
	case inst.SHL, inst.SHR, inst.SAR, inst.ROL, inst.ROR, inst.RCL, inst.RCR:
		return e.shiftRotate(ins.Op, a[0], a[1])

	// String
	case inst.MOVSB, inst.MOVSW, inst.CMPSB, inst.CMPSW, inst.SCASB,
		inst.SCASW, inst.LODSB, inst.LODSW, inst.STOSB, inst.STOSW:
		return e.stringStep(ins.Op)

	// Control transfer
	case inst.JMP:
		return e.jump(a[0])
	case inst.CALL:
		return e.call(a[0])
	case inst.RET:
		return e.ret()
	case inst.RETF:
		return e.retf()
	case inst.JE, inst.JNE, inst.JB, inst.JNB, inst.JBE, inst.JA,
		inst.JL, inst.JNL, inst.JLE, inst.JG, inst.JP, inst.JNP,
		inst.JO, inst.JNO, inst.JS, inst.JNS, inst.JCXZ:
		return e.condJump(ins.Op, a[0])
	case inst.LOOP, inst.LOOPZ, inst.LOOPNZ:
		return e.loop(ins.Op, a[0])

	// Flag / processor control
	case inst.CLC, inst.STC, inst.CMC, inst.CLD, inst.STD, inst.CLI, inst.STI:
		return e.flagOp(ins.Op)
	case inst.HLT:
		return ErrHalt
	case inst.NOP:
		return nil
	case inst.WAIT:
		e.log.Log("WAIT: no coprocessor attached, continuing")
		return nil
	case inst.LOCK:
		e.log.Log("LOCK: bus locking has no effect here")
		return nil
	case inst.ESC:
		e.log.Log("ESC: coprocessor opcodes are not emulated")
		return fmt.Errorf("ESC: %w", ErrUnimplemented)

	// Interrupts and port I/O
	case inst.INT:
		return e.intOp(a[0])
	case inst.INTO:
		return e.into()
	case inst.IRET:
		return e.iret()
	case inst.IN:
		return e.inOp(a[0], a[1])
	case inst.OUT:
		return e.outOp(a[0], a[1])
	}
	return fmt.Errorf("no handler for %s: %w", ins.Op, ErrUnimplemented)
}
