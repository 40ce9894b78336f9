package emu

import "errors"

// Error kinds surfaced by the emulator. Load-time kinds (parse, arity,
// unknown mnemonic) live in pkg/asm; memory bounds in pkg/cpu. All are
// matched with errors.Is.
var (
	// ErrOperandMismatch is returned when 8-bit and 16-bit operand
	// widths cannot be reconciled.
	ErrOperandMismatch = errors.New("operand width mismatch")
	// ErrUnknownLabel is returned for a control-flow target not in the
	// label index.
	ErrUnknownLabel = errors.New("unknown label")
	// ErrInvalidRegister is returned for a token shaped like a register
	// where a register was required but the name is not known.
	ErrInvalidRegister = errors.New("invalid register")
	// ErrDivisionByZero is returned by DIV/IDIV with a zero divisor, or
	// when the quotient does not fit the destination.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrUnimplemented marks a known mnemonic with intentionally
	// stubbed semantics.
	ErrUnimplemented = errors.New("not implemented")
	// ErrHalt is the signal raised by HLT. The stepper converts it to
	// Finished; it is never a failure.
	ErrHalt = errors.New("halt")
)
