package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/asmbox/emu8086/pkg/cpu"
)

// MemExpr is a parsed memory expression: at most one base register
// (BX or BP), at most one index register (SI or DI), and at most one
// displacement. Displacements are hexadecimal, with or without the
// h suffix, and may be negated by their sign operator.
type MemExpr struct {
	Base     cpu.Reg
	HasBase  bool
	Index    cpu.Reg
	HasIndex bool
	Disp     int32
	HasDisp  bool
}

// ParseMemExpr parses the inside of a bracketed memory expression
// against the grammar
//
//	expr := term ((+|-) term)*
//	term := BX | BP | SI | DI | hex
//
// Duplicate bases, duplicate indexes, duplicate displacements, negated
// registers and unknown terms are rejected.
func ParseMemExpr(inner string) (MemExpr, error) {
	var expr MemExpr
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return expr, fmt.Errorf("empty memory expression: %w", ErrParse)
	}

	neg := false
	first := true
	rest := inner
	for {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return expr, fmt.Errorf("dangling operator in [%s]: %w", inner, ErrParse)
		}
		if !first {
			switch rest[0] {
			case '+':
				neg = false
			case '-':
				neg = true
			default:
				return expr, fmt.Errorf("expected + or - in [%s]: %w", inner, ErrParse)
			}
			rest = strings.TrimSpace(rest[1:])
		} else if rest[0] == '-' {
			neg = true
			rest = strings.TrimSpace(rest[1:])
		}
		first = false

		end := strings.IndexAny(rest, "+-")
		var term string
		if end < 0 {
			term, rest = rest, ""
		} else {
			term, rest = strings.TrimSpace(rest[:end]), rest[end:]
		}
		if term == "" {
			return expr, fmt.Errorf("missing term in [%s]: %w", inner, ErrParse)
		}

		if err := expr.addTerm(term, neg, inner); err != nil {
			return MemExpr{}, err
		}
		neg = false
		if rest == "" {
			return expr, nil
		}
	}
}

func (e *MemExpr) addTerm(term string, neg bool, inner string) error {
	if r, ok := cpu.RegByName(term); ok {
		if neg {
			return fmt.Errorf("register %s cannot be negated in [%s]: %w", term, inner, ErrParse)
		}
		switch r {
		case cpu.BX, cpu.BP:
			if e.HasBase {
				return fmt.Errorf("duplicate base register in [%s]: %w", inner, ErrParse)
			}
			e.Base = r
			e.HasBase = true
		case cpu.SI, cpu.DI:
			if e.HasIndex {
				return fmt.Errorf("duplicate index register in [%s]: %w", inner, ErrParse)
			}
			e.Index = r
			e.HasIndex = true
		default:
			return fmt.Errorf("%s is not a valid base or index register in [%s]: %w", term, inner, ErrParse)
		}
		return nil
	}
	if _, ok := cpu.Reg8ByName(term); ok {
		return fmt.Errorf("%s is not a valid base or index register in [%s]: %w", term, inner, ErrParse)
	}

	digits := term
	if strings.HasSuffix(digits, "h") || strings.HasSuffix(digits, "H") {
		digits = digits[:len(digits)-1]
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || v > 0xFFFF {
		return fmt.Errorf("bad displacement %q in [%s]: %w", term, inner, ErrParse)
	}
	if e.HasDisp {
		return fmt.Errorf("duplicate displacement in [%s]: %w", inner, ErrParse)
	}
	e.Disp = int32(v)
	if neg {
		e.Disp = -e.Disp
	}
	e.HasDisp = true
	return nil
}

// EffectiveAddress evaluates the 16-bit effective address against the
// given register state. The sum wraps modulo 2^16; no segment is
// applied.
func (e MemExpr) EffectiveAddress(s *cpu.State) uint16 {
	var ea uint16
	if e.HasBase {
		ea += s.Reg(e.Base)
	}
	if e.HasIndex {
		ea += s.Reg(e.Index)
	}
	if e.HasDisp {
		ea += uint16(e.Disp)
	}
	return ea
}
