package asm

import (
	"fmt"
	"strings"

	"github.com/asmbox/emu8086/pkg/inst"
)

// Instruction is one compiled source line: the mnemonic resolved to
// its tag, an optional REP-family prefix, and the classified operands.
type Instruction struct {
	Op     inst.Op
	Prefix inst.Prefix
	Args   []Operand
	Line   int    // 1-based line number in the original source
	Text   string // trimmed instruction text, for diagnostics
}

// Program is an immutable compiled program: the instruction stream and
// the label index. Instruction index = position in the stream.
type Program struct {
	Instrs []Instruction
	Labels map[string]int
	Source []string
}

// Len returns the number of instructions in the stream.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Instrs)
}

// LabelAddress resolves a label (case-sensitive) to its instruction
// index.
func (p *Program) LabelAddress(name string) (int, bool) {
	if p == nil {
		return 0, false
	}
	idx, ok := p.Labels[name]
	return idx, ok
}

// Load compiles an ordered list of source lines. Comments and blank
// lines are dropped, labels are indexed against the next instruction,
// and each remaining line is tokenized, resolved against the mnemonic
// catalog, and arity-checked. The first error aborts the load.
func Load(lines []string) (*Program, error) {
	p := &Program{
		Labels: make(map[string]int),
		Source: lines,
	}

	for i, raw := range lines {
		text := StripComment(raw)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		// Peel leading labels; several labels may stack on one line or
		// on consecutive lines, all mapping to the next instruction.
		for {
			name, rest, ok := splitLabel(text)
			if !ok {
				break
			}
			p.Labels[name] = len(p.Instrs)
			text = rest
		}
		if text == "" {
			continue
		}

		ins, err := ParseInstruction(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		ins.Line = i + 1
		p.Instrs = append(p.Instrs, ins)
	}
	return p, nil
}

// ParseInstruction compiles a single instruction text (comments and
// labels already removed).
func ParseInstruction(text string) (Instruction, error) {
	mnemonic, rest := splitMnemonic(text)

	var prefix inst.Prefix
	if pfx, ok := inst.LookupPrefix(mnemonic); ok {
		prefix = pfx
		mnemonic, rest = splitMnemonic(rest)
		if mnemonic == "" {
			return Instruction{}, fmt.Errorf("%s prefix with no instruction: %w", strings.ToUpper(text), ErrParse)
		}
	}

	op, ok := inst.Lookup(mnemonic)
	if !ok {
		return Instruction{}, fmt.Errorf("%q: %w", mnemonic, ErrUnknownMnemonic)
	}
	if prefix != inst.RepNone && !inst.IsString(op) {
		return Instruction{}, fmt.Errorf("REP prefix on non-string instruction %s: %w", inst.Catalog[op].Name, ErrParse)
	}

	var args []Operand
	if rest != "" {
		for _, tok := range strings.Split(rest, ",") {
			tok = strings.TrimSpace(tok)
			arg, err := ParseOperand(tok)
			if err != nil {
				return Instruction{}, err
			}
			args = append(args, arg)
		}
	}

	info := inst.Catalog[op]
	if len(args) < info.MinArgs || len(args) > info.MaxArgs {
		return Instruction{}, fmt.Errorf("%s takes %d operand(s), got %d: %w",
			info.Name, info.MinArgs, len(args), ErrBadArity)
	}

	return Instruction{Op: op, Prefix: prefix, Args: args, Text: text}, nil
}

// StripComment removes everything from the first unquoted semicolon.
func StripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ';':
			return line[:i]
		}
	}
	return line
}

// splitLabel recognizes a leading `name:` label and returns the name
// and the remainder of the line. A valid label starts with a letter,
// underscore or dot and contains no whitespace.
func splitLabel(text string) (name, rest string, ok bool) {
	colon := strings.IndexByte(text, ':')
	if colon <= 0 {
		return "", "", false
	}
	name = text[:colon]
	if !isIdent(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(text[colon+1:]), true
}

func isIdent(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '.':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(s) > 0
}

// splitMnemonic splits off the first whitespace-delimited token.
func splitMnemonic(text string) (tok, rest string) {
	text = strings.TrimSpace(text)
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' || text[i] == '\t' {
			return text[:i], strings.TrimSpace(text[i+1:])
		}
	}
	return text, ""
}
