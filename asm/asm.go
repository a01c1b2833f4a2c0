// Package asm assembles a small text format into bytecode code units.
//
// The format is line oriented. A unit starts with ".code NAME [ARGCOUNT]" and
// ends with ".end". Inside a unit, ".varnames", ".names" and ".consts" declare
// table entries up front (useful when order matters, e.g. parameters), labels
// are written as "name:" and instructions as "OPNAME [ARG]". Comments start
// with ";".
//
// Instruction arguments are resolved by opcode:
//
//	LOAD_CONST 1             constants: 1, 2.5, None, True, 'text', (1, 2), @unit
//	LOAD_NAME a              names table entries, added on first use
//	STORE_FAST x             local variable table entries, added on first use
//	COMPARE_OP >             comparison operators, including "not in" and "is not"
//	POP_JUMP_IF_FALSE else   labels, or numeric offsets
//	CALL_FUNCTION 2          plain integers
//
// A "#N" argument is used as a raw index. "@unit" refers to a unit defined
// earlier in the same source. The last unit in the source is returned.
package asm

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudcmds/framevm/bytecode"
	"github.com/cloudcmds/framevm/op"
)

type pendingInstr struct {
	line  int
	op    op.Code
	arg   int
	label string
}

type unit struct {
	name      string
	argCount  int
	constants []any
	names     []string
	varNames  []string
	labels    map[string]int // label -> index of the following instruction
	instrs    []pendingInstr
}

type assembler struct {
	units map[string]*bytecode.Code
	last  *bytecode.Code
	cur   *unit
}

// Assemble parses the source and returns the last code unit it defines.
func Assemble(src string) (*bytecode.Code, error) {
	a := &assembler{units: map[string]*bytecode.Code{}}
	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := a.line(scanner.Text()); err != nil {
			return nil, fmt.Errorf("asm: line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("asm: %w", err)
	}
	if a.cur != nil {
		return nil, fmt.Errorf("asm: unit %q is missing .end", a.cur.name)
	}
	if a.last == nil {
		return nil, fmt.Errorf("asm: no code units defined")
	}
	return a.last, nil
}

// MustAssemble is like Assemble but panics on error. It is intended for
// tests and package-level fixtures.
func MustAssemble(src string) *bytecode.Code {
	code, err := Assemble(src)
	if err != nil {
		panic(err)
	}
	return code
}

func (a *assembler) line(text string) error {
	if i := commentIndex(text); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	fields := strings.Fields(text)
	directive := fields[0]
	if strings.HasPrefix(directive, ".") {
		return a.directive(directive, strings.TrimSpace(text[len(directive):]))
	}
	if a.cur == nil {
		return fmt.Errorf("instruction outside of a .code block")
	}
	if strings.HasSuffix(directive, ":") && len(fields) == 1 {
		label := strings.TrimSuffix(directive, ":")
		if _, exists := a.cur.labels[label]; exists {
			return fmt.Errorf("duplicate label %q", label)
		}
		a.cur.labels[label] = len(a.cur.instrs)
		return nil
	}
	return a.instruction(directive, strings.TrimSpace(text[len(directive):]))
}

func (a *assembler) directive(name, rest string) error {
	switch name {
	case ".code":
		if a.cur != nil {
			return fmt.Errorf("nested .code blocks are not supported")
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 || len(fields) > 2 {
			return fmt.Errorf(".code expects NAME [ARGCOUNT]")
		}
		u := &unit{name: fields[0], labels: map[string]int{}}
		if len(fields) == 2 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("invalid argument count %q", fields[1])
			}
			u.argCount = n
		}
		a.cur = u
		return nil
	case ".end":
		if a.cur == nil {
			return fmt.Errorf(".end without .code")
		}
		code, err := a.cur.build()
		if err != nil {
			return err
		}
		a.units[a.cur.name] = code
		a.last = code
		a.cur = nil
		return nil
	}
	if a.cur == nil {
		return fmt.Errorf("%s outside of a .code block", name)
	}
	switch name {
	case ".varnames":
		for _, field := range strings.Fields(rest) {
			a.cur.varNames = appendUnique(a.cur.varNames, field)
		}
	case ".names":
		for _, field := range strings.Fields(rest) {
			a.cur.names = appendUnique(a.cur.names, field)
		}
	case ".consts":
		items, err := splitTopLevel(rest)
		if err != nil {
			return err
		}
		for _, item := range items {
			value, err := a.parseConst(item)
			if err != nil {
				return err
			}
			a.cur.constants = append(a.cur.constants, value)
		}
	default:
		return fmt.Errorf("unknown directive %s", name)
	}
	return nil
}

func (a *assembler) instruction(opname, arg string) error {
	code, ok := op.Lookup(strings.ToUpper(opname))
	if !ok || code == op.ExtendedArg {
		return fmt.Errorf("unknown instruction %q", opname)
	}
	info := op.GetInfo(code)
	instr := pendingInstr{op: code}
	if !info.HasArg() {
		if arg != "" {
			return fmt.Errorf("%s takes no argument", info.Name)
		}
		a.cur.instrs = append(a.cur.instrs, instr)
		return nil
	}
	if arg == "" {
		return fmt.Errorf("%s requires an argument", info.Name)
	}
	if raw, ok := rawIndex(arg); ok {
		instr.arg = raw
		a.cur.instrs = append(a.cur.instrs, instr)
		return nil
	}
	var err error
	switch info.ArgKind {
	case op.ArgConst:
		var value any
		value, err = a.parseConst(arg)
		if err == nil {
			instr.arg = a.cur.constIndex(value)
		}
	case op.ArgName:
		a.cur.names = appendUnique(a.cur.names, arg)
		instr.arg = indexOf(a.cur.names, arg)
	case op.ArgLocal:
		a.cur.varNames = appendUnique(a.cur.varNames, arg)
		instr.arg = indexOf(a.cur.varNames, arg)
	case op.ArgCompare:
		instr.arg, err = compareIndex(arg)
	case op.ArgJumpAbs, op.ArgJumpRel:
		if n, convErr := strconv.Atoi(arg); convErr == nil {
			instr.arg = n
		} else {
			instr.label = arg
		}
	default:
		instr.arg, err = strconv.Atoi(arg)
		if err != nil {
			err = fmt.Errorf("%s expects an integer argument (got %q)", info.Name, arg)
		}
	}
	if err != nil {
		return err
	}
	a.cur.instrs = append(a.cur.instrs, instr)
	return nil
}

// build resolves labels and encodes the unit. Instruction sizes depend on
// argument widths, which depend on label offsets, so offsets are recomputed
// until they stop changing.
func (u *unit) build() (*bytecode.Code, error) {
	for label, index := range u.labels {
		if index >= len(u.instrs) {
			return nil, fmt.Errorf("label %q does not precede an instruction", label)
		}
	}
	offsets := make([]int, len(u.instrs)+1)
	for range 8 {
		changed := false
		offset := 0
		for i, instr := range u.instrs {
			if offsets[i] != offset {
				offsets[i] = offset
				changed = true
			}
			arg, err := u.resolve(i, instr, offsets)
			if err != nil {
				return nil, err
			}
			offset += bytecode.EncodedSize(arg)
		}
		if offsets[len(u.instrs)] != offset {
			offsets[len(u.instrs)] = offset
			changed = true
		}
		if !changed {
			break
		}
	}
	instructions := make([]bytecode.Instruction, 0, len(u.instrs))
	for i, instr := range u.instrs {
		arg, err := u.resolve(i, instr, offsets)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, bytecode.Instruction{Op: instr.op, Arg: arg})
	}
	raw, err := bytecode.Encode(instructions)
	if err != nil {
		return nil, err
	}
	return bytecode.NewCode(bytecode.CodeParams{
		Name:      u.name,
		ArgCount:  u.argCount,
		Constants: u.constants,
		Names:     u.names,
		VarNames:  u.varNames,
		Bytecode:  raw,
	})
}

func (u *unit) resolve(index int, instr pendingInstr, offsets []int) (int, error) {
	if instr.label == "" {
		return instr.arg, nil
	}
	target, ok := u.labels[instr.label]
	if !ok {
		return 0, fmt.Errorf("undefined label %q", instr.label)
	}
	if op.GetInfo(instr.op).ArgKind == op.ArgJumpAbs {
		return offsets[target], nil
	}
	delta := offsets[target] - offsets[index+1]
	if delta < 0 {
		return 0, fmt.Errorf("%s cannot jump backwards to %q", instr.op, instr.label)
	}
	return delta, nil
}

func (u *unit) constIndex(value any) int {
	for i, existing := range u.constants {
		if sameConst(existing, value) {
			return i
		}
	}
	u.constants = append(u.constants, value)
	return len(u.constants) - 1
}
