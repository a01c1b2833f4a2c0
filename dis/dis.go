// Package dis supports analysis of framevm code units by disassembling them.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/cloudcmds/framevm/bytecode"
	"github.com/cloudcmds/framevm/internal/table"
	"github.com/cloudcmds/framevm/object"
	"github.com/cloudcmds/framevm/op"
	"github.com/fatih/color"
)

// Instruction represents a single decoded instruction and its argument.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Arg        int
	HasArg     bool
	Annotation string
	Constant   any
}

// Disassemble returns a listing of the instructions in the given code unit.
// Nested code units are not expanded; see Dump.
func Disassemble(code *bytecode.Code) ([]Instruction, error) {
	instructions := make([]Instruction, 0, code.InstructionCount())
	for i := 0; i < code.InstructionCount(); i++ {
		instr := code.InstructionAt(i)
		info := op.GetInfo(instr.Op)
		item := Instruction{
			Offset: instr.Offset,
			Name:   info.Name,
			Opcode: instr.Op,
			Arg:    instr.Arg,
			HasArg: info.HasArg(),
		}
		var err error
		switch info.ArgKind {
		case op.ArgConst:
			item.Constant, err = getConstantValue(code, instr.Arg)
			if err == nil {
				item.Annotation, err = inspectConstant(item.Constant)
			}
		case op.ArgName:
			item.Annotation, err = getName(code, instr.Arg)
		case op.ArgLocal:
			item.Annotation, err = getLocalVariableName(code, instr.Arg)
		case op.ArgFree:
			item.Annotation = fmt.Sprintf("closure[%d]", instr.Arg)
		case op.ArgCompare:
			item.Annotation = op.CompareOpType(instr.Arg).String()
		case op.ArgFlags:
			item.Annotation = formatFlags(instr.Arg)
		case op.ArgJumpAbs:
			item.Annotation = fmt.Sprintf("to %d", instr.Arg)
		case op.ArgJumpRel:
			item.Annotation = fmt.Sprintf("to %d", code.NextOffset(i)+instr.Arg)
		}
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, item)
	}
	return instructions, nil
}

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) error {
	bold := color.New(color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()
	cyan := color.New(color.FgHiCyan).SprintFunc()

	var lines [][]string
	for _, instr := range instructions {
		var values []string
		values = append(values, fmt.Sprintf("%d", instr.Offset))
		values = append(values, bold(instr.Name))
		if instr.HasArg {
			values = append(values, fmt.Sprintf("%d", instr.Arg))
		} else {
			values = append(values, "")
		}
		switch c := instr.Constant.(type) {
		case int64, float64, bool:
			values = append(values, yellow(instr.Annotation))
		case string:
			annotation := instr.Annotation
			if len(c) > 80 {
				annotation = object.NewString(c[:77] + "...").Inspect()
			}
			values = append(values, green(annotation))
		case *bytecode.Code:
			values = append(values, magenta(instr.Annotation))
		default:
			if instr.Annotation != "" {
				values = append(values, cyan(instr.Annotation))
			} else {
				values = append(values, "")
			}
		}
		lines = append(lines, values)
	}

	return table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "ARG", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

// Dump writes a listing of the code unit followed by every code unit nested
// in its constants, depth first.
func Dump(w io.Writer, code *bytecode.Code) error {
	for i, unit := range code.Flatten() {
		instructions, err := Disassemble(unit)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Disassembly of <code object %s>:\n", unit.Name()); err != nil {
			return err
		}
		if err := Print(instructions, w); err != nil {
			return err
		}
	}
	return nil
}

func inspectConstant(value any) (string, error) {
	obj, err := object.FromConstant(value)
	if err != nil {
		return "", err
	}
	return obj.Inspect(), nil
}

func formatFlags(flags int) string {
	var names []string
	if flags&op.FuncDefaults != 0 {
		names = append(names, "defaults")
	}
	if flags&op.FuncKwDefaults != 0 {
		names = append(names, "kwdefaults")
	}
	if flags&op.FuncAnnotations != 0 {
		names = append(names, "annotations")
	}
	if flags&op.FuncClosure != 0 {
		names = append(names, "closure")
	}
	return strings.Join(names, ", ")
}

func getLocalVariableName(code *bytecode.Code, index int) (string, error) {
	if code.LocalCount() <= index {
		return "", fmt.Errorf("local variable index out of range: %d", index)
	}
	return code.LocalNameAt(index), nil
}

func getConstantValue(code *bytecode.Code, index int) (any, error) {
	if code.ConstantCount() <= index {
		return nil, fmt.Errorf("constant index out of range: %d", index)
	}
	return code.ConstantAt(index), nil
}

func getName(code *bytecode.Code, index int) (string, error) {
	if code.NameCount() <= index {
		return "", fmt.Errorf("name index out of range: %d", index)
	}
	return code.NameAt(index), nil
}
