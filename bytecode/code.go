package bytecode

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// Code is a decoded code unit: a module body or a function body. It is
// immutable after creation and safe to share between frames and VMs.
type Code struct {
	id       string
	name     string
	argCount int

	constants []any
	names     []string
	varNames  []string

	raw          []byte
	instructions []Instruction

	// offset -> instruction index, built once so jumps resolve in O(1)
	offsets map[int]int
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	// ID identifies the code unit. A random UUID is used when empty.
	ID string

	// Name of the code unit, e.g. "<module>" or a function name.
	Name string

	// ArgCount is the number of positional parameters. They occupy the
	// leading entries of VarNames.
	ArgCount int

	// Constants may contain nil, bool, int, int64, float64, string, []any
	// (a tuple of constants) and *Code.
	Constants []any

	// Names is the table used by name-indexed instructions.
	Names []string

	// VarNames is the table used by slot-indexed instructions.
	VarNames []string

	// Bytecode is the raw wordcode.
	Bytecode []byte
}

// NewCode decodes and validates the given wordcode and returns an immutable
// Code. Every problem found is reported in the returned error, which is an
// *errz.StructuredError of kind ErrDecode.
func NewCode(params CodeParams) (*Code, error) {
	name := params.Name
	if name == "" {
		name = "<module>"
	}
	id := params.ID
	if id == "" {
		uid, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("generating code id: %w", err)
		}
		id = uid.String()
	}
	constants, err := normalizeConstants(params.Constants)
	if err != nil {
		return nil, decodeError(name, err)
	}
	instructions, err := Decode(params.Bytecode)
	if err != nil {
		return nil, decodeError(name, err)
	}
	code := &Code{
		id:           id,
		name:         name,
		argCount:     params.ArgCount,
		constants:    constants,
		names:        copyStrings(params.Names),
		varNames:     copyStrings(params.VarNames),
		raw:          copyBytes(params.Bytecode),
		instructions: instructions,
		offsets:      make(map[int]int, len(instructions)),
	}
	for i, instr := range instructions {
		code.offsets[instr.Offset] = i
	}
	if err := code.validate(); err != nil {
		return nil, decodeError(name, err)
	}
	return code, nil
}

// ID returns the unique identifier for this code unit.
func (c *Code) ID() string {
	return c.id
}

// Name returns the name of this code unit.
func (c *Code) Name() string {
	return c.name
}

// ArgCount returns the number of positional parameters.
func (c *Code) ArgCount() int {
	return c.argCount
}

// ConstantCount returns the number of constants.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index.
func (c *Code) ConstantAt(index int) any {
	return c.constants[index]
}

// NameCount returns the number of entries in the names table.
func (c *Code) NameCount() int {
	return len(c.names)
}

// NameAt returns the name at the given index.
func (c *Code) NameAt(index int) string {
	return c.names[index]
}

// LocalCount returns the number of entries in the local variable table.
func (c *Code) LocalCount() int {
	return len(c.varNames)
}

// LocalNameAt returns the local variable name at the given index.
func (c *Code) LocalNameAt(index int) string {
	return c.varNames[index]
}

// InstructionCount returns the number of decoded instructions.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given index.
func (c *Code) InstructionAt(index int) Instruction {
	return c.instructions[index]
}

// IndexOf returns the index of the instruction starting at the given offset.
func (c *Code) IndexOf(offset int) (int, bool) {
	index, ok := c.offsets[offset]
	return index, ok
}

// NextOffset returns the offset of the instruction following the one at
// index. For the last instruction this is the length of the wordcode.
func (c *Code) NextOffset(index int) int {
	instr := c.instructions[index]
	return instr.Offset + instr.Size
}

// Bytecode returns a copy of the raw wordcode.
func (c *Code) Bytecode() []byte {
	return copyBytes(c.raw)
}

// Children returns the code units found in the constant pool, in order.
func (c *Code) Children() []*Code {
	var children []*Code
	for _, constant := range c.constants {
		if child, ok := constant.(*Code); ok {
			children = append(children, child)
		}
	}
	return children
}

// Flatten returns this code and all descendants in a flat slice.
func (c *Code) Flatten() []*Code {
	codes := []*Code{c}
	for _, child := range c.Children() {
		codes = append(codes, child.Flatten()...)
	}
	return codes
}

// String returns a short description of the code unit.
func (c *Code) String() string {
	return fmt.Sprintf("<code %s>", c.name)
}
