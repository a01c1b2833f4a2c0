// Package op defines the opcodes executed by the framevm virtual machine.
//
// Opcode numbers follow the CPython 3.8 wordcode layout so that code units
// produced by an external compiler for that format can be decoded directly.
// Only a subset of that instruction set is defined here.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

// HaveArgument is the lowest opcode that carries an argument. Opcodes below
// this value ignore their argument byte.
const HaveArgument Code = 90

const (
	Invalid Code = 0

	// Stack
	PopTop Code = 1
	RotTwo Code = 2
	DupTop Code = 4
	Nop    Code = 9

	// Unary
	UnaryNegative Code = 11
	UnaryNot      Code = 12

	// Binary
	BinaryMultiply    Code = 20
	BinaryModulo      Code = 22
	BinaryAdd         Code = 23
	BinarySubtract    Code = 24
	BinarySubscr      Code = 25
	BinaryFloorDivide Code = 26
	BinaryTrueDivide  Code = 27
	InplaceAdd        Code = 55
	InplaceSubtract   Code = 56
	InplaceMultiply   Code = 57

	// Iteration
	GetIter Code = 68

	// Execution
	ReturnValue Code = 83

	// Block setup (decoded and listed, never executed)
	PopBlock  Code = 87
	PopExcept Code = 89

	// Opcodes from here on carry an argument
	StoreName      Code = 90
	UnpackSequence Code = 92
	ForIter        Code = 93

	// Load
	LoadConst Code = 100
	LoadName  Code = 101

	// Build
	BuildTuple Code = 102
	BuildList  Code = 103
	BuildMap   Code = 105

	// Compare
	CompareOp Code = 107

	// Jump
	JumpForward      Code = 110
	JumpIfFalseOrPop Code = 111
	JumpIfTrueOrPop  Code = 112
	JumpAbsolute     Code = 113
	PopJumpIfFalse   Code = 114
	PopJumpIfTrue    Code = 115

	LoadGlobal Code = 116

	SetupFinally Code = 122

	LoadFast  Code = 124
	StoreFast Code = 125

	RaiseVarargs Code = 130
	CallFunction Code = 131
	MakeFunction Code = 132

	LoadDeref Code = 136

	ExtendedArg Code = 144
	ListAppend  Code = 145
)

// BinaryOpType describes a type of binary operation, as in an operation that
// takes two operands. For example, addition, subtraction, multiplication, etc.
type BinaryOpType uint8

const (
	Add         BinaryOpType = 1
	Subtract    BinaryOpType = 2
	Multiply    BinaryOpType = 3
	TrueDivide  BinaryOpType = 4
	FloorDivide BinaryOpType = 5
	Modulo      BinaryOpType = 6
)

// String returns a string representation of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case TrueDivide:
		return "/"
	case FloorDivide:
		return "//"
	case Modulo:
		return "%"
	default:
		return ""
	}
}

// CompareOpType describes a type of comparison operation. The values are the
// indexes used by the COMPARE_OP argument.
type CompareOpType uint8

const (
	LessThan           CompareOpType = 0
	LessThanOrEqual    CompareOpType = 1
	Equal              CompareOpType = 2
	NotEqual           CompareOpType = 3
	GreaterThan        CompareOpType = 4
	GreaterThanOrEqual CompareOpType = 5
	In                 CompareOpType = 6
	NotIn              CompareOpType = 7
	Is                 CompareOpType = 8
	IsNot              CompareOpType = 9
)

// CompareOpCount is the number of valid comparison operators.
const CompareOpCount = 10

// String returns a string representation of the comparison operation.
// For example "<" for less than.
func (cop CompareOpType) String() string {
	switch cop {
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case In:
		return "in"
	case NotIn:
		return "not in"
	case Is:
		return "is"
	case IsNot:
		return "is not"
	default:
		return ""
	}
}

// Flags consumed by MAKE_FUNCTION. Each set bit means one more value was
// pushed below the code unit and qualified name.
const (
	FuncDefaults    = 0x01
	FuncKwDefaults  = 0x02
	FuncAnnotations = 0x04
	FuncClosure     = 0x08
)

// ArgKind describes how the argument of an opcode is interpreted.
type ArgKind uint8

const (
	ArgNone ArgKind = iota
	ArgConst
	ArgName
	ArgLocal
	ArgFree
	ArgCompare
	ArgCount
	ArgFlags
	ArgJumpAbs
	ArgJumpRel
)

// Info contains information about an opcode.
type Info struct {
	Code    Code
	Name    string
	ArgKind ArgKind
}

// HasArg returns true if the opcode carries a meaningful argument.
func (i Info) HasArg() bool {
	return i.Code >= HaveArgument
}

// IsJump returns true if the opcode argument is a jump target.
func (i Info) IsJump() bool {
	return i.ArgKind == ArgJumpAbs || i.ArgKind == ArgJumpRel
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op   Code
		name string
		arg  ArgKind
	}
	ops := []opInfo{
		{PopTop, "POP_TOP", ArgNone},
		{RotTwo, "ROT_TWO", ArgNone},
		{DupTop, "DUP_TOP", ArgNone},
		{Nop, "NOP", ArgNone},
		{UnaryNegative, "UNARY_NEGATIVE", ArgNone},
		{UnaryNot, "UNARY_NOT", ArgNone},
		{BinaryMultiply, "BINARY_MULTIPLY", ArgNone},
		{BinaryModulo, "BINARY_MODULO", ArgNone},
		{BinaryAdd, "BINARY_ADD", ArgNone},
		{BinarySubtract, "BINARY_SUBTRACT", ArgNone},
		{BinarySubscr, "BINARY_SUBSCR", ArgNone},
		{BinaryFloorDivide, "BINARY_FLOOR_DIVIDE", ArgNone},
		{BinaryTrueDivide, "BINARY_TRUE_DIVIDE", ArgNone},
		{InplaceAdd, "INPLACE_ADD", ArgNone},
		{InplaceSubtract, "INPLACE_SUBTRACT", ArgNone},
		{InplaceMultiply, "INPLACE_MULTIPLY", ArgNone},
		{GetIter, "GET_ITER", ArgNone},
		{ReturnValue, "RETURN_VALUE", ArgNone},
		{PopBlock, "POP_BLOCK", ArgNone},
		{PopExcept, "POP_EXCEPT", ArgNone},
		{StoreName, "STORE_NAME", ArgName},
		{UnpackSequence, "UNPACK_SEQUENCE", ArgCount},
		{ForIter, "FOR_ITER", ArgJumpRel},
		{LoadConst, "LOAD_CONST", ArgConst},
		{LoadName, "LOAD_NAME", ArgName},
		{BuildTuple, "BUILD_TUPLE", ArgCount},
		{BuildList, "BUILD_LIST", ArgCount},
		{BuildMap, "BUILD_MAP", ArgCount},
		{CompareOp, "COMPARE_OP", ArgCompare},
		{JumpForward, "JUMP_FORWARD", ArgJumpRel},
		{JumpIfFalseOrPop, "JUMP_IF_FALSE_OR_POP", ArgJumpAbs},
		{JumpIfTrueOrPop, "JUMP_IF_TRUE_OR_POP", ArgJumpAbs},
		{JumpAbsolute, "JUMP_ABSOLUTE", ArgJumpAbs},
		{PopJumpIfFalse, "POP_JUMP_IF_FALSE", ArgJumpAbs},
		{PopJumpIfTrue, "POP_JUMP_IF_TRUE", ArgJumpAbs},
		{LoadGlobal, "LOAD_GLOBAL", ArgName},
		{SetupFinally, "SETUP_FINALLY", ArgJumpRel},
		{LoadFast, "LOAD_FAST", ArgLocal},
		{StoreFast, "STORE_FAST", ArgLocal},
		{RaiseVarargs, "RAISE_VARARGS", ArgCount},
		{CallFunction, "CALL_FUNCTION", ArgCount},
		{MakeFunction, "MAKE_FUNCTION", ArgFlags},
		{LoadDeref, "LOAD_DEREF", ArgFree},
		{ExtendedArg, "EXTENDED_ARG", ArgNone},
		{ListAppend, "LIST_APPEND", ArgCount},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:    o.op,
			Name:    o.name,
			ArgKind: o.arg,
		}
		byName[o.name] = o.op
	}
}

var byName = map[string]Code{}

// GetInfo returns information about the given opcode. The Name is empty for
// opcodes this package does not define.
func GetInfo(op Code) Info {
	return infos[op]
}

// IsDefined returns true if the opcode is part of the instruction set.
func IsDefined(op Code) bool {
	return infos[op].Name != ""
}

// Lookup returns the opcode with the given name, e.g. "LOAD_CONST".
func Lookup(name string) (Code, bool) {
	code, ok := byName[name]
	return code, ok
}

// String returns the name of the opcode.
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "<unknown>"
}
