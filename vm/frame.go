package vm

import (
	"github.com/cloudcmds/framevm/bytecode"
	"github.com/cloudcmds/framevm/errz"
	"github.com/cloudcmds/framevm/object"
	"github.com/cloudcmds/framevm/scope"
)

// returnedIP marks a frame whose code has returned.
const returnedIP = -1

// Frame is the execution context of one code unit activation. It owns an
// instruction pointer, an operand stack and a scope layer. None of these are
// shared with any other frame.
type Frame struct {
	code  *bytecode.Code
	fn    *Function // nil for the module frame
	ip    int
	stack []object.Object
	scope *scope.Scope
}

func newFrame(code *bytecode.Code, fn *Function, layer *scope.Scope) *Frame {
	return &Frame{
		code:  code,
		fn:    fn,
		scope: layer,
		stack: make([]object.Object, 0, 8),
	}
}

// Code returns the code unit executing in this frame.
func (f *Frame) Code() *bytecode.Code {
	return f.code
}

// Function returns the function being executed, or nil for the module frame.
func (f *Frame) Function() *Function {
	return f.fn
}

// IP returns the index of the current instruction.
func (f *Frame) IP() int {
	return f.ip
}

// Returned returns true once the frame has executed a return.
func (f *Frame) Returned() bool {
	return f.ip == returnedIP
}

// Scope returns the frame's own scope layer.
func (f *Frame) Scope() *scope.Scope {
	return f.scope
}

// Name returns the function name, or the code unit name for module frames.
func (f *Frame) Name() string {
	if f.fn != nil {
		return f.fn.QualifiedName()
	}
	return f.code.Name()
}

// location returns the position of the current instruction.
func (f *Frame) location() errz.SourceLocation {
	loc := errz.SourceLocation{Code: f.code.Name()}
	ip := f.ip
	if ip >= f.code.InstructionCount() {
		ip = f.code.InstructionCount() - 1
	}
	if ip >= 0 {
		instr := f.code.InstructionAt(ip)
		loc.Offset = instr.Offset
		loc.Opname = instr.Name()
	}
	return loc
}

// jumpTo moves the instruction pointer to the instruction at offset.
func (f *Frame) jumpTo(offset int) {
	index, ok := f.code.IndexOf(offset)
	if !ok {
		panic(errz.Internalf("jump target %d is not an instruction in %s", offset, f.code.Name()))
	}
	f.ip = index
}

// jumpBy moves the instruction pointer delta bytes past the end of the
// current instruction.
func (f *Frame) jumpBy(delta int) {
	f.jumpTo(f.code.NextOffset(f.ip) + delta)
}
