package vm

import (
	"context"
	"fmt"

	"github.com/cloudcmds/framevm/bytecode"
	"github.com/cloudcmds/framevm/object"
	"github.com/cloudcmds/framevm/op"
	"github.com/cloudcmds/framevm/scope"
)

// Function is a user-defined function built by MAKE_FUNCTION. It is immutable
// once built.
type Function struct {
	name        string
	code        *bytecode.Code
	defaults    []object.Object
	kwDefaults  *object.Dict
	annotations object.Object
	closure     *object.Tuple
	scope       *scope.Scope
	vm          *VirtualMachine
}

// Name returns the name of the function's code unit.
func (f *Function) Name() string {
	return f.code.Name()
}

// QualifiedName returns the qualified name given to MAKE_FUNCTION.
func (f *Function) QualifiedName() string {
	if f.name == "" {
		return f.code.Name()
	}
	return f.name
}

// Code returns the function's code unit.
func (f *Function) Code() *bytecode.Code {
	return f.code
}

// Defaults returns the positional default values, if any.
func (f *Function) Defaults() []object.Object {
	return f.defaults
}

// KeywordDefaults returns the keyword-only defaults, or nil when unset.
func (f *Function) KeywordDefaults() *object.Dict {
	return f.kwDefaults
}

// Annotations returns the annotations value, or nil when unset.
func (f *Function) Annotations() object.Object {
	return f.annotations
}

// Closure returns the closure tuple, or nil when unset.
func (f *Function) Closure() *object.Tuple {
	return f.closure
}

// RequiredArgs returns the number of arguments that have no default.
func (f *Function) RequiredArgs() int {
	n := f.code.ArgCount() - len(f.defaults)
	if n < 0 {
		return 0
	}
	return n
}

func (f *Function) Type() object.Type {
	return object.FUNCTION
}

func (f *Function) Inspect() string {
	return fmt.Sprintf("<function %s>", f.QualifiedName())
}

func (f *Function) String() string {
	return f.Inspect()
}

func (f *Function) Interface() any {
	return f
}

func (f *Function) Equals(other object.Object) bool {
	return f == other
}

func (f *Function) IsTruthy() bool {
	return true
}

func (f *Function) RunOperation(opType op.BinaryOpType, right object.Object) (object.Object, error) {
	return nil, object.TypeErrorf("unsupported operand type(s) for %s: 'function' and '%s'",
		opType.String(), right.Type())
}

// Call invokes the function on the VM that created it. During a run this
// pushes a new frame onto the active call stack.
func (f *Function) Call(ctx context.Context, args ...object.Object) (object.Object, error) {
	return f.vm.callFunction(ctx, f, args)
}

// bindArgs returns the full argument list for a call, with trailing
// positional defaults filling in missing arguments.
func (f *Function) bindArgs(args []object.Object) ([]object.Object, error) {
	if err := checkCallArgs(f, len(args)); err != nil {
		return nil, err
	}
	argc := f.code.ArgCount()
	if len(args) == argc {
		return args, nil
	}
	bound := make([]object.Object, argc)
	copy(bound, args)
	offset := argc - len(f.defaults)
	for i := len(args); i < argc; i++ {
		bound[i] = f.defaults[i-offset]
	}
	return bound, nil
}
