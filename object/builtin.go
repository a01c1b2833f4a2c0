package object

import (
	"context"
	"fmt"

	"github.com/cloudcmds/framevm/op"
)

var _ Callable = (*Builtin)(nil) // Ensure that *Builtin implements Callable

// BuiltinFunction holds the type of a built-in function.
type BuiltinFunction func(ctx context.Context, args ...Object) (Object, error)

// Builtin wraps func and implements Object interface.
type Builtin struct {
	fn   BuiltinFunction
	name string
}

// NewBuiltin creates a new builtin function with the given name and function.
func NewBuiltin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name}
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) Value() BuiltinFunction {
	return b.fn
}

func (b *Builtin) Call(ctx context.Context, args ...Object) (Object, error) {
	return b.fn(ctx, args...)
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("<built-in function %s>", b.name)
}

func (b *Builtin) String() string {
	return b.Inspect()
}

func (b *Builtin) Interface() any {
	return nil
}

func (b *Builtin) IsTruthy() bool {
	return true
}

func (b *Builtin) Equals(other Object) bool {
	otherBuiltin, ok := other.(*Builtin)
	return ok && b == otherBuiltin
}

func (b *Builtin) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, unsupportedOperands(opType, b, right)
}
