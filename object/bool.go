package object

import (
	"github.com/cloudcmds/framevm/op"
)

// Bool wraps bool and implements Object. Only the True and False singletons
// exist; use NewBool to obtain one.
type Bool struct {
	value bool
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	if b.value {
		return "True"
	}
	return "False"
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() any {
	return b.value
}

func (b *Bool) IsTruthy() bool {
	return b.value
}

// asInt returns the integer value of the bool, which is how it behaves in
// arithmetic and comparisons.
func (b *Bool) asInt() *Int {
	if b.value {
		return NewInt(1)
	}
	return NewInt(0)
}

func (b *Bool) Equals(other Object) bool {
	return b.asInt().Equals(other)
}

func (b *Bool) Compare(other Object) (int, error) {
	return b.asInt().Compare(other)
}

func (b *Bool) HashKey() HashKey {
	return b.asInt().HashKey()
}

func (b *Bool) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	result, err := b.asInt().RunOperation(opType, right)
	if _, ok := err.(*TypeError); ok {
		return nil, unsupportedOperands(opType, b, right)
	}
	return result, err
}
