package object

import (
	"github.com/cloudcmds/framevm/op"
)

// NoneType is the type of the None singleton.
type NoneType struct{}

func (n *NoneType) Type() Type {
	return NONE
}

func (n *NoneType) Inspect() string {
	return "None"
}

func (n *NoneType) String() string {
	return "None"
}

func (n *NoneType) Interface() any {
	return nil
}

func (n *NoneType) Equals(other Object) bool {
	_, ok := other.(*NoneType)
	return ok
}

func (n *NoneType) IsTruthy() bool {
	return false
}

func (n *NoneType) HashKey() HashKey {
	return HashKey{Type: NONE}
}

func (n *NoneType) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, unsupportedOperands(opType, n, right)
}
