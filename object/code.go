package object

import (
	"fmt"

	"github.com/cloudcmds/framevm/bytecode"
	"github.com/cloudcmds/framevm/op"
)

// Code wraps a compiled code unit so it can sit on the operand stack, where
// MAKE_FUNCTION picks it up.
type Code struct {
	code *bytecode.Code
}

func NewCode(code *bytecode.Code) *Code {
	return &Code{code: code}
}

func (c *Code) Type() Type {
	return CODE
}

func (c *Code) Value() *bytecode.Code {
	return c.code
}

func (c *Code) Inspect() string {
	return fmt.Sprintf("<code object %s>", c.code.Name())
}

func (c *Code) String() string {
	return c.Inspect()
}

func (c *Code) Interface() any {
	return c.code
}

func (c *Code) IsTruthy() bool {
	return true
}

func (c *Code) Equals(other Object) bool {
	otherCode, ok := other.(*Code)
	return ok && c.code == otherCode.code
}

func (c *Code) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, unsupportedOperands(opType, c, right)
}
