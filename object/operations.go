package object

import (
	"github.com/cloudcmds/framevm/op"
)

// Compare two objects using the given comparison operator and return a Bool.
// Ordering operators require the left operand to be Comparable; "in" and
// "not in" require the right operand to be a Container; "is" and "is not"
// test identity.
func Compare(opType op.CompareOpType, a, b Object) (Object, error) {
	switch opType {
	case op.Equal:
		return NewBool(a.Equals(b)), nil
	case op.NotEqual:
		return NewBool(!a.Equals(b)), nil
	case op.Is:
		return NewBool(Identical(a, b)), nil
	case op.IsNot:
		return NewBool(!Identical(a, b)), nil
	case op.In, op.NotIn:
		found, err := Contains(b, a)
		if err != nil {
			return nil, err
		}
		if opType == op.NotIn {
			found = !found
		}
		return NewBool(found), nil
	case op.LessThan, op.LessThanOrEqual, op.GreaterThan, op.GreaterThanOrEqual:
	default:
		return nil, TypeErrorf("unknown comparison operator: %d", opType)
	}

	comparable, ok := a.(Comparable)
	if !ok {
		return nil, unorderable(opType, a, b)
	}
	value, err := comparable.Compare(b)
	if err != nil {
		if _, isTypeErr := err.(*TypeError); isTypeErr {
			return nil, unorderable(opType, a, b)
		}
		return nil, err
	}

	switch opType {
	case op.LessThan:
		return NewBool(value < 0), nil
	case op.LessThanOrEqual:
		return NewBool(value <= 0), nil
	case op.GreaterThan:
		return NewBool(value > 0), nil
	default:
		return NewBool(value >= 0), nil
	}
}

func unorderable(opType op.CompareOpType, a, b Object) *TypeError {
	return TypeErrorf("'%s' not supported between instances of '%s' and '%s'",
		opType, a.Type(), b.Type())
}

// Identical reports whether a and b are the same object. None, True, False
// and small ints are singletons, so they are identical to themselves.
func Identical(a, b Object) bool {
	return a == b
}

// Contains implements "item in container".
func Contains(container, item Object) (bool, error) {
	switch c := container.(type) {
	case Container:
		return c.Contains(item)
	case Iterator:
		for {
			value, ok := c.Next()
			if !ok {
				return false, nil
			}
			if value.Equals(item) {
				return true, nil
			}
		}
	default:
		return false, TypeErrorf("argument of type '%s' is not iterable", container.Type())
	}
}

// BinaryOp performs a binary operation on two objects, given an operator.
func BinaryOp(opType op.BinaryOpType, a, b Object) (Object, error) {
	return a.RunOperation(opType, b)
}

// Negate implements unary minus.
func Negate(obj Object) (Object, error) {
	switch obj := obj.(type) {
	case *Int:
		return NegateInt(obj.value)
	case *Float:
		return NewFloat(-obj.value), nil
	case *Bool:
		return NewInt(-obj.asInt().value), nil
	default:
		return nil, TypeErrorf("bad operand type for unary -: '%s'", obj.Type())
	}
}

// Subscript implements container[key].
func Subscript(container, key Object) (Object, error) {
	c, ok := container.(Container)
	if !ok {
		return nil, TypeErrorf("'%s' object is not subscriptable", container.Type())
	}
	return c.GetItem(key)
}
