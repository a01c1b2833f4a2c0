package object

import (
	"math"
	"strconv"

	"github.com/cloudcmds/framevm/op"
)

const (
	smallIntMin = -5
	smallIntMax = 256
)

var smallInts [smallIntMax - smallIntMin + 1]*Int

func init() {
	for i := range smallInts {
		smallInts[i] = &Int{value: int64(i + smallIntMin)}
	}
}

// Int wraps int64 and implements Object and Hashable interfaces.
type Int struct {
	value int64
}

// NewInt returns an Int. Values in [-5, 256] are shared.
func NewInt(value int64) *Int {
	if value >= smallIntMin && value <= smallIntMax {
		return smallInts[value-smallIntMin]
	}
	return &Int{value: value}
}

func (i *Int) Type() Type {
	return INT
}

func (i *Int) Value() int64 {
	return i.value
}

func (i *Int) Inspect() string {
	return strconv.FormatInt(i.value, 10)
}

func (i *Int) String() string {
	return i.Inspect()
}

func (i *Int) Interface() any {
	return i.value
}

func (i *Int) IsTruthy() bool {
	return i.value != 0
}

func (i *Int) HashKey() HashKey {
	return HashKey{Type: INT, Int: i.value}
}

func (i *Int) Equals(other Object) bool {
	switch other := other.(type) {
	case *Int:
		return i.value == other.value
	case *Float:
		return float64(i.value) == other.value
	case *Bool:
		return i.value == other.asInt().value
	}
	return false
}

func (i *Int) Compare(other Object) (int, error) {
	switch other := other.(type) {
	case *Int:
		return compareInts(i.value, other.value), nil
	case *Float:
		return compareFloats(float64(i.value), other.value), nil
	case *Bool:
		return compareInts(i.value, other.asInt().value), nil
	default:
		return 0, TypeErrorf("unable to compare int and %s", other.Type())
	}
}

func (i *Int) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	switch right := right.(type) {
	case *Int:
		return i.runOperationInt(opType, right.value)
	case *Bool:
		return i.runOperationInt(opType, right.asInt().value)
	case *Float:
		return NewFloat(float64(i.value)).runOperationFloat(opType, right.value)
	case *String, *List, *Tuple:
		if opType == op.Multiply {
			return right.RunOperation(opType, i)
		}
	}
	return nil, unsupportedOperands(opType, i, right)
}

func (i *Int) runOperationInt(opType op.BinaryOpType, right int64) (Object, error) {
	switch opType {
	case op.Add:
		sum, ok := addInt(i.value, right)
		if !ok {
			return nil, intOverflow("+")
		}
		return NewInt(sum), nil
	case op.Subtract:
		diff, ok := subInt(i.value, right)
		if !ok {
			return nil, intOverflow("-")
		}
		return NewInt(diff), nil
	case op.Multiply:
		product, ok := mulInt(i.value, right)
		if !ok {
			return nil, intOverflow("*")
		}
		return NewInt(product), nil
	case op.TrueDivide:
		if right == 0 {
			return nil, &ZeroDivisionError{Message: "division by zero"}
		}
		return NewFloat(float64(i.value) / float64(right)), nil
	case op.FloorDivide:
		if right == 0 {
			return nil, &ZeroDivisionError{Message: "integer division or modulo by zero"}
		}
		if i.value == math.MinInt64 && right == -1 {
			return nil, intOverflow("//")
		}
		return NewInt(floorDivInt(i.value, right)), nil
	case op.Modulo:
		if right == 0 {
			return nil, &ZeroDivisionError{Message: "integer division or modulo by zero"}
		}
		return NewInt(floorModInt(i.value, right)), nil
	default:
		return nil, unsupportedOperands(opType, i, NewInt(right))
	}
}

func addInt(a, b int64) (int64, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	c := a - b
	return c, (c < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return c, false
	}
	return c, c/b == a
}

// NegateInt returns -v, or an OverflowError for the smallest int64.
func NegateInt(v int64) (Object, error) {
	if v == math.MinInt64 {
		return nil, intOverflow("unary -")
	}
	return NewInt(-v), nil
}

// floorDivInt rounds the quotient towards negative infinity.
func floorDivInt(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorModInt returns a remainder with the sign of the divisor.
func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// isIntegral reports whether f has an exact int64 representation.
func isIntegral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}
