package object

import (
	"math"
	"strconv"
	"strings"

	"github.com/cloudcmds/framevm/op"
)

// Float wraps float64 and implements Object and Hashable interfaces.
type Float struct {
	value float64
}

func NewFloat(value float64) *Float {
	return &Float{value: value}
}

func (f *Float) Type() Type {
	return FLOAT
}

func (f *Float) Value() float64 {
	return f.value
}

// Inspect formats the float the way Python's repr does: integral values keep
// a trailing ".0" and very large or small magnitudes use exponent notation.
func (f *Float) Inspect() string {
	v := f.value
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (f *Float) String() string {
	return f.Inspect()
}

func (f *Float) Interface() any {
	return f.value
}

func (f *Float) IsTruthy() bool {
	return f.value != 0.0
}

func (f *Float) HashKey() HashKey {
	if isIntegral(f.value) {
		return HashKey{Type: INT, Int: int64(f.value)}
	}
	return HashKey{Type: FLOAT, Float: f.value}
}

func (f *Float) Equals(other Object) bool {
	switch other := other.(type) {
	case *Int:
		return f.value == float64(other.value)
	case *Float:
		return f.value == other.value
	case *Bool:
		return f.value == float64(other.asInt().value)
	}
	return false
}

func (f *Float) Compare(other Object) (int, error) {
	switch other := other.(type) {
	case *Float:
		return compareFloats(f.value, other.value), nil
	case *Int:
		return compareFloats(f.value, float64(other.value)), nil
	case *Bool:
		return compareFloats(f.value, float64(other.asInt().value)), nil
	default:
		return 0, TypeErrorf("unable to compare float and %s", other.Type())
	}
}

func (f *Float) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	switch right := right.(type) {
	case *Int:
		return f.runOperationFloat(opType, float64(right.value))
	case *Float:
		return f.runOperationFloat(opType, right.value)
	case *Bool:
		return f.runOperationFloat(opType, float64(right.asInt().value))
	default:
		return nil, unsupportedOperands(opType, f, right)
	}
}

func (f *Float) runOperationFloat(opType op.BinaryOpType, right float64) (Object, error) {
	switch opType {
	case op.Add:
		return NewFloat(f.value + right), nil
	case op.Subtract:
		return NewFloat(f.value - right), nil
	case op.Multiply:
		return NewFloat(f.value * right), nil
	case op.TrueDivide:
		if right == 0 {
			return nil, &ZeroDivisionError{Message: "float division by zero"}
		}
		return NewFloat(f.value / right), nil
	case op.FloorDivide:
		if right == 0 {
			return nil, &ZeroDivisionError{Message: "float divmod()"}
		}
		return NewFloat(math.Floor(f.value / right)), nil
	case op.Modulo:
		if right == 0 {
			return nil, &ZeroDivisionError{Message: "float modulo"}
		}
		m := math.Mod(f.value, right)
		if m != 0 && (m < 0) != (right < 0) {
			m += right
		}
		return NewFloat(m), nil
	default:
		return nil, unsupportedOperands(opType, f, NewFloat(right))
	}
}
