package object

import (
	"fmt"

	"github.com/cloudcmds/framevm/op"
)

// TypeError is returned when an operation is applied to operands that do not
// support it. The VM returns it to the caller unchanged.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string {
	return "TypeError: " + e.Message
}

// ValueError is returned when an operand has the right type but an
// unacceptable value.
type ValueError struct {
	Message string
}

func (e *ValueError) Error() string {
	return "ValueError: " + e.Message
}

// IndexError is returned when a sequence subscript is out of range.
type IndexError struct {
	Message string
}

func (e *IndexError) Error() string {
	return "IndexError: " + e.Message
}

// KeyError is returned when a dict key is missing.
type KeyError struct {
	Key Object
}

func (e *KeyError) Error() string {
	return "KeyError: " + e.Key.Inspect()
}

// ZeroDivisionError is returned by division and modulo by zero.
type ZeroDivisionError struct {
	Message string
}

func (e *ZeroDivisionError) Error() string {
	return "ZeroDivisionError: " + e.Message
}

// OverflowError is returned when an int result does not fit in 64 bits.
type OverflowError struct {
	Message string
}

func (e *OverflowError) Error() string {
	return "OverflowError: " + e.Message
}

func intOverflow(opType string) *OverflowError {
	return &OverflowError{Message: "integer overflow in " + opType}
}

// TypeErrorf returns a TypeError with a formatted message.
func TypeErrorf(format string, args ...any) *TypeError {
	return &TypeError{Message: fmt.Sprintf(format, args...)}
}

// ValueErrorf returns a ValueError with a formatted message.
func ValueErrorf(format string, args ...any) *ValueError {
	return &ValueError{Message: fmt.Sprintf(format, args...)}
}

// IndexErrorf returns an IndexError with a formatted message.
func IndexErrorf(format string, args ...any) *IndexError {
	return &IndexError{Message: fmt.Sprintf(format, args...)}
}

// NewArgsError returns a TypeError describing a call with the wrong number of
// arguments to a built-in.
func NewArgsError(fn string, takes, given int) *TypeError {
	if takes == 1 {
		return TypeErrorf("%s() takes exactly one argument (%d given)", fn, given)
	}
	return TypeErrorf("%s() takes exactly %d arguments (%d given)", fn, takes, given)
}

// NewArgsRangeError returns a TypeError for a call whose argument count is
// outside [takesMin, takesMax].
func NewArgsRangeError(fn string, takesMin, takesMax, given int) *TypeError {
	if given < takesMin {
		return TypeErrorf("%s expected at least %d arguments, got %d", fn, takesMin, given)
	}
	return TypeErrorf("%s expected at most %d arguments, got %d", fn, takesMax, given)
}

func unsupportedOperands(opType op.BinaryOpType, left, right Object) *TypeError {
	return TypeErrorf("unsupported operand type(s) for %s: '%s' and '%s'",
		opType.String(), left.Type(), right.Type())
}

// StopIteration is returned by next() on an exhausted iterator when no
// default is given.
type StopIteration struct{}

func (e *StopIteration) Error() string {
	return "StopIteration"
}
