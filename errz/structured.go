// Package errz defines the structured errors raised by the framevm decoder and
// virtual machine.
package errz

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrName indicates a name that is not bound anywhere in the scope chain.
	ErrName ErrorKind = iota
	// ErrUnsupported indicates an opcode with no handler.
	ErrUnsupported
	// ErrInternal indicates a broken VM invariant, such as a stack underflow.
	ErrInternal
	// ErrDecode indicates a malformed code unit.
	ErrDecode
	// ErrArgs indicates a call with the wrong number of arguments.
	ErrArgs
	// ErrRuntime indicates a general runtime error.
	ErrRuntime
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrName:
		return "name error"
	case ErrUnsupported:
		return "unsupported instruction"
	case ErrInternal:
		return "internal error"
	case ErrDecode:
		return "decode error"
	case ErrArgs:
		return "args error"
	case ErrRuntime:
		return "runtime error"
	default:
		return "error"
	}
}

// SourceLocation identifies an instruction within a code unit.
type SourceLocation struct {
	Code   string // Name of the code unit
	Offset int    // Byte offset of the instruction
	Opname string
}

// String returns a formatted string representation of the location.
func (s SourceLocation) String() string {
	if s.Opname != "" {
		return fmt.Sprintf("%s@%d (%s)", s.Code, s.Offset, s.Opname)
	}
	return fmt.Sprintf("%s@%d", s.Code, s.Offset)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Code == "" && s.Offset == 0 && s.Opname == ""
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string
	Location SourceLocation
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	if f.Function != "" {
		return fmt.Sprintf("at %s (%s)", f.Function, f.Location.String())
	}
	return fmt.Sprintf("at %s", f.Location.String())
}

// FormatStackTrace formats a slice of stack frames as a human-readable string.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Stack trace:\n")
	for _, frame := range frames {
		b.WriteString("  ")
		b.WriteString(frame.String())
		b.WriteString("\n")
	}
	return b.String()
}

// StructuredError is the error type returned by the decoder and the VM. It
// carries the kind of failure, the instruction where it happened and the call
// stack at that point.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location SourceLocation
	Stack    []StackFrame
	Cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind.String(), e.Message, e.Location.String())
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// IsFatal returns whether the error is considered fatal (unrecoverable).
// Name and argument errors are raised by well-formed programs and are left
// to the caller to handle.
func (e *StructuredError) IsFatal() bool {
	switch e.Kind {
	case ErrName, ErrArgs:
		return false
	default:
		return true
	}
}

// FriendlyErrorMessage returns the error message followed by the stack trace.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if len(e.Stack) > 0 {
		msg.WriteString("\n")
		msg.WriteString(FormatStackTrace(e.Stack))
	}
	return msg.String()
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// WithLocation sets the location of the error if it has none yet.
func (e *StructuredError) WithLocation(loc SourceLocation, stack []StackFrame) *StructuredError {
	if e.Location.IsZero() {
		e.Location = loc
	}
	if len(e.Stack) == 0 {
		e.Stack = stack
	}
	return e
}

// NewStructuredError creates a new StructuredError with the given parameters.
func NewStructuredError(kind ErrorKind, message string, loc SourceLocation, stack []StackFrame) *StructuredError {
	return &StructuredError{
		Message:  message,
		Kind:     kind,
		Location: loc,
		Stack:    stack,
	}
}

// NewStructuredErrorf creates a new StructuredError with a formatted message.
func NewStructuredErrorf(kind ErrorKind, loc SourceLocation, stack []StackFrame, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf(format, args...),
		Kind:     kind,
		Location: loc,
		Stack:    stack,
	}
}

// Errorf creates a StructuredError with no location. The VM fills in the
// location when the error crosses the dispatch loop.
func Errorf(kind ErrorKind, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	}
}

// NameErrorf creates an undefined name error.
func NameErrorf(format string, args ...any) *StructuredError {
	return Errorf(ErrName, format, args...)
}

// Internalf creates an internal invariant violation error.
func Internalf(format string, args ...any) *StructuredError {
	return Errorf(ErrInternal, format, args...)
}

// Is reports whether any error in err's chain is a StructuredError of the
// given kind.
func Is(err error, kind ErrorKind) bool {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
