// Package object provides the value types manipulated by the framevm virtual
// machine.
//
// Values follow Python semantics closely enough to run code compiled for the
// CPython 3.8 wordcode format: ints and floats mix in arithmetic, strings and
// sequences concatenate and repeat, and comparisons return Bool objects.
//
// For external users, an object.Object is often type asserted to a specific
// type:
//
//	switch obj := obj.(type) {
//	case *object.Int:
//		// do something with obj.Value()
//	case *object.String:
//		// do something with obj.Value()
//	}
package object

import (
	"context"

	"github.com/cloudcmds/framevm/op"
)

// Type of an object as a string. The values match the Python type names.
type Type string

// Type constants
const (
	BOOL     Type = "bool"
	BUILTIN  Type = "builtin_function_or_method"
	CODE     Type = "code"
	DICT     Type = "dict"
	FLOAT    Type = "float"
	FUNCTION Type = "function"
	INT      Type = "int"
	ITERATOR Type = "iterator"
	LIST     Type = "list"
	NONE     Type = "NoneType"
	RANGE    Type = "range"
	STRING   Type = "str"
	TUPLE    Type = "tuple"
)

var (
	None  = &NoneType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all value types must implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the object, like repr().
	Inspect() string

	// Interface converts the object to a native Go value.
	Interface() any

	// Equals returns true if the given object is equal to this object.
	Equals(other Object) bool

	// IsTruthy returns true if the object is considered "truthy".
	IsTruthy() bool

	// RunOperation runs a binary operation with this object as the left
	// operand.
	RunOperation(opType op.BinaryOpType, right Object) (Object, error)
}

// Comparable is an interface used to order two objects.
//
//	-1 if this < other
//	 0 if this == other
//	 1 if this > other
type Comparable interface {
	Compare(other Object) (int, error)
}

// Container is implemented by types that support len(), subscripting and
// the "in" operator.
type Container interface {
	// GetItem implements the [key] operator.
	GetItem(key Object) (Object, error)

	// Contains returns true if the given item is found in this container.
	Contains(item Object) (bool, error)

	// Len returns the number of items in this container.
	Len() int
}

// Iterable is implemented by types that can produce an Iterator.
type Iterable interface {
	Iter() Iterator
}

// Iterator yields values one at a time. Once Next returns false the iterator
// is exhausted and keeps returning false.
type Iterator interface {
	Object
	Next() (Object, bool)
}

// Callable is an interface for objects that can be invoked as functions.
type Callable interface {
	Call(ctx context.Context, args ...Object) (Object, error)
}

// Hashable is implemented by values that may be used as dict keys.
type Hashable interface {
	HashKey() HashKey
}

// HashKey identifies a dict key. Numbers that compare equal produce the same
// key, so 1, 1.0 and True address the same entry.
type HashKey struct {
	Type  Type
	Int   int64
	Float float64
	Str   string
}

// NewBool returns the Bool singleton for the given value.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// Str returns the str() form of an object. Strings are returned unquoted and
// everything else uses Inspect.
func Str(obj Object) string {
	if s, ok := obj.(*String); ok {
		return s.value
	}
	return obj.Inspect()
}
