package object

import (
	"fmt"

	"github.com/cloudcmds/framevm/op"
)

// Iter is an Iterator driven by a next function. It is used for the
// iterators of every built-in container type.
type Iter struct {
	name string
	next func() (Object, bool)
	done bool
}

// NewIter returns an iterator that calls next until it reports exhaustion.
func NewIter(name string, next func() (Object, bool)) *Iter {
	return &Iter{name: name, next: next}
}

func (it *Iter) Type() Type {
	return ITERATOR
}

func (it *Iter) Inspect() string {
	return fmt.Sprintf("<%s object>", it.name)
}

func (it *Iter) String() string {
	return it.Inspect()
}

func (it *Iter) Interface() any {
	return nil
}

// Equals reports identity; iterators are only equal to themselves.
func (it *Iter) Equals(other Object) bool {
	return it == other
}

func (it *Iter) IsTruthy() bool {
	return true
}

func (it *Iter) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, unsupportedOperands(opType, it, right)
}

func (it *Iter) Next() (Object, bool) {
	if it.done {
		return nil, false
	}
	value, ok := it.next()
	if !ok {
		it.done = true
		return nil, false
	}
	return value, true
}

// Iter returns the iterator itself, as iter() does for an iterator.
func (it *Iter) Iter() Iterator {
	return it
}

// Iterate returns an iterator over obj. Iterators are returned as-is.
func Iterate(obj Object) (Iterator, error) {
	switch obj := obj.(type) {
	case Iterator:
		return obj, nil
	case Iterable:
		return obj.Iter(), nil
	default:
		return nil, TypeErrorf("'%s' object is not iterable", obj.Type())
	}
}

// Collect drains an iterable into a slice.
func Collect(obj Object) ([]Object, error) {
	switch obj := obj.(type) {
	case *List:
		return append([]Object(nil), obj.items...), nil
	case *Tuple:
		return append([]Object(nil), obj.items...), nil
	}
	it, err := Iterate(obj)
	if err != nil {
		return nil, err
	}
	var items []Object
	for {
		item, ok := it.Next()
		if !ok {
			return items, nil
		}
		items = append(items, item)
	}
}
