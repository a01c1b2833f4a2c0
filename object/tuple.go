package object

import (
	"fmt"
	"strings"

	"github.com/cloudcmds/framevm/op"
)

// Tuple is an immutable ordered sequence of objects.
type Tuple struct {
	items []Object
}

// NewTuple returns a Tuple that takes ownership of items.
func NewTuple(items []Object) *Tuple {
	if items == nil {
		items = []Object{}
	}
	return &Tuple{items: items}
}

func (t *Tuple) Type() Type {
	return TUPLE
}

// Value returns the underlying items. Callers must not modify the slice.
func (t *Tuple) Value() []Object {
	return t.items
}

func (t *Tuple) Inspect() string {
	if len(t.items) == 1 {
		return "(" + t.items[0].Inspect() + ",)"
	}
	return "(" + inspectItems(t.items) + ")"
}

func (t *Tuple) String() string {
	return t.Inspect()
}

func (t *Tuple) Interface() any {
	return interfaceItems(t.items)
}

func (t *Tuple) IsTruthy() bool {
	return len(t.items) > 0
}

func (t *Tuple) Equals(other Object) bool {
	otherTuple, ok := other.(*Tuple)
	return ok && equalItems(t.items, otherTuple.items)
}

func (t *Tuple) Compare(other Object) (int, error) {
	otherTuple, ok := other.(*Tuple)
	if !ok {
		return 0, TypeErrorf("unable to compare tuple and %s", other.Type())
	}
	return compareItems(t.items, otherTuple.items)
}

func (t *Tuple) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	switch opType {
	case op.Add:
		if rightTuple, ok := right.(*Tuple); ok {
			return NewTuple(concatItems(t.items, rightTuple.items)), nil
		}
		return nil, TypeErrorf("can only concatenate tuple (not %q) to tuple", right.Type())
	case op.Multiply:
		if n, ok := repeatCount(right); ok {
			return NewTuple(repeatItems(t.items, n)), nil
		}
	}
	return nil, unsupportedOperands(opType, t, right)
}

func (t *Tuple) GetItem(key Object) (Object, error) {
	index, err := normalizeIndex(key, len(t.items), TUPLE)
	if err != nil {
		return nil, err
	}
	return t.items[index], nil
}

func (t *Tuple) Contains(item Object) (bool, error) {
	return containsItem(t.items, item), nil
}

func (t *Tuple) Len() int {
	return len(t.items)
}

func (t *Tuple) Iter() Iterator {
	pos := 0
	return NewIter("tuple_iterator", func() (Object, bool) {
		if pos >= len(t.items) {
			return nil, false
		}
		item := t.items[pos]
		pos++
		return item, true
	})
}

// hashKey combines the keys of the items. It fails if any item is
// unhashable.
func (t *Tuple) hashKey() (HashKey, error) {
	parts := make([]string, len(t.items))
	for i, item := range t.items {
		key, err := hashKeyOf(item)
		if err != nil {
			return HashKey{}, err
		}
		parts[i] = fmt.Sprintf("%s:%d:%v:%q", key.Type, key.Int, key.Float, key.Str)
	}
	return HashKey{Type: TUPLE, Str: strings.Join(parts, ",")}, nil
}
