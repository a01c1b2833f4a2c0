package object

import (
	"github.com/cloudcmds/framevm/op"
)

// List is a mutable ordered sequence of objects.
type List struct {
	items []Object
}

// NewList returns a List that takes ownership of items.
func NewList(items []Object) *List {
	if items == nil {
		items = []Object{}
	}
	return &List{items: items}
}

func (l *List) Type() Type {
	return LIST
}

// Value returns the underlying items. The slice is shared with the list.
func (l *List) Value() []Object {
	return l.items
}

// Append adds an item to the end of the list.
func (l *List) Append(item Object) {
	l.items = append(l.items, item)
}

func (l *List) Inspect() string {
	return "[" + inspectItems(l.items) + "]"
}

func (l *List) String() string {
	return l.Inspect()
}

func (l *List) Interface() any {
	return interfaceItems(l.items)
}

func (l *List) IsTruthy() bool {
	return len(l.items) > 0
}

func (l *List) Equals(other Object) bool {
	otherList, ok := other.(*List)
	return ok && equalItems(l.items, otherList.items)
}

func (l *List) Compare(other Object) (int, error) {
	otherList, ok := other.(*List)
	if !ok {
		return 0, TypeErrorf("unable to compare list and %s", other.Type())
	}
	return compareItems(l.items, otherList.items)
}

func (l *List) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	switch opType {
	case op.Add:
		if rightList, ok := right.(*List); ok {
			return NewList(concatItems(l.items, rightList.items)), nil
		}
		return nil, TypeErrorf("can only concatenate list (not %q) to list", right.Type())
	case op.Multiply:
		if n, ok := repeatCount(right); ok {
			return NewList(repeatItems(l.items, n)), nil
		}
	}
	return nil, unsupportedOperands(opType, l, right)
}

func (l *List) GetItem(key Object) (Object, error) {
	index, err := normalizeIndex(key, len(l.items), LIST)
	if err != nil {
		return nil, err
	}
	return l.items[index], nil
}

func (l *List) Contains(item Object) (bool, error) {
	return containsItem(l.items, item), nil
}

func (l *List) Len() int {
	return len(l.items)
}

// Iter returns an iterator that observes items appended during iteration.
func (l *List) Iter() Iterator {
	pos := 0
	return NewIter("list_iterator", func() (Object, bool) {
		if pos >= len(l.items) {
			return nil, false
		}
		item := l.items[pos]
		pos++
		return item, true
	})
}
