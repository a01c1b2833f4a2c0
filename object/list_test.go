package object

import (
	"testing"

	"github.com/cloudcmds/framevm/op"
	"github.com/stretchr/testify/require"
)

func ints(values ...int64) []Object {
	items := make([]Object, len(values))
	for i, v := range values {
		items[i] = NewInt(v)
	}
	return items
}

func TestListBasics(t *testing.T) {
	l := NewList(ints(1, 2, 3))
	require.Equal(t, LIST, l.Type())
	require.Equal(t, "[1, 2, 3]", l.Inspect())
	require.Equal(t, []any{int64(1), int64(2), int64(3)}, l.Interface())
	require.True(t, l.IsTruthy())
	require.False(t, NewList(nil).IsTruthy())
	require.Equal(t, "[]", NewList(nil).Inspect())

	l.Append(NewString("x"))
	require.Equal(t, 4, l.Len())
	item, err := l.GetItem(NewInt(-1))
	require.Nil(t, err)
	require.Equal(t, "x", Str(item))

	_, err = l.GetItem(NewString("0"))
	require.EqualError(t, err, "TypeError: list indices must be integers, not str")
}

func TestListOperations(t *testing.T) {
	a := NewList(ints(1, 2))
	b := NewList(ints(3))

	sum, err := a.RunOperation(op.Add, b)
	require.Nil(t, err)
	require.Equal(t, "[1, 2, 3]", sum.Inspect())
	require.Equal(t, 2, a.Len(), "operands are not modified")

	repeated, err := b.RunOperation(op.Multiply, NewInt(3))
	require.Nil(t, err)
	require.Equal(t, "[3, 3, 3]", repeated.Inspect())

	_, err = a.RunOperation(op.Add, NewTuple(nil))
	require.Error(t, err)
}

func TestListIterSeesAppends(t *testing.T) {
	l := NewList(ints(1))
	it := l.Iter()
	first, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, int64(1), first.(*Int).Value())

	l.Append(NewInt(2))
	second, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, int64(2), second.(*Int).Value())

	_, ok = it.Next()
	require.False(t, ok)
	l.Append(NewInt(3))
	_, ok = it.Next()
	require.False(t, ok, "an exhausted iterator stays exhausted")
}

func TestTupleBasics(t *testing.T) {
	require.Equal(t, "()", NewTuple(nil).Inspect())
	require.Equal(t, "(1,)", NewTuple(ints(1)).Inspect())
	require.Equal(t, "(5, 1)", NewTuple(ints(5, 1)).Inspect())

	tup := NewTuple(ints(5, 1))
	require.True(t, tup.Equals(NewTuple(ints(5, 1))))
	require.False(t, tup.Equals(NewList(ints(5, 1))))

	found, err := tup.Contains(NewFloat(1.0))
	require.Nil(t, err)
	require.True(t, found)

	cmp, err := tup.Compare(NewTuple(ints(5, 2)))
	require.Nil(t, err)
	require.Equal(t, -1, cmp)

	cmp, err = tup.Compare(NewTuple(ints(5)))
	require.Nil(t, err)
	require.Equal(t, 1, cmp)

	_, err = tup.GetItem(NewInt(2))
	require.EqualError(t, err, "IndexError: tuple index out of range")
}

func TestDict(t *testing.T) {
	d := NewDict()
	require.Nil(t, d.Set(NewString("b"), NewInt(2)))
	require.Nil(t, d.Set(NewString("a"), NewInt(1)))
	require.Nil(t, d.Set(NewInt(1), NewString("one")))
	require.Nil(t, d.Set(NewTuple(ints(1, 2)), None))

	require.Equal(t, 4, d.Len())
	require.Equal(t, "{'b': 2, 'a': 1, 1: 'one', (1, 2): None}", d.Inspect())

	value, err := d.GetItem(NewFloat(1.0))
	require.Nil(t, err)
	require.Equal(t, "one", Str(value))

	require.Nil(t, d.Set(True, NewString("true")))
	require.Equal(t, 4, d.Len())
	value, err = d.GetItem(NewInt(1))
	require.Nil(t, err)
	require.Equal(t, "true", Str(value))

	_, err = d.GetItem(NewString("missing"))
	require.EqualError(t, err, "KeyError: 'missing'")

	err = d.Set(NewList(nil), None)
	require.EqualError(t, err, "TypeError: unhashable type: 'list'")

	err = d.Set(NewTuple([]Object{NewList(nil)}), None)
	require.Error(t, err)

	found, err := d.Contains(NewTuple(ints(1, 2)))
	require.Nil(t, err)
	require.True(t, found)

	keys, err := Collect(d)
	require.Nil(t, err)
	require.Len(t, keys, 4)
	require.Equal(t, "b", Str(keys[0]))
}

func TestDictEquals(t *testing.T) {
	a := NewDict()
	b := NewDict()
	require.Nil(t, a.Set(NewString("x"), NewInt(1)))
	require.Nil(t, a.Set(NewString("y"), NewInt(2)))
	require.Nil(t, b.Set(NewString("y"), NewInt(2)))
	require.Nil(t, b.Set(NewString("x"), NewFloat(1)))
	require.True(t, a.Equals(b))
	require.Nil(t, b.Set(NewString("x"), NewInt(3)))
	require.False(t, a.Equals(b))
}

func TestRange(t *testing.T) {
	tests := []struct {
		r        *Range
		expected []int64
		inspect  string
	}{
		{NewRange(0, 5, 1), []int64{0, 1, 2, 3, 4}, "range(0, 5)"},
		{NewRange(1, 10, 3), []int64{1, 4, 7}, "range(1, 10, 3)"},
		{NewRange(5, 0, -2), []int64{5, 3, 1}, "range(5, 0, -2)"},
		{NewRange(5, 0, 1), []int64{}, "range(5, 0)"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.inspect, tc.r.Inspect())
		require.Equal(t, len(tc.expected), tc.r.Len())
		require.Equal(t, tc.expected, tc.r.Interface())
		items, err := Collect(tc.r)
		require.Nil(t, err)
		require.Len(t, items, len(tc.expected))
		for i, item := range items {
			require.Equal(t, tc.expected[i], item.(*Int).Value())
		}
	}
}

func TestRangeContainer(t *testing.T) {
	r := NewRange(1, 10, 3)
	for _, tc := range []struct {
		item  Object
		found bool
	}{
		{NewInt(4), true},
		{NewInt(5), false},
		{NewInt(10), false},
		{NewFloat(7.0), true},
		{NewString("4"), false},
	} {
		found, err := r.Contains(tc.item)
		require.Nil(t, err)
		require.Equal(t, tc.found, found, tc.item.Inspect())
	}

	item, err := r.GetItem(NewInt(-1))
	require.Nil(t, err)
	require.Equal(t, int64(7), item.(*Int).Value())

	require.True(t, NewRange(0, 0, 1).Equals(NewRange(3, 1, 2)))
	require.False(t, NewRange(0, 3, 1).Equals(NewRange(0, 3, 2)))
	require.Panics(t, func() { NewRange(0, 1, 0) })
}
