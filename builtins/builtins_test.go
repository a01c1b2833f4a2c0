package builtins

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/cloudcmds/framevm/object"
	"github.com/stretchr/testify/require"
)

func ints(values ...int64) []object.Object {
	items := make([]object.Object, len(values))
	for i, v := range values {
		items[i] = object.NewInt(v)
	}
	return items
}

func call(t *testing.T, name string, args ...object.Object) (object.Object, error) {
	t.Helper()
	fn, ok := Default().Lookup(name)
	require.True(t, ok, "missing builtin %s", name)
	return fn.(*object.Builtin).Call(context.Background(), args...)
}

func TestAbsOverflow(t *testing.T) {
	_, err := call(t, "abs", ints(math.MinInt64)...)
	require.IsType(t, &object.OverflowError{}, err)

	result, err := call(t, "abs", ints(-math.MaxInt64)...)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(math.MaxInt64), result)
}

func TestBuiltins(t *testing.T) {
	require.Len(t, Builtins(), 20)
}

func TestCalls(t *testing.T) {
	tests := []struct {
		name     string
		args     []object.Object
		expected string
	}{
		{"abs", ints(-3), "3"},
		{"abs", []object.Object{object.NewFloat(-1.5)}, "1.5"},
		{"divmod", ints(11, 2), "(5, 1)"},
		{"divmod", ints(-7, 2), "(-4, 1)"},
		{"divmod", []object.Object{object.NewFloat(7.5), object.NewInt(2)}, "(3.0, 1.5)"},
		{"len", []object.Object{object.NewString("abc")}, "3"},
		{"len", []object.Object{object.NewList(ints(1, 2))}, "2"},
		{"range", ints(3), "range(0, 3)"},
		{"range", ints(1, 9, 2), "range(1, 9, 2)"},
		{"list", []object.Object{object.NewRange(0, 3, 1)}, "[0, 1, 2]"},
		{"list", nil, "[]"},
		{"tuple", []object.Object{object.NewList(ints(1, 2))}, "(1, 2)"},
		{"dict", []object.Object{object.NewList([]object.Object{object.NewTuple([]object.Object{object.NewString("a"), object.NewInt(1)})})}, "{'a': 1}"},
		{"str", ints(42), "'42'"},
		{"str", []object.Object{object.NewString("x")}, "'x'"},
		{"repr", []object.Object{object.NewString("x")}, `"'x'"`},
		{"int", []object.Object{object.NewString(" 12 ")}, "12"},
		{"int", []object.Object{object.NewFloat(-2.7)}, "-2"},
		{"int", []object.Object{object.True}, "1"},
		{"float", []object.Object{object.NewString("2.5")}, "2.5"},
		{"float", ints(2), "2.0"},
		{"float", []object.Object{object.NewString("-inf")}, "-inf"},
		{"bool", ints(0), "False"},
		{"bool", []object.Object{object.NewList(ints(0))}, "True"},
		{"min", ints(3, 1, 2), "1"},
		{"max", []object.Object{object.NewList(ints(3, 1, 2))}, "3"},
		{"max", []object.Object{object.NewInt(1), object.NewFloat(2.5)}, "2.5"},
		{"sum", []object.Object{object.NewList(ints(1, 2, 3))}, "6"},
		{"sum", []object.Object{object.NewList(ints(1, 2)), object.NewFloat(0.5)}, "3.5"},
		{"type", []object.Object{object.NewTuple(nil)}, "'tuple'"},
		{"isinstance", []object.Object{object.True, mustLookup("int")}, "True"},
		{"isinstance", []object.Object{object.NewInt(1), mustLookup("str")}, "False"},
		{"isinstance", []object.Object{object.NewInt(1), object.NewTuple([]object.Object{mustLookup("str"), mustLookup("int")})}, "True"},
		{"isinstance", []object.Object{object.NewFloat(1), object.NewString("float")}, "True"},
	}
	for _, tc := range tests {
		result, err := call(t, tc.name, tc.args...)
		require.Nil(t, err, tc.name)
		require.Equal(t, tc.expected, result.Inspect(), tc.name)
	}
}

func mustLookup(name string) object.Object {
	fn, ok := Default().Lookup(name)
	if !ok {
		panic(name)
	}
	return fn
}

func TestCallErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []object.Object
		expected string
	}{
		{"len", ints(1), "TypeError: object of type 'int' has no len()"},
		{"len", nil, "TypeError: len() takes exactly one argument (0 given)"},
		{"divmod", ints(1, 0), "ZeroDivisionError: integer division or modulo by zero"},
		{"divmod", ints(1), "TypeError: divmod() takes exactly 2 arguments (1 given)"},
		{"range", ints(0, 1, 0), "ValueError: range() arg 3 must not be zero"},
		{"range", nil, "TypeError: range expected at least 1 arguments, got 0"},
		{"int", []object.Object{object.NewString("x")}, "ValueError: invalid literal for int() with base 10: 'x'"},
		{"float", []object.Object{object.NewString("x")}, "ValueError: could not convert string to float: 'x'"},
		{"min", []object.Object{object.NewList(nil)}, "ValueError: min() arg is an empty sequence"},
		{"max", []object.Object{object.NewInt(1), object.NewString("a")}, "TypeError: '>' not supported between instances of 'str' and 'int'"},
		{"list", ints(1), "TypeError: 'int' object is not iterable"},
		{"next", ints(1), "TypeError: 'int' object is not an iterator"},
		{"isinstance", []object.Object{object.NewInt(1), mustLookup("len")}, "TypeError: isinstance() arg 2 must be a type or tuple of types"},
	}
	for _, tc := range tests {
		_, err := call(t, tc.name, tc.args...)
		require.EqualError(t, err, tc.expected, tc.name)
	}
}

func TestIterNext(t *testing.T) {
	it, err := call(t, "iter", object.NewList(ints(7)))
	require.Nil(t, err)

	value, err := call(t, "next", it)
	require.Nil(t, err)
	require.Equal(t, "7", value.Inspect())

	value, err = call(t, "next", it, object.None)
	require.Nil(t, err)
	require.Equal(t, object.None, value)

	_, err = call(t, "next", it)
	require.IsType(t, &object.StopIteration{}, err)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithStdout(context.Background(), &buf)
	fn, _ := Default().Lookup("print")
	result, err := fn.(*object.Builtin).Call(ctx,
		object.NewString("n ="), object.NewInt(3), object.NewTuple(ints(5, 1)))
	require.Nil(t, err)
	require.Equal(t, object.None, result)
	require.Equal(t, "n = 3 (5, 1)\n", buf.String())
}

func TestRegistry(t *testing.T) {
	require.Same(t, Default(), Default())
	require.True(t, Default().Layer().IsFrozen())
	names := Default().Names()
	require.Contains(t, names, "divmod")
	require.Equal(t, "abs", names[0])

	custom := Default().With(map[string]object.Object{"answer": object.NewInt(42)})
	value, ok := custom.Lookup("answer")
	require.True(t, ok)
	require.Equal(t, "42", value.Inspect())
	_, ok = custom.Lookup("divmod")
	require.True(t, ok)
	_, ok = Default().Lookup("answer")
	require.False(t, ok)
}
