package object

import (
	"testing"

	"github.com/cloudcmds/framevm/bytecode"
	"github.com/stretchr/testify/require"
)

func TestFromGoType(t *testing.T) {
	tests := []struct {
		input    any
		expected Object
	}{
		{nil, None},
		{true, True},
		{3, NewInt(3)},
		{int32(-4), NewInt(-4)},
		{uint8(200), NewInt(200)},
		{2.5, NewFloat(2.5)},
		{"hi", NewString("hi")},
		{[]any{1, "a"}, NewList([]Object{NewInt(1), NewString("a")})},
		{[]string{"x"}, NewList([]Object{NewString("x")})},
	}
	for _, tc := range tests {
		result, err := FromGoType(tc.input)
		require.Nil(t, err)
		require.True(t, tc.expected.Equals(result), "%v -> %s", tc.input, result.Inspect())
	}
}

func TestFromGoTypeMap(t *testing.T) {
	result, err := FromGoType(map[string]any{"b": 2, "a": []any{1}})
	require.Nil(t, err)
	require.Equal(t, "{'a': [1], 'b': 2}", result.Inspect())
	require.Equal(t, map[string]any{"a": []any{int64(1)}, "b": int64(2)}, result.Interface())
}

func TestFromGoTypeUnsupported(t *testing.T) {
	_, err := FromGoType(struct{}{})
	require.EqualError(t, err, "TypeError: unsupported go type: struct {}")
}

func TestFromConstant(t *testing.T) {
	code, err := bytecode.NewCode(bytecode.CodeParams{Name: "f"})
	require.Nil(t, err)

	result, err := FromConstant([]any{int64(1), []any{"a"}, nil})
	require.Nil(t, err)
	require.Equal(t, "(1, ('a',), None)", result.Inspect())

	result, err = FromConstant(code)
	require.Nil(t, err)
	require.Equal(t, "<code object f>", result.Inspect())
	require.Same(t, code, result.(*Code).Value())

	_, err = FromConstant(3)
	require.Error(t, err)
}

func TestAsConversions(t *testing.T) {
	n, err := AsInt(True)
	require.Nil(t, err)
	require.Equal(t, int64(1), n)

	_, err = AsInt(NewFloat(1))
	require.EqualError(t, err, "TypeError: 'float' object cannot be interpreted as an integer")

	f, err := AsFloat(NewInt(2))
	require.Nil(t, err)
	require.Equal(t, 2.0, f)

	s, err := AsString(NewString("x"))
	require.Nil(t, err)
	require.Equal(t, "x", s)
}
