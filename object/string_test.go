package object

import (
	"testing"

	"github.com/cloudcmds/framevm/op"
	"github.com/stretchr/testify/require"
)

func TestStringInspect(t *testing.T) {
	require.Equal(t, "'abc'", NewString("abc").Inspect())
	require.Equal(t, `"it's"`, NewString("it's").Inspect())
	require.Equal(t, `'a\nb'`, NewString("a\nb").Inspect())
	require.Equal(t, `'say "hi" \'x\''`, NewString(`say "hi" 'x'`).Inspect())
	require.Equal(t, "abc", NewString("abc").String())
}

func TestStringOperations(t *testing.T) {
	result, err := NewString("foo").RunOperation(op.Add, NewString("bar"))
	require.Nil(t, err)
	require.Equal(t, "foobar", result.(*String).Value())

	result, err = NewString("ab").RunOperation(op.Multiply, NewInt(2))
	require.Nil(t, err)
	require.Equal(t, "abab", result.(*String).Value())

	_, err = NewString("a").RunOperation(op.Add, NewInt(1))
	require.EqualError(t, err, `TypeError: can only concatenate str (not "int") to str`)

	_, err = NewString("a").RunOperation(op.Subtract, NewString("a"))
	require.EqualError(t, err, "TypeError: unsupported operand type(s) for -: 'str' and 'str'")
}

func TestStringContainer(t *testing.T) {
	s := NewString("héllo")
	require.Equal(t, 5, s.Len())

	item, err := s.GetItem(NewInt(1))
	require.Nil(t, err)
	require.Equal(t, "é", item.(*String).Value())

	item, err = s.GetItem(NewInt(-1))
	require.Nil(t, err)
	require.Equal(t, "o", item.(*String).Value())

	_, err = s.GetItem(NewInt(5))
	require.EqualError(t, err, "IndexError: string index out of range")

	found, err := s.Contains(NewString("ll"))
	require.Nil(t, err)
	require.True(t, found)

	_, err = s.Contains(NewInt(1))
	require.Error(t, err)

	items, err := Collect(s)
	require.Nil(t, err)
	require.Len(t, items, 5)
	require.Equal(t, "h", Str(items[0]))
}
