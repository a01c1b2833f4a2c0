package errz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrName, "name error"},
		{ErrUnsupported, "unsupported instruction"},
		{ErrInternal, "internal error"},
		{ErrDecode, "decode error"},
		{ErrArgs, "args error"},
		{ErrRuntime, "runtime error"},
		{ErrorKind(99), "error"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.kind.String())
	}
}

func TestStructuredErrorMessage(t *testing.T) {
	err := NameErrorf("name %q is not defined", "x")
	require.Equal(t, `name error: name "x" is not defined`, err.Error())

	loc := SourceLocation{Code: "<module>", Offset: 4, Opname: "LOAD_NAME"}
	err.WithLocation(loc, []StackFrame{{Function: "<module>", Location: loc}})
	require.Equal(t, `name error: name "x" is not defined (<module>@4 (LOAD_NAME))`, err.Error())

	friendly := err.FriendlyErrorMessage()
	require.Contains(t, friendly, "Stack trace:")
	require.Contains(t, friendly, "at <module> (<module>@4 (LOAD_NAME))")
}

func TestWithLocationKeepsFirst(t *testing.T) {
	err := Internalf("stack underflow")
	first := SourceLocation{Code: "f", Offset: 2}
	err.WithLocation(first, nil)
	err.WithLocation(SourceLocation{Code: "<module>", Offset: 10}, nil)
	require.Equal(t, first, err.Location)
}

func TestIsFatal(t *testing.T) {
	require.False(t, NameErrorf("x").IsFatal())
	require.False(t, Errorf(ErrArgs, "x").IsFatal())
	require.True(t, Internalf("x").IsFatal())
	require.True(t, Errorf(ErrUnsupported, "x").IsFatal())
	require.True(t, Errorf(ErrDecode, "x").IsFatal())
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("running: %w", NameErrorf("name %q is not defined", "y"))
	require.True(t, Is(err, ErrName))
	require.False(t, Is(err, ErrInternal))
	require.False(t, Is(fmt.Errorf("plain"), ErrName))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Errorf(ErrDecode, "bad input").WithCause(cause)
	require.ErrorIs(t, err, cause)
}
