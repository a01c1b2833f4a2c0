package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(LoadConst)
	require.Equal(t, "LOAD_CONST", info.Name)
	require.Equal(t, ArgConst, info.ArgKind)
	require.Equal(t, LoadConst, info.Code)
	require.True(t, info.HasArg())
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code   Code
		name   string
		hasArg bool
		jump   bool
	}{
		{PopTop, "POP_TOP", false, false},
		{BinaryAdd, "BINARY_ADD", false, false},
		{ReturnValue, "RETURN_VALUE", false, false},
		{StoreName, "STORE_NAME", true, false},
		{ForIter, "FOR_ITER", true, true},
		{LoadName, "LOAD_NAME", true, false},
		{CompareOp, "COMPARE_OP", true, false},
		{JumpForward, "JUMP_FORWARD", true, true},
		{JumpAbsolute, "JUMP_ABSOLUTE", true, true},
		{PopJumpIfFalse, "POP_JUMP_IF_FALSE", true, true},
		{CallFunction, "CALL_FUNCTION", true, false},
		{MakeFunction, "MAKE_FUNCTION", true, false},
		{ListAppend, "LIST_APPEND", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.hasArg, info.HasArg())
			require.Equal(t, tt.jump, info.IsJump())
			require.Equal(t, tt.name, tt.code.String())
		})
	}
}

func TestLookup(t *testing.T) {
	code, ok := Lookup("BINARY_ADD")
	require.True(t, ok)
	require.Equal(t, BinaryAdd, code)

	_, ok = Lookup("BINARY_POWER")
	require.False(t, ok)
}

func TestUndefinedOpcode(t *testing.T) {
	require.False(t, IsDefined(Code(3)))
	require.False(t, IsDefined(Invalid))
	require.Equal(t, "<unknown>", Code(250).String())
}

func TestCompareOpString(t *testing.T) {
	want := []string{"<", "<=", "==", "!=", ">", ">=", "in", "not in", "is", "is not"}
	for i := 0; i < CompareOpCount; i++ {
		require.Equal(t, want[i], CompareOpType(i).String())
	}
	require.Equal(t, "", CompareOpType(CompareOpCount).String())
}

func TestBinaryOpString(t *testing.T) {
	require.Equal(t, "+", Add.String())
	require.Equal(t, "//", FloorDivide.String())
	require.Equal(t, "", BinaryOpType(0).String())
}
