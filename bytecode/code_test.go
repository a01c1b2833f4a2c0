package bytecode

import (
	"testing"

	"github.com/cloudcmds/framevm/errz"
	"github.com/cloudcmds/framevm/op"
	"github.com/stretchr/testify/require"
)

func wordcode(pairs ...any) []byte {
	var raw []byte
	for i := 0; i < len(pairs); i += 2 {
		raw = append(raw, byte(pairs[i].(op.Code)), byte(pairs[i+1].(int)))
	}
	return raw
}

func TestNewCodeImmutability(t *testing.T) {
	raw := wordcode(op.LoadConst, 0, op.ReturnValue, 0)
	constants := []any{42, "hello"}
	names := []string{"foo", "bar"}
	varNames := []string{"x"}

	code, err := NewCode(CodeParams{
		ID:        "test",
		Name:      "test_code",
		ArgCount:  1,
		Bytecode:  raw,
		Constants: constants,
		Names:     names,
		VarNames:  varNames,
	})
	require.Nil(t, err)

	raw[0] = byte(op.Nop)
	constants[0] = 99
	names[0] = "modified"
	varNames[0] = "modified"

	if code.InstructionAt(0).Op != op.LoadConst {
		t.Errorf("expected instruction 0 to be LOAD_CONST, got %v", code.InstructionAt(0).Op)
	}
	if code.ConstantAt(0) != int64(42) {
		t.Errorf("expected constant 0 to be 42, got %v", code.ConstantAt(0))
	}
	if code.NameAt(0) != "foo" {
		t.Errorf("expected name 0 to be 'foo', got %v", code.NameAt(0))
	}
	if code.LocalNameAt(0) != "x" {
		t.Errorf("expected local 0 to be 'x', got %v", code.LocalNameAt(0))
	}

	out := code.Bytecode()
	out[0] = byte(op.Nop)
	require.Equal(t, byte(op.LoadConst), code.Bytecode()[0])
}

func TestCodeAccessors(t *testing.T) {
	code, err := NewCode(CodeParams{
		ID:        "id-1",
		Name:      "f",
		ArgCount:  2,
		Constants: []any{nil, int64(1)},
		Names:     []string{"print"},
		VarNames:  []string{"a", "b", "tmp"},
		Bytecode: wordcode(
			op.LoadFast, 0,
			op.LoadFast, 1,
			op.BinaryAdd, 0,
			op.StoreFast, 2,
			op.LoadFast, 2,
			op.ReturnValue, 0,
		),
	})
	require.Nil(t, err)
	require.Equal(t, "id-1", code.ID())
	require.Equal(t, "f", code.Name())
	require.Equal(t, 2, code.ArgCount())
	require.Equal(t, 2, code.ConstantCount())
	require.Equal(t, 1, code.NameCount())
	require.Equal(t, 3, code.LocalCount())
	require.Equal(t, "tmp", code.LocalNameAt(2))
	require.Equal(t, 6, code.InstructionCount())
	require.Equal(t, "<code f>", code.String())
	require.Empty(t, code.Children())
}

func TestNewCodeDefaults(t *testing.T) {
	code, err := NewCode(CodeParams{})
	require.Nil(t, err)
	require.Equal(t, "<module>", code.Name())
	require.Len(t, code.ID(), 36)
	require.Equal(t, 0, code.InstructionCount())

	other, err := NewCode(CodeParams{})
	require.Nil(t, err)
	require.NotEqual(t, code.ID(), other.ID())
}

func TestIndexOfAndNextOffset(t *testing.T) {
	code, err := NewCode(CodeParams{
		Constants: []any{nil},
		Bytecode: wordcode(
			op.Nop, 0,
			op.ExtendedArg, 0,
			op.LoadConst, 0,
			op.ReturnValue, 0,
		),
	})
	require.Nil(t, err)
	require.Equal(t, 3, code.InstructionCount())

	index, ok := code.IndexOf(2)
	require.True(t, ok)
	require.Equal(t, 1, index)
	require.Equal(t, op.LoadConst, code.InstructionAt(index).Op)
	require.Equal(t, 6, code.NextOffset(index))

	_, ok = code.IndexOf(4)
	require.False(t, ok, "offset inside an extended instruction is not a start")

	index, ok = code.IndexOf(6)
	require.True(t, ok)
	require.Equal(t, 8, code.NextOffset(index))
}

func TestChildrenAndFlatten(t *testing.T) {
	inner, err := NewCode(CodeParams{
		Name:      "inner",
		Constants: []any{nil},
		Bytecode:  wordcode(op.LoadConst, 0, op.ReturnValue, 0),
	})
	require.Nil(t, err)
	middle, err := NewCode(CodeParams{
		Name:      "middle",
		Constants: []any{inner, "middle.<locals>.inner"},
		Bytecode:  wordcode(op.LoadConst, 0, op.ReturnValue, 0),
	})
	require.Nil(t, err)
	outer, err := NewCode(CodeParams{
		Constants: []any{middle, []any{1, inner}},
		Bytecode:  wordcode(op.LoadConst, 0, op.ReturnValue, 0),
	})
	require.Nil(t, err)

	require.Equal(t, []*Code{middle}, outer.Children())
	flat := outer.Flatten()
	require.Len(t, flat, 3)
	require.Equal(t, "<module>", flat[0].Name())
	require.Equal(t, "middle", flat[1].Name())
	require.Equal(t, "inner", flat[2].Name())

	// Nested tuple constants are normalized too.
	require.Equal(t, []any{int64(1), inner}, outer.ConstantAt(1))
}

func TestNewCodeValidation(t *testing.T) {
	_, err := NewCode(CodeParams{
		Name:      "broken",
		Constants: []any{nil},
		Names:     []string{"a"},
		Bytecode: wordcode(
			op.LoadConst, 5,
			op.Code(200), 0,
			op.LoadName, 1,
			op.JumpAbsolute, 3,
			op.CompareOp, 12,
			op.MakeFunction, 0x10,
			op.LoadFast, 0,
			op.JumpForward, 40,
		),
	})
	require.Error(t, err)
	require.True(t, errz.Is(err, errz.ErrDecode))

	msg := err.Error()
	require.Contains(t, msg, "offset 0: constant index 5 out of range (1 entries)")
	require.Contains(t, msg, "offset 2: unknown opcode 200")
	require.Contains(t, msg, "offset 4: name index 1 out of range (1 entries)")
	require.Contains(t, msg, "offset 6: jump target 3 is not an instruction")
	require.Contains(t, msg, "offset 8: unknown comparison operator 12")
	require.Contains(t, msg, "offset 10: unknown MAKE_FUNCTION flags 0x10")
	require.Contains(t, msg, "offset 12: local index 0 out of range (0 entries)")
	require.Contains(t, msg, "offset 14: jump target 56 is not an instruction")
}

func TestNewCodeArgCount(t *testing.T) {
	_, err := NewCode(CodeParams{ArgCount: 2, VarNames: []string{"a"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "argument count 2 exceeds 1 local names")
}

func TestNewCodeBadConstant(t *testing.T) {
	_, err := NewCode(CodeParams{Constants: []any{struct{}{}}})
	require.Error(t, err)
	require.True(t, errz.Is(err, errz.ErrDecode))
	require.Contains(t, err.Error(), "constant 0: unsupported constant type struct {}")
}
