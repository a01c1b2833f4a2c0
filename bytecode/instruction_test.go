package bytecode

import (
	"testing"

	"github.com/cloudcmds/framevm/op"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	instrs, err := Decode(wordcode(
		op.LoadName, 0,
		op.LoadConst, 1,
		op.BinaryAdd, 7, // argument byte ignored below HAVE_ARGUMENT
		op.StoreName, 1,
	))
	require.Nil(t, err)
	require.Len(t, instrs, 4)
	require.Equal(t, Instruction{Op: op.LoadName, Arg: 0, HasArg: true, Offset: 0, Size: 2}, instrs[0])
	require.Equal(t, Instruction{Op: op.BinaryAdd, Offset: 4, Size: 2}, instrs[2])
	require.Equal(t, "STORE_NAME 1", instrs[3].String())
	require.Equal(t, "BINARY_ADD", instrs[2].String())
	require.Equal(t, "STORE_NAME", instrs[3].Name())
}

func TestDecodeExtendedArg(t *testing.T) {
	instrs, err := Decode(wordcode(
		op.Nop, 0,
		op.ExtendedArg, 1,
		op.ExtendedArg, 2,
		op.JumpAbsolute, 3,
	))
	require.Nil(t, err)
	require.Len(t, instrs, 2)
	jump := instrs[1]
	require.Equal(t, op.JumpAbsolute, jump.Op)
	require.Equal(t, 0x010203, jump.Arg)
	require.Equal(t, 2, jump.Offset)
	require.Equal(t, 6, jump.Size)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte{byte(op.Nop)})
	require.EqualError(t, err, "wordcode length must be even (got 1)")

	_, err = Decode(wordcode(op.Nop, 0, op.ExtendedArg, 1))
	require.EqualError(t, err, "wordcode ends with EXTENDED_ARG at offset 2")
}

func TestDecodeExtendedArgLimit(t *testing.T) {
	instrs, err := Decode(wordcode(
		op.ExtendedArg, 0xff,
		op.ExtendedArg, 0xff,
		op.ExtendedArg, 0xff,
		op.JumpAbsolute, 0xff,
	))
	require.Nil(t, err)
	require.Equal(t, 0xffffffff, instrs[0].Arg)

	var pairs []any
	for i := 0; i < 7; i++ {
		pairs = append(pairs, op.ExtendedArg, 0x80)
	}
	pairs = append(pairs, op.LoadConst, 0xff)
	_, err = Decode(wordcode(pairs...))
	require.EqualError(t, err, "too many EXTENDED_ARG prefixes at offset 0")

	_, err = NewCode(CodeParams{
		Constants: []any{int64(1)},
		Bytecode:  wordcode(pairs...),
	})
	require.Error(t, err)
}

func TestValidateNegativeArgument(t *testing.T) {
	code, err := NewCode(CodeParams{
		Constants: []any{nil},
		Bytecode:  wordcode(op.LoadConst, 0, op.ReturnValue, 0),
	})
	require.Nil(t, err)
	err = code.validateInstruction(0, Instruction{Op: op.LoadConst, Arg: -1, HasArg: true})
	require.EqualError(t, err, "offset 0: negative argument -1")
}

func TestEncode(t *testing.T) {
	raw, err := Encode([]Instruction{
		{Op: op.LoadConst, Arg: 1},
		{Op: op.JumpAbsolute, Arg: 0x1234},
		{Op: op.ReturnValue, Arg: 9},
	})
	require.Nil(t, err)
	require.Equal(t, wordcode(
		op.LoadConst, 1,
		op.ExtendedArg, 0x12,
		op.JumpAbsolute, 0x34,
		op.ReturnValue, 0,
	), raw)

	decoded, err := Decode(raw)
	require.Nil(t, err)
	require.Equal(t, 0x1234, decoded[1].Arg)
	require.Equal(t, 2, decoded[1].Offset)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode([]Instruction{{Op: op.LoadConst, Arg: -1}})
	require.EqualError(t, err, "LOAD_CONST: negative argument -1")

	_, err = Encode([]Instruction{{Op: op.ExtendedArg, Arg: 1}})
	require.Error(t, err)

	_, err = Encode([]Instruction{{Op: op.JumpAbsolute, Arg: 1 << 32}})
	require.EqualError(t, err, "JUMP_ABSOLUTE: argument 4294967296 does not fit in 32 bits")
}

func TestEncodedSize(t *testing.T) {
	require.Equal(t, 2, EncodedSize(0))
	require.Equal(t, 2, EncodedSize(255))
	require.Equal(t, 4, EncodedSize(256))
	require.Equal(t, 4, EncodedSize(0xffff))
	require.Equal(t, 6, EncodedSize(0x10000))
}
