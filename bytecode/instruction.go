package bytecode

import (
	"fmt"
	"math"

	"github.com/cloudcmds/framevm/op"
)

// Instruction is one decoded wordcode instruction.
type Instruction struct {
	Op     op.Code
	Arg    int
	HasArg bool

	// Offset is the byte offset of the instruction in the wordcode. When the
	// argument was extended with EXTENDED_ARG prefixes, this is the offset of
	// the first prefix, since that is where jumps to this instruction land.
	Offset int

	// Size is the number of bytes the instruction occupies, prefixes included.
	Size int
}

// Name returns the opcode name of the instruction.
func (i Instruction) Name() string {
	return op.GetInfo(i.Op).Name
}

// String returns a short representation such as "LOAD_CONST 1".
func (i Instruction) String() string {
	if i.HasArg {
		return fmt.Sprintf("%s %d", i.Op, i.Arg)
	}
	return i.Op.String()
}

// MaxExtendedArgs is the number of EXTENDED_ARG prefixes allowed before one
// instruction. Three prefixes widen an argument to 32 bits.
const MaxExtendedArgs = 3

// Decode splits raw wordcode into instructions. Every instruction occupies two
// bytes: the opcode and an argument byte. EXTENDED_ARG prefixes widen the
// argument of the instruction that follows them and are folded into it.
// Opcodes are not validated here; see NewCode.
func Decode(raw []byte) ([]Instruction, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("wordcode length must be even (got %d)", len(raw))
	}
	instructions := make([]Instruction, 0, len(raw)/2)
	extended := 0
	prefixes := 0
	start := -1
	for i := 0; i < len(raw); i += 2 {
		code := op.Code(raw[i])
		if start < 0 {
			start = i
		}
		if code == op.ExtendedArg {
			prefixes++
			if prefixes > MaxExtendedArgs {
				return nil, fmt.Errorf("too many EXTENDED_ARG prefixes at offset %d", start)
			}
			extended = (extended | int(raw[i+1])) << 8
			continue
		}
		instr := Instruction{
			Op:     code,
			Offset: start,
			Size:   i + 2 - start,
		}
		if code >= op.HaveArgument {
			instr.Arg = extended | int(raw[i+1])
			instr.HasArg = true
		}
		instructions = append(instructions, instr)
		extended = 0
		prefixes = 0
		start = -1
	}
	if start >= 0 {
		return nil, fmt.Errorf("wordcode ends with EXTENDED_ARG at offset %d", start)
	}
	return instructions, nil
}

// Encode converts instructions to wordcode, emitting EXTENDED_ARG prefixes for
// arguments that do not fit in one byte. The Offset and Size fields of the
// input are ignored.
func Encode(instructions []Instruction) ([]byte, error) {
	var raw []byte
	for _, instr := range instructions {
		if instr.Arg < 0 {
			return nil, fmt.Errorf("%s: negative argument %d", instr.Op, instr.Arg)
		}
		if int64(instr.Arg) > math.MaxUint32 {
			return nil, fmt.Errorf("%s: argument %d does not fit in 32 bits", instr.Op, instr.Arg)
		}
		if instr.Op == op.ExtendedArg {
			return nil, fmt.Errorf("EXTENDED_ARG is emitted by the encoder")
		}
		arg := instr.Arg
		if instr.Op < op.HaveArgument {
			arg = 0
		}
		raw = append(raw, encodeOne(instr.Op, arg)...)
	}
	return raw, nil
}

// EncodedSize returns the number of bytes Encode uses for an argument.
func EncodedSize(arg int) int {
	size := 2
	for arg > 0xff {
		arg >>= 8
		size += 2
	}
	return size
}

func encodeOne(code op.Code, arg int) []byte {
	var prefixes []byte
	for shift := (EncodedSize(arg)/2 - 1) * 8; shift > 0; shift -= 8 {
		prefixes = append(prefixes, byte(op.ExtendedArg), byte(arg>>shift))
	}
	return append(prefixes, byte(code), byte(arg))
}
