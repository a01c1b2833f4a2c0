// Package bytecode provides immutable code units for the framevm virtual
// machine.
//
// A code unit is the output of an external compiler: a constant pool, a
// names table used by name-indexed instructions, a local variable table used
// by slot-indexed instructions, and wordcode. NewCode decodes the wordcode
// into instructions, keeping the byte offset of each one since jumps address
// instructions by offset, and builds an offset-to-index table so that jumps
// resolve in constant time.
//
// # Key Types
//
//   - [Code]: an immutable decoded code unit (module or function body)
//   - [Instruction]: one decoded instruction with its argument and offset
//
// # Validation
//
// Decoding is total for well-formed input. Malformed input (an unknown
// opcode, an index outside its table, a jump target that is not the start of
// an instruction) is rejected by NewCode with an error of kind
// errz.ErrDecode, so the VM never observes it at run time.
//
// # Immutability Guarantees
//
// All fields are unexported and constructors copy their input slices.
// Index-based access is used for all collections:
//
//	code.InstructionAt(0)
//	code.ConstantAt(i)
//	code.LocalNameAt(j)
//
// # Package Dependencies
//
// This package depends only on [github.com/cloudcmds/framevm/op] and
// [github.com/cloudcmds/framevm/errz]. Constants are stored as []any and
// converted to object.Object by the VM at load time.
//
// # Wire Form
//
// Marshal and Unmarshal convert a code unit to and from CBOR. Unmarshal runs
// the same decoding and validation as NewCode.
package bytecode
