package bytecode

import (
	"fmt"

	"github.com/cloudcmds/framevm/op"
	"github.com/hashicorp/go-multierror"
)

// validate checks that every instruction is defined and that every index and
// jump target it carries is valid for this code unit.
func (c *Code) validate() error {
	var result *multierror.Error
	if c.argCount < 0 || c.argCount > len(c.varNames) {
		result = multierror.Append(result, fmt.Errorf(
			"argument count %d exceeds %d local names", c.argCount, len(c.varNames)))
	}
	for i, instr := range c.instructions {
		if err := c.validateInstruction(i, instr); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (c *Code) validateInstruction(index int, instr Instruction) error {
	info := op.GetInfo(instr.Op)
	if info.Name == "" {
		return fmt.Errorf("offset %d: unknown opcode %d", instr.Offset, instr.Op)
	}
	bad := func(table string, size int) error {
		return fmt.Errorf("offset %d: %s index %d out of range (%d entries)",
			instr.Offset, table, instr.Arg, size)
	}
	if instr.Arg < 0 {
		return fmt.Errorf("offset %d: negative argument %d", instr.Offset, instr.Arg)
	}
	switch info.ArgKind {
	case op.ArgConst:
		if instr.Arg >= len(c.constants) {
			return bad("constant", len(c.constants))
		}
	case op.ArgName:
		if instr.Arg >= len(c.names) {
			return bad("name", len(c.names))
		}
	case op.ArgLocal:
		if instr.Arg >= len(c.varNames) {
			return bad("local", len(c.varNames))
		}
	case op.ArgCompare:
		if instr.Arg >= op.CompareOpCount {
			return fmt.Errorf("offset %d: unknown comparison operator %d",
				instr.Offset, instr.Arg)
		}
	case op.ArgFlags:
		if instr.Arg&^0x0f != 0 {
			return fmt.Errorf("offset %d: unknown MAKE_FUNCTION flags %#x",
				instr.Offset, instr.Arg)
		}
	case op.ArgJumpAbs:
		if _, ok := c.offsets[instr.Arg]; !ok {
			return fmt.Errorf("offset %d: jump target %d is not an instruction",
				instr.Offset, instr.Arg)
		}
	case op.ArgJumpRel:
		target := c.NextOffset(index) + instr.Arg
		if _, ok := c.offsets[target]; !ok {
			return fmt.Errorf("offset %d: jump target %d is not an instruction",
				instr.Offset, target)
		}
	}
	return nil
}
