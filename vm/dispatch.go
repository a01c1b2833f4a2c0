package vm

import (
	"context"

	"github.com/cloudcmds/framevm/bytecode"
	"github.com/cloudcmds/framevm/errz"
	"github.com/cloudcmds/framevm/object"
	"github.com/cloudcmds/framevm/op"
)

type outcomeKind uint8

const (
	continueOutcome outcomeKind = iota
	jumpedOutcome
	returnedOutcome
)

// outcome tells the dispatch loop what a handler did with the instruction
// pointer.
type outcome struct {
	kind  outcomeKind
	value object.Object
}

var (
	proceed = outcome{kind: continueOutcome}
	jumped  = outcome{kind: jumpedOutcome}
)

func returned(value object.Object) outcome {
	return outcome{kind: returnedOutcome, value: value}
}

type handler func(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error)

// handlers maps each opcode to its implementation. Opcodes without an entry
// are decoded and listed but raise an unsupported instruction error when
// executed.
var handlers [256]handler

func init() {
	handlers[op.PopTop] = opPopTop
	handlers[op.RotTwo] = opRotTwo
	handlers[op.DupTop] = opDupTop
	handlers[op.Nop] = opNop
	handlers[op.UnaryNegative] = opUnaryNegative
	handlers[op.UnaryNot] = opUnaryNot

	handlers[op.BinaryAdd] = binary(op.Add)
	handlers[op.BinarySubtract] = binary(op.Subtract)
	handlers[op.BinaryMultiply] = binary(op.Multiply)
	handlers[op.BinaryTrueDivide] = binary(op.TrueDivide)
	handlers[op.BinaryFloorDivide] = binary(op.FloorDivide)
	handlers[op.BinaryModulo] = binary(op.Modulo)
	handlers[op.InplaceAdd] = binary(op.Add)
	handlers[op.InplaceSubtract] = binary(op.Subtract)
	handlers[op.InplaceMultiply] = binary(op.Multiply)
	handlers[op.BinarySubscr] = opBinarySubscr

	handlers[op.GetIter] = opGetIter
	handlers[op.ForIter] = opForIter
	handlers[op.ReturnValue] = opReturnValue

	handlers[op.StoreName] = opStoreName
	handlers[op.LoadName] = opLoadName
	handlers[op.LoadGlobal] = opLoadGlobal
	handlers[op.LoadFast] = opLoadFast
	handlers[op.StoreFast] = opStoreFast
	handlers[op.LoadDeref] = opLoadDeref
	handlers[op.LoadConst] = opLoadConst

	handlers[op.UnpackSequence] = opUnpackSequence
	handlers[op.BuildTuple] = opBuildTuple
	handlers[op.BuildList] = opBuildList
	handlers[op.BuildMap] = opBuildMap
	handlers[op.ListAppend] = opListAppend
	handlers[op.CompareOp] = opCompareOp

	handlers[op.JumpForward] = opJumpForward
	handlers[op.JumpAbsolute] = opJumpAbsolute
	handlers[op.PopJumpIfFalse] = popJumpIf(false)
	handlers[op.PopJumpIfTrue] = popJumpIf(true)
	handlers[op.JumpIfFalseOrPop] = jumpIfOrPop(false)
	handlers[op.JumpIfTrueOrPop] = jumpIfOrPop(true)

	handlers[op.CallFunction] = opCallFunction
	handlers[op.MakeFunction] = opMakeFunction
}

func opPopTop(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	f.pop()
	return proceed, nil
}

func opRotTwo(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	tos := f.pop()
	tos1 := f.pop()
	f.push(tos)
	f.push(tos1)
	return proceed, nil
}

func opDupTop(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	f.push(f.peek(1))
	return proceed, nil
}

func opNop(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	return proceed, nil
}

func opUnaryNegative(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	result, err := object.Negate(f.pop())
	if err != nil {
		return proceed, err
	}
	f.push(result)
	return proceed, nil
}

func opUnaryNot(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	f.push(object.NewBool(!f.pop().IsTruthy()))
	return proceed, nil
}

// binary returns the handler for a binary or in-place operator. In-place
// forms share the implementation since no value type is mutable in place.
func binary(opType op.BinaryOpType) handler {
	return func(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
		right := f.pop()
		left := f.pop()
		result, err := object.BinaryOp(opType, left, right)
		if err != nil {
			return proceed, err
		}
		f.push(result)
		return proceed, nil
	}
}

func opBinarySubscr(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	key := f.pop()
	container := f.pop()
	result, err := object.Subscript(container, key)
	if err != nil {
		return proceed, err
	}
	f.push(result)
	return proceed, nil
}

func opGetIter(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	it, err := object.Iterate(f.pop())
	if err != nil {
		return proceed, err
	}
	f.push(it)
	return proceed, nil
}

func opForIter(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	tos := f.peek(1)
	it, ok := tos.(object.Iterator)
	if !ok {
		return proceed, object.TypeErrorf("'%s' object is not an iterator", tos.Type())
	}
	if value, ok := it.Next(); ok {
		f.push(value)
		return proceed, nil
	}
	f.pop()
	f.jumpBy(arg)
	return jumped, nil
}

func opReturnValue(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	return returned(f.pop()), nil
}

func opStoreName(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	f.scope.Set(f.code.NameAt(arg), f.pop())
	return proceed, nil
}

func opLoadName(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	name := f.code.NameAt(arg)
	value, ok := f.scope.Get(name)
	if !ok {
		return proceed, errz.NameErrorf("name %q is not defined", name)
	}
	f.push(value)
	return proceed, nil
}

func opLoadGlobal(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	name := f.code.NameAt(arg)
	value, ok := vm.globals.Get(name)
	if !ok {
		return proceed, errz.NameErrorf("name %q is not defined", name)
	}
	f.push(value)
	return proceed, nil
}

// Fast locals live in the frame's own scope layer, so STORE_NAME and
// STORE_FAST address the same binding.

func opLoadFast(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	name := f.code.LocalNameAt(arg)
	value, ok := f.scope.Local(name)
	if !ok {
		return proceed, errz.NameErrorf("local variable %q referenced before assignment", name)
	}
	f.push(value)
	return proceed, nil
}

func opStoreFast(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	f.scope.Set(f.code.LocalNameAt(arg), f.pop())
	return proceed, nil
}

func opLoadDeref(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	if f.fn == nil || f.fn.closure == nil {
		return proceed, errz.Internalf("LOAD_DEREF in %s without a closure", f.code.Name())
	}
	cells := f.fn.closure.Value()
	if arg >= len(cells) {
		return proceed, errz.Internalf("closure index %d out of range (%d entries)", arg, len(cells))
	}
	f.push(cells[arg])
	return proceed, nil
}

func opLoadConst(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	value, err := vm.constant(f.code, arg)
	if err != nil {
		return proceed, errz.Internalf("invalid constant %d in %s: %v", arg, f.code.Name(), err)
	}
	f.push(value)
	return proceed, nil
}

func opUnpackSequence(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	items, err := object.Collect(f.pop())
	if err != nil {
		return proceed, err
	}
	if len(items) < arg {
		return proceed, object.ValueErrorf("not enough values to unpack (expected %d, got %d)", arg, len(items))
	}
	if len(items) > arg {
		return proceed, object.ValueErrorf("too many values to unpack (expected %d)", arg)
	}
	for i := len(items) - 1; i >= 0; i-- {
		f.push(items[i])
	}
	return proceed, nil
}

func opBuildTuple(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	f.push(object.NewTuple(f.popN(arg)))
	return proceed, nil
}

func opBuildList(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	f.push(object.NewList(f.popN(arg)))
	return proceed, nil
}

func opBuildMap(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	items := f.popN(arg * 2)
	d := object.NewDict()
	for i := 0; i < len(items); i += 2 {
		if err := d.Set(items[i], items[i+1]); err != nil {
			return proceed, err
		}
	}
	f.push(d)
	return proceed, nil
}

func opListAppend(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	value := f.pop()
	target := f.peek(arg)
	list, ok := target.(*object.List)
	if !ok {
		return proceed, errz.Internalf("LIST_APPEND target is %s, not list", target.Type())
	}
	list.Append(value)
	return proceed, nil
}

func opCompareOp(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	right := f.pop()
	left := f.pop()
	result, err := object.Compare(op.CompareOpType(arg), left, right)
	if err != nil {
		return proceed, err
	}
	f.push(result)
	return proceed, nil
}

func opJumpForward(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	f.jumpBy(arg)
	return jumped, nil
}

func opJumpAbsolute(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	f.jumpTo(arg)
	return jumped, nil
}

func popJumpIf(when bool) handler {
	return func(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
		if f.pop().IsTruthy() == when {
			f.jumpTo(arg)
			return jumped, nil
		}
		return proceed, nil
	}
}

func jumpIfOrPop(when bool) handler {
	return func(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
		if f.peek(1).IsTruthy() == when {
			f.jumpTo(arg)
			return jumped, nil
		}
		f.pop()
		return proceed, nil
	}
}

func opCallFunction(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	args := f.popN(arg)
	callee := f.pop()
	result, err := vm.callObject(ctx, callee, args)
	if err != nil {
		return proceed, err
	}
	f.push(result)
	return proceed, nil
}

func opMakeFunction(ctx context.Context, vm *VirtualMachine, f *Frame, arg int) (outcome, error) {
	qualname, ok := f.pop().(*object.String)
	if !ok {
		return proceed, errz.Internalf("MAKE_FUNCTION expected a str qualified name")
	}
	codeObj, ok := f.pop().(*object.Code)
	if !ok {
		return proceed, errz.Internalf("MAKE_FUNCTION expected a code object")
	}
	fn := &Function{
		name:  qualname.Value(),
		code:  codeObj.Value(),
		scope: f.scope,
		vm:    vm,
	}
	if arg&op.FuncClosure != 0 {
		closure, ok := f.pop().(*object.Tuple)
		if !ok {
			return proceed, errz.Internalf("MAKE_FUNCTION closure must be a tuple")
		}
		fn.closure = closure
	}
	if arg&op.FuncAnnotations != 0 {
		fn.annotations = f.pop()
	}
	if arg&op.FuncKwDefaults != 0 {
		kwDefaults, ok := f.pop().(*object.Dict)
		if !ok {
			return proceed, errz.Internalf("MAKE_FUNCTION keyword defaults must be a dict")
		}
		fn.kwDefaults = kwDefaults
	}
	if arg&op.FuncDefaults != 0 {
		defaults, ok := f.pop().(*object.Tuple)
		if !ok {
			return proceed, errz.Internalf("MAKE_FUNCTION defaults must be a tuple")
		}
		fn.defaults = defaults.Value()
		if len(fn.defaults) > fn.code.ArgCount() {
			return proceed, errz.Internalf("function %q has %d defaults for %d arguments",
				fn.name, len(fn.defaults), fn.code.ArgCount())
		}
	}
	f.push(fn)
	return proceed, nil
}

func unsupported(instr bytecode.Instruction) error {
	return errz.Errorf(errz.ErrUnsupported, "unsupported instruction %s", instr.Name())
}
