package vm

import (
	"github.com/cloudcmds/framevm/errz"
	"github.com/cloudcmds/framevm/object"
)

// The operand stack is a growable slice; the top of stack is the last
// element. Reading past the bottom means the code unit was compiled wrong,
// so underflow panics with an internal error that the VM recovers.

func (f *Frame) underflow(want int) {
	panic(errz.Internalf("stack underflow in %s: need %d values, have %d",
		f.code.Name(), want, len(f.stack)))
}

func (f *Frame) push(obj object.Object) {
	f.stack = append(f.stack, obj)
}

func (f *Frame) pop() object.Object {
	n := len(f.stack)
	if n == 0 {
		f.underflow(1)
	}
	obj := f.stack[n-1]
	f.stack[n-1] = nil
	f.stack = f.stack[:n-1]
	return obj
}

// popN removes the top n values and returns them in the order they were
// pushed.
func (f *Frame) popN(n int) []object.Object {
	size := len(f.stack)
	if n > size {
		f.underflow(n)
	}
	items := make([]object.Object, n)
	copy(items, f.stack[size-n:])
	for i := size - n; i < size; i++ {
		f.stack[i] = nil
	}
	f.stack = f.stack[:size-n]
	return items
}

// peek returns the value at the given depth without removing it. Depth 1 is
// the top of stack.
func (f *Frame) peek(depth int) object.Object {
	if depth < 1 || depth > len(f.stack) {
		f.underflow(depth)
	}
	return f.stack[len(f.stack)-depth]
}

// StackDepth returns the number of values on the operand stack.
func (f *Frame) StackDepth() int {
	return len(f.stack)
}

// Stack returns a copy of the operand stack, bottom first.
func (f *Frame) Stack() []object.Object {
	items := make([]object.Object, len(f.stack))
	copy(items, f.stack)
	return items
}
