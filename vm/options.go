package vm

import (
	"io"

	"github.com/cloudcmds/framevm/builtins"
	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithGlobals provides global variables with the given names. Values are
// converted with object.FromGoType when the VM is created.
func WithGlobals(globals map[string]any) Option {
	return func(vm *VirtualMachine) {
		for name, value := range globals {
			vm.inputGlobals[name] = value
		}
	}
}

// WithBuiltins sets the built-in registry. If not set, builtins.Default() is
// used.
func WithBuiltins(registry *builtins.Registry) Option {
	return func(vm *VirtualMachine) {
		vm.builtins = registry
	}
}

// WithObserver adds an observer for VM execution events. May be given more
// than once; observers are called in the order they were added.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast to avoid impacting performance.
// Returning false from any observer method halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.addObserver(observer)
	}
}

// WithLogger sets the logger used for frame push and pop events.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
		vm.hasLogger = true
	}
}

// WithTraceStack logs the operand stack after every instruction at trace
// level, using the VM's logger. Without WithLogger the trace is written to
// stderr.
func WithTraceStack(enabled bool) Option {
	return func(vm *VirtualMachine) {
		vm.traceStack = enabled
	}
}

// WithDumpCode writes a disassembly of the code unit, including nested code
// constants, to w before execution starts.
func WithDumpCode(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.dumpCode = w
	}
}

// WithMaxFrameDepth sets the maximum number of frames on the call stack.
func WithMaxFrameDepth(depth int) Option {
	return func(vm *VirtualMachine) {
		vm.maxFrameDepth = depth
	}
}

// WithDynamicScope chains each new function frame onto the caller's scope
// instead of the scope the function was defined in.
func WithDynamicScope(enabled bool) Option {
	return func(vm *VirtualMachine) {
		vm.dynamicScope = enabled
	}
}
