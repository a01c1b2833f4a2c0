// Package framevm runs code units compiled for the CPython 3.8 wordcode format
// on a small stack-based virtual machine.
//
// Code units are built with the bytecode package, decoded from their CBOR
// wire form with bytecode.Unmarshal, or written in the text format accepted
// by the asm package:
//
//	code, _ := framevm.Assemble(src)
//	n, _ := framevm.Eval(ctx, code, "n", framevm.WithGlobals(map[string]any{"a": 2}))
package framevm

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudcmds/framevm/asm"
	"github.com/cloudcmds/framevm/builtins"
	"github.com/cloudcmds/framevm/bytecode"
	"github.com/cloudcmds/framevm/object"
	"github.com/cloudcmds/framevm/vm"
	"github.com/rs/zerolog"
)

// Option configures a framevm execution.
type Option func(*options)

type options struct {
	globals       map[string]any
	builtins      map[string]object.Object
	observer      vm.Observer
	logger        *zerolog.Logger
	traceStack    bool
	dumpCode      io.Writer
	stdout        io.Writer
	maxFrameDepth int
	dynamicScope  bool
}

func collectOptions(opts ...Option) *options {
	o := &options{globals: map[string]any{}}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if len(o.globals) > 0 {
		opts = append(opts, vm.WithGlobals(o.globals))
	}
	if len(o.builtins) > 0 {
		opts = append(opts, vm.WithBuiltins(builtins.Default().With(o.builtins)))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	if o.traceStack {
		opts = append(opts, vm.WithTraceStack(true))
	}
	if o.dumpCode != nil {
		opts = append(opts, vm.WithDumpCode(o.dumpCode))
	}
	if o.maxFrameDepth > 0 {
		opts = append(opts, vm.WithMaxFrameDepth(o.maxFrameDepth))
	}
	if o.dynamicScope {
		opts = append(opts, vm.WithDynamicScope(true))
	}
	return opts
}

// WithGlobals provides top-level variables to the code being run. This option
// is additive, so multiple WithGlobals options may be supplied. If the same
// key is supplied multiple times, the last value wins.
func WithGlobals(globals map[string]any) Option {
	return func(o *options) {
		maps.Copy(o.globals, globals)
	}
}

// WithBuiltins adds built-in functions on top of the default registry.
// Entries with the same name as a default built-in replace it.
func WithBuiltins(extra map[string]object.Object) Option {
	return func(o *options) {
		if o.builtins == nil {
			o.builtins = map[string]object.Object{}
		}
		maps.Copy(o.builtins, extra)
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger used by the VM.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithTraceStack logs the operand stack after every instruction at trace
// level.
func WithTraceStack(enabled bool) Option {
	return func(o *options) {
		o.traceStack = enabled
	}
}

// WithDumpCode writes a disassembly of the code to w before running it.
func WithDumpCode(w io.Writer) Option {
	return func(o *options) {
		o.dumpCode = w
	}
}

// WithStdout sets the writer used by the print built-in.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithMaxFrameDepth limits the depth of the call stack.
func WithMaxFrameDepth(depth int) Option {
	return func(o *options) {
		o.maxFrameDepth = depth
	}
}

// WithDynamicScope chains function frames onto the caller's scope instead of
// the defining scope.
func WithDynamicScope(enabled bool) Option {
	return func(o *options) {
		o.dynamicScope = enabled
	}
}

// Run executes the code unit and returns the VM, from which top-level
// bindings can be read with Get.
func Run(ctx context.Context, code *bytecode.Code, opts ...Option) (*vm.VirtualMachine, error) {
	o := collectOptions(opts...)
	machine, err := vm.New(code, o.vmOpts()...)
	if err != nil {
		return nil, err
	}
	if o.stdout != nil {
		ctx = builtins.WithStdout(ctx, o.stdout)
	}
	if _, err := machine.Run(ctx); err != nil {
		return nil, err
	}
	return machine, nil
}

// Eval executes the code unit and returns the value bound to the given
// top-level name.
func Eval(ctx context.Context, code *bytecode.Code, name string, opts ...Option) (object.Object, error) {
	machine, err := Run(ctx, code, opts...)
	if err != nil {
		return nil, err
	}
	return machine.Get(name)
}

// Assemble builds a code unit from assembly text.
func Assemble(src string) (*bytecode.Code, error) {
	return asm.Assemble(src)
}

// File extensions understood by LoadFile.
const (
	ExtCode     = ".fvm"
	ExtAssembly = ".fasm"
)

// LoadFile reads a code unit from disk. Files ending in .fasm are assembled;
// everything else is decoded from the CBOR wire form.
func LoadFile(path string) (*bytecode.Code, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var code *bytecode.Code
	if strings.EqualFold(filepath.Ext(path), ExtAssembly) {
		code, err = asm.Assemble(string(data))
	} else {
		code, err = bytecode.Unmarshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return code, nil
}
