// Package vm implements a stack-based virtual machine that executes code units
// in the CPython 3.8 wordcode format.
//
// Each function activation runs in its own Frame with a private operand stack
// and scope layer. Frames are kept on a call stack owned by the
// VirtualMachine; the module frame at the bottom lives for the whole run.
package vm

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cloudcmds/framevm/builtins"
	"github.com/cloudcmds/framevm/bytecode"
	"github.com/cloudcmds/framevm/dis"
	"github.com/cloudcmds/framevm/errz"
	"github.com/cloudcmds/framevm/object"
	"github.com/cloudcmds/framevm/scope"
	"github.com/rs/zerolog"
)

// MaxFrameDepth is the default limit on the number of frames on the call
// stack.
const MaxFrameDepth = 1024

// traceOutput receives stack traces when WithTraceStack is used without
// WithLogger.
var traceOutput io.Writer = os.Stderr

type observerState struct {
	observer Observer
	config   ObserverConfig
	steps    int
}

type VirtualMachine struct {
	main          *bytecode.Code
	frames        []*Frame
	globals       *scope.Scope
	constants     map[*bytecode.Code][]object.Object
	builtins      *builtins.Registry
	inputGlobals  map[string]any
	observers     []*observerState
	logger        zerolog.Logger
	hasLogger     bool
	traceStack    bool
	dumpCode      io.Writer
	maxFrameDepth int
	dynamicScope  bool
	runMutex      sync.Mutex
	running       bool
}

// New creates a new Virtual Machine for the given code unit.
func New(code *bytecode.Code, options ...Option) (*VirtualMachine, error) {
	if code == nil {
		return nil, fmt.Errorf("vm: code is nil")
	}
	vm := &VirtualMachine{
		main:          code,
		constants:     map[*bytecode.Code][]object.Object{},
		inputGlobals:  map[string]any{},
		logger:        zerolog.Nop(),
		maxFrameDepth: MaxFrameDepth,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.maxFrameDepth < 1 {
		return nil, fmt.Errorf("vm: max frame depth must be positive (got %d)", vm.maxFrameDepth)
	}
	if vm.builtins == nil {
		vm.builtins = builtins.Default()
	}
	if vm.traceStack {
		logger := vm.logger
		if !vm.hasLogger {
			logger = zerolog.New(traceOutput).Level(zerolog.TraceLevel)
		}
		vm.addObserver(NewStackTracer(logger))
	}
	vm.globals = scope.New(code.Name(), vm.builtins.Layer())
	for name, value := range vm.inputGlobals {
		obj, err := object.FromGoType(value)
		if err != nil {
			return nil, fmt.Errorf("vm: global %q: %w", name, err)
		}
		vm.globals.Set(name, obj)
	}
	return vm, nil
}

func (vm *VirtualMachine) addObserver(observer Observer) {
	if observer == nil {
		return
	}
	vm.observers = append(vm.observers, &observerState{
		observer: observer,
		config:   NormalizeConfig(observer.Config()),
	})
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// Run executes the module code unit to completion and returns the value it
// returned. Top-level bindings remain available through Get afterwards.
//
// Operand errors such as *object.TypeError are returned unchanged. Everything
// else is an *errz.StructuredError carrying the failing instruction and the
// call stack at that point.
func (vm *VirtualMachine) Run(ctx context.Context) (result object.Object, err error) {
	// Set up some guarantees:
	// 1. It is an error to call Run on a VM that is already running
	// 2. The running flag will always be set to false when Run returns
	// 3. Any panics are translated to errors and the VM is stopped
	if err := vm.start(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = vm.recoverError(r)
		}
		vm.frames = vm.frames[:0]
		vm.stop()
	}()

	if vm.dumpCode != nil {
		if err := dis.Dump(vm.dumpCode, vm.main); err != nil {
			return nil, err
		}
	}
	frame := newFrame(vm.main, nil, vm.globals)
	vm.pushFrame(frame)
	return vm.runFrame(ctx, frame)
}

// Call invokes a function value from Go, typically one defined by a previous
// Run. The VM must not be running.
func (vm *VirtualMachine) Call(ctx context.Context, fn object.Object, args []object.Object) (result object.Object, err error) {
	if err := vm.start(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = vm.recoverError(r)
		}
		vm.frames = vm.frames[:0]
		vm.stop()
	}()
	return vm.callObject(ctx, fn, args)
}

// Get returns the value of a top-level binding, looking in the module layer
// and then the built-ins.
func (vm *VirtualMachine) Get(name string) (object.Object, error) {
	value, ok := vm.globals.Get(name)
	if !ok {
		return nil, errz.NameErrorf("name %q is not defined", name)
	}
	return value, nil
}

// GlobalNames returns the sorted names bound in the module layer.
func (vm *VirtualMachine) GlobalNames() []string {
	return vm.globals.Names()
}

// Depth returns the number of frames on the call stack.
func (vm *VirtualMachine) Depth() int {
	return len(vm.frames)
}

// Code returns the module code unit.
func (vm *VirtualMachine) Code() *bytecode.Code {
	return vm.main
}

// Builtins returns the registry of built-in functions.
func (vm *VirtualMachine) Builtins() *builtins.Registry {
	return vm.builtins
}

func (vm *VirtualMachine) runFrame(ctx context.Context, f *Frame) (object.Object, error) {
	code := f.code
	for f.ip < code.InstructionCount() {
		instr := code.InstructionAt(f.ip)
		h := handlers[instr.Op]
		if h == nil {
			return nil, vm.locate(unsupported(instr))
		}
		ip := f.ip
		out, err := h(ctx, vm, f, instr.Arg)
		if err != nil {
			return nil, vm.locate(err)
		}
		if len(vm.observers) > 0 {
			if err := vm.notifyStep(f, ip, instr); err != nil {
				return nil, err
			}
		}
		switch out.kind {
		case returnedOutcome:
			f.ip = returnedIP
			return out.value, nil
		case continueOutcome:
			f.ip++
		}
	}
	f.ip = returnedIP
	return object.None, nil
}

// constant returns the object for a constant pool entry. Each entry is
// converted once per VM, so repeated loads yield the same object.
func (vm *VirtualMachine) constant(code *bytecode.Code, index int) (object.Object, error) {
	pool, ok := vm.constants[code]
	if !ok {
		pool = make([]object.Object, code.ConstantCount())
		vm.constants[code] = pool
	}
	if obj := pool[index]; obj != nil {
		return obj, nil
	}
	obj, err := object.FromConstant(code.ConstantAt(index))
	if err != nil {
		return nil, err
	}
	pool[index] = obj
	return obj, nil
}

func (vm *VirtualMachine) callObject(ctx context.Context, callee object.Object, args []object.Object) (object.Object, error) {
	switch fn := callee.(type) {
	case *Function:
		return vm.callFunction(ctx, fn, args)
	case object.Callable:
		return fn.Call(ctx, args...)
	default:
		return nil, errz.Errorf(errz.ErrRuntime, "'%s' object is not callable", callee.Type())
	}
}

// callFunction runs a function in a new frame and returns its result. The
// frame's scope layer chains onto the scope the function was defined in, or
// onto the caller's scope when dynamic scoping is enabled.
func (vm *VirtualMachine) callFunction(ctx context.Context, fn *Function, args []object.Object) (object.Object, error) {
	bound, err := fn.bindArgs(args)
	if err != nil {
		return nil, err
	}
	if len(vm.frames) >= vm.maxFrameDepth {
		return nil, errz.Errorf(errz.ErrRuntime, "maximum call depth exceeded (%d)", vm.maxFrameDepth)
	}
	parent := fn.scope
	if vm.dynamicScope && len(vm.frames) > 0 {
		parent = vm.frames[len(vm.frames)-1].scope
	}
	code := fn.code
	frame := newFrame(code, fn, parent.Child(fn.QualifiedName()))
	for i, arg := range bound {
		frame.scope.Set(code.LocalNameAt(i), arg)
	}

	callSite := vm.currentLocation()
	vm.pushFrame(frame)
	if err := vm.notifyCall(fn, len(args), callSite); err != nil {
		vm.popFrame(frame)
		return nil, err
	}
	result, err := vm.runFrame(ctx, frame)
	vm.popFrame(frame)
	if err != nil {
		return nil, err
	}
	if err := vm.notifyReturn(fn, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (vm *VirtualMachine) pushFrame(f *Frame) {
	vm.frames = append(vm.frames, f)
	vm.logger.Debug().
		Str("frame", f.Name()).
		Int("depth", len(vm.frames)).
		Msg("push frame")
}

func (vm *VirtualMachine) popFrame(f *Frame) {
	n := len(vm.frames)
	if n == 0 || vm.frames[n-1] != f {
		panic(errz.Internalf("frame %s is not on top of the call stack", f.Name()))
	}
	if f.fn == nil {
		panic(errz.Internalf("attempt to pop the module frame"))
	}
	vm.frames[n-1] = nil
	vm.frames = vm.frames[:n-1]
	vm.logger.Debug().
		Str("frame", f.Name()).
		Int("depth", len(vm.frames)).
		Msg("pop frame")
}

func (vm *VirtualMachine) notifyStep(f *Frame, ip int, instr bytecode.Instruction) error {
	for _, state := range vm.observers {
		cfg := state.config
		switch cfg.StepMode {
		case StepNone:
			continue
		case StepSampled:
			state.steps++
			if state.steps%cfg.SampleInterval != 0 {
				continue
			}
		}
		event := StepEvent{
			IP:         ip,
			Offset:     instr.Offset,
			Opcode:     instr.Op,
			OpcodeName: instr.Name(),
			Arg:        instr.Arg,
			Location: errz.SourceLocation{
				Code:   f.code.Name(),
				Offset: instr.Offset,
				Opname: instr.Name(),
			},
			StackDepth: f.StackDepth(),
			FrameDepth: len(vm.frames),
		}
		if cfg.CaptureStack {
			event.Stack = f.Stack()
		}
		if !state.observer.OnStep(event) {
			return vm.halted()
		}
	}
	return nil
}

func (vm *VirtualMachine) notifyCall(fn *Function, argc int, callSite errz.SourceLocation) error {
	for _, state := range vm.observers {
		if !state.config.ObserveCalls {
			continue
		}
		event := CallEvent{
			FunctionName: fn.QualifiedName(),
			ArgCount:     argc,
			Location:     callSite,
			FrameDepth:   len(vm.frames),
		}
		if !state.observer.OnCall(event) {
			return vm.halted()
		}
	}
	return nil
}

func (vm *VirtualMachine) notifyReturn(fn *Function, value object.Object) error {
	for _, state := range vm.observers {
		if !state.config.ObserveReturns {
			continue
		}
		event := ReturnEvent{
			FunctionName: fn.QualifiedName(),
			Value:        value,
			FrameDepth:   len(vm.frames),
		}
		if !state.observer.OnReturn(event) {
			return vm.halted()
		}
	}
	return nil
}

func (vm *VirtualMachine) halted() error {
	return vm.runtimeError(errz.ErrRuntime, "execution halted by observer")
}

// currentLocation returns the location of the instruction executing in the
// top frame, if any.
func (vm *VirtualMachine) currentLocation() errz.SourceLocation {
	if len(vm.frames) == 0 {
		return errz.SourceLocation{}
	}
	return vm.frames[len(vm.frames)-1].location()
}

// captureStack returns the active frames, innermost first.
func (vm *VirtualMachine) captureStack() []errz.StackFrame {
	frames := make([]errz.StackFrame, 0, len(vm.frames))
	for i := len(vm.frames) - 1; i >= 0; i-- {
		f := vm.frames[i]
		frames = append(frames, errz.StackFrame{
			Function: f.Name(),
			Location: f.location(),
		})
	}
	return frames
}

// runtimeError creates an error with the current location and stack trace.
func (vm *VirtualMachine) runtimeError(kind errz.ErrorKind, format string, args ...any) *errz.StructuredError {
	return errz.NewStructuredErrorf(kind, vm.currentLocation(), vm.captureStack(), format, args...)
}

// locate attaches the current location and stack to structured errors that
// do not have one yet. Operand errors pass through unchanged.
func (vm *VirtualMachine) locate(err error) error {
	if se, ok := err.(*errz.StructuredError); ok {
		return se.WithLocation(vm.currentLocation(), vm.captureStack())
	}
	return err
}

func (vm *VirtualMachine) recoverError(r any) error {
	switch r := r.(type) {
	case *errz.StructuredError:
		return r.WithLocation(vm.currentLocation(), vm.captureStack())
	case error:
		return vm.runtimeError(errz.ErrInternal, "panic: %v", r).WithCause(r)
	default:
		return vm.runtimeError(errz.ErrInternal, "panic: %v", r)
	}
}
