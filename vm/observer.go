package vm

import (
	"github.com/cloudcmds/framevm/errz"
	"github.com/cloudcmds/framevm/object"
	"github.com/cloudcmds/framevm/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep after every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	// Use for: observers that only need Call/Return events.
	StepNone

	// StepSampled calls OnStep every N instructions.
	StepSampled
)

// ObserverConfig specifies what events an observer wants to receive.
// Use NewObserverConfig() to create configs with safe defaults.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int

	// CaptureStack copies the operand stack into each StepEvent.
	CaptureStack bool

	// ObserveCalls enables OnCall callbacks.
	ObserveCalls bool

	// ObserveReturns enables OnReturn callbacks.
	ObserveReturns bool
}

// NewObserverConfig creates a config with safe defaults.
// ObserveCalls and ObserveReturns default to true.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		ObserveCalls:   true,
		ObserveReturns: true,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is an interface for observing VM execution events. Observers are
// diagnostics only: they see the machine state but cannot change it, apart
// from halting execution by returning false.
//
// Observer methods are called synchronously during VM execution.
// Implementations should be fast to avoid impacting performance.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once when the observer is attached to the VM.
	Config() ObserverConfig

	// OnStep is called after an instruction executes, based on the StepMode
	// in the observer's config. Returns false to halt execution.
	OnStep(event StepEvent) bool

	// OnCall is called when a function frame is pushed (if ObserveCalls is
	// true). Returns false to halt execution.
	OnCall(event CallEvent) bool

	// OnReturn is called when a function frame is popped (if ObserveReturns
	// is true). Returns false to halt execution.
	OnReturn(event ReturnEvent) bool
}

// StepEvent contains information about a single executed instruction.
type StepEvent struct {
	// IP is the index of the instruction in the decoded sequence.
	IP int

	// Offset is the byte offset of the instruction.
	Offset int

	// Opcode is the operation that was executed.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode.
	OpcodeName string

	// Arg is the instruction argument, with any EXTENDED_ARG prefixes folded in.
	Arg int

	// Location identifies the code unit and instruction.
	Location errz.SourceLocation

	// StackDepth is the depth of the operand stack after the instruction.
	StackDepth int

	// FrameDepth is the current depth of the call stack.
	FrameDepth int

	// Stack is a copy of the operand stack, bottom first. It is only set when
	// the observer config has CaptureStack enabled.
	Stack []object.Object
}

// CallEvent contains information about a function call.
type CallEvent struct {
	// FunctionName is the qualified name of the function being called.
	FunctionName string

	// ArgCount is the number of arguments passed to the function.
	ArgCount int

	// Location is the call site.
	Location errz.SourceLocation

	// FrameDepth is the call stack depth after the call.
	FrameDepth int
}

// ReturnEvent contains information about a function return.
type ReturnEvent struct {
	// FunctionName is the qualified name of the function returning.
	FunctionName string

	// Value is the returned value.
	Value object.Object

	// FrameDepth is the call stack depth after returning.
	FrameDepth int
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide default implementations
// for methods you don't need.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

var _ Observer = NoOpObserver{}
