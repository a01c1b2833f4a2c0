package vm

import (
	"github.com/cloudcmds/framevm/object"
	"github.com/rs/zerolog"
)

// StackTracer is an Observer that logs the operand stack after every
// instruction, plus function calls and returns, at trace level.
type StackTracer struct {
	logger zerolog.Logger
}

// NewStackTracer returns a StackTracer that writes to the given logger.
func NewStackTracer(logger zerolog.Logger) *StackTracer {
	return &StackTracer{logger: logger}
}

func (t *StackTracer) Config() ObserverConfig {
	cfg := NewObserverConfig(StepAll)
	cfg.CaptureStack = true
	return cfg
}

func (t *StackTracer) OnStep(event StepEvent) bool {
	t.logger.Trace().
		Str("code", event.Location.Code).
		Int("offset", event.Offset).
		Str("op", event.OpcodeName).
		Int("arg", event.Arg).
		Int("depth", event.FrameDepth).
		Strs("stack", inspectStack(event.Stack)).
		Msg("step")
	return true
}

func (t *StackTracer) OnCall(event CallEvent) bool {
	t.logger.Trace().
		Str("function", event.FunctionName).
		Int("args", event.ArgCount).
		Int("depth", event.FrameDepth).
		Msg("call")
	return true
}

func (t *StackTracer) OnReturn(event ReturnEvent) bool {
	e := t.logger.Trace().
		Str("function", event.FunctionName).
		Int("depth", event.FrameDepth)
	if event.Value != nil {
		e = e.Str("value", event.Value.Inspect())
	}
	e.Msg("return")
	return true
}

func inspectStack(stack []object.Object) []string {
	items := make([]string, len(stack))
	for i, obj := range stack {
		items[i] = obj.Inspect()
	}
	return items
}

var _ Observer = (*StackTracer)(nil)
