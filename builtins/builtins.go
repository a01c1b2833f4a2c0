// Package builtins defines the default set of built-in functions.
package builtins

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cloudcmds/framevm/object"
	"github.com/cloudcmds/framevm/op"
)

func Abs(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, object.NewArgsError("abs", 1, len(args))
	}
	switch arg := args[0].(type) {
	case *object.Int:
		if arg.Value() < 0 {
			return object.NegateInt(arg.Value())
		}
		return arg, nil
	case *object.Float:
		return object.NewFloat(math.Abs(arg.Value())), nil
	case *object.Bool:
		n, _ := object.AsInt(arg)
		return object.NewInt(n), nil
	default:
		return nil, object.TypeErrorf("bad operand type for abs(): '%s'", args[0].Type())
	}
}

func Divmod(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 2 {
		return nil, object.NewArgsError("divmod", 2, len(args))
	}
	quotient, err := args[0].RunOperation(op.FloorDivide, args[1])
	if err != nil {
		return nil, err
	}
	remainder, err := args[0].RunOperation(op.Modulo, args[1])
	if err != nil {
		return nil, err
	}
	return object.NewTuple([]object.Object{quotient, remainder}), nil
}

func Len(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, object.NewArgsError("len", 1, len(args))
	}
	container, ok := args[0].(object.Container)
	if !ok {
		return nil, object.TypeErrorf("object of type '%s' has no len()", args[0].Type())
	}
	return object.NewInt(int64(container.Len())), nil
}

func Range(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, object.NewArgsRangeError("range", 1, 3, len(args))
	}
	values := make([]int64, len(args))
	for i, arg := range args {
		n, err := object.AsInt(arg)
		if err != nil {
			return nil, err
		}
		values[i] = n
	}
	switch len(values) {
	case 1:
		return object.NewRange(0, values[0], 1), nil
	case 2:
		return object.NewRange(values[0], values[1], 1), nil
	}
	if values[2] == 0 {
		return nil, object.ValueErrorf("range() arg 3 must not be zero")
	}
	return object.NewRange(values[0], values[1], values[2]), nil
}

func Iter(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, object.NewArgsError("iter", 1, len(args))
	}
	return object.Iterate(args[0])
}

func Next(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, object.NewArgsRangeError("next", 1, 2, len(args))
	}
	it, ok := args[0].(object.Iterator)
	if !ok {
		return nil, object.TypeErrorf("'%s' object is not an iterator", args[0].Type())
	}
	if value, ok := it.Next(); ok {
		return value, nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return nil, &object.StopIteration{}
}

func List(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, object.NewArgsRangeError("list", 0, 1, len(args))
	}
	if len(args) == 0 {
		return object.NewList(nil), nil
	}
	items, err := object.Collect(args[0])
	if err != nil {
		return nil, err
	}
	return object.NewList(items), nil
}

func Tuple(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, object.NewArgsRangeError("tuple", 0, 1, len(args))
	}
	if len(args) == 0 {
		return object.NewTuple(nil), nil
	}
	if tup, ok := args[0].(*object.Tuple); ok {
		return tup, nil
	}
	items, err := object.Collect(args[0])
	if err != nil {
		return nil, err
	}
	return object.NewTuple(items), nil
}

func Dict(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, object.NewArgsRangeError("dict", 0, 1, len(args))
	}
	result := object.NewDict()
	if len(args) == 0 {
		return result, nil
	}
	if src, ok := args[0].(*object.Dict); ok {
		for _, key := range src.Keys() {
			value, _ := src.GetItem(key)
			if err := result.Set(key, value); err != nil {
				return nil, err
			}
		}
		return result, nil
	}
	pairs, err := object.Collect(args[0])
	if err != nil {
		return nil, err
	}
	for i, pair := range pairs {
		kv, err := object.Collect(pair)
		if err != nil || len(kv) != 2 {
			return nil, object.ValueErrorf("dictionary update sequence element #%d has the wrong length", i)
		}
		if err := result.Set(kv[0], kv[1]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func Str(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, object.NewArgsRangeError("str", 0, 1, len(args))
	}
	if len(args) == 0 {
		return object.NewString(""), nil
	}
	return object.NewString(object.Str(args[0])), nil
}

func Repr(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, object.NewArgsError("repr", 1, len(args))
	}
	return object.NewString(args[0].Inspect()), nil
}

func Int(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, object.NewArgsRangeError("int", 0, 1, len(args))
	}
	if len(args) == 0 {
		return object.NewInt(0), nil
	}
	switch obj := args[0].(type) {
	case *object.Int:
		return obj, nil
	case *object.Bool:
		n, _ := object.AsInt(obj)
		return object.NewInt(n), nil
	case *object.Float:
		v := obj.Value()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, object.ValueErrorf("cannot convert float %s to integer", obj.Inspect())
		}
		return object.NewInt(int64(v)), nil
	case *object.String:
		text := strings.ReplaceAll(strings.TrimSpace(obj.Value()), "_", "")
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return object.NewInt(i), nil
		}
		return nil, object.ValueErrorf("invalid literal for int() with base 10: %s", obj.Inspect())
	default:
		return nil, object.TypeErrorf("int() argument must be a string or a number, not '%s'", args[0].Type())
	}
}

func Float(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, object.NewArgsRangeError("float", 0, 1, len(args))
	}
	if len(args) == 0 {
		return object.NewFloat(0), nil
	}
	switch obj := args[0].(type) {
	case *object.Float:
		return obj, nil
	case *object.Int, *object.Bool:
		f, _ := object.AsFloat(obj)
		return object.NewFloat(f), nil
	case *object.String:
		text := strings.ToLower(strings.TrimSpace(obj.Value()))
		switch text {
		case "inf", "+inf", "infinity":
			return object.NewFloat(math.Inf(1)), nil
		case "-inf", "-infinity":
			return object.NewFloat(math.Inf(-1)), nil
		case "nan":
			return object.NewFloat(math.NaN()), nil
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return object.NewFloat(f), nil
		}
		return nil, object.ValueErrorf("could not convert string to float: %s", obj.Inspect())
	default:
		return nil, object.TypeErrorf("float() argument must be a string or a number, not '%s'", args[0].Type())
	}
}

func Bool(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, object.NewArgsRangeError("bool", 0, 1, len(args))
	}
	if len(args) == 0 {
		return object.False, nil
	}
	return object.NewBool(args[0].IsTruthy()), nil
}

// extremeArgs returns the candidates for min() and max(): the items of a
// single iterable argument, or the arguments themselves.
func extremeArgs(name string, args []object.Object) ([]object.Object, error) {
	if len(args) == 0 {
		return nil, object.TypeErrorf("%s expected 1 argument, got 0", name)
	}
	items := args
	if len(args) == 1 {
		var err error
		if items, err = object.Collect(args[0]); err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		return nil, object.ValueErrorf("%s() arg is an empty sequence", name)
	}
	return items, nil
}

func extreme(name string, cmp op.CompareOpType, args []object.Object) (object.Object, error) {
	items, err := extremeArgs(name, args)
	if err != nil {
		return nil, err
	}
	best := items[0]
	for _, item := range items[1:] {
		better, err := object.Compare(cmp, item, best)
		if err != nil {
			return nil, err
		}
		if better.IsTruthy() {
			best = item
		}
	}
	return best, nil
}

func Min(ctx context.Context, args ...object.Object) (object.Object, error) {
	return extreme("min", op.LessThan, args)
}

func Max(ctx context.Context, args ...object.Object) (object.Object, error) {
	return extreme("max", op.GreaterThan, args)
}

func Sum(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, object.NewArgsRangeError("sum", 1, 2, len(args))
	}
	items, err := object.Collect(args[0])
	if err != nil {
		return nil, err
	}
	var total object.Object = object.NewInt(0)
	if len(args) == 2 {
		if _, ok := args[1].(*object.String); ok {
			return nil, object.TypeErrorf("sum() can't sum strings [use ''.join(seq) instead]")
		}
		total = args[1]
	}
	for _, item := range items {
		if total, err = total.RunOperation(op.Add, item); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func Print(ctx context.Context, args ...object.Object) (object.Object, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = object.Str(arg)
	}
	if _, err := fmt.Fprintln(GetStdout(ctx), strings.Join(parts, " ")); err != nil {
		return nil, err
	}
	return object.None, nil
}

func Type(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, object.NewArgsError("type", 1, len(args))
	}
	return object.NewString(string(args[0].Type())), nil
}

// typeBuiltins maps the conversion built-ins that double as type names in
// isinstance() to the type they construct.
var typeBuiltins = map[string]object.Type{
	"bool":  object.BOOL,
	"dict":  object.DICT,
	"float": object.FLOAT,
	"int":   object.INT,
	"list":  object.LIST,
	"range": object.RANGE,
	"str":   object.STRING,
	"tuple": object.TUPLE,
}

// IsInstance implements isinstance(obj, classinfo). The class info is one
// of the conversion built-ins (int, str, ...), a type name string as
// returned by type(), or a tuple of those.
func IsInstance(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 2 {
		return nil, object.NewArgsError("isinstance", 2, len(args))
	}
	match, err := isInstance(args[0], args[1])
	if err != nil {
		return nil, err
	}
	return object.NewBool(match), nil
}

func isInstance(obj, classinfo object.Object) (bool, error) {
	var want object.Type
	switch info := classinfo.(type) {
	case *object.Tuple:
		for _, item := range info.Value() {
			match, err := isInstance(obj, item)
			if err != nil || match {
				return match, err
			}
		}
		return false, nil
	case *object.Builtin:
		t, ok := typeBuiltins[info.Name()]
		if !ok {
			return false, object.TypeErrorf("isinstance() arg 2 must be a type or tuple of types")
		}
		want = t
	case *object.String:
		want = object.Type(info.Value())
	default:
		return false, object.TypeErrorf("isinstance() arg 2 must be a type or tuple of types")
	}
	got := obj.Type()
	return got == want || (got == object.BOOL && want == object.INT), nil
}

// Builtins returns a new map of the standard built-in functions.
func Builtins() map[string]object.Object {
	return map[string]object.Object{
		"abs":        object.NewBuiltin("abs", Abs),
		"bool":       object.NewBuiltin("bool", Bool),
		"dict":       object.NewBuiltin("dict", Dict),
		"divmod":     object.NewBuiltin("divmod", Divmod),
		"float":      object.NewBuiltin("float", Float),
		"int":        object.NewBuiltin("int", Int),
		"isinstance": object.NewBuiltin("isinstance", IsInstance),
		"iter":       object.NewBuiltin("iter", Iter),
		"len":        object.NewBuiltin("len", Len),
		"list":       object.NewBuiltin("list", List),
		"max":        object.NewBuiltin("max", Max),
		"min":        object.NewBuiltin("min", Min),
		"next":       object.NewBuiltin("next", Next),
		"print":      object.NewBuiltin("print", Print),
		"range":      object.NewBuiltin("range", Range),
		"repr":       object.NewBuiltin("repr", Repr),
		"str":        object.NewBuiltin("str", Str),
		"sum":        object.NewBuiltin("sum", Sum),
		"tuple":      object.NewBuiltin("tuple", Tuple),
		"type":       object.NewBuiltin("type", Type),
	}
}
