package object

import (
	"fmt"
	"sort"

	"github.com/cloudcmds/framevm/bytecode"
)

// FromGoType converts a Go value to an Object. Slices become lists and maps
// with string keys become dicts. Objects are returned unchanged.
func FromGoType(value any) (Object, error) {
	switch value := value.(type) {
	case nil:
		return None, nil
	case Object:
		return value, nil
	case bool:
		return NewBool(value), nil
	case int:
		return NewInt(int64(value)), nil
	case int8:
		return NewInt(int64(value)), nil
	case int16:
		return NewInt(int64(value)), nil
	case int32:
		return NewInt(int64(value)), nil
	case int64:
		return NewInt(value), nil
	case uint8:
		return NewInt(int64(value)), nil
	case uint16:
		return NewInt(int64(value)), nil
	case uint32:
		return NewInt(int64(value)), nil
	case float32:
		return NewFloat(float64(value)), nil
	case float64:
		return NewFloat(value), nil
	case string:
		return NewString(value), nil
	case *bytecode.Code:
		return NewCode(value), nil
	case []any:
		items, err := fromGoSlice(value)
		if err != nil {
			return nil, err
		}
		return NewList(items), nil
	case []string:
		items := make([]Object, len(value))
		for i, s := range value {
			items[i] = NewString(s)
		}
		return NewList(items), nil
	case []int64:
		items := make([]Object, len(value))
		for i, n := range value {
			items[i] = NewInt(n)
		}
		return NewList(items), nil
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := NewDict()
		for _, k := range keys {
			v, err := FromGoType(value[k])
			if err != nil {
				return nil, err
			}
			if err := d.Set(NewString(k), v); err != nil {
				return nil, err
			}
		}
		return d, nil
	default:
		return nil, TypeErrorf("unsupported go type: %T", value)
	}
}

func fromGoSlice(values []any) ([]Object, error) {
	items := make([]Object, len(values))
	for i, v := range values {
		item, err := FromGoType(v)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

// FromConstant converts an entry of a code unit's constant pool. Tuple
// constants ([]any) become Tuples rather than Lists.
func FromConstant(value any) (Object, error) {
	switch value := value.(type) {
	case []any:
		items := make([]Object, len(value))
		for i, v := range value {
			item, err := FromConstant(v)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return NewTuple(items), nil
	case nil, bool, int64, float64, string, *bytecode.Code:
		return FromGoType(value)
	default:
		return nil, fmt.Errorf("invalid constant type %T", value)
	}
}

// AsInt returns the integer value of an Int or Bool.
func AsInt(obj Object) (int64, error) {
	switch obj := obj.(type) {
	case *Int:
		return obj.value, nil
	case *Bool:
		return obj.asInt().value, nil
	default:
		return 0, TypeErrorf("'%s' object cannot be interpreted as an integer", obj.Type())
	}
}

// AsFloat returns the numeric value of an Int, Float or Bool as a float64.
func AsFloat(obj Object) (float64, error) {
	switch obj := obj.(type) {
	case *Float:
		return obj.value, nil
	case *Int:
		return float64(obj.value), nil
	case *Bool:
		return float64(obj.asInt().value), nil
	default:
		return 0, TypeErrorf("must be real number, not %s", obj.Type())
	}
}

// AsString returns the value of a String.
func AsString(obj Object) (string, error) {
	s, ok := obj.(*String)
	if !ok {
		return "", TypeErrorf("expected a str (got %s)", obj.Type())
	}
	return s.value, nil
}
