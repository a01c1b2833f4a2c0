package object

import (
	"strings"
)

// normalizeIndex converts a possibly negative subscript into an index in
// [0, length).
func normalizeIndex(key Object, length int, typeName Type) (int, error) {
	var index int64
	switch key := key.(type) {
	case *Int:
		index = key.value
	case *Bool:
		index = key.asInt().value
	default:
		return 0, TypeErrorf("%s indices must be integers, not %s", typeName, key.Type())
	}
	if index < 0 {
		index += int64(length)
	}
	if index < 0 || index >= int64(length) {
		return 0, IndexErrorf("%s index out of range", typeName)
	}
	return int(index), nil
}

// repeatCount validates the right operand of a sequence repetition.
func repeatCount(count Object) (int, bool) {
	switch n := count.(type) {
	case *Int:
		if n.value < 0 {
			return 0, true
		}
		return int(n.value), true
	case *Bool:
		return int(n.asInt().value), true
	}
	return 0, false
}

func repeatItems(items []Object, n int) []Object {
	result := make([]Object, 0, len(items)*n)
	for i := 0; i < n; i++ {
		result = append(result, items...)
	}
	return result
}

func concatItems(a, b []Object) []Object {
	result := make([]Object, 0, len(a)+len(b))
	result = append(result, a...)
	return append(result, b...)
}

func equalItems(a, b []Object) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// compareItems orders two sequences lexicographically: the first pair of
// unequal items decides, otherwise the shorter sequence is smaller.
func compareItems(a, b []Object) (int, error) {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].Equals(b[i]) {
			continue
		}
		comparable, ok := a[i].(Comparable)
		if !ok {
			return 0, TypeErrorf("unable to compare %s and %s", a[i].Type(), b[i].Type())
		}
		return comparable.Compare(b[i])
	}
	return compareInts(int64(len(a)), int64(len(b))), nil
}

func containsItem(items []Object, item Object) bool {
	for _, candidate := range items {
		if candidate == item || candidate.Equals(item) {
			return true
		}
	}
	return false
}

func inspectItems(items []Object) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Inspect()
	}
	return strings.Join(parts, ", ")
}

func interfaceItems(items []Object) []any {
	values := make([]any, len(items))
	for i, item := range items {
		values[i] = item.Interface()
	}
	return values
}
