package object

import (
	"strings"

	"github.com/cloudcmds/framevm/op"
)

// Dict is a mutable mapping that preserves insertion order.
type Dict struct {
	keys   []Object
	values []Object
	index  map[HashKey]int
}

func NewDict() *Dict {
	return &Dict{index: map[HashKey]int{}}
}

// hashKeyOf returns the dict key for an object, or a TypeError if the
// object cannot be used as a key.
func hashKeyOf(obj Object) (HashKey, error) {
	switch obj := obj.(type) {
	case Hashable:
		return obj.HashKey(), nil
	case *Tuple:
		return obj.hashKey()
	default:
		return HashKey{}, TypeErrorf("unhashable type: '%s'", obj.Type())
	}
}

func (d *Dict) Type() Type {
	return DICT
}

// Set binds key to value, replacing any existing entry for an equal key.
func (d *Dict) Set(key, value Object) error {
	hk, err := hashKeyOf(key)
	if err != nil {
		return err
	}
	if i, ok := d.index[hk]; ok {
		d.values[i] = value
		return nil
	}
	d.index[hk] = len(d.keys)
	d.keys = append(d.keys, key)
	d.values = append(d.values, value)
	return nil
}

// Get returns the value bound to key.
func (d *Dict) Get(key Object) (Object, bool, error) {
	hk, err := hashKeyOf(key)
	if err != nil {
		return nil, false, err
	}
	i, ok := d.index[hk]
	if !ok {
		return nil, false, nil
	}
	return d.values[i], true, nil
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Object {
	keys := make([]Object, len(d.keys))
	copy(keys, d.keys)
	return keys
}

func (d *Dict) GetItem(key Object) (Object, error) {
	value, ok, err := d.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &KeyError{Key: key}
	}
	return value, nil
}

func (d *Dict) Contains(item Object) (bool, error) {
	_, ok, err := d.Get(item)
	return ok, err
}

func (d *Dict) Len() int {
	return len(d.keys)
}

// Iter iterates over a snapshot of the keys.
func (d *Dict) Iter() Iterator {
	keys := d.Keys()
	pos := 0
	return NewIter("dict_keyiterator", func() (Object, bool) {
		if pos >= len(keys) {
			return nil, false
		}
		key := keys[pos]
		pos++
		return key, true
	})
}

func (d *Dict) Inspect() string {
	parts := make([]string, len(d.keys))
	for i, key := range d.keys {
		parts[i] = key.Inspect() + ": " + d.values[i].Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *Dict) String() string {
	return d.Inspect()
}

// Interface returns a map keyed by the str() form of each key.
func (d *Dict) Interface() any {
	m := make(map[string]any, len(d.keys))
	for i, key := range d.keys {
		m[Str(key)] = d.values[i].Interface()
	}
	return m
}

func (d *Dict) IsTruthy() bool {
	return len(d.keys) > 0
}

func (d *Dict) Equals(other Object) bool {
	otherDict, ok := other.(*Dict)
	if !ok || len(d.keys) != len(otherDict.keys) {
		return false
	}
	for i, key := range d.keys {
		value, found, err := otherDict.Get(key)
		if err != nil || !found || !d.values[i].Equals(value) {
			return false
		}
	}
	return true
}

func (d *Dict) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, unsupportedOperands(opType, d, right)
}
