package object

import (
	"fmt"

	"github.com/cloudcmds/framevm/op"
)

// Range represents a lazy sequence of integers, similar to Python's range.
// It stores start, stop, and step values and generates integers on demand.
type Range struct {
	start int64
	stop  int64
	step  int64
}

// NewRange creates a new Range object. Panics if step is zero.
func NewRange(start, stop, step int64) *Range {
	if step == 0 {
		panic("range step cannot be zero")
	}
	return &Range{start: start, stop: stop, step: step}
}

func (r *Range) Type() Type { return RANGE }

func (r *Range) Start() int64 { return r.start }

func (r *Range) Stop() int64 { return r.stop }

func (r *Range) Step() int64 { return r.step }

func (r *Range) Inspect() string {
	if r.step == 1 {
		return fmt.Sprintf("range(%d, %d)", r.start, r.stop)
	}
	return fmt.Sprintf("range(%d, %d, %d)", r.start, r.stop, r.step)
}

func (r *Range) String() string {
	return r.Inspect()
}

func (r *Range) Interface() any {
	values := make([]int64, 0, r.Len())
	for i := 0; i < r.Len(); i++ {
		values = append(values, r.at(i))
	}
	return values
}

func (r *Range) Len() int {
	var n int64
	if r.step > 0 && r.start < r.stop {
		n = (r.stop - r.start + r.step - 1) / r.step
	} else if r.step < 0 && r.start > r.stop {
		n = (r.start - r.stop - r.step - 1) / -r.step
	}
	return int(n)
}

func (r *Range) at(i int) int64 {
	return r.start + int64(i)*r.step
}

func (r *Range) IsTruthy() bool {
	return r.Len() > 0
}

// Equals compares ranges as sequences, so empty ranges are all equal.
func (r *Range) Equals(other Object) bool {
	o, ok := other.(*Range)
	if !ok {
		return false
	}
	n := r.Len()
	if n != o.Len() {
		return false
	}
	if n == 0 {
		return true
	}
	if r.start != o.start {
		return false
	}
	return n == 1 || r.step == o.step
}

func (r *Range) GetItem(key Object) (Object, error) {
	index, err := normalizeIndex(key, r.Len(), RANGE)
	if err != nil {
		return nil, err
	}
	return NewInt(r.at(index)), nil
}

func (r *Range) Contains(item Object) (bool, error) {
	var v int64
	switch item := item.(type) {
	case *Int:
		v = item.value
	case *Bool:
		v = item.asInt().value
	case *Float:
		if !isIntegral(item.value) {
			return false, nil
		}
		v = int64(item.value)
	default:
		return false, nil
	}
	if r.step > 0 && (v < r.start || v >= r.stop) {
		return false, nil
	}
	if r.step < 0 && (v > r.start || v <= r.stop) {
		return false, nil
	}
	return (v-r.start)%r.step == 0, nil
}

func (r *Range) Iter() Iterator {
	pos, n := 0, r.Len()
	return NewIter("range_iterator", func() (Object, bool) {
		if pos >= n {
			return nil, false
		}
		value := r.at(pos)
		pos++
		return NewInt(value), true
	})
}

func (r *Range) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, unsupportedOperands(opType, r, right)
}
