package object

import (
	"math"
	"testing"

	"github.com/cloudcmds/framevm/op"
	"github.com/stretchr/testify/require"
)

func TestFloatInspect(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{2.0, "2.0"},
		{2.5, "2.5"},
		{-0.1, "-0.1"},
		{100000, "100000.0"},
		{1e16, "1e+16"},
		{1.5e-05, "1.5e-05"},
		{0, "0.0"},
		{math.Inf(1), "inf"},
		{math.NaN(), "nan"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.expected, NewFloat(tc.value).Inspect())
	}
}

func TestFloatArithmetic(t *testing.T) {
	tests := []struct {
		left     float64
		opType   op.BinaryOpType
		right    Object
		expected float64
	}{
		{1.5, op.Add, NewInt(1), 2.5},
		{1.5, op.Subtract, NewFloat(0.5), 1.0},
		{1.5, op.Multiply, NewInt(2), 3.0},
		{7.0, op.TrueDivide, NewInt(2), 3.5},
		{7.0, op.FloorDivide, NewInt(2), 3.0},
		{-7.0, op.FloorDivide, NewInt(2), -4.0},
		{-7.0, op.Modulo, NewInt(3), 2.0},
		{7.5, op.Modulo, NewFloat(-2), -0.5},
	}
	for _, tc := range tests {
		result, err := NewFloat(tc.left).RunOperation(tc.opType, tc.right)
		require.Nil(t, err)
		require.Equal(t, tc.expected, result.(*Float).Value(), "%v %s %s", tc.left, tc.opType, tc.right.Inspect())
	}
}

func TestFloatDivisionByZero(t *testing.T) {
	_, err := NewFloat(1).RunOperation(op.TrueDivide, NewInt(0))
	require.EqualError(t, err, "ZeroDivisionError: float division by zero")
}

func TestFloatHashMatchesInt(t *testing.T) {
	require.Equal(t, NewInt(3).HashKey(), NewFloat(3.0).HashKey())
	require.Equal(t, NewInt(1).HashKey(), True.HashKey())
	require.NotEqual(t, NewInt(3).HashKey(), NewFloat(3.5).HashKey())
}
