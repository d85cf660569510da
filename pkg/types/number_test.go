package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{math.NaN(), "-"},
		{math.Inf(1), "-"},
		{0, "0"},
		{1, "1"},
		{0.5, "0.5"},
		{191.81, "191.81"},
		{-12.125, "-12.125"},
		{1.0 / 3.0, "0.333333"},
		{0.001, "0.001"},
		{0.00012345, "1.23450e-4"},
		{100000, "1.00000e+5"},
		{123456.789, "1.23457e+5"},
		{-2.5e-7, "-2.50000e-7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "FormatNumber(%v)", tt.in)
	}
}

func TestFirstFinite(t *testing.T) {
	v, ok := FirstFinite(math.NaN(), math.Inf(-1), 3, 4)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok = FirstFinite(math.NaN())
	assert.False(t, ok)
}

func TestSafeRatio(t *testing.T) {
	assert.Equal(t, 0.5, SafeRatio(1, 2))
	assert.True(t, math.IsNaN(SafeRatio(1, 1e-13)))
	assert.True(t, math.IsNaN(SafeRatio(math.NaN(), 2)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.2, Clamp(0.1, 0.2, 12))
	assert.Equal(t, 12.0, Clamp(50, 0.2, 12))
	assert.Equal(t, 3.0, Clamp(3, 0.2, 12))
}
