// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{"zero", 0, 0},
		{"full scale", 1, math.MaxInt16},
		{"negative full scale", -1, -math.MaxInt16},
		{"half", 0.5, 16383},
		{"negative half", -0.5, -16383},
		{"small", 0.001, 32},
		{"clamp high", 1.5, math.MaxInt16},
		{"clamp low", -3, -math.MaxInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Float32ToInt16(tt.input); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestInt16ToFloat32(t *testing.T) {
	t.Parallel()

	if got := Int16ToFloat32(math.MinInt16); got != -1 {
		t.Errorf("Int16ToFloat32(min) = %v, want -1", got)
	}
	if got := Int16ToFloat32(0); got != 0 {
		t.Errorf("Int16ToFloat32(0) = %v", got)
	}
	if got := Int16ToFloat32(math.MaxInt16); got >= 1 || got < 0.9999 {
		t.Errorf("Int16ToFloat32(max) = %v", got)
	}

	for _, v := range []int16{-20000, -1, 1, 12345, 32000} {
		back := Float32ToInt16(Int16ToFloat32(v))
		if d := int(back) - int(v); d < -1 || d > 1 {
			t.Errorf("round trip %d -> %d", v, back)
		}
	}
}

func TestFloat64ToFloat32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float32
	}{
		{0.25, 0.25},
		{-0.75, -0.75},
		{2, 1},
		{-2, -1},
	}
	for _, tt := range tests {
		if got := Float64ToFloat32(tt.in); got != tt.want {
			t.Errorf("Float64ToFloat32(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func BenchmarkFloat32ToInt16(b *testing.B) {
	var sink int16
	for b.Loop() {
		sink = Float32ToInt16(0.73)
	}
	_ = sink
}
