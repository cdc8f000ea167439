// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vectorsAlmostEqual(a, b Vector2D) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}

func TestVector2D_Add(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector2D
		v2       Vector2D
		expected Vector2D
	}{
		{
			name:     "positive_vectors",
			v1:       Vector2D{X: 3, Y: 4},
			v2:       Vector2D{X: 1, Y: 2},
			expected: Vector2D{X: 4, Y: 6},
		},
		{
			name:     "negative_vectors",
			v1:       Vector2D{X: -3, Y: -4},
			v2:       Vector2D{X: -1, Y: -2},
			expected: Vector2D{X: -4, Y: -6},
		},
		{
			name:     "zero_vector",
			v1:       Vector2D{X: 0, Y: 0},
			v2:       Vector2D{X: 5, Y: -3},
			expected: Vector2D{X: 5, Y: -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Add(tt.v2)
			if result.X != tt.expected.X || result.Y != tt.expected.Y {
				t.Errorf("Add() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector2D_Sub(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector2D
		v2       Vector2D
		expected Vector2D
	}{
		{
			name:     "positive_result",
			v1:       Vector2D{X: 5, Y: 7},
			v2:       Vector2D{X: 2, Y: 3},
			expected: Vector2D{X: 3, Y: 4},
		},
		{
			name:     "same_vectors",
			v1:       Vector2D{X: 4, Y: 6},
			v2:       Vector2D{X: 4, Y: 6},
			expected: Vector2D{X: 0, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Sub(tt.v2)
			if result.X != tt.expected.X || result.Y != tt.expected.Y {
				t.Errorf("Sub() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector2D_Neg(t *testing.T) {
	v := Vector2D{X: 3, Y: -4}
	result := v.Neg()
	if result.X != -3 || result.Y != 4 {
		t.Errorf("Neg() = %v, expected {-3 4}", result)
	}
}

func TestVector2D_Normalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vector2D
	}{
		{name: "axis_aligned", v: Vector2D{X: 5, Y: 0}},
		{name: "diagonal", v: Vector2D{X: 3, Y: 4}},
		{name: "negative_components", v: Vector2D{X: -7, Y: 2}},
		{name: "tiny", v: Vector2D{X: 1e-6, Y: -1e-6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v.Normalize()
			if !almostEqual(result.Length(), 1) {
				t.Errorf("Normalize().Length() = %v, expected 1", result.Length())
			}
		})
	}

	t.Run("zero_vector", func(t *testing.T) {
		result := Vector2D{}.Normalize()
		if result.X != 0 || result.Y != 0 {
			t.Errorf("Normalize() of zero vector = %v, expected zero vector", result)
		}
	})
}

func TestVector2D_Rotate_PreservesLength(t *testing.T) {
	vectors := []Vector2D{
		{X: 1, Y: 0},
		{X: 3, Y: 4},
		{X: -2.5, Y: 1.25},
	}
	angles := []float64{0, math.Pi / 4, math.Pi / 2, math.Pi, -math.Pi / 3, 5.5}

	for _, v := range vectors {
		for _, angle := range angles {
			rotated := v.Rotate(angle)
			if !almostEqual(rotated.Length(), v.Length()) {
				t.Errorf("Rotate(%v, %v) changed length: %v -> %v",
					v, angle, v.Length(), rotated.Length())
			}
		}
	}
}

func TestVector2D_Rotate_Composition(t *testing.T) {
	v := Vector2D{X: 2, Y: -1}
	angles := [][2]float64{
		{math.Pi / 6, math.Pi / 3},
		{-math.Pi / 2, math.Pi / 4},
		{1.1, -2.7},
	}

	for _, pair := range angles {
		composed := v.Rotate(pair[0]).Rotate(pair[1])
		direct := v.Rotate(pair[0] + pair[1])
		if !vectorsAlmostEqual(composed, direct) {
			t.Errorf("Rotate composition mismatch: %v vs %v", composed, direct)
		}
	}
}

func TestVector2D_Rotate_Quarter(t *testing.T) {
	v := Vector2D{X: 1, Y: 0}
	result := v.Rotate(math.Pi / 2)
	if !vectorsAlmostEqual(result, Vector2D{X: 0, Y: 1}) {
		t.Errorf("Rotate(+90°) = %v, expected {0 1}", result)
	}
}

func TestCosBetween(t *testing.T) {
	tests := []struct {
		name     string
		a        Vector2D
		b        Vector2D
		expected float64
	}{
		{
			name:     "parallel",
			a:        Vector2D{X: 1, Y: 0},
			b:        Vector2D{X: 10, Y: 0},
			expected: 1,
		},
		{
			name:     "antiparallel",
			a:        Vector2D{X: 1, Y: 0},
			b:        Vector2D{X: -3, Y: 0},
			expected: -1,
		},
		{
			name:     "perpendicular",
			a:        Vector2D{X: 1, Y: 0},
			b:        Vector2D{X: 0, Y: 5},
			expected: 0,
		},
		{
			name:     "forty_five_degrees",
			a:        Vector2D{X: 1, Y: 0},
			b:        Vector2D{X: 1, Y: 1},
			expected: math.Sqrt2 / 2,
		},
		{
			name:     "zero_input",
			a:        Vector2D{},
			b:        Vector2D{X: 1, Y: 1},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CosBetween(tt.a, tt.b)
			if !almostEqual(result, tt.expected) {
				t.Errorf("CosBetween() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestSignedAngle(t *testing.T) {
	tests := []struct {
		name     string
		a        Vector2D
		b        Vector2D
		expected float64
	}{
		{
			name:     "same_direction",
			a:        Vector2D{X: 1, Y: 0},
			b:        Vector2D{X: 4, Y: 0},
			expected: 0,
		},
		{
			name:     "quarter_turn_ccw",
			a:        Vector2D{X: 1, Y: 0},
			b:        Vector2D{X: 0, Y: 1},
			expected: -math.Pi / 2,
		},
		{
			name:     "quarter_turn_cw",
			a:        Vector2D{X: 1, Y: 0},
			b:        Vector2D{X: 0, Y: -1},
			expected: math.Pi / 2,
		},
		{
			name:     "opposite",
			a:        Vector2D{X: 1, Y: 0},
			b:        Vector2D{X: -1, Y: 0},
			expected: math.Pi,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SignedAngle(tt.a, tt.b)
			if !almostEqual(math.Abs(result), math.Abs(tt.expected)) ||
				(tt.expected != 0 && math.Abs(tt.expected) != math.Pi && math.Signbit(result) != math.Signbit(tt.expected)) {
				t.Errorf("SignedAngle() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestFromAngle(t *testing.T) {
	v := FromAngle(math.Pi/2, 2)
	if !vectorsAlmostEqual(v, Vector2D{X: 0, Y: 2}) {
		t.Errorf("FromAngle(π/2, 2) = %v, expected {0 2}", v)
	}
}

func TestVector2D_Distance(t *testing.T) {
	a := Vector2D{X: 1, Y: 1}
	b := Vector2D{X: 4, Y: 5}
	if d := a.Distance(b); !almostEqual(d, 5) {
		t.Errorf("Distance() = %v, expected 5", d)
	}
}
