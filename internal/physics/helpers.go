package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// fallbackAxis replaces a normal that cannot be computed (zero-length direction)
var fallbackAxis = rl.Vector3{X: 0, Y: 1, Z: 0}

// normalEpsilon is the shortest vector still treated as a direction
const normalEpsilon = 1e-6

// normalizeOr returns v scaled to unit length, or fallback when v is too short to normalize
func normalizeOr(v, fallback rl.Vector3) rl.Vector3 {
	length := rl.Vector3Length(v)
	if length < normalEpsilon {
		return fallback
	}
	return rl.Vector3Scale(v, 1/length)
}

// clamp restricts a value to a range
func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampVector clamps each component of v into [-extents, extents]
func clampVector(v, extents rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: clamp(v.X, -extents.X, extents.X),
		Y: clamp(v.Y, -extents.Y, extents.Y),
		Z: clamp(v.Z, -extents.Z, extents.Z),
	}
}

// signOf returns -1 for negative values (including -0) and 1 otherwise
func signOf(v float32) float32 {
	if math32.Signbit(v) {
		return -1
	}
	return 1
}

// absVector returns the component-wise absolute value
func absVector(v rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: math32.Abs(v.X), Y: math32.Abs(v.Y), Z: math32.Abs(v.Z)}
}
