// Package space provides the coordinate and rotation math for landmark
// retargeting: detector-to-engine space conversion, direction-to-rotation,
// axis-correction composition, rotation-limit clamping, and frame-to-frame
// blending. All functions are pure and allocation-light; rotations are unit
// quaternions throughout, with Euler angles appearing only at the clamping
// boundary.
package space

import "github.com/golang/geo/r3"

// ToEngine converts a detector-space point into engine space.
//
// The detector emits right-handed, Y-up coordinates with Z pointing at the
// viewer. The engine is right-handed Z-up with Y pointing away from the
// viewer. The conversion is the fixed quarter turn about X:
//
//	(x, y, z) -> (x, -z, y)
//
// It is applied identically to every landmark of every frame.
func ToEngine(v r3.Vector) r3.Vector {
	return r3.Vector{X: v.X, Y: -v.Z, Z: v.Y}
}

// ScaleTranslation applies a unitless scale factor to a translation vector.
// Rotations are never scaled; this exists only for translation-driven
// effects such as the root bone world offset.
func ScaleTranslation(v r3.Vector, factor float64) r3.Vector {
	return v.Mul(factor)
}

// Direction returns the unit vector from a to b, or the zero vector when the
// two points coincide (within epsilon), so callers can detect the degenerate
// case without dividing by zero.
func Direction(a, b r3.Vector) r3.Vector {
	d := b.Sub(a)
	n := d.Norm()
	if n < epsilon {
		return r3.Vector{}
	}
	return d.Mul(1 / n)
}

const epsilon = 1e-9
