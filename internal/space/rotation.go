package space

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Identity is the no-rotation quaternion.
func Identity() quat.Number {
	return quat.Number{Real: 1}
}

// Normalize scales q to unit norm. A zero quaternion normalizes to identity
// rather than NaN.
func Normalize(q quat.Number) quat.Number {
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n < epsilon {
		return Identity()
	}
	return quat.Number{Real: q.Real / n, Imag: q.Imag / n, Jmag: q.Jmag / n, Kmag: q.Kmag / n}
}

// RotationBetween returns the minimal rotation taking unit direction from
// onto unit direction to. Degenerate inputs (zero-length vectors) yield the
// identity rotation. Anti-parallel directions yield a half turn about an
// axis perpendicular to from.
func RotationBetween(from, to r3.Vector) quat.Number {
	fn, tn := from.Norm(), to.Norm()
	if fn < epsilon || tn < epsilon {
		return Identity()
	}
	f, t := from.Mul(1/fn), to.Mul(1/tn)

	d := f.Dot(t)
	if d > 1-epsilon {
		return Identity()
	}
	if d < -1+epsilon {
		axis := f.Cross(r3.Vector{X: 1})
		if axis.Norm() < epsilon {
			axis = f.Cross(r3.Vector{Y: 1})
		}
		axis = axis.Normalize()
		return quat.Number{Imag: axis.X, Jmag: axis.Y, Kmag: axis.Z}
	}

	c := f.Cross(t)
	q := quat.Number{Real: 1 + d, Imag: c.X, Jmag: c.Y, Kmag: c.Z}
	return Normalize(q)
}

// Rotate applies rotation q to vector v.
func Rotate(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// ApplyCorrection right-multiplies the per-bone axis correction onto a raw
// computed rotation, expressing the result in the bone's own local
// convention.
func ApplyCorrection(raw, correction quat.Number) quat.Number {
	return Normalize(quat.Mul(raw, correction))
}

// Blend performs one step of exponential moving average smoothing between
// the previously applied rotation and the new target. factor is in [0,1):
// 0 returns next unchanged, values approaching 1 lag further behind. The
// result is renormalized, and sign-corrected so blending always takes the
// short way around.
func Blend(prev, next quat.Number, factor float64) quat.Number {
	if factor <= 0 {
		return Normalize(next)
	}
	// q and -q are the same rotation; flip to the same hemisphere first.
	if dot(prev, next) < 0 {
		prev = quat.Number{Real: -prev.Real, Imag: -prev.Imag, Jmag: -prev.Jmag, Kmag: -prev.Kmag}
	}
	return Normalize(quat.Number{
		Real: prev.Real*factor + next.Real*(1-factor),
		Imag: prev.Imag*factor + next.Imag*(1-factor),
		Jmag: prev.Jmag*factor + next.Jmag*(1-factor),
		Kmag: prev.Kmag*factor + next.Kmag*(1-factor),
	})
}

// AlmostEqual reports whether two rotations are equal within tol, treating
// q and -q as the same rotation.
func AlmostEqual(a, b quat.Number, tol float64) bool {
	d := math.Abs(dot(Normalize(a), Normalize(b)))
	return 1-d < tol
}

func dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// FromEuler builds a rotation from XYZ Euler angles in radians: a rotation
// about X (roll), then Y (pitch), then Z (yaw).
func FromEuler(x, y, z float64) quat.Number {
	cx, sx := math.Cos(x/2), math.Sin(x/2)
	cy, sy := math.Cos(y/2), math.Sin(y/2)
	cz, sz := math.Cos(z/2), math.Sin(z/2)
	return quat.Number{
		Real: cx*cy*cz + sx*sy*sz,
		Imag: sx*cy*cz - cx*sy*sz,
		Jmag: cx*sy*cz + sx*cy*sz,
		Kmag: cx*cy*sz - sx*sy*cz,
	}
}

// ToEuler decomposes a unit rotation into XYZ Euler angles in radians, the
// inverse of FromEuler. Pitch is reported in [-pi/2, pi/2]; at the gimbal
// poles roll absorbs the free axis.
func ToEuler(q quat.Number) (x, y, z float64) {
	q = Normalize(q)
	w, i, j, k := q.Real, q.Imag, q.Jmag, q.Kmag

	sinp := 2 * (w*j - k*i)
	if sinp > 1 {
		sinp = 1
	} else if sinp < -1 {
		sinp = -1
	}

	x = math.Atan2(2*(w*i+j*k), 1-2*(i*i+j*j))
	y = math.Asin(sinp)
	z = math.Atan2(2*(w*k+i*j), 1-2*(j*j+k*k))
	return x, y, z
}
