package space

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// AxisLimit bounds a single local rotation axis, in radians. Infinite
// bounds mean the axis is unconstrained on that side; they appear as null
// in JSON, which cannot represent infinities.
type AxisLimit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type axisLimitJSON struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// MarshalJSON implements json.Marshaler, encoding infinite bounds as null.
func (l AxisLimit) MarshalJSON() ([]byte, error) {
	var out axisLimitJSON
	if !math.IsInf(l.Min, -1) {
		v := l.Min
		out.Min = &v
	}
	if !math.IsInf(l.Max, 1) {
		v := l.Max
		out.Max = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler, decoding null or missing
// bounds as unbounded.
func (l *AxisLimit) UnmarshalJSON(data []byte) error {
	var in axisLimitJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*l = Unbounded()
	if in.Min != nil {
		l.Min = *in.Min
	}
	if in.Max != nil {
		l.Max = *in.Max
	}
	return nil
}

// Unbounded returns the sentinel limit that never clamps.
func Unbounded() AxisLimit {
	return AxisLimit{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Bounded reports whether the limit constrains its axis on either side.
func (l AxisLimit) Bounded() bool {
	return !math.IsInf(l.Min, -1) || !math.IsInf(l.Max, 1)
}

// clamp pins v into [Min, Max].
func (l AxisLimit) clamp(v float64) float64 {
	return math.Min(l.Max, math.Max(l.Min, v))
}

// Limits is a per-axis rotation envelope in the bone's local frame.
type Limits struct {
	X AxisLimit `json:"x"`
	Y AxisLimit `json:"y"`
	Z AxisLimit `json:"z"`
}

// NoLimits returns an envelope that is unbounded on every axis.
func NoLimits() Limits {
	return Limits{X: Unbounded(), Y: Unbounded(), Z: Unbounded()}
}

// Bounded reports whether any axis of the envelope constrains rotation.
func (l Limits) Bounded() bool {
	return l.X.Bounded() || l.Y.Bounded() || l.Z.Bounded()
}

// SymmetricLimits builds an envelope of +/-x, +/-y, +/-z radians per axis.
func SymmetricLimits(x, y, z float64) Limits {
	return Limits{
		X: AxisLimit{Min: -x, Max: x},
		Y: AxisLimit{Min: -y, Max: y},
		Z: AxisLimit{Min: -z, Max: z},
	}
}

// Clamp decomposes q into XYZ Euler angles, pins each angle into the
// envelope, and recomposes the rotation. Fully unbounded envelopes return
// the input (normalized) untouched, which keeps the placeholder-mapping code
// path uniform. Clamping an already clamped rotation is a no-op, so there is
// no frame-to-frame drift.
func Clamp(q quat.Number, limits Limits) quat.Number {
	if !limits.Bounded() {
		return Normalize(q)
	}
	x, y, z := ToEuler(q)
	return FromEuler(limits.X.clamp(x), limits.Y.clamp(y), limits.Z.clamp(z))
}
