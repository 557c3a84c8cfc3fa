package space

import (
	"encoding/json"
	"math"
	"testing"
)

func TestClamp_Unbounded(t *testing.T) {
	q := FromEuler(1.4, -0.9, 2.8)
	got := Clamp(q, NoLimits())
	if !AlmostEqual(got, q, 1e-12) {
		t.Errorf("unbounded clamp changed rotation: %v vs %v", got, q)
	}
}

func TestClamp_WithinLimits(t *testing.T) {
	q := FromEuler(0.2, -0.1, 0.3)
	got := Clamp(q, SymmetricLimits(1, 1, 1))
	if !AlmostEqual(got, q, 1e-9) {
		t.Errorf("in-range rotation was altered: %v vs %v", got, q)
	}
}

func TestClamp_PinsExceededAxis(t *testing.T) {
	limits := SymmetricLimits(0.5, math.Pi/2, math.Pi)
	q := FromEuler(1.2, 0, 0)

	got := Clamp(q, limits)
	x, y, z := ToEuler(got)
	if math.Abs(x-0.5) > 1e-9 {
		t.Errorf("clamped roll = %v, want 0.5", x)
	}
	if math.Abs(y) > 1e-9 || math.Abs(z) > 1e-9 {
		t.Errorf("clamp leaked into other axes: pitch %v, yaw %v", y, z)
	}
}

func TestClamp_AsymmetricLimits(t *testing.T) {
	limits := NoLimits()
	limits.Z = AxisLimit{Min: -0.1, Max: 1.5}

	_, _, z := ToEuler(Clamp(FromEuler(0, 0, -0.8), limits))
	if math.Abs(z-(-0.1)) > 1e-9 {
		t.Errorf("clamped yaw = %v, want -0.1", z)
	}
}

func TestClamp_Idempotent(t *testing.T) {
	limits := SymmetricLimits(0.4, 0.6, 0.8)
	rotations := []struct{ x, y, z float64 }{
		{1.3, -1.1, 2.0},
		{0.1, 0.2, 0.3},
		{-2.5, 0.9, -1.7},
	}

	for _, r := range rotations {
		once := Clamp(FromEuler(r.x, r.y, r.z), limits)
		twice := Clamp(once, limits)
		if !AlmostEqual(once, twice, 1e-9) {
			t.Errorf("clamp of (%v, %v, %v) not idempotent: %v vs %v", r.x, r.y, r.z, once, twice)
		}
	}
}

func TestAxisLimit_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		limit AxisLimit
	}{
		{"bounded", AxisLimit{Min: -0.4, Max: 1.2}},
		{"unbounded", Unbounded()},
		{"half open", AxisLimit{Min: math.Inf(-1), Max: 2.6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.limit)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var got AxisLimit
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal %s: %v", data, err)
			}
			if got != tt.limit {
				t.Errorf("round trip of %v gave %v (wire: %s)", tt.limit, got, data)
			}
		})
	}
}

func TestAxisLimit_UnmarshalMissingBounds(t *testing.T) {
	var got AxisLimit
	if err := json.Unmarshal([]byte(`{}`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != Unbounded() {
		t.Errorf("empty object decoded to %v, want unbounded", got)
	}
}

func TestAxisLimit_Bounded(t *testing.T) {
	if Unbounded().Bounded() {
		t.Error("Unbounded limit reported as bounded")
	}
	if !(AxisLimit{Min: math.Inf(-1), Max: 1}).Bounded() {
		t.Error("half-open limit should be bounded")
	}
	if NoLimits().Bounded() {
		t.Error("NoLimits envelope reported as bounded")
	}
	if !SymmetricLimits(1, 1, 1).Bounded() {
		t.Error("symmetric envelope should be bounded")
	}
}
