// Package testutil provides shared landmark and skeleton fixtures for
// tests: canonical frames in detector space and rest poses derived from
// them.
package testutil

import (
	"github.com/golang/geo/r3"

	"github.com/ayusman/animate/internal/landmark"
	"github.com/ayusman/animate/internal/retarget"
	"github.com/ayusman/animate/internal/rig"
	"github.com/ayusman/animate/internal/space"
)

// p builds a fully visible landmark point in detector space (Y up).
func p(x, y, z float64) landmark.Point {
	return landmark.Point{Pos: r3.Vector{X: x, Y: y, Z: z}, Visibility: 1.0}
}

// TPose returns a frame with all 33 pose landmarks of a subject standing in
// a T-pose facing the camera: arms straight out, legs straight down.
// Detector space, Y up, meters-ish.
func TPose() *landmark.Frame {
	pose := make([]landmark.Point, landmark.NumPoseLandmarks)

	// Head cluster
	pose[landmark.Nose] = p(0, 1.60, -0.05)
	pose[landmark.LeftEyeInner] = p(0.02, 1.63, -0.04)
	pose[landmark.LeftEye] = p(0.04, 1.63, -0.04)
	pose[landmark.LeftEyeOuter] = p(0.06, 1.63, -0.04)
	pose[landmark.RightEyeInner] = p(-0.02, 1.63, -0.04)
	pose[landmark.RightEye] = p(-0.04, 1.63, -0.04)
	pose[landmark.RightEyeOuter] = p(-0.06, 1.63, -0.04)
	pose[landmark.LeftEar] = p(0.09, 1.61, 0)
	pose[landmark.RightEar] = p(-0.09, 1.61, 0)
	pose[landmark.MouthLeft] = p(0.03, 1.57, -0.04)
	pose[landmark.MouthRight] = p(-0.03, 1.57, -0.04)

	// Arms straight out to the sides
	pose[landmark.LeftShoulder] = p(0.20, 1.45, 0)
	pose[landmark.RightShoulder] = p(-0.20, 1.45, 0)
	pose[landmark.LeftElbow] = p(0.50, 1.45, 0)
	pose[landmark.RightElbow] = p(-0.50, 1.45, 0)
	pose[landmark.LeftWrist] = p(0.78, 1.45, 0)
	pose[landmark.RightWrist] = p(-0.78, 1.45, 0)
	pose[landmark.LeftPinky] = p(0.86, 1.45, 0)
	pose[landmark.RightPinky] = p(-0.86, 1.45, 0)
	pose[landmark.LeftIndex] = p(0.87, 1.46, 0)
	pose[landmark.RightIndex] = p(-0.87, 1.46, 0)
	pose[landmark.LeftThumb] = p(0.84, 1.47, 0)
	pose[landmark.RightThumb] = p(-0.84, 1.47, 0)

	// Legs straight down
	pose[landmark.LeftHip] = p(0.12, 0.95, 0)
	pose[landmark.RightHip] = p(-0.12, 0.95, 0)
	pose[landmark.LeftKnee] = p(0.13, 0.52, 0)
	pose[landmark.RightKnee] = p(-0.13, 0.52, 0)
	pose[landmark.LeftAnkle] = p(0.13, 0.10, 0)
	pose[landmark.RightAnkle] = p(-0.13, 0.10, 0)
	pose[landmark.LeftHeel] = p(0.13, 0.03, 0.04)
	pose[landmark.RightHeel] = p(-0.13, 0.03, 0.04)
	pose[landmark.LeftFootIndex] = p(0.13, 0.02, -0.12)
	pose[landmark.RightFootIndex] = p(-0.13, 0.02, -0.12)

	return &landmark.Frame{Pose: pose, TimestampMs: 0}
}

// OpenLeftHand returns 21 left-hand landmarks of a flat open hand, fingers
// pointing up, palm toward the camera.
func OpenLeftHand() []landmark.Point {
	hand := make([]landmark.Point, landmark.NumHandLandmarks)
	hand[landmark.Wrist] = p(0.78, 1.45, 0)

	fingers := []struct {
		base    r3.Vector
		indices [4]int
	}{
		{r3.Vector{X: 0.74, Y: 1.47}, [4]int{landmark.ThumbCMC, landmark.ThumbMCP, landmark.ThumbIP, landmark.ThumbTip}},
		{r3.Vector{X: 0.76, Y: 1.50}, [4]int{landmark.IndexMCP, landmark.IndexPIP, landmark.IndexDIP, landmark.IndexTip}},
		{r3.Vector{X: 0.78, Y: 1.51}, [4]int{landmark.MiddleMCP, landmark.MiddlePIP, landmark.MiddleDIP, landmark.MiddleTip}},
		{r3.Vector{X: 0.80, Y: 1.50}, [4]int{landmark.RingMCP, landmark.RingPIP, landmark.RingDIP, landmark.RingTip}},
		{r3.Vector{X: 0.82, Y: 1.49}, [4]int{landmark.PinkyMCP, landmark.PinkyPIP, landmark.PinkyDIP, landmark.PinkyTip}},
	}
	for _, f := range fingers {
		for seg, idx := range f.indices {
			pos := f.base.Add(r3.Vector{Y: 0.025 * float64(seg)})
			hand[idx] = landmark.Point{Pos: pos, Visibility: 1.0}
		}
	}
	return hand
}

// WithVisibility returns a copy of the frame's pose region with every
// visibility score replaced.
func WithVisibility(f *landmark.Frame, visibility float64) *landmark.Frame {
	out := &landmark.Frame{TimestampMs: f.TimestampMs}
	if f.Pose != nil {
		out.Pose = make([]landmark.Point, len(f.Pose))
		for i, pt := range f.Pose {
			pt.Visibility = visibility
			out.Pose[i] = pt
		}
	}
	return out
}

// Translated returns a copy of the frame with every pose landmark shifted
// by the detector-space offset.
func Translated(f *landmark.Frame, offset r3.Vector) *landmark.Frame {
	out := &landmark.Frame{TimestampMs: f.TimestampMs}
	if f.Pose != nil {
		out.Pose = make([]landmark.Point, len(f.Pose))
		for i, pt := range f.Pose {
			pt.Pos = pt.Pos.Add(offset)
			out.Pose[i] = pt
		}
	}
	return out
}

// RestFromFrame builds rest transforms for every bone of a mapping such
// that the frame is the skeleton's rest pose: each bone's rest direction is
// its observed driving direction in the frame. Applying the same frame then
// yields near-identity raw rotations.
func RestFromFrame(m *rig.Mapping, f *landmark.Frame) map[string]retarget.Transform {
	rest := make(map[string]retarget.Transform, len(m.Bones))
	for i := range m.Bones {
		b := &m.Bones[i]
		rest[b.Name] = retarget.Transform{Rotation: space.Identity()}

		if len(b.Landmarks) < 2 {
			continue
		}
		a, ok1 := f.Point(b.Region, b.Landmarks[0])
		c, ok2 := f.Point(b.Region, b.Landmarks[1])
		if !ok1 || !ok2 {
			continue
		}
		dir := space.Direction(space.ToEngine(a.Pos), space.ToEngine(c.Pos))
		rest[b.Name] = retarget.Transform{
			Rotation: space.RotationBetween(retarget.BoneAxis, dir),
		}
	}
	return rest
}
