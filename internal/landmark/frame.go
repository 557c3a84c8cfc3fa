package landmark

import "github.com/golang/geo/r3"

// Point is a single tracked landmark: a position in detector space and a
// visibility score in [0,1].
type Point struct {
	Pos        r3.Vector `json:"pos"`
	Visibility float64   `json:"visibility"`
}

// Frame is one timestep's landmarks across the tracked regions. A nil region
// slice means the region was not tracked this session; it is not the same as
// a region full of zero points.
type Frame struct {
	Pose      []Point `json:"pose,omitempty"`
	LeftHand  []Point `json:"left_hand,omitempty"`
	RightHand []Point `json:"right_hand,omitempty"`
	Face      []Point `json:"face,omitempty"`

	// TimestampMs is the detector-side capture time in milliseconds.
	TimestampMs int64 `json:"timestamp_ms"`
}

// Region returns the points for one region and whether the region is present
// in this frame.
func (f *Frame) Region(region Region) ([]Point, bool) {
	if f == nil {
		return nil, false
	}
	switch region {
	case RegionPose:
		return f.Pose, f.Pose != nil
	case RegionLeftHand:
		return f.LeftHand, f.LeftHand != nil
	case RegionRightHand:
		return f.RightHand, f.RightHand != nil
	case RegionFace:
		return f.Face, f.Face != nil
	}
	return nil, false
}

// Point returns one landmark of a region, with ok=false when the region is
// absent or the index is out of range for the delivered slice.
func (f *Frame) Point(region Region, index int) (Point, bool) {
	points, ok := f.Region(region)
	if !ok || index < 0 || index >= len(points) {
		return Point{}, false
	}
	return points[index], true
}
