// Package landmark defines the canonical schema for the landmarks emitted by
// the detection sidecar: indices, semantic names, and joint chains for the
// pose, hand, and face regions.
package landmark

import (
	"errors"
	"fmt"
)

// ErrUnknownLandmark is returned when a name or index lookup fails.
var ErrUnknownLandmark = errors.New("unknown landmark")

// Region identifies one tracked subject region within a frame.
type Region string

const (
	// RegionPose is the 33-point body pose region.
	RegionPose Region = "pose"
	// RegionLeftHand is the 21-point left hand region.
	RegionLeftHand Region = "left_hand"
	// RegionRightHand is the 21-point right hand region.
	RegionRightHand Region = "right_hand"
	// RegionFace is the face mesh region.
	RegionFace Region = "face"
)

// Regions lists every region a frame can carry, in a fixed order.
var Regions = []Region{RegionPose, RegionLeftHand, RegionRightHand, RegionFace}

// Landmark counts per region, following the MediaPipe models.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	NumPoseLandmarks = 33
	NumHandLandmarks = 21
	NumFaceLandmarks = 478
)

// Pose landmark indices following the MediaPipe BlazePose convention.
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
)

// Hand landmark indices following the MediaPipe hand landmarker convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist     = 0
	ThumbCMC  = 1
	ThumbMCP  = 2
	ThumbIP   = 3
	ThumbTip  = 4
	IndexMCP  = 5
	IndexPIP  = 6
	IndexDIP  = 7
	IndexTip  = 8
	MiddleMCP = 9
	MiddlePIP = 10
	MiddleDIP = 11
	MiddleTip = 12
	RingMCP   = 13
	RingPIP   = 14
	RingDIP   = 15
	RingTip   = 16
	PinkyMCP  = 17
	PinkyPIP  = 18
	PinkyDIP  = 19
	PinkyTip  = 20
)

// Key face mesh indices. The face mesh carries 478 points; only the ones
// mapping authors drive bones with are named here.
const (
	FaceJawCenter      = 152
	FaceJawTip         = 175
	FaceJawLeft        = 234
	FaceJawRight       = 454
	FaceMouthLeft      = 61
	FaceMouthRight     = 291
	FaceMouthTop       = 13
	FaceMouthBottom    = 14
	FaceLeftEyeOuter   = 33
	FaceLeftEyeInner   = 133
	FaceLeftEyeTop     = 159
	FaceLeftEyeBottom  = 145
	FaceRightEyeOuter  = 263
	FaceRightEyeInner  = 362
	FaceRightEyeTop    = 386
	FaceRightEyeBottom = 374
)

var poseNames = map[string]int{
	"nose":             Nose,
	"left_eye_inner":   LeftEyeInner,
	"left_eye":         LeftEye,
	"left_eye_outer":   LeftEyeOuter,
	"right_eye_inner":  RightEyeInner,
	"right_eye":        RightEye,
	"right_eye_outer":  RightEyeOuter,
	"left_ear":         LeftEar,
	"right_ear":        RightEar,
	"mouth_left":       MouthLeft,
	"mouth_right":      MouthRight,
	"left_shoulder":    LeftShoulder,
	"right_shoulder":   RightShoulder,
	"left_elbow":       LeftElbow,
	"right_elbow":      RightElbow,
	"left_wrist":       LeftWrist,
	"right_wrist":      RightWrist,
	"left_pinky":       LeftPinky,
	"right_pinky":      RightPinky,
	"left_index":       LeftIndex,
	"right_index":      RightIndex,
	"left_thumb":       LeftThumb,
	"right_thumb":      RightThumb,
	"left_hip":         LeftHip,
	"right_hip":        RightHip,
	"left_knee":        LeftKnee,
	"right_knee":       RightKnee,
	"left_ankle":       LeftAnkle,
	"right_ankle":      RightAnkle,
	"left_heel":        LeftHeel,
	"right_heel":       RightHeel,
	"left_foot_index":  LeftFootIndex,
	"right_foot_index": RightFootIndex,
}

var handNames = map[string]int{
	"wrist":             Wrist,
	"thumb_cmc":         ThumbCMC,
	"thumb_mcp":         ThumbMCP,
	"thumb_ip":          ThumbIP,
	"thumb_tip":         ThumbTip,
	"index_finger_mcp":  IndexMCP,
	"index_finger_pip":  IndexPIP,
	"index_finger_dip":  IndexDIP,
	"index_finger_tip":  IndexTip,
	"middle_finger_mcp": MiddleMCP,
	"middle_finger_pip": MiddlePIP,
	"middle_finger_dip": MiddleDIP,
	"middle_finger_tip": MiddleTip,
	"ring_finger_mcp":   RingMCP,
	"ring_finger_pip":   RingPIP,
	"ring_finger_dip":   RingDIP,
	"ring_finger_tip":   RingTip,
	"pinky_mcp":         PinkyMCP,
	"pinky_pip":         PinkyPIP,
	"pinky_dip":         PinkyDIP,
	"pinky_tip":         PinkyTip,
}

var faceNames = map[string]int{
	"jaw_center":       FaceJawCenter,
	"jaw_tip":          FaceJawTip,
	"jaw_left":         FaceJawLeft,
	"jaw_right":        FaceJawRight,
	"mouth_left":       FaceMouthLeft,
	"mouth_right":      FaceMouthRight,
	"mouth_top":        FaceMouthTop,
	"mouth_bottom":     FaceMouthBottom,
	"left_eye_outer":   FaceLeftEyeOuter,
	"left_eye_inner":   FaceLeftEyeInner,
	"left_eye_top":     FaceLeftEyeTop,
	"left_eye_bottom":  FaceLeftEyeBottom,
	"right_eye_outer":  FaceRightEyeOuter,
	"right_eye_inner":  FaceRightEyeInner,
	"right_eye_top":    FaceRightEyeTop,
	"right_eye_bottom": FaceRightEyeBottom,
}

var regionNames = map[Region]map[string]int{
	RegionPose:      poseNames,
	RegionLeftHand:  handNames,
	RegionRightHand: handNames,
	RegionFace:      faceNames,
}

var regionIndices = map[Region]map[int]string{}

func init() {
	for region, names := range regionNames {
		byIndex := make(map[int]string, len(names))
		for name, idx := range names {
			byIndex[idx] = name
		}
		regionIndices[region] = byIndex
	}
}

// Count returns the number of landmark slots in a region.
func Count(region Region) (int, error) {
	switch region {
	case RegionPose:
		return NumPoseLandmarks, nil
	case RegionLeftHand, RegionRightHand:
		return NumHandLandmarks, nil
	case RegionFace:
		return NumFaceLandmarks, nil
	}
	return 0, fmt.Errorf("region %q: %w", region, ErrUnknownLandmark)
}

// Index returns the landmark index for a semantic name within a region.
func Index(region Region, name string) (int, error) {
	names, ok := regionNames[region]
	if !ok {
		return 0, fmt.Errorf("region %q: %w", region, ErrUnknownLandmark)
	}
	idx, ok := names[name]
	if !ok {
		return 0, fmt.Errorf("%s %q: %w", region, name, ErrUnknownLandmark)
	}
	return idx, nil
}

// Name returns the semantic name of a landmark index within a region.
// Face mesh indices without an authored name fail the lookup even when the
// index itself is valid for frames.
func Name(region Region, index int) (string, error) {
	byIndex, ok := regionIndices[region]
	if !ok {
		return "", fmt.Errorf("region %q: %w", region, ErrUnknownLandmark)
	}
	name, ok := byIndex[index]
	if !ok {
		return "", fmt.Errorf("%s index %d: %w", region, index, ErrUnknownLandmark)
	}
	return name, nil
}

// Valid reports whether index addresses a landmark slot in region.
func Valid(region Region, index int) bool {
	n, err := Count(region)
	return err == nil && index >= 0 && index < n
}
