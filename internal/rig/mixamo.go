package rig

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/ayusman/animate/internal/landmark"
	"github.com/ayusman/animate/internal/space"
)

// deg converts authored degree values to radians.
func deg(d float64) float64 {
	return d * math.Pi / 180
}

// Finger axis corrections. Fingers curl about the bone-local X axis, which
// sits opposite to the raw landmark direction, so the correction flips X.
// The thumb additionally twists a quarter turn so opposition reads as a curl
// instead of a sideways swing.
var (
	fingerCorrection = space.FromEuler(-math.Pi/2, 0, 0)
	thumbCorrection  = space.FromEuler(-math.Pi/2, -math.Pi/4, 0)
)

var fingerLimits = space.Limits{
	X: space.AxisLimit{Min: deg(-10), Max: deg(110)},
	Y: space.AxisLimit{Min: deg(-20), Max: deg(20)},
	Z: space.AxisLimit{Min: deg(-20), Max: deg(20)},
}

// fingerJoints maps each finger to the landmark indices of its three
// phalanx bones, proximal first.
var fingerJoints = map[string][4]int{
	"Thumb":  {landmark.ThumbCMC, landmark.ThumbMCP, landmark.ThumbIP, landmark.ThumbTip},
	"Index":  {landmark.IndexMCP, landmark.IndexPIP, landmark.IndexDIP, landmark.IndexTip},
	"Middle": {landmark.MiddleMCP, landmark.MiddlePIP, landmark.MiddleDIP, landmark.MiddleTip},
	"Ring":   {landmark.RingMCP, landmark.RingPIP, landmark.RingDIP, landmark.RingTip},
	"Pinky":  {landmark.PinkyMCP, landmark.PinkyPIP, landmark.PinkyDIP, landmark.PinkyTip},
}

// fingerOrder keeps generated bone order deterministic.
var fingerOrder = []string{"Thumb", "Index", "Middle", "Ring", "Pinky"}

// mixamoFingerBones generates the fifteen phalanx bones of one hand,
// parented under the side's hand bone.
func mixamoFingerBones(side string, region landmark.Region) []BoneDef {
	hand := side + "Hand"
	var bones []BoneDef
	for _, finger := range fingerOrder {
		joints := fingerJoints[finger]
		correction := fingerCorrection
		if finger == "Thumb" {
			correction = thumbCorrection
		}
		parent := hand
		for seg := 0; seg < 3; seg++ {
			name := fmt.Sprintf("%s%s%d", hand, finger, seg+1)
			bones = append(bones, BoneDef{
				Name:           name,
				Parent:         parent,
				Region:         region,
				Landmarks:      []int{joints[seg], joints[seg+1]},
				Rule:           RuleDirection,
				Limits:         fingerLimits,
				AxisCorrection: correction,
			})
			parent = name
		}
	}
	return bones
}

// MixamoMapping returns the rig mapping for Mixamo-convention skeletons.
// Landmark assignments follow the MediaPipe pose topology; limits are
// authored in degrees and kept deliberately loose except for the spine and
// neck, which snap visibly when allowed to overshoot.
func MixamoMapping() *Mapping {
	spineLimits := space.SymmetricLimits(deg(30), deg(30), deg(30))
	headLimits := space.SymmetricLimits(deg(45), deg(45), deg(45))
	shoulderLimits := space.SymmetricLimits(deg(90), deg(90), deg(90))
	elbowLimits := space.Limits{
		X: space.AxisLimit{Min: deg(-5), Max: deg(150)},
		Y: space.AxisLimit{Min: deg(-90), Max: deg(90)},
		Z: space.AxisLimit{Min: deg(-45), Max: deg(45)},
	}
	kneeLimits := space.Limits{
		X: space.AxisLimit{Min: deg(-5), Max: deg(150)},
		Y: space.AxisLimit{Min: deg(-30), Max: deg(30)},
		Z: space.AxisLimit{Min: deg(-30), Max: deg(30)},
	}

	bones := []BoneDef{
		{Name: "Hips", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.RightHip}, Rule: RuleDirection},
		{Name: "Spine", Parent: "Hips", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.LeftShoulder}, Rule: RuleDirection, Limits: spineLimits},
		{Name: "Spine1", Parent: "Spine", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.RightShoulder}, Rule: RuleDirection, Limits: spineLimits},
		{Name: "Spine2", Parent: "Spine1", Region: landmark.RegionPose, Landmarks: []int{landmark.RightShoulder, landmark.Nose}, Rule: RuleDirection, Limits: spineLimits},
		{Name: "Neck", Parent: "Spine2", Region: landmark.RegionPose, Landmarks: []int{landmark.Nose, landmark.LeftEyeInner}, Rule: RuleDirection, Limits: spineLimits},
		{Name: "Head", Parent: "Neck", Region: landmark.RegionPose, Landmarks: []int{landmark.Nose, landmark.RightEar}, Rule: RuleDirection, Limits: headLimits},

		{Name: "LeftShoulder", Parent: "Spine2", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow}, Rule: RuleDirection, Limits: shoulderLimits},
		{Name: "LeftArm", Parent: "LeftShoulder", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow}, Rule: RuleDirection},
		{Name: "LeftForeArm", Parent: "LeftArm", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow, landmark.LeftWrist}, Rule: RuleChain, Limits: elbowLimits},
		{Name: "LeftHand", Parent: "LeftForeArm", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftWrist, landmark.LeftIndex}, Rule: RuleDirection},

		{Name: "RightShoulder", Parent: "Spine2", Region: landmark.RegionPose, Landmarks: []int{landmark.RightShoulder, landmark.RightElbow}, Rule: RuleDirection, Limits: shoulderLimits},
		{Name: "RightArm", Parent: "RightShoulder", Region: landmark.RegionPose, Landmarks: []int{landmark.RightShoulder, landmark.RightElbow}, Rule: RuleDirection},
		{Name: "RightForeArm", Parent: "RightArm", Region: landmark.RegionPose, Landmarks: []int{landmark.RightShoulder, landmark.RightElbow, landmark.RightWrist}, Rule: RuleChain, Limits: elbowLimits},
		{Name: "RightHand", Parent: "RightForeArm", Region: landmark.RegionPose, Landmarks: []int{landmark.RightWrist, landmark.RightIndex}, Rule: RuleDirection},

		{Name: "LeftUpLeg", Parent: "Hips", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.LeftKnee}, Rule: RuleDirection},
		{Name: "LeftLeg", Parent: "LeftUpLeg", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.LeftKnee, landmark.LeftAnkle}, Rule: RuleChain, Limits: kneeLimits},
		{Name: "LeftFoot", Parent: "LeftLeg", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftAnkle, landmark.LeftFootIndex}, Rule: RuleDirection},
		{Name: "LeftToeBase", Parent: "LeftFoot", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHeel, landmark.LeftFootIndex}, Rule: RuleDirection},

		{Name: "RightUpLeg", Parent: "Hips", Region: landmark.RegionPose, Landmarks: []int{landmark.RightHip, landmark.RightKnee}, Rule: RuleDirection},
		{Name: "RightLeg", Parent: "RightUpLeg", Region: landmark.RegionPose, Landmarks: []int{landmark.RightHip, landmark.RightKnee, landmark.RightAnkle}, Rule: RuleChain, Limits: kneeLimits},
		{Name: "RightFoot", Parent: "RightLeg", Region: landmark.RegionPose, Landmarks: []int{landmark.RightAnkle, landmark.RightFootIndex}, Rule: RuleDirection},
		{Name: "RightToeBase", Parent: "RightFoot", Region: landmark.RegionPose, Landmarks: []int{landmark.RightHeel, landmark.RightFootIndex}, Rule: RuleDirection},

		// Face bones ride on the head.
		{Name: "Jaw", Parent: "Head", Region: landmark.RegionFace, Landmarks: []int{landmark.FaceJawCenter, landmark.FaceJawTip}, Rule: RuleDirection, Limits: space.SymmetricLimits(deg(25), deg(15), deg(15))},
		{Name: "LeftEye", Parent: "Head", Region: landmark.RegionFace, Landmarks: []int{landmark.FaceLeftEyeOuter, landmark.FaceLeftEyeInner}, Rule: RuleDirection, Limits: space.SymmetricLimits(deg(30), deg(30), deg(30))},
		{Name: "RightEye", Parent: "Head", Region: landmark.RegionFace, Landmarks: []int{landmark.FaceRightEyeInner, landmark.FaceRightEyeOuter}, Rule: RuleDirection, Limits: space.SymmetricLimits(deg(30), deg(30), deg(30))},
	}

	bones = append(bones, mixamoFingerBones("Left", landmark.RegionLeftHand)...)
	bones = append(bones, mixamoFingerBones("Right", landmark.RegionRightHand)...)

	return &Mapping{
		Name:              "mixamo",
		Root:              "Hips",
		Bones:             bones,
		DefaultCorrection: quat.Number{Real: 1},
	}
}
