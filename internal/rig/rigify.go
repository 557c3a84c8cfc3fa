package rig

import (
	"fmt"

	"github.com/ayusman/animate/internal/landmark"
	"github.com/ayusman/animate/internal/space"
)

// rigifyFingers maps Rigify finger bone stems to their landmark joints.
var rigifyFingers = []struct {
	stem   string
	joints [4]int
}{
	{"thumb", [4]int{landmark.ThumbCMC, landmark.ThumbMCP, landmark.ThumbIP, landmark.ThumbTip}},
	{"f_index", [4]int{landmark.IndexMCP, landmark.IndexPIP, landmark.IndexDIP, landmark.IndexTip}},
	{"f_middle", [4]int{landmark.MiddleMCP, landmark.MiddlePIP, landmark.MiddleDIP, landmark.MiddleTip}},
	{"f_ring", [4]int{landmark.RingMCP, landmark.RingPIP, landmark.RingDIP, landmark.RingTip}},
	{"f_pinky", [4]int{landmark.PinkyMCP, landmark.PinkyPIP, landmark.PinkyDIP, landmark.PinkyTip}},
}

// rigifyFingerBones generates the phalanx bones for one hand. suffix is
// ".L" or ".R".
func rigifyFingerBones(suffix string, region landmark.Region) []BoneDef {
	hand := "hand" + suffix
	var bones []BoneDef
	for _, finger := range rigifyFingers {
		correction := fingerCorrection
		if finger.stem == "thumb" {
			correction = thumbCorrection
		}
		parent := hand
		for seg := 0; seg < 3; seg++ {
			name := fmt.Sprintf("%s.%02d%s", finger.stem, seg+1, suffix)
			bones = append(bones, BoneDef{
				Name:           name,
				Parent:         parent,
				Region:         region,
				Landmarks:      []int{finger.joints[seg], finger.joints[seg+1]},
				Rule:           RuleDirection,
				Limits:         fingerLimits,
				AxisCorrection: correction,
			})
			parent = name
		}
	}
	return bones
}

// RigifyMapping returns the rig mapping for Blender Rigify skeletons. The
// spine is the Rigify chain spine..spine.006 collapsed to the segments the
// pose landmarks can actually drive.
func RigifyMapping() *Mapping {
	spineLimits := space.SymmetricLimits(deg(30), deg(30), deg(30))
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
		{Name: "root", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.RightHip}, Rule: RuleDirection},
		{Name: "spine", Parent: "root", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.RightHip}, Rule: RuleDirection, Limits: spineLimits},
		{Name: "spine.001", Parent: "spine", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.LeftShoulder}, Rule: RuleDirection, Limits: spineLimits},
		{Name: "spine.002", Parent: "spine.001", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.RightShoulder}, Rule: RuleDirection, Limits: spineLimits},
		{Name: "neck", Parent: "spine.002", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.Nose}, Rule: RuleDirection, Limits: spineLimits},
		{Name: "head", Parent: "neck", Region: landmark.RegionPose, Landmarks: []int{landmark.Nose, landmark.RightEar}, Rule: RuleDirection, Limits: space.SymmetricLimits(deg(45), deg(45), deg(45))},

		{Name: "shoulder.L", Parent: "spine.002", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow}, Rule: RuleDirection, Limits: shoulderLimits},
		{Name: "upper_arm.L", Parent: "shoulder.L", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow}, Rule: RuleDirection},
		{Name: "forearm.L", Parent: "upper_arm.L", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow, landmark.LeftWrist}, Rule: RuleChain, Limits: elbowLimits},
		{Name: "hand.L", Parent: "forearm.L", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftWrist, landmark.LeftIndex}, Rule: RuleDirection},

		{Name: "shoulder.R", Parent: "spine.002", Region: landmark.RegionPose, Landmarks: []int{landmark.RightShoulder, landmark.RightElbow}, Rule: RuleDirection, Limits: shoulderLimits},
		{Name: "upper_arm.R", Parent: "shoulder.R", Region: landmark.RegionPose, Landmarks: []int{landmark.RightShoulder, landmark.RightElbow}, Rule: RuleDirection},
		{Name: "forearm.R", Parent: "upper_arm.R", Region: landmark.RegionPose, Landmarks: []int{landmark.RightShoulder, landmark.RightElbow, landmark.RightWrist}, Rule: RuleChain, Limits: elbowLimits},
		{Name: "hand.R", Parent: "forearm.R", Region: landmark.RegionPose, Landmarks: []int{landmark.RightWrist, landmark.RightIndex}, Rule: RuleDirection},

		{Name: "thigh.L", Parent: "root", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.LeftKnee}, Rule: RuleDirection},
		{Name: "shin.L", Parent: "thigh.L", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.LeftKnee, landmark.LeftAnkle}, Rule: RuleChain, Limits: kneeLimits},
		{Name: "foot.L", Parent: "shin.L", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftAnkle, landmark.LeftFootIndex}, Rule: RuleDirection},
		{Name: "toe.L", Parent: "foot.L", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHeel, landmark.LeftFootIndex}, Rule: RuleDirection},

		{Name: "thigh.R", Parent: "root", Region: landmark.RegionPose, Landmarks: []int{landmark.RightHip, landmark.RightKnee}, Rule: RuleDirection},
		{Name: "shin.R", Parent: "thigh.R", Region: landmark.RegionPose, Landmarks: []int{landmark.RightHip, landmark.RightKnee, landmark.RightAnkle}, Rule: RuleChain, Limits: kneeLimits},
		{Name: "foot.R", Parent: "shin.R", Region: landmark.RegionPose, Landmarks: []int{landmark.RightAnkle, landmark.RightFootIndex}, Rule: RuleDirection},
		{Name: "toe.R", Parent: "foot.R", Region: landmark.RegionPose, Landmarks: []int{landmark.RightHeel, landmark.RightFootIndex}, Rule: RuleDirection},

		{Name: "jaw", Parent: "head", Region: landmark.RegionFace, Landmarks: []int{landmark.FaceJawCenter, landmark.FaceJawTip}, Rule: RuleDirection, Limits: space.SymmetricLimits(deg(25), deg(15), deg(15))},
		{Name: "eye.L", Parent: "head", Region: landmark.RegionFace, Landmarks: []int{landmark.FaceLeftEyeOuter, landmark.FaceLeftEyeInner}, Rule: RuleDirection, Limits: space.SymmetricLimits(deg(30), deg(30), deg(30))},
		{Name: "eye.R", Parent: "head", Region: landmark.RegionFace, Landmarks: []int{landmark.FaceRightEyeInner, landmark.FaceRightEyeOuter}, Rule: RuleDirection, Limits: space.SymmetricLimits(deg(30), deg(30), deg(30))},
	}

	bones = append(bones, rigifyFingerBones(".L", landmark.RegionLeftHand)...)
	bones = append(bones, rigifyFingerBones(".R", landmark.RegionRightHand)...)

	return &Mapping{
		Name:  "rigify",
		Root:  "root",
		Bones: bones,
	}
}
