package rig

import "github.com/ayusman/animate/internal/landmark"

// MayaMapping returns the rig mapping for Maya HumanIK skeletons. It is
// intentionally partial: the bone list, hierarchy, and driving landmarks are
// authored, but rotation limits stay unbounded until someone with a HumanIK
// rig tunes them. Unbounded limits go through the same clamping path and
// simply never clamp.
func MayaMapping() *Mapping {
	bones := []BoneDef{
		{Name: "Hips", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.RightHip}, Rule: RuleDirection},
		{Name: "Spine", Parent: "Hips", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.LeftShoulder}, Rule: RuleDirection},
		{Name: "Spine1", Parent: "Spine", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.RightShoulder}, Rule: RuleDirection},
		{Name: "Neck", Parent: "Spine1", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.Nose}, Rule: RuleDirection},
		{Name: "Head", Parent: "Neck", Region: landmark.RegionPose, Landmarks: []int{landmark.Nose, landmark.RightEar}, Rule: RuleDirection},

		{Name: "LeftShoulder", Parent: "Spine1", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow}, Rule: RuleDirection},
		{Name: "LeftArm", Parent: "LeftShoulder", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow}, Rule: RuleDirection},
		{Name: "LeftForeArm", Parent: "LeftArm", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow, landmark.LeftWrist}, Rule: RuleChain},
		{Name: "LeftHand", Parent: "LeftForeArm", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftWrist, landmark.LeftIndex}, Rule: RuleDirection},

		{Name: "RightShoulder", Parent: "Spine1", Region: landmark.RegionPose, Landmarks: []int{landmark.RightShoulder, landmark.RightElbow}, Rule: RuleDirection},
		{Name: "RightArm", Parent: "RightShoulder", Region: landmark.RegionPose, Landmarks: []int{landmark.RightShoulder, landmark.RightElbow}, Rule: RuleDirection},
		{Name: "RightForeArm", Parent: "RightArm", Region: landmark.RegionPose, Landmarks: []int{landmark.RightShoulder, landmark.RightElbow, landmark.RightWrist}, Rule: RuleChain},
		{Name: "RightHand", Parent: "RightForeArm", Region: landmark.RegionPose, Landmarks: []int{landmark.RightWrist, landmark.RightIndex}, Rule: RuleDirection},

		{Name: "LeftUpLeg", Parent: "Hips", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.LeftKnee}, Rule: RuleDirection},
		{Name: "LeftLeg", Parent: "LeftUpLeg", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.LeftKnee, landmark.LeftAnkle}, Rule: RuleChain},
		{Name: "LeftFoot", Parent: "LeftLeg", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftAnkle, landmark.LeftFootIndex}, Rule: RuleDirection},

		{Name: "RightUpLeg", Parent: "Hips", Region: landmark.RegionPose, Landmarks: []int{landmark.RightHip, landmark.RightKnee}, Rule: RuleDirection},
		{Name: "RightLeg", Parent: "RightUpLeg", Region: landmark.RegionPose, Landmarks: []int{landmark.RightHip, landmark.RightKnee, landmark.RightAnkle}, Rule: RuleChain},
		{Name: "RightFoot", Parent: "RightLeg", Region: landmark.RegionPose, Landmarks: []int{landmark.RightAnkle, landmark.RightFootIndex}, Rule: RuleDirection},
	}

	return &Mapping{
		Name:  "maya",
		Root:  "Hips",
		Bones: bones,
	}
}
