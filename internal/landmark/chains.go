package landmark

// Chain is an ordered joint chain inside one region, root-most joint first.
// Mapping authors use chains to spell out which landmarks drive a limb.
type Chain struct {
	Region  Region
	Indices []int
}

// Pose chains.
var (
	LeftArmChain   = Chain{RegionPose, []int{LeftShoulder, LeftElbow, LeftWrist}}
	RightArmChain  = Chain{RegionPose, []int{RightShoulder, RightElbow, RightWrist}}
	LeftLegChain   = Chain{RegionPose, []int{LeftHip, LeftKnee, LeftAnkle, LeftFootIndex}}
	RightLegChain  = Chain{RegionPose, []int{RightHip, RightKnee, RightAnkle, RightFootIndex}}
	SpineChain     = Chain{RegionPose, []int{LeftHip, LeftShoulder, Nose}}
	ShoulderGirdle = Chain{RegionPose, []int{LeftShoulder, RightShoulder}}
	HipGirdle      = Chain{RegionPose, []int{LeftHip, RightHip}}
)

// FingerChain returns the joint chain for one finger of a hand region,
// wrist included. Fingers are named thumb, index, middle, ring, pinky.
func FingerChain(region Region, finger string) (Chain, error) {
	if region != RegionLeftHand && region != RegionRightHand {
		return Chain{}, ErrUnknownLandmark
	}
	var indices []int
	switch finger {
	case "thumb":
		indices = []int{Wrist, ThumbCMC, ThumbMCP, ThumbIP, ThumbTip}
	case "index":
		indices = []int{Wrist, IndexMCP, IndexPIP, IndexDIP, IndexTip}
	case "middle":
		indices = []int{Wrist, MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip}
	case "ring":
		indices = []int{Wrist, RingMCP, RingPIP, RingDIP, RingTip}
	case "pinky":
		indices = []int{Wrist, PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip}
	default:
		return Chain{}, ErrUnknownLandmark
	}
	return Chain{Region: region, Indices: indices}, nil
}

// Fingers lists the finger names accepted by FingerChain.
var Fingers = []string{"thumb", "index", "middle", "ring", "pinky"}
