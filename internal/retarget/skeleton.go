// Package retarget applies landmark frames to a live skeleton through a rig
// mapping: one frame in, one set of bone writes out. The engine owns all
// per-session state (previous rotations, root origin); mappings and frames
// stay immutable.
package retarget

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Transform is a bone's rest placement in engine space.
type Transform struct {
	Translation r3.Vector
	Rotation    quat.Number
}

// Skeleton is the abstract bone sink the engine writes to. Implementations
// wrap the host engine's armature. The bound skeleton is exclusively owned
// by the engine between Bind and Unbind; the host must not mutate the same
// bones concurrently.
type Skeleton interface {
	// BoneExists reports whether the skeleton has a bone with this name.
	BoneExists(name string) bool

	// RestTransform returns the bone's rest pose transform.
	RestTransform(name string) (Transform, error)

	// SetLocalRotation writes a bone's local rotation.
	SetLocalRotation(name string, q quat.Number) error

	// SetWorldTranslation writes a bone's world-space translation offset.
	SetWorldTranslation(name string, v r3.Vector) error
}

// BoneAxis is the canonical rest direction of an unrotated bone in engine
// space. A bone's actual rest direction is its rest rotation applied to
// this axis.
var BoneAxis = r3.Vector{Y: 1}

// SkeletonMismatchError reports every bone a rig mapping requires that the
// bound skeleton lacks, so a mismatch can be fixed in one pass.
type SkeletonMismatchError struct {
	Mapping string
	Missing []string
}

func (e *SkeletonMismatchError) Error() string {
	return fmt.Sprintf("skeleton is missing %d bones required by mapping %q: %s",
		len(e.Missing), e.Mapping, strings.Join(e.Missing, ", "))
}
