package retarget

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Recorder is a test implementation of the Skeleton interface. It records
// every write and its order so tests can assert hierarchy ordering and
// hold-last-value behavior.
type Recorder struct {
	rest map[string]Transform

	// WriteOrder lists bone names in the order their rotations were set,
	// one entry per write.
	WriteOrder []string
	// Rotations holds the latest rotation written per bone.
	Rotations map[string]quat.Number
	// RotationWrites counts rotation writes per bone.
	RotationWrites map[string]int
	// Translations holds the latest world translation written per bone.
	Translations map[string]r3.Vector

	// FailBone, when set, makes writes to that bone return an error.
	FailBone string
}

// NewRecorder creates a recorder with the given rest transforms; the map
// keys define which bones exist.
func NewRecorder(rest map[string]Transform) *Recorder {
	r := &Recorder{
		rest:           make(map[string]Transform, len(rest)),
		Rotations:      make(map[string]quat.Number),
		RotationWrites: make(map[string]int),
		Translations:   make(map[string]r3.Vector),
	}
	for name, t := range rest {
		r.rest[name] = t
	}
	return r
}

// AddBone adds or replaces a bone's rest transform.
func (r *Recorder) AddBone(name string, rest Transform) {
	r.rest[name] = rest
}

// BoneExists implements Skeleton.
func (r *Recorder) BoneExists(name string) bool {
	_, ok := r.rest[name]
	return ok
}

// RestTransform implements Skeleton.
func (r *Recorder) RestTransform(name string) (Transform, error) {
	t, ok := r.rest[name]
	if !ok {
		return Transform{}, fmt.Errorf("no bone %q", name)
	}
	return t, nil
}

// SetLocalRotation implements Skeleton.
func (r *Recorder) SetLocalRotation(name string, q quat.Number) error {
	if name == r.FailBone {
		return fmt.Errorf("write to bone %q failed", name)
	}
	r.WriteOrder = append(r.WriteOrder, name)
	r.Rotations[name] = q
	r.RotationWrites[name]++
	return nil
}

// SetWorldTranslation implements Skeleton.
func (r *Recorder) SetWorldTranslation(name string, v r3.Vector) error {
	if name == r.FailBone {
		return fmt.Errorf("write to bone %q failed", name)
	}
	r.Translations[name] = v
	return nil
}
