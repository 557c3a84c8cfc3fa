package retarget

import (
	"fmt"
	"sync"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/ayusman/animate/internal/rig"
)

// BonePose is one bone's latest retargeted pose.
type BonePose struct {
	Rotation    quat.Number `json:"rotation"`
	Translation r3.Vector   `json:"translation"`
}

// PoseBuffer is a Skeleton for hosts that read poses out of the service
// instead of embedding the engine: the engine writes into it and clients
// poll the latest snapshot. Bones are declared up front with their rest
// transforms.
type PoseBuffer struct {
	mu    sync.Mutex
	rest  map[string]Transform
	poses map[string]BonePose
}

// NewPoseBuffer creates a buffer whose bones are the keys of rest.
func NewPoseBuffer(rest map[string]Transform) *PoseBuffer {
	b := &PoseBuffer{
		rest:  make(map[string]Transform, len(rest)),
		poses: make(map[string]BonePose, len(rest)),
	}
	for name, t := range rest {
		b.rest[name] = t
	}
	return b
}

// PoseBufferFor creates a buffer with one bone per mapping entry, all at
// the identity rest transform. Suits rigs authored against the canonical
// bone axis, which is what the builtin mappings assume.
func PoseBufferFor(m *rig.Mapping) *PoseBuffer {
	rest := make(map[string]Transform, len(m.Bones))
	for i := range m.Bones {
		rest[m.Bones[i].Name] = Transform{Rotation: quat.Number{Real: 1}}
	}
	return NewPoseBuffer(rest)
}

// BoneExists implements Skeleton.
func (b *PoseBuffer) BoneExists(name string) bool {
	_, ok := b.rest[name]
	return ok
}

// RestTransform implements Skeleton.
func (b *PoseBuffer) RestTransform(name string) (Transform, error) {
	t, ok := b.rest[name]
	if !ok {
		return Transform{}, fmt.Errorf("no bone %q", name)
	}
	return t, nil
}

// SetLocalRotation implements Skeleton.
func (b *PoseBuffer) SetLocalRotation(name string, q quat.Number) error {
	if _, ok := b.rest[name]; !ok {
		return fmt.Errorf("no bone %q", name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.poses[name]
	p.Rotation = q
	b.poses[name] = p
	return nil
}

// SetWorldTranslation implements Skeleton.
func (b *PoseBuffer) SetWorldTranslation(name string, v r3.Vector) error {
	if _, ok := b.rest[name]; !ok {
		return fmt.Errorf("no bone %q", name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.poses[name]
	p.Translation = v
	b.poses[name] = p
	return nil
}

// Snapshot returns a copy of every bone pose written so far. Bones the
// engine has not written yet are absent.
func (b *PoseBuffer) Snapshot() map[string]BonePose {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]BonePose, len(b.poses))
	for name, p := range b.poses {
		out[name] = p
	}
	return out
}
