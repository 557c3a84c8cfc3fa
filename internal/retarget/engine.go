package retarget

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/ayusman/animate/internal/landmark"
	"github.com/ayusman/animate/internal/rig"
	"github.com/ayusman/animate/internal/space"
)

// Engine state machine errors.
var (
	// ErrUnboundMapping is returned by Bind when the requested mapping
	// name is not registered.
	ErrUnboundMapping = errors.New("mapping not registered")

	// ErrNotBound is returned by ApplyFrame before a successful Bind.
	ErrNotBound = errors.New("engine is not bound to a skeleton")
)

// State is the engine's lifecycle state.
type State string

const (
	// StateIdle means no skeleton is bound and no mapping is selected.
	StateIdle State = "idle"
	// StateBound means a skeleton and mapping are set and frames are
	// accepted.
	StateBound State = "bound"
	// StateApplying is the transient state while one frame is processed.
	StateApplying State = "applying"
)

// Engine retargets landmark frames onto a bound skeleton, one frame at a
// time. Frames are applied synchronously; all methods are safe for
// concurrent use, so the HTTP surface may change options or rebind while a
// frame socket is live.
type Engine struct {
	registry *rig.Registry

	// mu guards everything below. ApplyFrame holds it for the whole
	// frame, so options and bindings never change mid-frame.
	mu   sync.Mutex
	opts Options

	state    State
	skeleton Skeleton
	mapping  *rig.Mapping

	// restDirs caches each bone's engine-space rest direction, resolved
	// once at Bind.
	restDirs map[string]r3.Vector
	// applied holds the last rotation written per bone, for
	// hold-last-value and smoothing.
	applied map[string]quat.Number
	// origin is the root landmark position at session start; root
	// translation is displacement from it.
	origin    r3.Vector
	originSet bool
}

// New creates an engine in the Idle state. Options are validated up front;
// out-of-range values fail with ErrInvalidConfig.
func New(registry *rig.Registry, opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		registry: registry,
		opts:     opts,
		state:    StateIdle,
	}, nil
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Mapping returns the bound mapping, nil while Idle.
func (e *Engine) Mapping() *rig.Mapping {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mapping
}

// Options returns the engine's current options.
func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// SetOptions replaces the session options. Invalid values fail with
// ErrInvalidConfig and leave the previous options in place. The new options
// take effect on the next frame, never mid-frame.
func (e *Engine) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = opts
	return nil
}

// Bind attaches the engine to a live skeleton using the named rig mapping:
// Idle -> Bound. It fails with ErrUnboundMapping for unregistered mapping
// names and with *SkeletonMismatchError when the skeleton lacks required
// bones; in both cases engine state is unchanged.
func (e *Engine) Bind(skeleton Skeleton, mappingName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.registry.Get(mappingName)
	if err != nil {
		return fmt.Errorf("bind %q: %w", mappingName, ErrUnboundMapping)
	}

	var missing []string
	for i := range m.Bones {
		if !skeleton.BoneExists(m.Bones[i].Name) {
			missing = append(missing, m.Bones[i].Name)
		}
	}
	if len(missing) > 0 {
		return &SkeletonMismatchError{Mapping: m.Name, Missing: missing}
	}

	restDirs := make(map[string]r3.Vector, len(m.Bones))
	for i := range m.Bones {
		name := m.Bones[i].Name
		rest, err := skeleton.RestTransform(name)
		if err != nil {
			return fmt.Errorf("rest transform for bone %q: %w", name, err)
		}
		restDirs[name] = space.Rotate(space.Normalize(rest.Rotation), BoneAxis)
	}

	e.skeleton = skeleton
	e.mapping = m
	e.restDirs = restDirs
	e.applied = make(map[string]quat.Number, len(m.Bones))
	e.origin = r3.Vector{}
	e.originSet = false
	e.state = StateBound
	return nil
}

// Unbind releases the skeleton handle and returns to Idle from any state.
// The skeleton itself is untouched.
func (e *Engine) Unbind() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.skeleton = nil
	e.mapping = nil
	e.restDirs = nil
	e.applied = nil
	e.originSet = false
	e.state = StateIdle
}

// AppliedRotation returns the last rotation applied to a bone this session.
func (e *Engine) AppliedRotation(bone string) (quat.Number, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	q, ok := e.applied[bone]
	return q, ok
}

// ApplyFrame retargets one frame onto the bound skeleton: Bound -> Applying
// -> Bound. Bones whose driving landmarks are absent or below the
// confidence threshold hold their previous rotation; a problem with one
// bone never aborts the rest of the frame.
func (e *Engine) ApplyFrame(frame *landmark.Frame) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateBound {
		return fmt.Errorf("apply frame in state %q: %w", e.state, ErrNotBound)
	}
	e.state = StateApplying
	defer func() { e.state = StateBound }()

	for i := range e.mapping.Bones {
		e.applyBone(&e.mapping.Bones[i], frame)
	}
	e.applyRootTranslation(frame)
	return nil
}

// resolve fetches a bone's driving landmarks in engine space. ok is false
// when the region is absent, an index is not delivered, or any visibility
// is below the confidence threshold.
func (e *Engine) resolve(b *rig.BoneDef, frame *landmark.Frame) ([]r3.Vector, bool) {
	points := make([]r3.Vector, len(b.Landmarks))
	for i, idx := range b.Landmarks {
		p, ok := frame.Point(b.Region, idx)
		if !ok || p.Visibility < e.opts.ConfidenceThreshold {
			return nil, false
		}
		points[i] = space.ToEngine(p.Pos)
	}
	return points, true
}

// applyBone computes and writes one bone's local rotation.
func (e *Engine) applyBone(b *rig.BoneDef, frame *landmark.Frame) {
	points, ok := e.resolve(b, frame)
	if !ok {
		// Hold last value: no write, previous rotation stays applied.
		return
	}

	var raw quat.Number
	switch b.Rule {
	case rig.RuleChain:
		// Bend between the parent segment and this bone's segment,
		// already parent-local.
		raw = space.RotationBetween(
			space.Direction(points[0], points[1]),
			space.Direction(points[1], points[2]),
		)
	default:
		raw = space.RotationBetween(e.restDirs[b.Name], space.Direction(points[0], points[1]))
	}

	q := space.ApplyCorrection(raw, b.AxisCorrection)
	q = space.Clamp(q, b.Limits)

	if prev, ok := e.applied[b.Name]; ok {
		q = space.Blend(prev, q, e.opts.smoothing(b.Region))
	}

	if err := e.skeleton.SetLocalRotation(b.Name, q); err != nil {
		log.Printf("retarget: set rotation for bone %q: %v", b.Name, err)
		return
	}
	e.applied[b.Name] = q
}

// applyRootTranslation moves the root bone by the scaled displacement of
// its driving landmarks since session start.
func (e *Engine) applyRootTranslation(frame *landmark.Frame) {
	root := e.mapping.Bone(e.mapping.Root)
	if root == nil {
		return
	}
	points, ok := e.resolve(root, frame)
	if !ok {
		return
	}

	// Midpoint of the root's driving landmarks, typically the two hips.
	center := r3.Vector{}
	for _, p := range points {
		center = center.Add(p)
	}
	center = center.Mul(1 / float64(len(points)))

	if !e.originSet {
		e.origin = center
		e.originSet = true
	}

	offset := space.ScaleTranslation(center.Sub(e.origin), root.Scale*e.opts.WorldScale)
	if err := e.skeleton.SetWorldTranslation(root.Name, offset); err != nil {
		log.Printf("retarget: set translation for bone %q: %v", root.Name, err)
	}
}
