// Package rig defines per-skeleton-convention mapping data: which landmarks
// drive which bones, the bone hierarchy, rotation limits, axis corrections,
// and scale factors. Mappings are immutable after registration; the registry
// guarantees every registered mapping passed self-consistency checks and is
// stored in hierarchy order, so the retargeting engine can walk a mapping
// front to back without re-validating per frame.
package rig

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/num/quat"

	"github.com/ayusman/animate/internal/landmark"
	"github.com/ayusman/animate/internal/space"
)

// Rule selects how a bone's driving landmarks combine into a rotation.
type Rule string

const (
	// RuleDirection drives the bone with the direction from landmark A to
	// landmark B, measured against the bone's rest direction.
	RuleDirection Rule = "direction"
	// RuleChain drives the bone with the bend between segments A->B and
	// B->C, which is already expressed relative to the parent segment.
	RuleChain Rule = "chain"
)

// BoneDef is the static configuration for one target bone.
type BoneDef struct {
	// Name must match the target skeleton's bone naming for the convention.
	Name string `json:"name"`
	// Parent is empty for root bones and must name another bone in the
	// same mapping otherwise.
	Parent string `json:"parent,omitempty"`
	// Region and Landmarks pick the driving landmarks: two indices for
	// RuleDirection, three for RuleChain.
	Region    landmark.Region `json:"region"`
	Landmarks []int           `json:"landmarks"`
	Rule      Rule            `json:"rule"`
	// Limits is the local rotation envelope; unbounded axes never clamp.
	Limits space.Limits `json:"limits"`
	// AxisCorrection maps the computed natural direction into the bone's
	// local convention. The zero quaternion means "use the mapping
	// default".
	AxisCorrection quat.Number `json:"axis_correction"`
	// Scale multiplies translation-driven effects for this bone.
	// Rotations are never scaled. Zero means 1.0.
	Scale float64 `json:"scale"`
}

// Mapping is the complete named bone configuration for one skeleton
// convention. After a successful Register, Bones is in hierarchy order
// (parents before children) and every optional field is filled in.
type Mapping struct {
	Name string `json:"name"`
	// Root names the bone that receives the world translation.
	Root  string    `json:"root"`
	Bones []BoneDef `json:"bones"`
	// DefaultCorrection is the convention-wide axis correction applied to
	// bones that do not author their own.
	DefaultCorrection quat.Number `json:"default_correction"`
}

// Bone returns the definition for name, or nil when the mapping has none.
func (m *Mapping) Bone(name string) *BoneDef {
	for i := range m.Bones {
		if m.Bones[i].Name == name {
			return &m.Bones[i]
		}
	}
	return nil
}

// BoneNames returns the bone names in mapping order.
func (m *Mapping) BoneNames() []string {
	names := make([]string, len(m.Bones))
	for i := range m.Bones {
		names[i] = m.Bones[i].Name
	}
	return names
}

// InvalidMappingError reports every self-consistency problem found in a
// mapping at registration time, so authors can fix them in one pass.
type InvalidMappingError struct {
	Mapping  string
	Problems []string
}

func (e *InvalidMappingError) Error() string {
	return fmt.Sprintf("invalid rig mapping %q: %s", e.Mapping, strings.Join(e.Problems, "; "))
}

// finalize validates the mapping and rewrites it into canonical form:
// hierarchy-ordered bones, corrections and scales filled in. It returns an
// *InvalidMappingError listing every problem when the mapping is not
// frame-safe.
func (m *Mapping) finalize() error {
	var problems []string

	byName := make(map[string]*BoneDef, len(m.Bones))
	for i := range m.Bones {
		b := &m.Bones[i]
		if b.Name == "" {
			problems = append(problems, fmt.Sprintf("bone %d has no name", i))
			continue
		}
		if _, dup := byName[b.Name]; dup {
			problems = append(problems, fmt.Sprintf("duplicate bone %q", b.Name))
			continue
		}
		byName[b.Name] = b
	}

	for i := range m.Bones {
		b := &m.Bones[i]
		if b.Parent != "" {
			if _, ok := byName[b.Parent]; !ok {
				problems = append(problems, fmt.Sprintf("bone %q references missing parent %q", b.Name, b.Parent))
			}
		}
		switch b.Rule {
		case RuleDirection:
			if len(b.Landmarks) != 2 {
				problems = append(problems, fmt.Sprintf("bone %q: direction rule needs 2 landmarks, has %d", b.Name, len(b.Landmarks)))
			}
		case RuleChain:
			if len(b.Landmarks) != 3 {
				problems = append(problems, fmt.Sprintf("bone %q: chain rule needs 3 landmarks, has %d", b.Name, len(b.Landmarks)))
			}
		default:
			problems = append(problems, fmt.Sprintf("bone %q: unknown rule %q", b.Name, b.Rule))
		}
		for _, idx := range b.Landmarks {
			if !landmark.Valid(b.Region, idx) {
				problems = append(problems, fmt.Sprintf("bone %q: landmark %s[%d] out of range", b.Name, b.Region, idx))
			}
		}
	}

	if m.Root == "" {
		problems = append(problems, "mapping has no root bone")
	} else if _, ok := byName[m.Root]; !ok {
		problems = append(problems, fmt.Sprintf("root bone %q is not defined", m.Root))
	}

	ordered, orderProblems := hierarchyOrder(m.Bones, byName)
	problems = append(problems, orderProblems...)

	if len(problems) > 0 {
		return &InvalidMappingError{Mapping: m.Name, Problems: problems}
	}

	m.Bones = ordered
	zero := quat.Number{}
	defaultCorrection := m.DefaultCorrection
	if defaultCorrection == zero {
		defaultCorrection = space.Identity()
	}
	m.DefaultCorrection = defaultCorrection
	for i := range m.Bones {
		b := &m.Bones[i]
		if b.AxisCorrection == zero {
			b.AxisCorrection = defaultCorrection
		}
		if b.Scale == 0 {
			b.Scale = 1.0
		}
		// An unauthored axis limit means unbounded. Authors who want an
		// axis frozen must spell the envelope out.
		if b.Limits.X == (space.AxisLimit{}) {
			b.Limits.X = space.Unbounded()
		}
		if b.Limits.Y == (space.AxisLimit{}) {
			b.Limits.Y = space.Unbounded()
		}
		if b.Limits.Z == (space.AxisLimit{}) {
			b.Limits.Z = space.Unbounded()
		}
	}
	return nil
}

// hierarchyOrder re-sorts bones so parents always precede children,
// deterministically: siblings keep their authored relative order. Cycles are
// reported as problems.
func hierarchyOrder(bones []BoneDef, byName map[string]*BoneDef) ([]BoneDef, []string) {
	ordered := make([]BoneDef, 0, len(bones))
	placed := make(map[string]bool, len(bones))

	for {
		progressed := false
		for _, b := range bones {
			if placed[b.Name] {
				continue
			}
			if b.Parent != "" {
				parent, ok := byName[b.Parent]
				if ok && !placed[parent.Name] {
					continue
				}
			}
			ordered = append(ordered, b)
			placed[b.Name] = true
			progressed = true
		}
		if !progressed {
			break
		}
	}

	if len(ordered) == len(bones) {
		return ordered, nil
	}

	var stuck []string
	for _, b := range bones {
		if !placed[b.Name] {
			stuck = append(stuck, b.Name)
		}
	}
	sort.Strings(stuck)
	return ordered, []string{fmt.Sprintf("hierarchy cycle involving bones: %s", strings.Join(stuck, ", "))}
}
