package retarget

import (
	"errors"
	"fmt"

	"github.com/ayusman/animate/internal/landmark"
)

// ErrInvalidConfig is returned when a session option is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Options are the per-session scalar settings of the engine. The zero value
// is not valid; start from DefaultOptions.
type Options struct {
	// ConfidenceThreshold is the minimum landmark visibility, in [0,1].
	// Bones whose driving landmarks fall below it hold their previous
	// rotation for the frame.
	ConfidenceThreshold float64 `json:"confidence_threshold"`

	// WorldScale converts capture-space root displacement into engine
	// world units. Must be positive.
	WorldScale float64 `json:"world_scale"`

	// Smoothing is the per-region exponential moving average factor in
	// [0,1): 0 (the default) applies each frame's rotation directly,
	// larger values lag further behind. When a landmark reappears after
	// missing frames, the new observation is blended with the same
	// factor; there is no special resync step.
	Smoothing map[landmark.Region]float64 `json:"smoothing,omitempty"`
}

// DefaultOptions returns the documented defaults: threshold 0.5, world
// scale 1.0, smoothing off.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold: 0.5,
		WorldScale:          1.0,
	}
}

// Validate checks every option against its documented range.
func (o Options) Validate() error {
	if o.ConfidenceThreshold < 0 || o.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold %v outside [0,1]: %w", o.ConfidenceThreshold, ErrInvalidConfig)
	}
	if o.WorldScale <= 0 {
		return fmt.Errorf("world scale %v must be positive: %w", o.WorldScale, ErrInvalidConfig)
	}
	for region, factor := range o.Smoothing {
		if factor < 0 || factor >= 1 {
			return fmt.Errorf("smoothing factor %v for region %s outside [0,1): %w", factor, region, ErrInvalidConfig)
		}
	}
	return nil
}

// smoothing returns the factor for a region, 0 when unset.
func (o Options) smoothing(region landmark.Region) float64 {
	if o.Smoothing == nil {
		return 0
	}
	return o.Smoothing[region]
}
