package retarget

import (
	"errors"
	"testing"

	"github.com/ayusman/animate/internal/landmark"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.ConfidenceThreshold != 0.5 {
		t.Errorf("confidence threshold = %v, want 0.5", opts.ConfidenceThreshold)
	}
	if opts.WorldScale != 1.0 {
		t.Errorf("world scale = %v, want 1.0", opts.WorldScale)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"threshold at bounds", Options{ConfidenceThreshold: 1, WorldScale: 1}, false},
		{"threshold too high", Options{ConfidenceThreshold: 1.1, WorldScale: 1}, true},
		{"threshold negative", Options{ConfidenceThreshold: -0.1, WorldScale: 1}, true},
		{"zero world scale", Options{ConfidenceThreshold: 0.5, WorldScale: 0}, true},
		{"negative world scale", Options{ConfidenceThreshold: 0.5, WorldScale: -2}, true},
		{
			"valid smoothing",
			Options{ConfidenceThreshold: 0.5, WorldScale: 1, Smoothing: map[landmark.Region]float64{landmark.RegionPose: 0.9}},
			false,
		},
		{
			"smoothing of one never converges",
			Options{ConfidenceThreshold: 0.5, WorldScale: 1, Smoothing: map[landmark.Region]float64{landmark.RegionPose: 1}},
			true,
		},
		{
			"negative smoothing",
			Options{ConfidenceThreshold: 0.5, WorldScale: 1, Smoothing: map[landmark.Region]float64{landmark.RegionFace: -0.5}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOptions_SmoothingLookup(t *testing.T) {
	opts := DefaultOptions()
	if got := opts.smoothing(landmark.RegionPose); got != 0 {
		t.Errorf("unset smoothing = %v, want 0", got)
	}

	opts.Smoothing = map[landmark.Region]float64{landmark.RegionLeftHand: 0.3}
	if got := opts.smoothing(landmark.RegionLeftHand); got != 0.3 {
		t.Errorf("smoothing = %v, want 0.3", got)
	}
	if got := opts.smoothing(landmark.RegionPose); got != 0 {
		t.Errorf("other region smoothing = %v, want 0", got)
	}
}
