// Package source provides landmark frame sources for the retargeting
// engine. The core never initiates capture; a Source is an external
// collaborator that hands over one Frame per processed input.
package source

import "github.com/ayusman/animate/internal/landmark"

// Source produces landmark frames in capture order.
type Source interface {
	// Next blocks until the next frame is available. It returns io.EOF
	// (possibly wrapped) when the source is exhausted or closed.
	Next() (*landmark.Frame, error)

	// Close releases any resources held by the source.
	Close() error
}
