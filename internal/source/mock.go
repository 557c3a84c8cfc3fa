package source

import (
	"io"

	"github.com/ayusman/animate/internal/landmark"
)

// Mock is a test implementation of the Source interface. It replays a fixed
// sequence of frames and then reports io.EOF.
type Mock struct {
	frames []*landmark.Frame
	err    error
	pos    int
	closed bool
}

// NewMock creates a mock source replaying the given frames.
func NewMock(frames ...*landmark.Frame) *Mock {
	return &Mock{frames: frames}
}

// SetError makes Next return err instead of frames.
func (m *Mock) SetError(err error) {
	m.err = err
}

// Next returns the next queued frame.
func (m *Mock) Next() (*landmark.Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.closed || m.pos >= len(m.frames) {
		return nil, io.EOF
	}
	f := m.frames[m.pos]
	m.pos++
	return f, nil
}

// Close stops the source; subsequent Next calls return io.EOF.
func (m *Mock) Close() error {
	m.closed = true
	return nil
}
