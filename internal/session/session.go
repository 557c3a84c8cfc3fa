// Package session orchestrates one capture session: it pulls landmark
// frames from a source and feeds them to the retargeting engine in capture
// order, one at a time.
package session

import (
	"errors"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/animate/internal/retarget"
	"github.com/ayusman/animate/internal/source"
)

// Session pumps frames from a Source into an Engine.
type Session struct {
	id     string
	engine *retarget.Engine
	src    source.Source

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	applied int64
	dropped int64
}

// New creates a session over an already bound engine and a frame source.
func New(engine *retarget.Engine, src source.Source) *Session {
	return &Session{
		id:     uuid.NewString(),
		engine: engine,
		src:    src,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Engine returns the session's engine.
func (s *Session) Engine() *retarget.Engine {
	return s.engine
}

// Running reports whether the pump loop is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCh != nil
}

// Counts returns the number of frames applied and dropped so far.
func (s *Session) Counts() (applied, dropped int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied, s.dropped
}

// Start launches the pump loop. Starting a running session is a no-op.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run(s.stopCh, s.doneCh)
	log.Printf("session %s started", s.id)
}

// Stop halts the pump loop and waits for the in-flight frame to finish.
// There is no other in-flight work to cancel: each ApplyFrame call is
// synchronous and bounded.
func (s *Session) Stop() {
	s.mu.Lock()
	stopCh, doneCh := s.stopCh, s.doneCh
	s.stopCh, s.doneCh = nil, nil
	s.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
	log.Printf("session %s stopped", s.id)
}

// run is the pump loop: one frame fully applied before the next is read.
func (s *Session) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		frame, err := s.src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Printf("session %s: source drained", s.id)
				return
			}
			log.Printf("session %s: read frame: %v", s.id, err)
			s.count(&s.dropped)
			continue
		}

		if err := s.engine.ApplyFrame(frame); err != nil {
			log.Printf("session %s: apply frame: %v", s.id, err)
			s.count(&s.dropped)
			continue
		}
		s.count(&s.applied)
	}
}

func (s *Session) count(field *int64) {
	s.mu.Lock()
	*field++
	s.mu.Unlock()
}
