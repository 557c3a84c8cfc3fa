package session

import (
	"testing"
	"time"

	"github.com/ayusman/animate/internal/retarget"
	"github.com/ayusman/animate/internal/rig"
	"github.com/ayusman/animate/internal/source"
	"github.com/ayusman/animate/internal/testutil"
)

// newBoundEngine builds an engine bound to a recorder skeleton whose rest
// pose is the T-pose fixture.
func newBoundEngine(t *testing.T) (*retarget.Engine, *retarget.Recorder) {
	t.Helper()

	registry := rig.NewRegistry()
	if err := registry.RegisterBuiltins(); err != nil {
		t.Fatalf("register builtins: %v", err)
	}
	mapping, err := registry.Get("mixamo")
	if err != nil {
		t.Fatalf("get mixamo: %v", err)
	}

	engine, err := retarget.New(registry, retarget.DefaultOptions())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	rec := retarget.NewRecorder(testutil.RestFromFrame(mapping, testutil.TPose()))
	if err := engine.Bind(rec, "mixamo"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return engine, rec
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestSession_AppliesAllFrames(t *testing.T) {
	engine, rec := newBoundEngine(t)
	src := source.NewMock(testutil.TPose(), testutil.TPose(), testutil.TPose())
	s := New(engine, src)

	if s.ID() == "" {
		t.Error("session should have an id")
	}
	if s.Running() {
		t.Error("session should not run before Start")
	}

	s.Start()
	waitFor(t, func() bool {
		applied, _ := s.Counts()
		return applied == 3
	})
	s.Stop()

	applied, dropped := s.Counts()
	if applied != 3 || dropped != 0 {
		t.Errorf("counts = (%d applied, %d dropped), want (3, 0)", applied, dropped)
	}
	if rec.RotationWrites["Hips"] != 3 {
		t.Errorf("hips written %d times, want 3", rec.RotationWrites["Hips"])
	}
}

func TestSession_DropsFramesWhenEngineRejects(t *testing.T) {
	registry := rig.NewRegistry()
	engine, err := retarget.New(registry, retarget.DefaultOptions())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	// The engine was never bound, so every frame is rejected.
	src := source.NewMock(testutil.TPose(), testutil.TPose())
	s := New(engine, src)

	s.Start()
	waitFor(t, func() bool {
		_, dropped := s.Counts()
		return dropped == 2
	})
	s.Stop()

	applied, dropped := s.Counts()
	if applied != 0 || dropped != 2 {
		t.Errorf("counts = (%d applied, %d dropped), want (0, 2)", applied, dropped)
	}
}

func TestSession_StopIsIdempotent(t *testing.T) {
	engine, _ := newBoundEngine(t)
	s := New(engine, source.NewMock())

	// Stop before start is a no-op.
	s.Stop()

	s.Start()
	if !s.Running() {
		t.Error("session should run after Start")
	}
	// Double start is a no-op.
	s.Start()

	s.Stop()
	s.Stop()
	if s.Running() {
		t.Error("session should not run after Stop")
	}
}
