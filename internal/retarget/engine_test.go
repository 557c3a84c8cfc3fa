package retarget_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/ayusman/animate/internal/landmark"
	"github.com/ayusman/animate/internal/retarget"
	"github.com/ayusman/animate/internal/rig"
	"github.com/ayusman/animate/internal/space"
	"github.com/ayusman/animate/internal/testutil"
)

// testMapping is a small four-bone mapping covering both rules and a
// three-level hierarchy.
func testMapping() *rig.Mapping {
	return &rig.Mapping{
		Name: "test",
		Root: "Hips",
		Bones: []rig.BoneDef{
			{Name: "Hips", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.RightHip}, Rule: rig.RuleDirection},
			{Name: "Spine", Parent: "Hips", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftHip, landmark.LeftShoulder}, Rule: rig.RuleDirection},
			{Name: "LeftArm", Parent: "Spine", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow}, Rule: rig.RuleDirection},
			{Name: "LeftForeArm", Parent: "LeftArm", Region: landmark.RegionPose, Landmarks: []int{landmark.LeftShoulder, landmark.LeftElbow, landmark.LeftWrist}, Rule: rig.RuleChain},
		},
	}
}

func newEngine(t *testing.T, opts retarget.Options) *retarget.Engine {
	t.Helper()
	registry := rig.NewRegistry()
	if err := registry.Register(testMapping()); err != nil {
		t.Fatalf("register mapping: %v", err)
	}
	e, err := retarget.New(registry, opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

// bindToTPose binds the engine to a recorder whose rest pose is the T-pose
// frame, so applying that frame yields near-identity rotations.
func bindToTPose(t *testing.T, e *retarget.Engine) *retarget.Recorder {
	t.Helper()
	m := testMapping()
	if err := rig.NewRegistry().Register(m); err != nil {
		t.Fatalf("finalize mapping: %v", err)
	}
	rec := retarget.NewRecorder(testutil.RestFromFrame(m, testutil.TPose()))
	if err := e.Bind(rec, "test"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return rec
}

// rotationAngle returns the absolute rotation angle of q in radians.
func rotationAngle(q quat.Number) float64 {
	w := math.Abs(q.Real)
	if w > 1 {
		w = 1
	}
	return 2 * math.Acos(w)
}

func TestNew_InvalidOptions(t *testing.T) {
	registry := rig.NewRegistry()
	_, err := retarget.New(registry, retarget.Options{ConfidenceThreshold: 2, WorldScale: 1})
	if !errors.Is(err, retarget.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestEngine_BindUnknownMapping(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())
	rec := retarget.NewRecorder(nil)

	err := e.Bind(rec, "unregistered")
	if !errors.Is(err, retarget.ErrUnboundMapping) {
		t.Errorf("expected ErrUnboundMapping, got %v", err)
	}
	if e.State() != retarget.StateIdle {
		t.Errorf("state = %v after failed bind, want idle", e.State())
	}
}

func TestEngine_BindMissingBones(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())
	rec := retarget.NewRecorder(map[string]retarget.Transform{
		"Hips":  {Rotation: space.Identity()},
		"Spine": {Rotation: space.Identity()},
	})

	err := e.Bind(rec, "test")
	var mismatch *retarget.SkeletonMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *SkeletonMismatchError, got %v", err)
	}
	// Every missing bone is reported, not just the first.
	if len(mismatch.Missing) != 2 {
		t.Fatalf("Missing = %v, want both arm bones", mismatch.Missing)
	}
	want := map[string]bool{"LeftArm": true, "LeftForeArm": true}
	for _, name := range mismatch.Missing {
		if !want[name] {
			t.Errorf("unexpected missing bone %q", name)
		}
	}
	if e.State() != retarget.StateIdle {
		t.Errorf("state = %v after failed bind, want idle", e.State())
	}
}

func TestEngine_ApplyBeforeBind(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())
	if err := e.ApplyFrame(testutil.TPose()); !errors.Is(err, retarget.ErrNotBound) {
		t.Errorf("expected ErrNotBound, got %v", err)
	}
}

func TestEngine_RestPoseYieldsIdentity(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())
	rec := bindToTPose(t, e)

	if err := e.ApplyFrame(testutil.TPose()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	for _, name := range []string{"Hips", "Spine", "LeftArm", "LeftForeArm"} {
		q, ok := rec.Rotations[name]
		if !ok {
			t.Errorf("bone %q was not written", name)
			continue
		}
		if !space.AlmostEqual(q, space.Identity(), 1e-6) {
			t.Errorf("bone %q rotation = %v, want identity in rest pose", name, q)
		}
	}
	if e.State() != retarget.StateBound {
		t.Errorf("state = %v after apply, want bound", e.State())
	}
}

func TestEngine_HierarchyOrder(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())
	rec := bindToTPose(t, e)

	if err := e.ApplyFrame(testutil.TPose()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	index := map[string]int{}
	for i, name := range rec.WriteOrder {
		index[name] = i
	}
	pairs := [][2]string{{"Hips", "Spine"}, {"Spine", "LeftArm"}, {"LeftArm", "LeftForeArm"}}
	for _, pair := range pairs {
		if index[pair[0]] >= index[pair[1]] {
			t.Errorf("parent %q written at %d, after child %q at %d", pair[0], index[pair[0]], pair[1], index[pair[1]])
		}
	}
}

func TestEngine_ElbowBend(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())
	rec := bindToTPose(t, e)

	// Bend the elbow: forearm hangs straight down from the elbow.
	bent := testutil.TPose()
	bent.Pose[landmark.LeftWrist].Pos = r3.Vector{X: 0.50, Y: 1.15, Z: 0}

	if err := e.ApplyFrame(bent); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got := rotationAngle(rec.Rotations["LeftForeArm"])
	if math.Abs(got-math.Pi/2) > 1e-6 {
		t.Errorf("forearm bend angle = %v rad, want pi/2", got)
	}
	// The upper arm still points along its rest direction.
	if !space.AlmostEqual(rec.Rotations["LeftArm"], space.Identity(), 1e-6) {
		t.Errorf("upper arm rotation = %v, want identity", rec.Rotations["LeftArm"])
	}
}

func TestEngine_HoldLastValue(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())
	rec := bindToTPose(t, e)

	if err := e.ApplyFrame(testutil.TPose()); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	firstWrites := rec.RotationWrites["LeftArm"]
	firstRotation := rec.Rotations["LeftArm"]

	t.Run("low visibility", func(t *testing.T) {
		dimmed := testutil.WithVisibility(testutil.TPose(), 0.1)
		if err := e.ApplyFrame(dimmed); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if rec.RotationWrites["LeftArm"] != firstWrites {
			t.Error("low-visibility frame should not rewrite the bone")
		}
	})

	t.Run("absent region", func(t *testing.T) {
		if err := e.ApplyFrame(&landmark.Frame{TimestampMs: 42}); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if rec.RotationWrites["LeftArm"] != firstWrites {
			t.Error("frame without pose region should not rewrite the bone")
		}
	})

	// The last applied rotation survives for the next blend.
	q, ok := e.AppliedRotation("LeftArm")
	if !ok {
		t.Fatal("applied rotation was dropped")
	}
	if !space.AlmostEqual(q, firstRotation, 1e-12) {
		t.Errorf("held rotation = %v, want %v", q, firstRotation)
	}
}

func TestEngine_RootTranslation(t *testing.T) {
	opts := retarget.DefaultOptions()
	opts.WorldScale = 2.0
	e := newEngine(t, opts)
	rec := bindToTPose(t, e)

	// First visible frame establishes the origin: no displacement yet.
	if err := e.ApplyFrame(testutil.TPose()); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if got := rec.Translations["Hips"]; got.Norm() > 1e-9 {
		t.Errorf("first frame translation = %v, want zero", got)
	}

	// Step to the side and back in detector space.
	offset := r3.Vector{X: 0.5, Y: 0, Z: 0.2}
	if err := e.ApplyFrame(testutil.Translated(testutil.TPose(), offset)); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	want := space.ScaleTranslation(space.ToEngine(offset), opts.WorldScale)
	got := rec.Translations["Hips"]
	if got.Sub(want).Norm() > 1e-9 {
		t.Errorf("translation = %v, want %v", got, want)
	}
}

func TestEngine_Smoothing(t *testing.T) {
	opts := retarget.DefaultOptions()
	opts.Smoothing = map[landmark.Region]float64{landmark.RegionPose: 0.5}
	e := newEngine(t, opts)
	rec := bindToTPose(t, e)

	if err := e.ApplyFrame(testutil.TPose()); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	// Drop the whole arm straight down.
	lowered := testutil.TPose()
	lowered.Pose[landmark.LeftElbow].Pos = r3.Vector{X: 0.20, Y: 1.15, Z: 0}
	lowered.Pose[landmark.LeftWrist].Pos = r3.Vector{X: 0.20, Y: 0.87, Z: 0}
	if err := e.ApplyFrame(lowered); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	// The target is a quarter turn; one smoothed step lands strictly
	// between rest and target.
	got := rotationAngle(rec.Rotations["LeftArm"])
	if got <= 1e-6 || got >= math.Pi/2-1e-6 {
		t.Errorf("smoothed angle = %v, want strictly between 0 and pi/2", got)
	}

	// Repeated frames converge on the target.
	for i := 0; i < 60; i++ {
		if err := e.ApplyFrame(lowered); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}
	converged := rotationAngle(rec.Rotations["LeftArm"])
	if math.Abs(converged-math.Pi/2) > 1e-3 {
		t.Errorf("converged angle = %v, want pi/2", converged)
	}
}

func TestEngine_BoneWriteFailureIsIsolated(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())
	rec := bindToTPose(t, e)
	rec.FailBone = "Spine"

	if err := e.ApplyFrame(testutil.TPose()); err != nil {
		t.Fatalf("apply should not fail on one bad bone: %v", err)
	}

	if _, ok := rec.Rotations["Spine"]; ok {
		t.Error("failed bone should have no recorded rotation")
	}
	for _, name := range []string{"Hips", "LeftArm", "LeftForeArm"} {
		if _, ok := rec.Rotations[name]; !ok {
			t.Errorf("bone %q should still be written", name)
		}
	}
	if _, ok := e.AppliedRotation("Spine"); ok {
		t.Error("failed write must not be remembered as applied")
	}
}

func TestEngine_Unbind(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())
	bindToTPose(t, e)

	e.Unbind()
	if e.State() != retarget.StateIdle {
		t.Errorf("state = %v after unbind, want idle", e.State())
	}
	if e.Mapping() != nil {
		t.Error("mapping should be cleared on unbind")
	}
	if err := e.ApplyFrame(testutil.TPose()); !errors.Is(err, retarget.ErrNotBound) {
		t.Errorf("expected ErrNotBound after unbind, got %v", err)
	}
	if _, ok := e.AppliedRotation("Hips"); ok {
		t.Error("applied rotations should be cleared on unbind")
	}
}

func TestEngine_SetOptions(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())

	bad := retarget.Options{ConfidenceThreshold: 0.5, WorldScale: -1}
	if err := e.SetOptions(bad); !errors.Is(err, retarget.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if e.Options().WorldScale != 1.0 {
		t.Error("rejected options must leave previous options in place")
	}

	good := retarget.DefaultOptions()
	good.ConfidenceThreshold = 0.8
	if err := e.SetOptions(good); err != nil {
		t.Fatalf("set options: %v", err)
	}
	if e.Options().ConfidenceThreshold != 0.8 {
		t.Error("valid options were not applied")
	}
}

// The HTTP surface updates options from handler goroutines while the frames
// socket applies frames; the engine must serialize the two. Run with -race.
func TestEngine_ConcurrentFramesAndOptions(t *testing.T) {
	e := newEngine(t, retarget.DefaultOptions())
	bindToTPose(t, e)

	const iterations = 200
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		frame := testutil.TPose()
		for i := 0; i < iterations; i++ {
			if err := e.ApplyFrame(frame); err != nil {
				t.Errorf("apply frame %d: %v", i, err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			opts := retarget.DefaultOptions()
			opts.ConfidenceThreshold = 0.3 + 0.4*float64(i%2)
			opts.Smoothing = map[landmark.Region]float64{landmark.RegionPose: 0.1 * float64(i%5)}
			if err := e.SetOptions(opts); err != nil {
				t.Errorf("set options %d: %v", i, err)
				return
			}
		}
	}()
	wg.Wait()

	if e.State() != retarget.StateBound {
		t.Errorf("state = %q, want %q", e.State(), retarget.StateBound)
	}
	if _, ok := e.AppliedRotation("Hips"); !ok {
		t.Error("no rotation recorded for Hips after concurrent frames")
	}
}
