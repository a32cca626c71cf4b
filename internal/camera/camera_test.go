package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEyeViewport(t *testing.T) {
	specs := []struct {
		eye Eye
		exp Rect
	}{
		{Center, Rect{0, 0, 1920, 1080}},
		{Left, Rect{0, 0, 960, 1080}},
		{Right, Rect{960, 0, 960, 1080}},
	}

	for _, spec := range specs {
		if got := EyeViewport(spec.eye, 1920, 1080); got != spec.exp {
			t.Fatalf("[%s] expected viewport %s; got %s", spec.eye, spec.exp, got)
		}
	}
}

func TestStereoResizeUsesHalfWidth(t *testing.T) {
	cam := NewStereo(640, 480, DefaultFovY, DefaultNear, DefaultFar)
	cam.Resize(1920, 1080)

	exp := float32(960) / float32(1080)
	for _, eye := range []Eye{Left, Right} {
		if got := cam.State(eye).Aspect; got != exp {
			t.Fatalf("[%s] expected aspect %f; got %f", eye, exp, got)
		}
	}

	// The projection must match one built from the half-width aspect.
	expProj := mgl32.Perspective(mgl32.DegToRad(DefaultFovY), exp, DefaultNear, DefaultFar)
	got := cam.Transform(Left, EyeViewport(Left, 1920, 1080)).Projection
	if !got.ApproxEqualThreshold(expProj, 1e-6) {
		t.Fatalf("expected projection\n%v\ngot\n%v", expProj, got)
	}
}

func TestMonoResize(t *testing.T) {
	cam := NewMono(640, 480, DefaultFovY, DefaultNear, DefaultFar)
	cam.Resize(1920, 1080)

	if got, exp := cam.State(Center).Aspect, float32(1920)/float32(1080); got != exp {
		t.Fatalf("expected aspect %f; got %f", exp, got)
	}

	// Degenerate sizes are ignored.
	cam.Resize(0, 0)
	if got, exp := cam.State(Center).Aspect, float32(1920)/float32(1080); got != exp {
		t.Fatalf("expected aspect to stay %f; got %f", exp, got)
	}
}

func TestApplyPose(t *testing.T) {
	left := EyePose{Position: mgl32.Vec3{-0.03, 1.6, 0}, Orientation: mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})}
	right := EyePose{Position: mgl32.Vec3{0.03, 1.6, 0}, Orientation: left.Orientation}

	cam := NewStereo(1920, 1080, DefaultFovY, DefaultNear, DefaultFar)
	cam.ApplyPose([]EyePose{left, right})
	if cam.State(Left).Position != left.Position || cam.State(Right).Position != right.Position {
		t.Fatalf("expected eyes at %v and %v; got %v and %v", left.Position, right.Position, cam.State(Left).Position, cam.State(Right).Position)
	}

	// A single eye pose drives both eyes.
	cam.ApplyPose([]EyePose{right})
	if cam.State(Left).Position != right.Position {
		t.Fatalf("expected left eye to follow the single pose; got %v", cam.State(Left).Position)
	}

	mono := NewMono(1920, 1080, DefaultFovY, DefaultNear, DefaultFar)
	mono.ApplyPose([]EyePose{left, right})
	if mono.Position() != left.Position {
		t.Fatalf("expected mono camera to use the first eye; got %v", mono.Position())
	}
}

func TestTransform(t *testing.T) {
	cam := NewMono(800, 600, DefaultFovY, DefaultNear, DefaultFar)
	cam.ApplyPose([]EyePose{{Position: mgl32.Vec3{1, 2, 3}, Orientation: mgl32.QuatIdent()}})

	vp := FullViewport(800, 600)
	vt := cam.Transform(Center, vp)
	if vt.Viewport != vp || vt.Near != DefaultNear || vt.Far != DefaultFar {
		t.Fatalf("unexpected transform metadata: %+v", vt)
	}

	if got := vt.InverseView.Col(3).Vec3(); got != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("expected camera translation (1, 2, 3); got %v", got)
	}

	// The world origin sits behind the camera's -Z axis shifted by the position.
	p := vt.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	if !p.ApproxEqualThreshold(mgl32.Vec3{-1, -2, -3}, 1e-6) {
		t.Fatalf("expected origin at (-1, -2, -3) in view space; got %v", p)
	}
}

func TestWithOffsetLeavesCameraUntouched(t *testing.T) {
	cam := NewStereo(1920, 1080, DefaultFovY, DefaultNear, DefaultFar)
	cam.ApplyPose([]EyePose{{Position: mgl32.Vec3{0, 1, 0}, Orientation: mgl32.QuatIdent()}})
	before := cam.State(Left)

	offset := mgl32.Vec3{10, 0, -5}
	viewer := WithOffset(cam, offset)
	if viewer.Mode() != Stereo {
		t.Fatalf("expected stereo mode; got %s", viewer.Mode())
	}

	vt := viewer.Transform(Right, EyeViewport(Right, 1920, 1080))
	if got := vt.InverseView.Col(3).Vec3(); !got.ApproxEqualThreshold(mgl32.Vec3{10, 1, -5}, 1e-6) {
		t.Fatalf("expected offset eye position (10, 1, -5); got %v", got)
	}
	if vt.Viewport != (Rect{960, 0, 960, 1080}) {
		t.Fatalf("expected right eye viewport; got %s", vt.Viewport)
	}

	if after := cam.State(Left); after != before {
		t.Fatalf("expected camera state to be unchanged; got %+v, want %+v", after, before)
	}
}
