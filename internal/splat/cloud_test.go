package splat

import (
	"math"
	"testing"

	"gs-streamer/internal/mathutil"
)

func TestBounds(t *testing.T) {
	c := NewMemory([]Splat{
		{Position: mathutil.Vec3{1, -2, 3}},
		{Position: mathutil.Vec3{-4, 5, 0}},
	})

	lo, hi := Bounds(c)
	if lo != (mathutil.Vec3{-4, -2, 0}) || hi != (mathutil.Vec3{1, 5, 3}) {
		t.Fatalf("expected bounds [-4 -2 0]..[1 5 3]; got %v..%v", lo, hi)
	}

	lo, hi = Bounds(NewMemory(nil))
	if lo != (mathutil.Vec3{}) || hi != (mathutil.Vec3{}) {
		t.Fatalf("expected zero bounds for an empty cloud; got %v..%v", lo, hi)
	}
}

func TestRotate(t *testing.T) {
	src := NewMemory([]Splat{{
		Position: mathutil.Vec3{0, 1, 2},
		Scale:    mathutil.Vec3{3, 1, 1},
		Rotation: mathutil.Quat{0, 0, 0, 1},
		Opacity:  0.5,
	}})

	got := Rotate(src, math.Pi, 0, 0)
	if got.Count() != 1 {
		t.Fatalf("expected 1 splat; got %d", got.Count())
	}

	s := got.Splat(0)
	exp := mathutil.Vec3{0, -1, -2}
	for k := 0; k < 3; k++ {
		if math.Abs(s.Position[k]-exp[k]) > 1e-9 {
			t.Fatalf("expected position %v; got %v", exp, s.Position)
		}
	}
	if s.Opacity != 0.5 || s.Scale != src.Splat(0).Scale {
		t.Fatalf("expected scale and opacity to be preserved; got %+v", s)
	}
	if math.Abs(math.Abs(s.Rotation[0])-1) > 1e-9 {
		t.Fatalf("expected a half turn about X; got %v", s.Rotation)
	}
	if src.Splat(0).Position != (mathutil.Vec3{0, 1, 2}) {
		t.Fatal("expected source cloud to be left untouched")
	}
}
