package camera

import "github.com/go-gl/mathgl/mgl32"

// Default projection settings.
const (
	DefaultFovY float32 = 60
	DefaultNear float32 = 0.1
	DefaultFar  float32 = 1000
)

// State is a single perspective camera: a pose plus a projection.
type State struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat

	// Vertical field of view in degrees.
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

// NewState creates a camera at the origin looking down -Z.
func NewState(width, height int, fovY, near, far float32) State {
	s := State{
		Orientation: mgl32.QuatIdent(),
		FovY:        fovY,
		Near:        near,
		Far:         far,
	}
	s.SetAspect(width, height)
	return s
}

// SetAspect updates the aspect ratio from a viewport size.
func (s *State) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Aspect = float32(width) / float32(height)
}

// InverseView returns the camera to world matrix, with the camera moved by offset.
func (s State) InverseView(offset mgl32.Vec3) mgl32.Mat4 {
	p := s.Position.Add(offset)
	return mgl32.Translate3D(p[0], p[1], p[2]).Mul4(s.Orientation.Normalize().Mat4())
}

// Projection returns the perspective projection matrix.
func (s State) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(s.FovY), s.Aspect, s.Near, s.Far)
}

func (s State) transform(viewport Rect, offset mgl32.Vec3) ViewTransform {
	return ViewTransform{
		InverseView: s.InverseView(offset),
		Projection:  s.Projection(),
		Viewport:    viewport,
		Near:        s.Near,
		Far:         s.Far,
	}
}
