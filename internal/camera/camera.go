package camera

import "github.com/go-gl/mathgl/mgl32"

// Mode tags the camera variant.
type Mode uint8

const (
	Mono Mode = iota
	Stereo
)

func (m Mode) String() string {
	if m == Stereo {
		return "stereo"
	}
	return "mono"
}

// Eyes returns the eyes rendered for a mode, in render order.
func (m Mode) Eyes() []Eye {
	if m == Stereo {
		return []Eye{Left, Right}
	}
	return []Eye{Center}
}

// Viewer is the read-only capability set the render pipeline needs.
type Viewer interface {
	Mode() Mode
	Transform(eye Eye, viewport Rect) ViewTransform
}

// EyePose is the position and orientation of one eye.
type EyePose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// Camera is either a mono camera or a stereo pair sharing one output that
// is split in two halves.
type Camera struct {
	mode Mode
	// eyes[0] is the mono camera or the left eye, eyes[1] the right eye.
	eyes [2]State
}

// NewMono creates a mono camera for a (width, height) output.
func NewMono(width, height int, fovY, near, far float32) *Camera {
	return &Camera{
		mode: Mono,
		eyes: [2]State{NewState(width, height, fovY, near, far)},
	}
}

// NewStereo creates a stereo camera for a (width, height) output. Each eye
// gets half of the horizontal resolution.
func NewStereo(width, height int, fovY, near, far float32) *Camera {
	eye := NewState(width/2, height, fovY, near, far)
	return &Camera{
		mode: Stereo,
		eyes: [2]State{eye, eye},
	}
}

func (c *Camera) Mode() Mode {
	return c.mode
}

// State returns a copy of the camera state for an eye.
func (c *Camera) State(eye Eye) State {
	return c.eyes[c.slot(eye)]
}

// Position returns the mono position or the left eye position.
func (c *Camera) Position() mgl32.Vec3 {
	return c.eyes[0].Position
}

// Resize re-derives the projection aspect. Stereo eyes use the half width.
func (c *Camera) Resize(width, height int) {
	if c.mode == Stereo {
		c.eyes[0].SetAspect(width/2, height)
		c.eyes[1].SetAspect(width/2, height)
		return
	}
	c.eyes[0].SetAspect(width, height)
}

// ApplyPose moves the camera to a received pose. A stereo camera with a
// single-eye pose uses it for both eyes.
func (c *Camera) ApplyPose(eyes []EyePose) {
	if len(eyes) == 0 {
		return
	}
	for i := range c.mode.Eyes() {
		src := eyes[0]
		if i < len(eyes) {
			src = eyes[i]
		}
		c.eyes[i].Position = src.Position
		c.eyes[i].Orientation = src.Orientation
	}
}

// Transform derives the view transform of an eye for a viewport.
func (c *Camera) Transform(eye Eye, viewport Rect) ViewTransform {
	return c.eyes[c.slot(eye)].transform(viewport, mgl32.Vec3{})
}

func (c *Camera) slot(eye Eye) int {
	if c.mode == Stereo && eye == Right {
		return 1
	}
	return 0
}

type offsetViewer struct {
	cam    *Camera
	offset mgl32.Vec3
}

// WithOffset returns a Viewer whose transforms place every eye at its
// position plus offset. The camera itself is left untouched.
func WithOffset(cam *Camera, offset mgl32.Vec3) Viewer {
	return offsetViewer{cam: cam, offset: offset}
}

func (v offsetViewer) Mode() Mode {
	return v.cam.mode
}

func (v offsetViewer) Transform(eye Eye, viewport Rect) ViewTransform {
	return v.cam.eyes[v.cam.slot(eye)].transform(viewport, v.offset)
}
