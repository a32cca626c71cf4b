package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Rect is a viewport or scissor rectangle in target pixels.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.X, r.Y, r.W, r.H)
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// ViewTransform is the per-eye state handed to the splat backend. It is
// derived for every render call and never stored.
type ViewTransform struct {
	InverseView mgl32.Mat4
	Projection  mgl32.Mat4
	Viewport    Rect
	Near        float32
	Far         float32
}

// View returns the world to camera matrix.
func (vt ViewTransform) View() mgl32.Mat4 {
	return vt.InverseView.Inv()
}

// Eye selects a view of the camera.
type Eye uint8

const (
	// Center is the only eye of a mono camera.
	Center Eye = iota
	Left
	Right
)

func (e Eye) String() string {
	switch e {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "center"
	}
}

// FullViewport covers the whole output.
func FullViewport(width, height int) Rect {
	return Rect{0, 0, width, height}
}

// EyeViewport returns the side-by-side partition of a (width, height)
// output for the given eye. Center maps to the full output.
func EyeViewport(eye Eye, width, height int) Rect {
	half := width / 2
	switch eye {
	case Left:
		return Rect{0, 0, half, height}
	case Right:
		return Rect{half, 0, half, height}
	default:
		return FullViewport(width, height)
	}
}
