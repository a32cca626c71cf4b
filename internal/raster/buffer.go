package raster

import (
	"image"
	"image/color"
	"math"

	"gs-streamer/internal/camera"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
// Row 0 is the top row.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	Depth  []float32 // NDC depth per pixel, len = W*H, cleared to 1
	Cover  []uint8   // per-pixel splat hit counter (saturating), len = W*H
}

// NewFrameBuffer allocates a zeroed color buffer and a cleared depth buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{}
	fb.resize(w, h)
	return fb
}

func (fb *FrameBuffer) resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	n := w * h
	fb.Width = w
	fb.Height = h
	fb.Color = make([]uint8, n*4)
	fb.Depth = make([]float32, n)
	fb.Cover = make([]uint8, n)
	for i := range fb.Depth {
		fb.Depth[i] = 1
	}
}

// Target owns the frame buffer plus the viewport/scissor state used while
// it is bound. A single target is shared by both stereo eyes.
type Target struct {
	fb        *FrameBuffer
	viewport  camera.Rect
	scissor   camera.Rect
	scissorOn bool
	bound     bool
	// resizes counts buffer reallocations.
	resizes int
}

// NewTarget allocates a target of the given size.
func NewTarget(width, height int) *Target {
	t := &Target{fb: NewFrameBuffer(width, height)}
	t.viewport = camera.FullViewport(t.fb.Width, t.fb.Height)
	t.scissor = t.viewport
	return t
}

// Resize reallocates the buffers when the size changes.
func (t *Target) Resize(width, height int) {
	if width == t.fb.Width && height == t.fb.Height {
		return
	}
	t.fb.resize(width, height)
	t.viewport = camera.FullViewport(t.fb.Width, t.fb.Height)
	t.scissor = t.viewport
	t.resizes++
}

// Resizes returns the number of reallocations since creation.
func (t *Target) Resizes() int {
	return t.resizes
}

func (t *Target) Width() int  { return t.fb.Width }
func (t *Target) Height() int { return t.fb.Height }

// FrameBuffer exposes the raw buffers for readback.
func (t *Target) FrameBuffer() *FrameBuffer {
	return t.fb
}

// Image wraps the color buffer without copying.
func (t *Target) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    t.fb.Color,
		Stride: t.fb.Width * 4,
		Rect:   image.Rect(0, 0, t.fb.Width, t.fb.Height),
	}
}

// Bind acquires the target for drawing. The returned binding must be
// released; viewport and scissor are reset to the full target on both
// acquire and release.
func (t *Target) Bind() *Binding {
	if t.bound {
		panic("raster: target already bound")
	}
	t.bound = true
	t.resetState()
	return &Binding{t: t}
}

// Bound reports whether a binding is currently held.
func (t *Target) Bound() bool {
	return t.bound
}

func (t *Target) resetState() {
	t.viewport = camera.FullViewport(t.fb.Width, t.fb.Height)
	t.scissor = t.viewport
	t.scissorOn = false
}

// Binding is a scoped handle on a bound target.
type Binding struct {
	t        *Target
	released bool
}

// Release unbinds the target. Calling it more than once is a no-op.
func (b *Binding) Release() {
	if b.released {
		return
	}
	b.released = true
	b.t.resetState()
	b.t.bound = false
}

func (b *Binding) Width() int  { return b.t.fb.Width }
func (b *Binding) Height() int { return b.t.fb.Height }

// FrameBuffer gives drawing code access to the bound buffers.
func (b *Binding) FrameBuffer() *FrameBuffer {
	return b.t.fb
}

func (b *Binding) SetViewport(r camera.Rect) { b.t.viewport = r }
func (b *Binding) Viewport() camera.Rect     { return b.t.viewport }
func (b *Binding) SetScissor(r camera.Rect)  { b.t.scissor = r }
func (b *Binding) Scissor() camera.Rect      { return b.t.scissor }

// EnableScissor toggles the scissor test.
func (b *Binding) EnableScissor(on bool) { b.t.scissorOn = on }

func (b *Binding) ScissorEnabled() bool { return b.t.scissorOn }

// ClipRect returns the pixel region writes are limited to: the scissor
// rectangle when enabled, else the whole target, clamped to the buffers.
func (b *Binding) ClipRect() camera.Rect {
	full := camera.FullViewport(b.t.fb.Width, b.t.fb.Height)
	if !b.t.scissorOn {
		return full
	}
	return intersect(b.t.scissor, full)
}

// Clear fills the clip region with c and resets depth and coverage.
func (b *Binding) Clear(c color.RGBA) {
	fb := b.t.fb
	r := b.ClipRect()
	for y := r.Y; y < r.Y+r.H; y++ {
		row := y * fb.Width
		for x := r.X; x < r.X+r.W; x++ {
			i := row + x
			fb.Color[i*4] = c.R
			fb.Color[i*4+1] = c.G
			fb.Color[i*4+2] = c.B
			fb.Color[i*4+3] = c.A
			fb.Depth[i] = 1
			fb.Cover[i] = 0
		}
	}
}

func intersect(a, b camera.Rect) camera.Rect {
	x0 := max(a.X, b.X)
	y0 := max(a.Y, b.Y)
	x1 := min(a.X+a.W, b.X+b.W)
	y1 := min(a.Y+a.H, b.Y+b.H)
	if x1 <= x0 || y1 <= y0 {
		return camera.Rect{}
	}
	return camera.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func clamp255(v float64) uint8 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
