package raster

import (
	"math"

	"gs-streamer/internal/camera"
)

// Alpha below this value does not contribute to a pixel.
const minAlpha = 1.0 / 255.0

// Opacity is clamped to keep splats from fully occluding what is behind them.
const maxAlpha = 0.99

// Projected is a splat after projection into target pixel space.
type Projected struct {
	// Center in target pixels (row 0 at the top).
	X, Y float64
	// Inverse 2D covariance (a, b, c) of | a b ; b c |.
	Conic  [3]float64
	Radius float64
	// NDC depth in [-1, 1], smaller is closer.
	Depth float32
	// Color channels already in output encoding, [0, 1].
	Color   [3]float32
	Opacity float32
}

// DrawSplat blends one Gaussian over the frame buffer, limited to clip.
// Splats must be drawn back to front; blending follows
// src*alpha + dst*(1-alpha).
//
// This is the HOT PATH, no allocations in the pixel loop.
// It returns the number of pixels that received a contribution.
func DrawSplat(fb *FrameBuffer, clip camera.Rect, s *Projected) int {
	if clip.Empty() || s.Radius <= 0 {
		return 0
	}

	minX := int(math.Floor(s.X - s.Radius))
	maxX := int(math.Ceil(s.X + s.Radius))
	minY := int(math.Floor(s.Y - s.Radius))
	maxY := int(math.Ceil(s.Y + s.Radius))

	if minX < clip.X {
		minX = clip.X
	}
	if maxX > clip.X+clip.W-1 {
		maxX = clip.X + clip.W - 1
	}
	if minY < clip.Y {
		minY = clip.Y
	}
	if maxY > clip.Y+clip.H-1 {
		maxY = clip.Y + clip.H - 1
	}
	if minX > maxX || minY > maxY {
		return 0
	}

	ca, cb, cc := s.Conic[0], s.Conic[1], s.Conic[2]
	r := float64(s.Color[0]) * 255
	g := float64(s.Color[1]) * 255
	b := float64(s.Color[2]) * 255
	opacity := float64(s.Opacity)

	touched := 0
	for py := minY; py <= maxY; py++ {
		// Sample at pixel centers
		dy := float64(py) + 0.5 - s.Y
		rowOff := py * fb.Width
		for px := minX; px <= maxX; px++ {
			dx := float64(px) + 0.5 - s.X

			power := -0.5*(ca*dx*dx+cc*dy*dy) - cb*dx*dy
			if power > 0 {
				continue
			}
			alpha := opacity * math.Exp(power)
			if alpha > maxAlpha {
				alpha = maxAlpha
			}
			if alpha < minAlpha {
				continue
			}

			i := rowOff + px
			ci := i * 4
			inv := 1 - alpha
			fb.Color[ci] = clamp255(r*alpha + float64(fb.Color[ci])*inv)
			fb.Color[ci+1] = clamp255(g*alpha + float64(fb.Color[ci+1])*inv)
			fb.Color[ci+2] = clamp255(b*alpha + float64(fb.Color[ci+2])*inv)
			fb.Color[ci+3] = clamp255(255*alpha + float64(fb.Color[ci+3])*inv)

			// Mostly opaque hits define the depth of the pixel
			if alpha >= 0.5 && s.Depth < fb.Depth[i] {
				fb.Depth[i] = s.Depth
			}
			if fb.Cover[i] < 255 {
				fb.Cover[i]++
			}
			touched++
		}
	}
	return touched
}
