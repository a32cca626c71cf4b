package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"gs-streamer/internal/camera"
	"gs-streamer/internal/mathutil"
	"gs-streamer/internal/raster"
	"gs-streamer/internal/splat"
)

const (
	// Low-pass filter added to the 2D covariance so that every splat
	// covers at least about one pixel.
	blurVariance = 0.3

	// Splats whose centers project further out than this in NDC are culled.
	guardBand = 1.3
)

type gaussian struct {
	pos     mathutil.Vec3
	cov     mathutil.Mat3
	color   [3]float32
	opacity float32
}

// CPUBackend is a software splat renderer. Splats are sorted back to front
// in view space and blended as screen-space elliptical Gaussians.
type CPUBackend struct {
	opts   BackendOptions
	splats []gaussian
	order  []int
	depth  []float64

	sorted   bool
	lastView mgl32.Mat4
	sorts    int

	// Scratch projection reused for every splat.
	proj raster.Projected
}

// NewCPUBackend creates an uninitialized backend.
func NewCPUBackend() *CPUBackend {
	return &CPUBackend{}
}

// Init validates the cloud and precomputes the 3D covariance of every splat.
func (c *CPUBackend) Init(cloud splat.Cloud, opts BackendOptions) error {
	n := cloud.Count()
	if n == 0 {
		return ErrEmptyCloud
	}

	splats := make([]gaussian, n)
	for i := 0; i < n; i++ {
		s := cloud.Splat(i)
		if !s.Position.IsFinite() || !s.Scale.IsFinite() {
			return fmt.Errorf("render: splat %d has a non-finite position or scale", i)
		}

		// Σ = R S Sᵀ Rᵀ
		r := mathutil.QuatToMat3(s.Rotation.Normalize())
		cov := mathutil.Mat3Diag(s.Scale[0]*s.Scale[0], s.Scale[1]*s.Scale[1], s.Scale[2]*s.Scale[2]).Sandwich(r)

		col := s.Color
		if opts.SRGB {
			for k := range col {
				col[k] = encodeSRGB(col[k])
			}
		}
		splats[i] = gaussian{pos: s.Position, cov: cov, color: col, opacity: s.Opacity}
	}

	c.opts = opts
	c.splats = splats
	c.order = make([]int, n)
	c.depth = make([]float64, n)
	for i := range c.order {
		c.order[i] = i
	}
	c.sorted = false
	return nil
}

// Sorts returns the number of sorts actually performed.
func (c *CPUBackend) Sorts() int {
	return c.sorts
}

// Sort orders splats far to near for the view. The previous order is
// reused when the view did not change unless SortOverride is set.
func (c *CPUBackend) Sort(vt camera.ViewTransform) {
	if !c.opts.SortOverride && c.sorted && vt.InverseView == c.lastView {
		return
	}

	view := mat4f64(vt.View())
	for i := range c.splats {
		p := c.splats[i].pos
		c.depth[i] = view[2]*p[0] + view[6]*p[1] + view[10]*p[2] + view[14]
	}

	// View space looks down -Z: ascending z is back to front.
	sort.Slice(c.order, func(a, b int) bool {
		ia, ib := c.order[a], c.order[b]
		if c.depth[ia] != c.depth[ib] {
			return c.depth[ia] < c.depth[ib]
		}
		return ia < ib
	})

	c.sorted = true
	c.lastView = vt.InverseView
	c.sorts++
}

// Rasterize draws the splats in sorted order into the viewport of vt.
func (c *CPUBackend) Rasterize(dst *raster.Binding, vt camera.ViewTransform) {
	fb := dst.FrameBuffer()
	clip := dst.ClipRect()
	vp := vt.Viewport
	if clip.Empty() || vp.Empty() {
		return
	}

	view := mat4f64(vt.View())
	proj := mat4f64(vt.Projection)
	rot := mathutil.Mat3{
		view[0], view[4], view[8],
		view[1], view[5], view[9],
		view[2], view[6], view[10],
	}
	fx := proj[0] * float64(vp.W) / 2
	fy := proj[5] * float64(vp.H) / 2
	near := float64(vt.Near)

	for _, i := range c.order {
		if !c.project(&c.splats[i], &view, &proj, rot, fx, fy, near, vp) {
			continue
		}
		raster.DrawSplat(fb, clip, &c.proj)
	}
}

func (c *CPUBackend) project(g *gaussian, view, proj *[16]float64, rot mathutil.Mat3, fx, fy, near float64, vp camera.Rect) bool {
	p := g.pos
	tx := view[0]*p[0] + view[4]*p[1] + view[8]*p[2] + view[12]
	ty := view[1]*p[0] + view[5]*p[1] + view[9]*p[2] + view[13]
	tz := view[2]*p[0] + view[6]*p[1] + view[10]*p[2] + view[14]
	z := -tz
	if z <= near {
		return false
	}

	cx := proj[0]*tx + proj[4]*ty + proj[8]*tz + proj[12]
	cy := proj[1]*tx + proj[5]*ty + proj[9]*tz + proj[13]
	cz := proj[2]*tx + proj[6]*ty + proj[10]*tz + proj[14]
	cw := proj[3]*tx + proj[7]*ty + proj[11]*tz + proj[15]
	if cw <= 0 {
		return false
	}
	nx, ny, nz := cx/cw, cy/cw, cz/cw
	if math.Abs(nx) > guardBand || math.Abs(ny) > guardBand {
		return false
	}

	// Jacobian of the perspective projection in pixel units, y pointing down.
	j := mathutil.Mat3{
		fx / z, 0, fx * tx / (z * z),
		0, -fy / z, -fy * ty / (z * z),
		0, 0, 0,
	}
	cov := g.cov.Sandwich(mathutil.Mat3Mul(j, rot))
	a := cov[0] + blurVariance
	b := cov[1]
	d := cov[4] + blurVariance

	conic, ok := mathutil.Inverse2x2Sym(a, b, d)
	if !ok {
		return false
	}
	l1, _, _, _ := mathutil.Eigen2x2Sym(a, b, d)

	out := &c.proj
	out.X = float64(vp.X) + (nx+1)*0.5*float64(vp.W)
	out.Y = float64(vp.Y) + (1-ny)*0.5*float64(vp.H)
	out.Conic = conic
	out.Radius = math.Ceil(3 * math.Sqrt(l1))
	out.Depth = float32(nz)
	out.Color = g.color
	out.Opacity = g.opacity
	return true
}

func mat4f64(m mgl32.Mat4) [16]float64 {
	var out [16]float64
	for i, v := range m {
		out[i] = float64(v)
	}
	return out
}

// encodeSRGB applies the sRGB transfer curve to a linear value in [0, 1].
func encodeSRGB(v float32) float32 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return float32(1.055*math.Pow(float64(v), 1/2.4) - 0.055)
}
