package splat

import "gs-streamer/internal/mathutil"

// Splat is a single anisotropic Gaussian.
type Splat struct {
	Position mathutil.Vec3
	// Per-axis standard deviation (already exponentiated).
	Scale    mathutil.Vec3
	Rotation mathutil.Quat
	// Linear RGB in [0, 1] derived from the DC spherical harmonic term.
	Color   [3]float32
	Opacity float32
}

// Cloud is an immutable, loaded set of splats.
type Cloud interface {
	Count() int
	Splat(i int) Splat
}

// Memory is a Cloud backed by a slice.
type Memory struct {
	splats []Splat
}

// NewMemory wraps splats into a Cloud. The slice must not be modified afterwards.
func NewMemory(splats []Splat) *Memory {
	return &Memory{splats: splats}
}

func (m *Memory) Count() int {
	if m == nil {
		return 0
	}
	return len(m.splats)
}

func (m *Memory) Splat(i int) Splat {
	return m.splats[i]
}

// Bounds returns the axis-aligned bounds of all splat centers.
func Bounds(c Cloud) (min, max mathutil.Vec3) {
	n := c.Count()
	if n == 0 {
		return
	}
	min = c.Splat(0).Position
	max = min
	for i := 1; i < n; i++ {
		p := c.Splat(i).Position
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max
}

// Rotate returns a copy of c with every splat rotated about the origin by
// the Euler XYZ angles (radians). Trainers often export scenes with +Y
// pointing down, which a half turn about X corrects.
func Rotate(c Cloud, rx, ry, rz float64) *Memory {
	q := mathutil.EulerToQuat(rx, ry, rz)
	r := mathutil.QuatToMat3(q)

	out := make([]Splat, c.Count())
	for i := range out {
		s := c.Splat(i)
		s.Position = r.MulVec3(s.Position)
		s.Rotation = q.Mul(s.Rotation).Normalize()
		out[i] = s
	}
	return NewMemory(out)
}
