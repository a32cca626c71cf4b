package composite

import "math"

const gamma = 2.2

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, gamma)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// Tonemap maps 8-bit gamma encoded channel values to output values.
type Tonemap [256]uint8

// IdentityTonemap leaves values unchanged.
func IdentityTonemap() *Tonemap {
	var t Tonemap
	for i := range t {
		t[i] = uint8(i)
	}
	return &t
}

// NewACESTonemap builds a table that linearizes, scales by exposure,
// applies ACES and re-encodes with the display gamma.
func NewACESTonemap(exposure float64) *Tonemap {
	if exposure <= 0 {
		exposure = 1
	}
	var t Tonemap
	for i := range t {
		v := ACESTonemap(srgbToLinear[i] * exposure)
		t[i] = clamp8(math.Pow(math.Max(v, 0), 1/gamma) * 255)
	}
	return &t
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
