package composite

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"gs-streamer/internal/log"
	"gs-streamer/internal/raster"
)

var logger = log.New("composite")

// Surface is a destination image owned by a sink or a display. The
// compositor writes into the canvas; its size is decided by the owner.
type Surface interface {
	Canvas() *image.NRGBA
}

// Options control how the render target is transferred.
type Options struct {
	// Apply the ACES tonemapper instead of a plain copy.
	Tonemap  bool
	Exposure float64

	// Resampling filter used when target and canvas sizes differ.
	Filter string
}

// Compositor copies the render target into the stream and display surfaces.
type Compositor struct {
	sink    Surface
	display Surface
	curve   *Tonemap
	scaler  draw.Interpolator

	// Scaled copy of the target, reused across frames.
	scratch *image.RGBA
}

// New creates a compositor. display may be nil.
func New(sink, display Surface, opts Options) (*Compositor, error) {
	scaler, err := ParseFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	curve := IdentityTonemap()
	if opts.Tonemap {
		curve = NewACESTonemap(opts.Exposure)
		logger.Infof("ACES tonemapping enabled, exposure %.2f", opts.Exposure)
	}

	return &Compositor{
		sink:    sink,
		display: display,
		curve:   curve,
		scaler:  scaler,
	}, nil
}

// ParseFilter maps a filter name to an x/image/draw interpolator. An empty
// name selects bilinear filtering.
func ParseFilter(name string) (draw.Interpolator, error) {
	switch name {
	case "", "bilinear":
		return draw.ApproxBiLinear, nil
	case "nearest":
		return draw.NearestNeighbor, nil
	case "catmullrom":
		return draw.CatmullRom, nil
	default:
		return nil, fmt.Errorf("composite: unknown filter %q", name)
	}
}

// CopyToSink transfers the target into the sink canvas.
func (c *Compositor) CopyToSink(t *raster.Target) {
	if c.sink == nil {
		return
	}
	c.transfer(c.sink.Canvas(), t.Image())
}

// CopyToDisplay transfers the target into the local display canvas, if any.
func (c *Compositor) CopyToDisplay(t *raster.Target) {
	if c.display == nil {
		return
	}
	c.transfer(c.display.Canvas(), t.Image())
}

// HasDisplay reports whether a local display surface is attached.
func (c *Compositor) HasDisplay() bool {
	return c.display != nil
}

func (c *Compositor) transfer(dst *image.NRGBA, src *image.RGBA) {
	if dst == nil {
		return
	}
	db := dst.Bounds()
	if db.Empty() || src.Bounds().Empty() {
		return
	}

	if db.Size() != src.Bounds().Size() {
		if c.scratch == nil || c.scratch.Bounds() != db {
			c.scratch = image.NewRGBA(db)
		}
		c.scaler.Scale(c.scratch, db, src, src.Bounds(), draw.Src, nil)
		src = c.scratch
	}
	c.applyCurve(dst, src)
}

// applyCurve copies color through the tonemap table. Output frames are opaque.
func (c *Compositor) applyCurve(dst *image.NRGBA, src *image.RGBA) {
	curve := c.curve
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	for y := 0; y < h; y++ {
		si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		di := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		for x := 0; x < w; x++ {
			dst.Pix[di] = curve[src.Pix[si]]
			dst.Pix[di+1] = curve[src.Pix[si+1]]
			dst.Pix[di+2] = curve[src.Pix[si+2]]
			dst.Pix[di+3] = 255
			si += 4
			di += 4
		}
	}
}
