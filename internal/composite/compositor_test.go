package composite

import (
	"image"
	"image/color"
	"testing"

	"gs-streamer/internal/raster"
)

type canvas struct {
	img *image.NRGBA
}

func newCanvas(w, h int) *canvas {
	return &canvas{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

func (c *canvas) Canvas() *image.NRGBA { return c.img }

func filledTarget(w, h int, c color.RGBA) *raster.Target {
	t := raster.NewTarget(w, h)
	b := t.Bind()
	b.Clear(c)
	b.Release()
	return t
}

func TestCopyToSinkPlainCopy(t *testing.T) {
	sink := newCanvas(4, 2)
	c, err := New(sink, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}

	c.CopyToSink(filledTarget(4, 2, color.RGBA{10, 128, 250, 0}))

	exp := color.NRGBA{10, 128, 250, 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got := sink.img.NRGBAAt(x, y); got != exp {
				t.Fatalf("expected pixel (%d, %d) to be %v; got %v", x, y, exp, got)
			}
		}
	}
}

func TestCopyToSinkScales(t *testing.T) {
	for _, filter := range []string{"", "nearest", "bilinear", "catmullrom"} {
		sink := newCanvas(3, 2)
		c, err := New(sink, nil, Options{Filter: filter})
		if err != nil {
			t.Fatal(err)
		}

		c.CopyToSink(filledTarget(12, 8, color.RGBA{40, 80, 120, 255}))

		exp := color.NRGBA{40, 80, 120, 255}
		if got := sink.img.NRGBAAt(1, 1); got != exp {
			t.Fatalf("[filter %q] expected %v; got %v", filter, exp, got)
		}
	}
}

func TestCopyToDisplay(t *testing.T) {
	sink := newCanvas(2, 2)
	display := newCanvas(2, 2)
	c, err := New(sink, display, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !c.HasDisplay() {
		t.Fatal("expected display to be attached")
	}

	c.CopyToDisplay(filledTarget(2, 2, color.RGBA{1, 2, 3, 255}))
	if got := display.img.NRGBAAt(0, 0); got != (color.NRGBA{1, 2, 3, 255}) {
		t.Fatalf("expected display pixel to be copied; got %v", got)
	}
	if got := sink.img.NRGBAAt(0, 0); got != (color.NRGBA{}) {
		t.Fatalf("expected sink to be untouched; got %v", got)
	}

	// Without a display this is a no-op.
	c, _ = New(sink, nil, Options{})
	c.CopyToDisplay(filledTarget(2, 2, color.RGBA{1, 2, 3, 255}))
}

func TestUnknownFilter(t *testing.T) {
	if _, err := New(newCanvas(1, 1), nil, Options{Filter: "lanczos9"}); err == nil {
		t.Fatal("expected an error for an unknown filter")
	}
}

func TestACESTonemap(t *testing.T) {
	curve := NewACESTonemap(1)
	if curve[0] != 0 {
		t.Fatalf("expected black to stay black; got %d", curve[0])
	}
	for i := 1; i < len(curve); i++ {
		if curve[i] < curve[i-1] {
			t.Fatalf("expected a monotonic curve; entry %d (%d) < entry %d (%d)", i, curve[i], i-1, curve[i-1])
		}
	}

	bright := NewACESTonemap(4)
	if bright[128] <= curve[128] {
		t.Fatalf("expected higher exposure to brighten midtones; got %d <= %d", bright[128], curve[128])
	}

	sink := newCanvas(1, 1)
	c, _ := New(sink, nil, Options{Tonemap: true, Exposure: 1})
	c.CopyToSink(filledTarget(1, 1, color.RGBA{128, 128, 128, 255}))
	if got := sink.img.NRGBAAt(0, 0).R; got != curve[128] {
		t.Fatalf("expected tonemapped value %d; got %d", curve[128], got)
	}
}
