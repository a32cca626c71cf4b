package stream

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

func TestFileSink(t *testing.T) {
	dir := t.TempDir()

	specs := []struct {
		format string
		decode func(f *os.File) (int, int, error)
	}{
		{FormatWebP, func(f *os.File) (int, int, error) {
			img, err := nativewebp.Decode(f)
			if err != nil {
				return 0, 0, err
			}
			return img.Bounds().Dx(), img.Bounds().Dy(), nil
		}},
		{FormatTGA, func(f *os.File) (int, int, error) {
			img, err := tga.Decode(f)
			if err != nil {
				return 0, 0, err
			}
			return img.Bounds().Dx(), img.Bounds().Dy(), nil
		}},
	}

	for _, spec := range specs {
		sink, err := NewFileSink(filepath.Join(dir, spec.format), spec.format, 6, 3)
		if err != nil {
			t.Fatal(err)
		}
		fill(sink, color.NRGBA{10, 20, 30, 255})
		sink.Send(42)
		if sink.Err() != nil || sink.Written() != 1 {
			t.Fatalf("[%s] expected 1 written frame; got %d (%v)", spec.format, sink.Written(), sink.Err())
		}

		f, err := os.Open(filepath.Join(dir, spec.format, "42."+spec.format))
		if err != nil {
			t.Fatal(err)
		}
		w, h, err := spec.decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("[%s] decode: %v", spec.format, err)
		}
		if w != 6 || h != 3 {
			t.Fatalf("[%s] expected 6x3 image; got %dx%d", spec.format, w, h)
		}
	}
}

func TestFileSinkUnknownFormat(t *testing.T) {
	if _, err := NewFileSink(t.TempDir(), "bmp", 1, 1); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat; got %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	specs := map[string]string{"a/b.webp": FormatWebP, "FRAME.TGA": FormatTGA}
	for path, exp := range specs {
		if got, err := FormatFromPath(path); err != nil || got != exp {
			t.Errorf("expected %q for %s; got %q (%v)", exp, path, got, err)
		}
	}
	if _, err := FormatFromPath("x.png"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat; got %v", err)
	}
}
