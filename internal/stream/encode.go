package stream

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Supported image formats.
const (
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("stream: webp encode: %w", err)
		}
	case FormatTGA:
		if err := tga.Encode(w, img); err != nil {
			return fmt.Errorf("stream: tga encode: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// FormatFromPath picks the image format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case FormatWebP, FormatTGA:
		return ext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}
