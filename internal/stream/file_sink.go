package stream

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// FileSink writes every frame to <dir>/<frame id>.<format>. Writes happen
// synchronously in Send.
type FileSink struct {
	dir     string
	format  string
	canvas  *image.NRGBA
	written int
	lastErr error
}

// NewFileSink creates dir if needed.
func NewFileSink(dir, format string, width, height int) (*FileSink, error) {
	if format != FormatWebP && format != FormatTGA {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("stream: create %s: %w", dir, err)
	}
	return &FileSink{
		dir:    dir,
		format: format,
		canvas: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

func (s *FileSink) Canvas() *image.NRGBA {
	return s.canvas
}

// Send writes the canvas. Failures are logged and kept in Err.
func (s *FileSink) Send(frameID int64) {
	path := filepath.Join(s.dir, fmt.Sprintf("%d.%s", frameID, s.format))
	if err := WriteImage(path, s.canvas, s.format); err != nil {
		s.lastErr = err
		logger.Errorf("frame %d: %v", frameID, err)
		return
	}
	s.written++
}

// Written returns the number of frames written.
func (s *FileSink) Written() int {
	return s.written
}

// Err returns the last write error.
func (s *FileSink) Err() error {
	return s.lastErr
}

// WriteImage encodes img into a new file at path.
func WriteImage(path string, img image.Image, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Encode(w, img, format); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("stream: write %s: %w", path, err)
	}
	return f.Close()
}
