package host

import "image"

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Title string
	// Update rate of the window loop.
	TPS int
}

// Window is a local display surface shown in a desktop window.
type Window struct {
	canvas *image.NRGBA
}

// NewWindow creates a display surface of the initial output size.
func NewWindow(width, height int) *Window {
	return &Window{canvas: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// Canvas is the image the compositor copies frames into.
func (w *Window) Canvas() *image.NRGBA {
	return w.canvas
}

func (w *Window) resize(width, height int) {
	if w.canvas.Bounds().Dx() == width && w.canvas.Bounds().Dy() == height {
		return
	}
	w.canvas = image.NewNRGBA(image.Rect(0, 0, width, height))
}
