package render

import (
	"gs-streamer/internal/camera"
	"gs-streamer/internal/raster"
	"gs-streamer/internal/splat"
)

// BackendOptions are forwarded to Backend.Init.
type BackendOptions struct {
	// Encode output colors with the sRGB transfer curve.
	SRGB bool

	// Re-sort on every pass instead of reusing the order of an unchanged view.
	SortOverride bool
}

// Backend sorts and rasterizes a splat cloud into a bound target.
type Backend interface {
	// Init uploads the cloud. It may be called again after a failure.
	Init(cloud splat.Cloud, opts BackendOptions) error

	// Sort orders the splats for the given view.
	Sort(vt camera.ViewTransform)

	// Rasterize draws the splats in the last sorted order into dst,
	// limited to the viewport of vt and the binding's clip rectangle.
	Rasterize(dst *raster.Binding, vt camera.ViewTransform)
}

// BackendState tracks lazy backend initialization.
type BackendState uint8

const (
	Uninitialized BackendState = iota
	Ready
	// Failed is retried on the next render call.
	Failed
)

func (s BackendState) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "uninitialized"
	}
}
