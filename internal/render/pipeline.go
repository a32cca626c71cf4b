package render

import (
	"fmt"
	"image/color"

	"gs-streamer/internal/camera"
	"gs-streamer/internal/log"
	"gs-streamer/internal/raster"
	"gs-streamer/internal/splat"
)

var logger = log.New("render")

// Scene holds per-frame settings that are not part of the cloud.
type Scene struct {
	Background color.RGBA
}

// Pipeline renders a splat cloud into its own target, once for a mono
// camera and once per eye for a stereo camera. It is not safe for
// concurrent use.
type Pipeline struct {
	backend Backend
	opts    BackendOptions
	state   BackendState
	target  *raster.Target
}

// NewPipeline creates a pipeline with a (width, height) target. The backend
// is initialized on the first Render call.
func NewPipeline(backend Backend, width, height int, opts BackendOptions) *Pipeline {
	return &Pipeline{
		backend: backend,
		opts:    opts,
		target:  raster.NewTarget(width, height),
	}
}

// Target returns the render target. Callers may read it between renders.
func (p *Pipeline) Target() *raster.Target {
	return p.target
}

// State returns the backend initialization state.
func (p *Pipeline) State() BackendState {
	return p.state
}

// Resize resizes the shared target. Both eyes of a stereo camera use the
// same target so this happens once per output resize.
func (p *Pipeline) Resize(width, height int) {
	p.target.Resize(width, height)
}

// Render draws cloud as seen by view. A backend that fails to initialize
// yields empty stats and an error wrapping ErrBackendInit; initialization
// is attempted again on the next call.
func (p *Pipeline) Render(cloud splat.Cloud, scene Scene, view camera.Viewer) (FrameStats, error) {
	if err := p.ensureBackend(cloud); err != nil {
		return FrameStats{}, err
	}

	b := p.target.Bind()
	defer b.Release()

	b.Clear(scene.Background)

	n := cloud.Count()
	if view.Mode() == camera.Mono {
		vt := view.Transform(camera.Center, b.Viewport())
		p.draw(b, vt)
		return FrameStats{Splats: n, DrawCalls: 1}, nil
	}

	var stats FrameStats
	w, h := b.Width(), b.Height()
	b.EnableScissor(true)
	// Left before right keeps backend sort caches deterministic.
	for _, eye := range view.Mode().Eyes() {
		r := camera.EyeViewport(eye, w, h)
		b.SetViewport(r)
		b.SetScissor(r)
		p.draw(b, view.Transform(eye, r))
		stats = stats.Add(FrameStats{Splats: n, DrawCalls: 1})
	}

	full := camera.FullViewport(w, h)
	b.SetViewport(full)
	b.SetScissor(full)
	b.EnableScissor(false)
	return stats, nil
}

func (p *Pipeline) draw(b *raster.Binding, vt camera.ViewTransform) {
	p.backend.Sort(vt)
	p.backend.Rasterize(b, vt)
}

func (p *Pipeline) ensureBackend(cloud splat.Cloud) error {
	if cloud == nil {
		return fmt.Errorf("%w: %w", ErrBackendInit, ErrNoCloud)
	}
	if p.state == Ready {
		return nil
	}
	if err := p.backend.Init(cloud, p.opts); err != nil {
		p.state = Failed
		return fmt.Errorf("%w: %w", ErrBackendInit, err)
	}
	p.state = Ready
	logger.Infof("backend ready with %d splats", cloud.Count())
	return nil
}
