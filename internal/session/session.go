package session

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"gs-streamer/internal/camera"
	"gs-streamer/internal/log"
	"gs-streamer/internal/pose"
	"gs-streamer/internal/raster"
	"gs-streamer/internal/render"
	"gs-streamer/internal/splat"
)

var logger = log.New("session")

// Renderer draws a cloud into an owned target. *render.Pipeline
// implements it.
type Renderer interface {
	Render(cloud splat.Cloud, scene render.Scene, view camera.Viewer) (render.FrameStats, error)
	Resize(width, height int)
	Target() *raster.Target
}

// Compositor copies the render target into the sink and display surfaces.
type Compositor interface {
	CopyToSink(t *raster.Target)
	CopyToDisplay(t *raster.Target)
}

// Sink transmits the last composited frame tagged with a frame id. Send
// must not block.
type Sink interface {
	Send(frameID int64)
}

// Config holds the per-session render settings.
type Config struct {
	Cloud splat.Cloud
	Scene render.Scene

	// Origin of the pose tracking space in scene coordinates. It is added
	// to every eye position at render time.
	Offset mgl32.Vec3

	// Also copy every frame to the local display.
	Display bool
}

// Stats counts ticks by outcome.
type Stats struct {
	Ticks uint64
	// Frames rendered and sent.
	Frames uint64
	// Ticks without a new pose.
	Skipped uint64
	// Poses consumed while paused.
	Discarded uint64
	// Frames sent after a failed render.
	Degraded uint64

	LastFrameID int64
	LastRender  render.FrameStats
	// Time between the last two sent frames.
	FrameInterval time.Duration
}

// Session produces at most one frame per tick, and only when a new pose
// has arrived. All methods must be called from the host loop goroutine.
type Session struct {
	cfg        Config
	gate       *pose.Gate
	cam        *camera.Camera
	renderer   Renderer
	compositor Compositor
	sink       Sink
	identity   *FrameIdentity

	state        State
	onTransition func(from, to State)
	paused       bool
	width        int
	height       int

	stats       Stats
	lastFrameAt time.Time
}

// New wires a session. The renderer target and the camera must already be
// sized for the output resolution.
func New(cfg Config, gate *pose.Gate, cam *camera.Camera, renderer Renderer, compositor Compositor, sink Sink) *Session {
	t := renderer.Target()
	return &Session{
		cfg:        cfg,
		gate:       gate,
		cam:        cam,
		renderer:   renderer,
		compositor: compositor,
		sink:       sink,
		identity:   NewFrameIdentity(),
		width:      t.Width(),
		height:     t.Height(),
		stats:      Stats{LastFrameID: pose.NoPose},
	}
}

// OnTransition registers a hook called on every state change.
func (s *Session) OnTransition(fn func(from, to State)) {
	s.onTransition = fn
}

func (s *Session) State() State {
	return s.state
}

// Identity returns the frame identity tracker.
func (s *Session) Identity() *FrameIdentity {
	return s.identity
}

func (s *Session) Stats() Stats {
	return s.stats
}

// Size returns the output resolution.
func (s *Session) Size() (int, int) {
	return s.width, s.height
}

// SetPaused stops frame production. Poses keep being consumed while paused.
func (s *Session) SetPaused(paused bool) {
	if s.paused != paused {
		logger.Noticef("paused: %t", paused)
	}
	s.paused = paused
}

func (s *Session) Paused() bool {
	return s.paused
}

// OnResize resizes the shared render target once and re-derives the
// camera aspect ratios.
func (s *Session) OnResize(width, height int) {
	if width <= 0 || height <= 0 || (width == s.width && height == s.height) {
		return
	}
	s.width, s.height = width, height
	s.renderer.Resize(width, height)
	s.cam.Resize(width, height)
	logger.Infof("output resized to %dx%d", width, height)
}

// Tick runs one iteration of the frame loop. Without a new pose, or while
// paused, nothing is rendered or sent and empty stats are returned.
func (s *Session) Tick(now time.Time, dt time.Duration) render.FrameStats {
	s.stats.Ticks++

	p, ok := s.gate.Poll()
	if !ok {
		s.stats.Skipped++
		return render.FrameStats{}
	}
	if s.paused {
		s.stats.Discarded++
		return render.FrameStats{}
	}

	s.transition(PoseAccepted)
	s.identity.Set(p.ID)
	s.cam.ApplyPose(p.Eyes)

	s.transition(Rendering)
	stats, err := s.renderer.Render(s.cfg.Cloud, s.cfg.Scene, camera.WithOffset(s.cam, s.cfg.Offset))
	if err != nil {
		s.stats.Degraded++
		logger.Errorf("frame %d: %v", p.ID, err)
	}

	// Degraded frames are still composited and sent so the stream never stalls.
	s.transition(Compositing)
	target := s.renderer.Target()
	s.compositor.CopyToSink(target)
	if s.cfg.Display {
		s.compositor.CopyToDisplay(target)
	}

	id := s.identity.Current()
	s.sink.Send(id)
	s.transition(Sent)

	s.stats.Frames++
	s.stats.LastFrameID = id
	s.stats.LastRender = stats
	if !s.lastFrameAt.IsZero() {
		s.stats.FrameInterval = now.Sub(s.lastFrameAt)
	}
	s.lastFrameAt = now
	logger.Debugf("frame %d: %s (tick %s)", id, stats, dt)

	s.transition(Idle)
	return stats
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	if s.onTransition != nil {
		s.onTransition(from, to)
	}
}
