package command

import (
	"errors"
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli"

	"gs-streamer/internal/camera"
	"gs-streamer/internal/composite"
	"gs-streamer/internal/pose"
	"gs-streamer/internal/render"
	"gs-streamer/internal/session"
	"gs-streamer/internal/stream"
)

// imageSink writes the composited frame to a single file.
type imageSink struct {
	path   string
	format string
	canvas *image.NRGBA
	err    error
}

func (s *imageSink) Canvas() *image.NRGBA { return s.canvas }

func (s *imageSink) Send(frameID int64) {
	s.err = stream.WriteImage(s.path, s.canvas, s.format)
}

// Still renders a single frame for a fixed pose.
func Still(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.PLYFile == "" {
		return errors.New("missing PLY scene file argument")
	}

	out := ctx.String("out")
	format, err := stream.FormatFromPath(out)
	if err != nil {
		return err
	}

	eye := camera.EyePose{Orientation: mgl32.QuatIdent()}
	if s := ctx.String("position"); s != "" {
		if eye.Position, err = parseVec3(s); err != nil {
			return err
		}
	}
	if s := ctx.String("orientation"); s != "" {
		if eye.Orientation, err = parseQuat(s); err != nil {
			return err
		}
	}

	cloud, err := loadCloud(cfg)
	if err != nil {
		return err
	}

	sink := &imageSink{
		path:   out,
		format: format,
		canvas: image.NewNRGBA(image.Rect(0, 0, cfg.StreamWidth, cfg.StreamHeight)),
	}
	comp, err := composite.New(sink, nil, composite.Options{
		Tonemap:  cfg.Tonemap,
		Exposure: cfg.Exposure,
		Filter:   cfg.Filter,
	})
	if err != nil {
		return err
	}

	pipeline := render.NewPipeline(render.NewCPUBackend(), cfg.Width, cfg.Height, backendOptions(cfg))
	gate := pose.NewGate(pose.Once(pose.Pose{ID: 0, Eyes: []camera.EyePose{eye}}))
	sess := session.New(session.Config{
		Cloud:  cloud,
		Scene:  newScene(cfg),
		Offset: mgl32.Vec3(cfg.Offset),
	}, gate, newCamera(cfg), pipeline, comp, sink)

	stats := sess.Tick(time.Now(), 0)
	if sess.Stats().Degraded > 0 {
		return errors.New("rendering failed, see log for details")
	}
	if sink.err != nil {
		return sink.err
	}

	logger.Noticef("rendered %s to %s", stats, out)
	return nil
}
