package command

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"gs-streamer/internal/composite"
	"gs-streamer/internal/config"
	"gs-streamer/internal/host"
	"gs-streamer/internal/pose"
	"gs-streamer/internal/render"
	"gs-streamer/internal/session"
	"gs-streamer/internal/stream"
)

// Interval of the periodic stream statistics log.
const reportInterval = 2 * time.Second

type frameSink interface {
	composite.Surface
	session.Sink
}

// Serve loads a splat scene and streams frames for every received pose.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.PLYFile == "" {
		return errors.New("missing PLY scene file argument")
	}

	start := time.Now()
	cloud, err := loadCloud(cfg)
	if err != nil {
		return err
	}
	logger.Noticef("loaded %d splats from %s in %d ms", cloud.Count(), cfg.PLYFile, time.Since(start).Milliseconds())

	receiver, err := pose.Listen(cfg.PoseAddr)
	if err != nil {
		return err
	}
	defer receiver.Close()

	var (
		sink     frameSink
		streamer *stream.Streamer
	)
	if cfg.DumpDir != "" {
		fs, err := stream.NewFileSink(cfg.DumpDir, cfg.DumpFormat, cfg.StreamWidth, cfg.StreamHeight)
		if err != nil {
			return err
		}
		logger.Noticef("writing %s frames to %s", cfg.DumpFormat, cfg.DumpDir)
		sink = fs
	} else {
		streamer = stream.NewStreamer(stream.Options{
			Addr:           cfg.VideoAddr,
			Width:          cfg.StreamWidth,
			Height:         cfg.StreamHeight,
			QueueDepth:     cfg.QueueDepth,
			ReportInterval: reportInterval,
		})
		sink = streamer
	}

	var (
		win     *host.Window
		display composite.Surface
	)
	if cfg.Window {
		win = host.NewWindow(cfg.Width, cfg.Height)
		display = win
	}

	comp, err := composite.New(sink, display, composite.Options{
		Tonemap:  cfg.Tonemap,
		Exposure: cfg.Exposure,
		Filter:   cfg.Filter,
	})
	if err != nil {
		return err
	}

	pipeline := render.NewPipeline(render.NewCPUBackend(), cfg.Width, cfg.Height, backendOptions(cfg))
	sess := session.New(session.Config{
		Cloud:   cloud,
		Scene:   newScene(cfg),
		Offset:  mgl32.Vec3(cfg.Offset),
		Display: cfg.Window,
	}, pose.NewGate(receiver), newCamera(cfg), pipeline, comp, sink)
	sess.OnTransition(func(from, to session.State) {
		logger.Debugf("state %s -> %s", from, to)
	})

	runErr := run(cfg, sess, receiver, win)

	var streamStats *stream.Stats
	if streamer != nil {
		streamer.Close()
		st := streamer.Stats()
		streamStats = &st
	}

	displaySessionStats(sess.Stats(), streamStats)
	if cfg.ReportFile != "" {
		cfg.Width, cfg.Height = sess.Size()
		report := newReport(cfg, cloud.Count(), start, sess.Stats(), streamStats)
		if err := WriteReport(cfg.ReportFile, report); err != nil {
			logger.Errorf("writing report: %v", err)
		}
	}

	return runErr
}

// run drives the session until interrupted. The window loop has to stay on
// the calling goroutine; the pose receiver runs next to it.
func run(cfg config.Config, sess *session.Session, receiver *pose.Receiver, win *host.Window) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return receiver.Run(gctx)
	})

	var err error
	if win != nil {
		err = host.RunWindow(gctx, sess, win, host.WindowConfig{Title: "gs-streamer", TPS: cfg.TickRate})
	} else {
		err = host.RunHeadless(gctx, sess, host.HeadlessConfig{Hz: cfg.TickRate, Wake: receiver.Arrivals()})
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	stop()
	if rerr := g.Wait(); rerr != nil && err == nil {
		err = rerr
	}
	logger.Notice("shutting down")
	return err
}
