package command

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli"

	"gs-streamer/internal/camera"
	"gs-streamer/internal/config"
	"gs-streamer/internal/render"
	"gs-streamer/internal/splat"
)

// loadConfig reads the optional config file and applies command flags.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	var cfg config.Config
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	err := cfg.Resolve(config.Flags{
		PLYFile:   ctx.Args().First(),
		Size:      ctx.String("size"),
		VideoAddr: ctx.String("video"),
		PoseAddr:  ctx.String("pose"),
		DumpDir:   ctx.String("dump"),
		Stereo:    ctx.Bool("stereo"),
		Window:    ctx.Bool("window"),
		Tonemap:   ctx.Bool("tonemap"),
	})
	return cfg, err
}

// loadCloud reads the scene and applies the configured scene rotation.
func loadCloud(cfg config.Config) (splat.Cloud, error) {
	cloud, err := splat.LoadPLY(cfg.PLYFile)
	if err != nil {
		return nil, err
	}
	if cfg.SceneRotation == [3]float64{} {
		return cloud, nil
	}

	deg := cfg.SceneRotation
	return splat.Rotate(cloud, deg[0]*math.Pi/180, deg[1]*math.Pi/180, deg[2]*math.Pi/180), nil
}

func newCamera(cfg config.Config) *camera.Camera {
	if cfg.Stereo {
		return camera.NewStereo(cfg.Width, cfg.Height, cfg.FovY, cfg.Near, cfg.Far)
	}
	return camera.NewMono(cfg.Width, cfg.Height, cfg.FovY, cfg.Near, cfg.Far)
}

func newScene(cfg config.Config) render.Scene {
	bg := cfg.Background
	return render.Scene{Background: color.RGBA{bg[0], bg[1], bg[2], bg[3]}}
}

func backendOptions(cfg config.Config) render.BackendOptions {
	return render.BackendOptions{SRGB: cfg.SRGB, SortOverride: cfg.SortOverride}
}

// parseFloats parses n comma separated numbers.
func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated values; got %q", n, s)
	}
	out := make([]float32, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q in %q", p, s)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func parseVec3(s string) (mgl32.Vec3, error) {
	v, err := parseFloats(s, 3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

// parseQuat parses a "w,x,y,z" orientation.
func parseQuat(s string) (mgl32.Quat, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return mgl32.Quat{}, err
	}
	q := mgl32.Quat{W: v[0], V: mgl32.Vec3{v[1], v[2], v[3]}}
	if q.Len() == 0 {
		return mgl32.Quat{}, fmt.Errorf("zero orientation %q", s)
	}
	return q.Normalize(), nil
}
