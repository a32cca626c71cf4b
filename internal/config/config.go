package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Resolve.
const (
	DefaultWidth      = 1920
	DefaultHeight     = 1080
	DefaultVideoAddr  = "127.0.0.1:12345"
	DefaultPoseAddr   = "0.0.0.0:54321"
	DefaultFovY       = 60
	DefaultNear       = 0.1
	DefaultFar        = 1000
	DefaultTickRate   = 240
	DefaultQueueDepth = 4
	DefaultDumpFormat = "webp"
)

// Config holds all streamer settings.
type Config struct {
	// Splat scene
	PLYFile string `json:"ply_file" yaml:"ply_file"`

	// Output resolution of the render target
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	// Resolution of the encoded stream (default: output resolution)
	StreamWidth  int `json:"stream_width" yaml:"stream_width"`
	StreamHeight int `json:"stream_height" yaml:"stream_height"`

	// Network
	VideoAddr string `json:"video_addr" yaml:"video_addr"`
	PoseAddr  string `json:"pose_addr" yaml:"pose_addr"`

	// Write frames to files instead of streaming them
	DumpDir    string `json:"dump_dir" yaml:"dump_dir"`
	DumpFormat string `json:"dump_format" yaml:"dump_format"`

	// Camera
	Stereo bool       `json:"stereo" yaml:"stereo"`
	FovY   float32    `json:"fov_y" yaml:"fov_y"`
	Near   float32    `json:"near" yaml:"near"`
	Far    float32    `json:"far" yaml:"far"`
	Offset [3]float32 `json:"offset" yaml:"offset"`

	// Euler XYZ rotation in degrees applied to the scene at load
	SceneRotation [3]float64 `json:"scene_rotation" yaml:"scene_rotation"`

	// Rendering
	Background   [4]uint8 `json:"background" yaml:"background"`
	SRGB         bool     `json:"srgb" yaml:"srgb"`
	SortOverride bool     `json:"sort_override" yaml:"sort_override"`
	Tonemap      bool     `json:"tonemap" yaml:"tonemap"`
	Exposure     float64  `json:"exposure" yaml:"exposure"`
	Filter       string   `json:"filter" yaml:"filter"`

	// Host loop
	Window     bool   `json:"window" yaml:"window"`
	TickRate   int    `json:"tick_rate" yaml:"tick_rate"`
	QueueDepth int    `json:"queue_depth" yaml:"queue_depth"`
	ReportFile string `json:"report_file" yaml:"report_file"`
}

// Load reads a JSON or YAML config file, picked by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	PLYFile   string
	Size      string
	VideoAddr string
	PoseAddr  string
	DumpDir   string
	Stereo    bool
	Window    bool
	Tonemap   bool
}

// Resolve applies flags and fills in defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	// CLI flags override config file
	if flags.PLYFile != "" {
		c.PLYFile = flags.PLYFile
	}
	if flags.Size != "" {
		w, h, err := ParseSize(flags.Size)
		if err != nil {
			return err
		}
		c.Width, c.Height = w, h
	}
	if flags.VideoAddr != "" {
		c.VideoAddr = flags.VideoAddr
	}
	if flags.PoseAddr != "" {
		c.PoseAddr = flags.PoseAddr
	}
	if flags.DumpDir != "" {
		c.DumpDir = flags.DumpDir
	}
	c.Stereo = c.Stereo || flags.Stereo
	c.Window = c.Window || flags.Window
	c.Tonemap = c.Tonemap || flags.Tonemap

	// Defaults
	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = DefaultWidth, DefaultHeight
	}
	if c.StreamWidth <= 0 || c.StreamHeight <= 0 {
		c.StreamWidth, c.StreamHeight = c.Width, c.Height
	}
	if c.VideoAddr == "" {
		c.VideoAddr = DefaultVideoAddr
	}
	if c.PoseAddr == "" {
		c.PoseAddr = DefaultPoseAddr
	}
	if c.DumpFormat == "" {
		c.DumpFormat = DefaultDumpFormat
	}
	if c.FovY <= 0 {
		c.FovY = DefaultFovY
	}
	if c.Near <= 0 {
		c.Near = DefaultNear
	}
	if c.Far <= 0 {
		c.Far = DefaultFar
	}
	if c.Exposure <= 0 {
		c.Exposure = 1
	}
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.QueueDepth <= 0 {
		c.QueueDepth = DefaultQueueDepth
	}

	return c.validate()
}

func (c *Config) validate() error {
	if c.FovY >= 180 {
		return fmt.Errorf("config: fov_y must be below 180; got %g", c.FovY)
	}
	if c.Near >= c.Far {
		return fmt.Errorf("config: near plane %g must be closer than far plane %g", c.Near, c.Far)
	}
	if c.Stereo && c.Width < 2 {
		return errors.New("config: stereo output needs a width of at least 2")
	}
	return nil
}

// ParseSize parses a "WIDTHxHEIGHT" string.
func ParseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("config: invalid size %q; expected WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("config: invalid width in %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("config: invalid height in %q", s)
	}
	return w, h, nil
}
