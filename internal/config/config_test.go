package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.Resolve(Flags{}); err != nil {
		t.Fatal(err)
	}

	if cfg.Width != 1920 || cfg.Height != 1080 {
		t.Fatalf("expected 1920x1080; got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.StreamWidth != 1920 || cfg.StreamHeight != 1080 {
		t.Fatalf("expected stream size to follow output size; got %dx%d", cfg.StreamWidth, cfg.StreamHeight)
	}
	if cfg.VideoAddr != "127.0.0.1:12345" || cfg.PoseAddr != "0.0.0.0:54321" {
		t.Fatalf("unexpected addresses %q %q", cfg.VideoAddr, cfg.PoseAddr)
	}
	if cfg.FovY != 60 || cfg.Near != 0.1 || cfg.Far != 1000 {
		t.Fatalf("unexpected projection %g %g %g", cfg.FovY, cfg.Near, cfg.Far)
	}
	if cfg.TickRate != 240 || cfg.QueueDepth != 4 || cfg.DumpFormat != "webp" || cfg.Exposure != 1 {
		t.Fatalf("unexpected loop settings %+v", cfg)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	cfg := Config{PLYFile: "a.ply", Width: 640, Height: 480, PoseAddr: "1.2.3.4:5"}
	err := cfg.Resolve(Flags{PLYFile: "b.ply", Size: "800x600", Stereo: true})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.PLYFile != "b.ply" || cfg.Width != 800 || cfg.Height != 600 || !cfg.Stereo {
		t.Fatalf("expected flags to override file values; got %+v", cfg)
	}
	if cfg.PoseAddr != "1.2.3.4:5" {
		t.Fatalf("expected file value to be kept; got %q", cfg.PoseAddr)
	}
}

func TestResolveErrors(t *testing.T) {
	specs := []Config{
		{Near: 10, Far: 1},
		{FovY: 180},
	}
	for specIndex, spec := range specs {
		if err := spec.Resolve(Flags{}); err == nil {
			t.Errorf("[spec %d] expected an error", specIndex)
		}
	}

	var cfg Config
	if err := cfg.Resolve(Flags{Size: "big"}); err == nil {
		t.Error("expected an error for an invalid size flag")
	}
}

func TestParseSize(t *testing.T) {
	w, h, err := ParseSize("1920X1080")
	if err != nil || w != 1920 || h != 1080 {
		t.Fatalf("expected 1920x1080; got %dx%d (%v)", w, h, err)
	}

	for _, bad := range []string{"", "1920", "x1080", "0x10", "10x-1", "axb"} {
		if _, _, err := ParseSize(bad); err == nil {
			t.Errorf("expected an error for %q", bad)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	specs := map[string]string{
		"cfg.json": `{"ply_file": "scene.ply", "stereo": true, "offset": [1, 2, 3], "background": [10, 20, 30, 255]}`,
		"cfg.yaml": "ply_file: scene.ply\nstereo: true\noffset: [1, 2, 3]\nbackground: [10, 20, 30, 255]\n",
	}

	for name, content := range specs {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("[%s] %v", name, err)
		}
		if cfg.PLYFile != "scene.ply" || !cfg.Stereo || cfg.Offset != [3]float32{1, 2, 3} || cfg.Background != [4]uint8{10, 20, 30, 255} {
			t.Fatalf("[%s] unexpected config %+v", name, cfg)
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
