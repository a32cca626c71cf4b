package splat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gs-streamer/internal/mathutil"
)

var testProps = []string{
	"x", "y", "z", "nx", "ny", "nz",
	"f_dc_0", "f_dc_1", "f_dc_2",
	"opacity",
	"scale_0", "scale_1", "scale_2",
	"rot_0", "rot_1", "rot_2", "rot_3",
}

// encodePLY builds a binary PLY file with float properties plus a trailing
// uchar property that the loader must skip.
func encodePLY(rows []map[string]float32) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "ply\nformat binary_little_endian 1.0\ncomment test\nelement vertex %d\n", len(rows))
	for _, p := range testProps {
		fmt.Fprintf(&buf, "property float %s\n", p)
	}
	buf.WriteString("property uchar flags\nend_header\n")

	for _, row := range rows {
		for _, p := range testProps {
			binary.Write(&buf, binary.LittleEndian, row[p])
		}
		buf.WriteByte(0xff)
	}
	return buf.Bytes()
}

func TestParsePLY(t *testing.T) {
	raw := encodePLY([]map[string]float32{
		{"x": 1, "y": 2, "z": 3, "rot_0": 2},
		{"x": -1, "f_dc_0": 10, "opacity": 100, "scale_1": float32(math.Log(2)), "rot_3": 1},
	})

	splats, err := ParsePLY(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(splats) != 2 {
		t.Fatalf("expected 2 splats; got %d", len(splats))
	}

	s := splats[0]
	if s.Position != (mathutil.Vec3{1, 2, 3}) {
		t.Fatalf("expected position (1, 2, 3); got %v", s.Position)
	}
	if s.Color != [3]float32{0.5, 0.5, 0.5} {
		t.Fatalf("expected neutral color; got %v", s.Color)
	}
	if s.Opacity != 0.5 {
		t.Fatalf("expected opacity 0.5; got %f", s.Opacity)
	}
	if s.Scale != (mathutil.Vec3{1, 1, 1}) {
		t.Fatalf("expected unit scale; got %v", s.Scale)
	}
	if s.Rotation != (mathutil.Quat{0, 0, 0, 1}) {
		t.Fatalf("expected identity rotation; got %v", s.Rotation)
	}

	s = splats[1]
	if s.Color[0] != 1 {
		t.Fatalf("expected red channel to be clamped to 1; got %f", s.Color[0])
	}
	if s.Opacity < 0.999 {
		t.Fatalf("expected opacity close to 1; got %f", s.Opacity)
	}
	if math.Abs(s.Scale[1]-2) > 1e-6 {
		t.Fatalf("expected scale_1 to be exponentiated to 2; got %f", s.Scale[1])
	}
	if s.Rotation != (mathutil.Quat{0, 0, 1, 0}) {
		t.Fatalf("expected rot_3 to map to the z component; got %v", s.Rotation)
	}
}

func TestLoadPLY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.ply")
	if err := os.WriteFile(path, encodePLY([]map[string]float32{{"z": -5}}), 0644); err != nil {
		t.Fatal(err)
	}

	cloud, err := LoadPLY(path)
	if err != nil {
		t.Fatal(err)
	}
	if cloud.Count() != 1 {
		t.Fatalf("expected 1 splat; got %d", cloud.Count())
	}

	min, max := Bounds(cloud)
	if min != max || min[2] != -5 {
		t.Fatalf("expected degenerate bounds at z=-5; got %v %v", min, max)
	}

	_, err = LoadPLY(filepath.Join(t.TempDir(), "missing.ply"))
	if err == nil || !strings.HasPrefix(err.Error(), "ply: read") {
		t.Fatalf("expected read error; got %v", err)
	}
}

func TestParsePLYErrors(t *testing.T) {
	valid := encodePLY([]map[string]float32{{}})

	specs := []struct {
		name   string
		raw    []byte
		expErr string
	}{
		{"no magic", []byte("hello\nend_header\n"), "invalid header"},
		{"ascii", []byte("ply\nformat ascii 1.0\nelement vertex 0\nend_header\n"), `unsupported format "ascii 1.0"`},
		{"face first", []byte("ply\nformat binary_little_endian 1.0\nelement face 1\nend_header\n"), `expected vertex as first element; got "face"`},
		{"missing prop", []byte("ply\nformat binary_little_endian 1.0\nelement vertex 0\nproperty float x\nend_header\n"), `missing vertex property "y"`},
		{"truncated", valid[:len(valid)-4], "truncated vertex data"},
	}

	for _, spec := range specs {
		_, err := ParsePLY(spec.raw)
		if err == nil || !strings.HasPrefix(err.Error(), spec.expErr) {
			t.Fatalf("[%s] expected error starting with %q; got %v", spec.name, spec.expErr, err)
		}
	}
}
