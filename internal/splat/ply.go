package splat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gs-streamer/internal/mathutil"
)

// Zeroth order spherical harmonic basis constant.
const shC0 = 0.28209479177387814

var propSizes = map[string]int{
	"char": 1, "int8": 1, "uchar": 1, "uint8": 1,
	"short": 2, "int16": 2, "ushort": 2, "uint16": 2,
	"int": 4, "int32": 4, "uint": 4, "uint32": 4,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

var requiredProps = []string{
	"x", "y", "z",
	"f_dc_0", "f_dc_1", "f_dc_2",
	"opacity",
	"scale_0", "scale_1", "scale_2",
	"rot_0", "rot_1", "rot_2", "rot_3",
}

type property struct {
	name   string
	typ    string
	offset int
}

type header struct {
	count    int
	stride   int
	props    map[string]property
	dataFrom int
}

// LoadPLY reads a binary little-endian PLY file produced by 3D Gaussian
// splatting trainers. Only the DC color term is imported.
func LoadPLY(path string) (*Memory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ply: read %s: %w", path, err)
	}

	splats, err := ParsePLY(raw)
	if err != nil {
		return nil, fmt.Errorf("ply: %s: %w", path, err)
	}
	return NewMemory(splats), nil
}

// ParsePLY decodes the vertex element of an in-memory PLY file.
func ParsePLY(raw []byte) ([]Splat, error) {
	h, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}

	need := h.dataFrom + h.count*h.stride
	if need > len(raw) {
		return nil, fmt.Errorf("truncated vertex data: need %d bytes, have %d", need, len(raw))
	}

	r := &reader{data: raw, props: h.props}
	splats := make([]Splat, h.count)
	for i := 0; i < h.count; i++ {
		r.base = h.dataFrom + i*h.stride

		s := &splats[i]
		s.Position = mathutil.Vec3{r.read("x"), r.read("y"), r.read("z")}
		s.Scale = mathutil.Vec3{
			math.Exp(r.read("scale_0")),
			math.Exp(r.read("scale_1")),
			math.Exp(r.read("scale_2")),
		}
		// rot_0 is the scalar part
		s.Rotation = mathutil.Quat{r.read("rot_1"), r.read("rot_2"), r.read("rot_3"), r.read("rot_0")}.Normalize()
		for k := 0; k < 3; k++ {
			s.Color[k] = float32(clamp01(0.5 + shC0*r.read("f_dc_"+strconv.Itoa(k))))
		}
		s.Opacity = float32(1.0 / (1.0 + math.Exp(-r.read("opacity"))))
	}

	return splats, nil
}

func parseHeader(raw []byte) (*header, error) {
	end := bytes.Index(raw, []byte("end_header\n"))
	if end < 0 || !bytes.HasPrefix(raw, []byte("ply\n")) {
		return nil, fmt.Errorf("invalid header")
	}

	h := &header{
		props:    make(map[string]property),
		dataFrom: end + len("end_header\n"),
	}

	lines := strings.Split(string(raw[:end]), "\n")
	element := ""
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 || fields[1] != "binary_little_endian" {
				return nil, fmt.Errorf("unsupported format %q", strings.Join(fields[1:], " "))
			}
		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("malformed element line %q", line)
			}
			if element == "" && fields[1] != "vertex" {
				return nil, fmt.Errorf("expected vertex as first element; got %q", fields[1])
			}
			element = fields[1]
			if element == "vertex" {
				n, err := strconv.Atoi(fields[2])
				if err != nil || n < 0 {
					return nil, fmt.Errorf("invalid vertex count %q", fields[2])
				}
				h.count = n
			}
		case "property":
			if element != "vertex" {
				continue
			}
			if len(fields) != 3 {
				return nil, fmt.Errorf("unsupported property line %q", line)
			}
			size, ok := propSizes[fields[1]]
			if !ok {
				return nil, fmt.Errorf("unsupported property type %q", fields[1])
			}
			h.props[fields[2]] = property{name: fields[2], typ: fields[1], offset: h.stride}
			h.stride += size
		}
	}

	for _, name := range requiredProps {
		if _, ok := h.props[name]; !ok {
			return nil, fmt.Errorf("missing vertex property %q", name)
		}
	}

	return h, nil
}

type reader struct {
	data  []byte
	base  int
	props map[string]property
}

func (r *reader) read(name string) float64 {
	p := r.props[name]
	b := r.data[r.base+p.offset:]
	switch p.typ {
	case "float", "float32":
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case "double", "float64":
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	case "char", "int8":
		return float64(int8(b[0]))
	case "uchar", "uint8":
		return float64(b[0])
	case "short", "int16":
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case "ushort", "uint16":
		return float64(binary.LittleEndian.Uint16(b))
	case "int", "int32":
		return float64(int32(binary.LittleEndian.Uint32(b)))
	default:
		return float64(binary.LittleEndian.Uint32(b))
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
