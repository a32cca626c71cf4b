package pose

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"gs-streamer/internal/camera"
)

// Datagram layout, one pose per UDP packet:
//
//	{"id": 42, "eyes": [{"position": [x, y, z], "orientation": [w, x, y, z]}]}
type wirePose struct {
	ID   *int64    `json:"id"`
	Eyes []wireEye `json:"eyes"`
}

type wireEye struct {
	Position    [3]float32 `json:"position"`
	Orientation [4]float32 `json:"orientation"`
}

// Decode parses and validates a pose datagram.
func Decode(data []byte) (Pose, error) {
	var w wirePose
	if err := json.Unmarshal(data, &w); err != nil {
		return Pose{}, fmt.Errorf("%w: %w", ErrInvalidPose, err)
	}
	if w.ID == nil {
		return Pose{}, fmt.Errorf("%w: missing id", ErrInvalidPose)
	}
	if *w.ID < 0 {
		return Pose{}, fmt.Errorf("%w: negative id %d", ErrInvalidPose, *w.ID)
	}
	if len(w.Eyes) == 0 || len(w.Eyes) > 2 {
		return Pose{}, fmt.Errorf("%w: expected 1 or 2 eyes; got %d", ErrInvalidPose, len(w.Eyes))
	}

	p := Pose{ID: *w.ID, Eyes: make([]camera.EyePose, len(w.Eyes))}
	for i, e := range w.Eyes {
		if !finite(e.Position[:]) || !finite(e.Orientation[:]) {
			return Pose{}, fmt.Errorf("%w: eye %d has non-finite values", ErrInvalidPose, i)
		}
		q := mgl32.Quat{W: e.Orientation[0], V: mgl32.Vec3{e.Orientation[1], e.Orientation[2], e.Orientation[3]}}
		if q.Len() == 0 {
			return Pose{}, fmt.Errorf("%w: eye %d has a zero orientation", ErrInvalidPose, i)
		}
		p.Eyes[i] = camera.EyePose{
			Position:    mgl32.Vec3(e.Position),
			Orientation: q.Normalize(),
		}
	}
	return p, nil
}

// Encode serializes a pose into the datagram format read by Decode.
func Encode(p Pose) ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: negative id %d", ErrInvalidPose, p.ID)
	}
	id := p.ID
	w := wirePose{ID: &id, Eyes: make([]wireEye, len(p.Eyes))}
	for i, e := range p.Eyes {
		w.Eyes[i] = wireEye{
			Position:    [3]float32(e.Position),
			Orientation: [4]float32{e.Orientation.W, e.Orientation.V[0], e.Orientation.V[1], e.Orientation.V[2]},
		}
	}
	return json.Marshal(w)
}

func finite(vals []float32) bool {
	for _, v := range vals {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
