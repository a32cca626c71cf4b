package pose

import "gs-streamer/internal/camera"

// NoPose is the identity reported when no new pose is available. Valid
// pose identities are never negative.
const NoPose int64 = -1

// Pose is a camera pose sample tagged with the identity it was sent with.
type Pose struct {
	ID int64

	// One entry for a mono camera or a shared stereo pose, two for
	// independent left and right eyes.
	Eyes []camera.EyePose
}

// Valid reports whether p carries a real identity.
func (p Pose) Valid() bool {
	return p.ID >= 0
}

// Source is a non-blocking pose provider. Poll returns a pose with ID
// NoPose when nothing new arrived since the previous call.
type Source interface {
	Poll() Pose
}

type onceSource struct {
	p    Pose
	done bool
}

// Once returns a Source that delivers p on the first poll only.
func Once(p Pose) Source {
	return &onceSource{p: p}
}

func (s *onceSource) Poll() Pose {
	if s.done {
		return Pose{ID: NoPose}
	}
	s.done = true
	return s.p
}
