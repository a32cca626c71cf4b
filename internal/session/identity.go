package session

import "gs-streamer/internal/pose"

// FrameIdentity holds the id of the pose whose frame is being produced.
// It is set when a pose is accepted and read when the frame is sent.
type FrameIdentity struct {
	id int64
}

// NewFrameIdentity starts out with no pose.
func NewFrameIdentity() *FrameIdentity {
	return &FrameIdentity{id: pose.NoPose}
}

func (f *FrameIdentity) Set(id int64) {
	f.id = id
}

func (f *FrameIdentity) Current() int64 {
	return f.id
}
