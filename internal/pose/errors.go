package pose

import "errors"

var (
	ErrInvalidPose = errors.New("pose: invalid pose")
	ErrClosed      = errors.New("pose: receiver closed")
)
