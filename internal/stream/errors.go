package stream

import "errors"

var (
	ErrSinkClosed    = errors.New("stream: sink closed")
	ErrFrameTooLarge = errors.New("stream: frame payload too large")
	ErrUnknownFormat = errors.New("stream: unknown image format")
)
