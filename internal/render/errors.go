package render

import "errors"

var (
	ErrBackendInit = errors.New("render: backend initialization failed")
	ErrNoCloud     = errors.New("render: no splat cloud loaded")
	ErrEmptyCloud  = errors.New("render: splat cloud is empty")
)
