//go:build !cgo

package host

import (
	"context"
	"errors"
)

func RunWindow(_ context.Context, _ App, _ *Window, _ WindowConfig) error {
	return errors.New("host: window mode requires cgo (build/run with CGO_ENABLED=1)")
}
