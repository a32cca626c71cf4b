package host

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	// Poll rate when no wake signal arrives.
	Hz int
	// Stop after this many ticks. Zero runs until ctx is done.
	Ticks uint64
	// Optional signal that triggers an immediate tick, e.g. a pose arrival.
	Wake <-chan struct{}
}

// RunHeadless ticks app until ctx is cancelled. A tick always completes
// before cancellation is observed.
func RunHeadless(ctx context.Context, app App, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("host: invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	logger.Noticef("running headless at %d Hz", cfg.Hz)

	var (
		clk  clock
		tick uint64
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		case <-cfg.Wake:
		}

		now := time.Now()
		app.Tick(now, clk.step(now))
		tick++
		if cfg.Ticks > 0 && tick >= cfg.Ticks {
			return nil
		}
	}
}
