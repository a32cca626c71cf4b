package host

import (
	"time"

	"gs-streamer/internal/log"
	"gs-streamer/internal/render"
)

var logger = log.New("host")

// App is the frame loop driven by a host. *session.Session implements it.
type App interface {
	Tick(now time.Time, dt time.Duration) render.FrameStats
	OnResize(width, height int)
	SetPaused(paused bool)
	Paused() bool
}

// clock measures the time between ticks.
type clock struct {
	last time.Time
}

func (c *clock) step(now time.Time) time.Duration {
	var dt time.Duration
	if !c.last.IsZero() {
		dt = now.Sub(c.last)
	}
	c.last = now
	return dt
}
