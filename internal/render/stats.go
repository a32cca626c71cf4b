package render

import "fmt"

// FrameStats holds the counters of a rendered frame.
type FrameStats struct {
	// Splats submitted to the backend, summed over all passes.
	Splats int

	// Backend sort + rasterize passes.
	DrawCalls int
}

// Add returns the sum of two stats.
func (s FrameStats) Add(o FrameStats) FrameStats {
	return FrameStats{
		Splats:    s.Splats + o.Splats,
		DrawCalls: s.DrawCalls + o.DrawCalls,
	}
}

// Empty reports whether nothing was drawn.
func (s FrameStats) Empty() bool {
	return s.DrawCalls == 0
}

func (s FrameStats) String() string {
	return fmt.Sprintf("%d splats in %d draw calls", s.Splats, s.DrawCalls)
}
