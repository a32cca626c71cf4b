package stream

import (
	"sync"
	"time"
)

// Stats is a snapshot of streamer activity.
type Stats struct {
	Sent    uint64
	Dropped uint64
	Failed  uint64

	// Frames per second measured by the last report interval.
	FrameRate float64

	// Moving averages per frame.
	Transfer time.Duration
	Encode   time.Duration
	Send     time.Duration

	Connected   bool
	LastFrameID int64
}

// Stats returns the current statistics.
func (s *Streamer) Stats() Stats {
	return Stats{
		Sent:        s.sent.Load(),
		Dropped:     s.dropped.Load(),
		Failed:      s.failed.Load(),
		FrameRate:   s.timings.rate(),
		Transfer:    s.timings.transfer.value(),
		Encode:      s.timings.encode.value(),
		Send:        s.timings.send.value(),
		Connected:   s.connected.Load(),
		LastFrameID: s.lastSent.Load(),
	}
}

// Weight of a new sample in the moving averages.
const avgWeight = 0.1

type movingAvg struct {
	mu  sync.Mutex
	avg float64
	n   int
}

func (m *movingAvg) observe(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.n == 0 {
		m.avg = float64(d)
	} else {
		m.avg += avgWeight * (float64(d) - m.avg)
	}
	m.n++
}

func (m *movingAvg) value() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Duration(m.avg)
}

type timings struct {
	transfer movingAvg
	encode   movingAvg
	send     movingAvg

	mu  sync.Mutex
	fps float64
}

func (t *timings) setRate(fps float64) {
	t.mu.Lock()
	t.fps = fps
	t.mu.Unlock()
}

func (t *timings) rate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fps
}
