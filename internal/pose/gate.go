package pose

// GateStats counts what the gate has seen.
type GateStats struct {
	Polls      uint64
	Accepted   uint64
	Duplicates uint64
}

// Gate turns pose arrivals into render requests. Each pose identity is
// admitted at most once; a poll with nothing new is the normal signal to
// skip the frame.
type Gate struct {
	src   Source
	last  int64
	stats GateStats
}

// NewGate wraps a pose source.
func NewGate(src Source) *Gate {
	return &Gate{src: src, last: NoPose}
}

// Poll never blocks. It returns the latest unconsumed pose and true, or a
// NoPose value and false.
func (g *Gate) Poll() (Pose, bool) {
	g.stats.Polls++

	p := g.src.Poll()
	if !p.Valid() {
		return Pose{ID: NoPose}, false
	}
	if p.ID == g.last {
		g.stats.Duplicates++
		return Pose{ID: NoPose}, false
	}

	g.last = p.ID
	g.stats.Accepted++
	return p, true
}

// Last returns the identity of the most recently admitted pose.
func (g *Gate) Last() int64 {
	return g.last
}

func (g *Gate) Stats() GateStats {
	return g.stats
}
