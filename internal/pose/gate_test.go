package pose

import "testing"

type queueSource struct {
	ids []int64
}

func (q *queueSource) Poll() Pose {
	if len(q.ids) == 0 {
		return Pose{ID: NoPose}
	}
	id := q.ids[0]
	q.ids = q.ids[1:]
	return Pose{ID: id}
}

func TestGate(t *testing.T) {
	src := &queueSource{ids: []int64{NoPose, 0, 0, 7, NoPose, 8, -5}}
	g := NewGate(src)

	type result struct {
		id int64
		ok bool
	}
	exp := []result{
		{NoPose, false},
		{0, true},
		{NoPose, false}, // duplicate
		{7, true},
		{NoPose, false},
		{8, true},
		{NoPose, false}, // negative ids are never valid
		{NoPose, false}, // drained
	}

	for i, e := range exp {
		p, ok := g.Poll()
		if p.ID != e.id || ok != e.ok {
			t.Fatalf("[poll %d] expected (%d, %t); got (%d, %t)", i, e.id, e.ok, p.ID, ok)
		}
	}

	if g.Last() != 8 {
		t.Fatalf("expected last admitted pose 8; got %d", g.Last())
	}
	stats := g.Stats()
	if stats.Polls != uint64(len(exp)) || stats.Accepted != 3 || stats.Duplicates != 1 {
		t.Fatalf("unexpected gate stats %+v", stats)
	}
}

func TestGateStartsWithoutPose(t *testing.T) {
	g := NewGate(&queueSource{})
	if g.Last() != NoPose {
		t.Fatalf("expected last pose %d; got %d", NoPose, g.Last())
	}
	if _, ok := g.Poll(); ok {
		t.Fatal("expected no pose from an empty source")
	}
}

func TestOnce(t *testing.T) {
	g := NewGate(Once(Pose{ID: 5}))
	if p, ok := g.Poll(); !ok || p.ID != 5 {
		t.Fatalf("expected pose 5; got (%d, %t)", p.ID, ok)
	}
	if _, ok := g.Poll(); ok {
		t.Fatal("expected the pose to be delivered once")
	}
}
