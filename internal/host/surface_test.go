package host

import "testing"

func TestWindowResize(t *testing.T) {
	w := NewWindow(64, 32)
	first := w.Canvas()

	w.resize(64, 32)
	if w.Canvas() != first {
		t.Fatal("expected canvas to be kept for an unchanged size")
	}

	w.resize(128, 48)
	if b := w.Canvas().Bounds(); b.Dx() != 128 || b.Dy() != 48 {
		t.Fatalf("expected 128x48 canvas; got %v", b)
	}
}
