package envelope

import (
	"testing"
)

func TestRectFromPoints(t *testing.T) {
	r := NewRectFromPoints(Pt(10, 0), Pt(0, 20))
	if want := (Rect{0, 0, 10, 20}); r != want {
		t.Errorf("got %v, want %v", r, want)
	}
	if w, h := r.Width(), r.Height(); w != 10 || h != 20 {
		t.Errorf("got size %vx%v, want 10x20", w, h)
	}
}

func TestRectInflate(t *testing.T) {
	r := Rect{0, 0, 10, 20}
	if got, want := r.Inflate(1, 2), (Rect{-1, -2, 11, 22}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCurveBoundingBox(t *testing.T) {
	// Levels below zero keep the box ordered.
	c := mustCurve(t, []float64{-2, 3, -4}, []float64{1, 2}, nil)
	if got, want := c.BoundingBox(), (Rect{0, -4, 3, 3}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	var zero Curve
	if got, want := zero.BoundingBox(), (Rect{}); got != want {
		t.Errorf("zero curve: got %v, want %v", got, want)
	}
}
