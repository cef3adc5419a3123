package envelope

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// approx compares floats with an absolute and relative tolerance of 1e-9.
var approx = cmpopts.EquateApprox(1e-9, 1e-9)

func assertNearFloat(t *testing.T, got, want, epsilon float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Fatalf("got %v, expected %v", got, want)
	}
}

func mustCurve(t *testing.T, levels, durations []float64, shapes []Shape) *Curve {
	t.Helper()
	c, err := New(levels, durations, shapes)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mustSegment(t *testing.T, t0, t1, l0, l1 float64, shape Shape) Segment {
	t.Helper()
	seg, err := NewSegment(t0, t1, l0, l1, shape)
	if err != nil {
		t.Fatal(err)
	}
	return seg
}

// checkInvariants verifies the structural invariants every curve maintains.
func checkInvariants(t *testing.T, c *Curve) {
	t.Helper()
	if len(c.segs) == 0 {
		t.Fatal("curve has no segments")
	}
	if c.segs[0].t0 != 0 {
		t.Fatalf("first segment starts at %v", c.segs[0].t0)
	}
	for i := 1; i < len(c.segs); i++ {
		if c.segs[i].t0 != c.segs[i-1].t1 {
			t.Fatalf("segment %d starts at %v but segment %d ends at %v", i, c.segs[i].t0, i-1, c.segs[i-1].t1)
		}
		if c.segs[i].t1 < c.segs[i].t0 {
			t.Fatalf("segment %d has negative duration", i)
		}
	}
}

// sampleCurve is a curve with linear, late, early, proportional and jump
// segments.
func sampleCurve(t *testing.T) *Curve {
	t.Helper()
	return mustCurve(t,
		[]float64{1, 3, 2, 4, 5, 4},
		[]float64{1, 0.5, 0, 2, 1.5},
		[]Shape{Linear, ShapeOf(2), Linear, ProportionalRate, ShapeOf(-3)},
	)
}
