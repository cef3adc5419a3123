package envelope

import (
	"errors"
	"math"
	"testing"
)

func TestCurveShiftScale(t *testing.T) {
	c := sampleCurve(t)
	shifted := c.Shifted(2)
	if !shifted.IsShiftedVersionOf(c) {
		t.Error("shifted curve isn't a shifted version of the original")
	}
	assertNearFloat(t, shifted.Integrate(0, 5), c.Integrate(0, 5)+10, 1e-12)

	scaled := c.Scaled(-0.5)
	neg := c.Negated()
	for i := 0; i <= 50; i++ {
		x := float64(i) / 10
		assertNearFloat(t, scaled.ValueAt(x), -0.5*c.ValueAt(x), 1e-12)
		assertNearFloat(t, neg.ValueAt(x), -c.ValueAt(x), 1e-12)
	}
	diff(t, c.Shapes(), neg.Shapes())
	diff(t, sampleCurve(t).Levels(), c.Levels())
}

func TestAlignGrids(t *testing.T) {
	a, err := FromLevels([]float64{0, 1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	b := mustCurve(t, []float64{1, 2, 3}, []float64{0.5, 1.5}, []Shape{Linear, ShapeOf(2)})

	a2, b2, err := AlignGrids(a, b)
	if err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, a2)
	checkInvariants(t, b2)
	diff(t, []float64{0.5, 0.5, 1}, a2.Durations())
	diff(t, a2.Durations(), b2.Durations())
	for i := 0; i <= 40; i++ {
		x := float64(i) / 20
		assertNearFloat(t, a2.ValueAt(x), a.ValueAt(x), 1e-12)
		assertNearFloat(t, b2.ValueAt(x), b.ValueAt(x), 1e-12)
	}
	if a.NumSegments() != 2 || b.NumSegments() != 2 {
		t.Error("AlignGrids modified its arguments")
	}

	if _, _, err := AlignGrids(a, Constant(1)); !errors.Is(err, ErrRangeMismatch) {
		t.Errorf("got error %v, expected ErrRangeMismatch", err)
	}
}

func TestAlignGridsJump(t *testing.T) {
	a := mustCurve(t, []float64{0, 1, 3, 3}, []float64{1, 0, 1}, nil)
	b := mustCurve(t, []float64{0, 2}, []float64{2}, nil)
	a2, b2, err := AlignGrids(a, b)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{1, 0, 1}, a2.Durations())
	diff(t, []float64{1, 0, 1}, b2.Durations())
	diff(t, []float64{0, 1, 1, 2}, b2.Levels())

	sum, err := a2.Add(b2)
	if err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, sum)
	diff(t, []float64{0, 2, 4, 5}, sum.Levels(), approx)
	assertNearFloat(t, sum.ValueAt(1), 4, 1e-12)
}

func TestCurveAdd(t *testing.T) {
	a, err := FromLevels([]float64{0, 1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	b := mustCurve(t, []float64{1, 3}, []float64{2}, []Shape{ShapeOf(2)})
	a, b, err = AlignGrids(a, b)
	if err != nil {
		t.Fatal(err)
	}

	sum, err := a.Add(b)
	if err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, sum)
	assertNearFloat(t, sum.Length(), 2, 0)
	assertNearFloat(t, sum.StartLevel(), 1, 0)
	assertNearFloat(t, sum.EndLevel(), 3, 0)
	for i := 0; i <= 100; i++ {
		x := float64(i) / 50
		if d := math.Abs(sum.ValueAt(x) - (a.ValueAt(x) + b.ValueAt(x))); d > 0.05 {
			t.Errorf("at %v: sum off by %v", x, d)
		}
	}

	sum2, b2, err := AlignGrids(sum, b)
	if err != nil {
		t.Fatal(err)
	}
	diffc, err := sum2.Sub(b2)
	if err != nil {
		t.Fatal(err)
	}
	assertNearFloat(t, diffc.StartLevel(), 0, 1e-12)
	assertNearFloat(t, diffc.EndLevel(), 0, 1e-12)

	if _, err := a.Add(Constant(1)); !errors.Is(err, ErrRangeMismatch) {
		t.Errorf("got error %v, expected ErrRangeMismatch", err)
	}
}

func TestCurveMulDiv(t *testing.T) {
	a := mustCurve(t, []float64{1, 2, 2}, []float64{1, 1}, nil)
	b := mustCurve(t, []float64{2, 2, 4}, []float64{1, 1}, []Shape{Linear, ProportionalRate})

	prod, err := a.Mul(b)
	if err != nil {
		t.Fatal(err)
	}
	quot, err := prod.Div(b)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i <= 20; i++ {
		x := float64(i) / 10
		if d := math.Abs(prod.ValueAt(x) - a.ValueAt(x)*b.ValueAt(x)); d > 0.05 {
			t.Errorf("product at %v off by %v", x, d)
		}
	}
	assertNearFloat(t, quot.StartLevel(), 1, 1e-12)
	assertNearFloat(t, quot.EndLevel(), 2, 1e-12)

	zero := mustCurve(t, []float64{1, 0, 1}, []float64{1, 1}, nil)
	if _, err := a.Div(zero); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("got error %v, expected ErrDivideByZero", err)
	}
}
