package envelope

import (
	"fmt"
	"iter"
	"math"
)

// Segment is one piece of a [Curve]. It moves from StartLevel at StartTime to
// EndLevel at EndTime along
//
//	y(u) = l0 + (l1 - l0) / (e^S - 1) * (e^(S*u) - 1)
//
// where u ∈ [0, 1] is the normalized time within the segment and S is the
// shape parameter. As S approaches 0 this becomes linear interpolation, and
// S = ln(l1/l0) gives constant proportional change.
//
// A segment with StartTime == EndTime is a jump.
//
// The zero value is a zero-length segment at time 0 and level 0.
type Segment struct {
	t0, t1 float64
	l0, l1 float64
	s      float64

	// Coefficients of the antiderivative a*u + b*e^(S*u). They are kept in
	// sync by every method that changes l0, l1 or s.
	a, b float64
}

// NewSegment returns the segment from (t0, l0) to (t1, l1) with the given
// shape.
func NewSegment(t0, t1, l0, l1 float64, shape Shape) (Segment, error) {
	if t1 < t0 {
		return Segment{}, fmt.Errorf("%w: segment from %g to %g", ErrNegativeDuration, t0, t1)
	}
	s, err := shape.Resolve(l0, l1)
	if err != nil {
		return Segment{}, err
	}
	return newSegment(t0, t1, l0, l1, s), nil
}

func newSegment(t0, t1, l0, l1, s float64) Segment {
	seg := Segment{t0: t0, t1: t1, l0: l0, l1: l1, s: s}
	seg.updateCoefficients()
	return seg
}

// NewSegmentFromMidpoint returns the segment from (t0, l0) to (t1, l1) whose
// shape makes it pass through mid halfway between t0 and t1.
//
// mid must lie strictly between l0 and l1.
func NewSegmentFromMidpoint(t0, t1, l0, l1, mid float64) (Segment, error) {
	if t1 < t0 {
		return Segment{}, fmt.Errorf("%w: segment from %g to %g", ErrNegativeDuration, t0, t1)
	}
	if !(min(l0, l1) < mid && mid < max(l0, l1)) {
		return Segment{}, fmt.Errorf("%w: midpoint level %g is not strictly between %g and %g", ErrDomain, mid, l0, l1)
	}
	// y(1/2) normalized to [0, 1] is 1 / (e^(S/2) + 1).
	u := (mid - l0) / (l1 - l0)
	return newSegment(t0, t1, l0, l1, 2*math.Log(1/u-1)), nil
}

func (seg *Segment) updateCoefficients() {
	if isLinear(seg.s) {
		seg.a, seg.b = 0, 0
		return
	}
	d := seg.l1 - seg.l0
	em1 := math.Expm1(seg.s)
	seg.a = seg.l0 - d/em1
	seg.b = d / (seg.s * em1)
}

func (seg Segment) StartTime() float64  { return seg.t0 }
func (seg Segment) EndTime() float64    { return seg.t1 }
func (seg Segment) Duration() float64   { return seg.t1 - seg.t0 }
func (seg Segment) StartLevel() float64 { return seg.l0 }
func (seg Segment) EndLevel() float64   { return seg.l1 }

// Shape returns the resolved shape parameter S.
func (seg Segment) Shape() float64 { return seg.s }

func (seg Segment) String() string {
	return fmt.Sprintf("Segment(%g, %g, %g, %g, %g)", seg.t0, seg.t1, seg.l0, seg.l1, seg.s)
}

// contains reports whether t ∈ [StartTime, EndTime). Jumps contain nothing.
func (seg Segment) contains(t float64) bool {
	return seg.t0 <= t && t < seg.t1
}

// ValueAt returns the level at time t. Times outside the segment return the
// nearest endpoint level.
func (seg Segment) ValueAt(t float64) float64 {
	if t >= seg.t1 {
		return seg.l1
	}
	if t <= seg.t0 {
		return seg.l0
	}
	return seg.eval((t - seg.t0) / (seg.t1 - seg.t0))
}

// Extrapolate is like [Segment.ValueAt] but continues the segment's formula
// beyond its endpoints.
func (seg Segment) Extrapolate(t float64) float64 {
	if seg.t1 == seg.t0 {
		if t < seg.t0 {
			return seg.l0
		}
		return seg.l1
	}
	return seg.eval((t - seg.t0) / (seg.t1 - seg.t0))
}

// eval evaluates the segment at normalized time u.
func (seg Segment) eval(u float64) float64 {
	if isLinear(seg.s) {
		return seg.l0 + u*(seg.l1-seg.l0)
	}
	return seg.l0 + (seg.l1-seg.l0)/math.Expm1(seg.s)*math.Expm1(seg.s*u)
}

func (seg Segment) antiderivative(u float64) float64 {
	return seg.a*u + seg.b*math.Exp(seg.s*u)
}

// Integrate returns the definite integral of the segment from t1 to t2. Both
// bounds must lie within [StartTime, EndTime].
func (seg Segment) Integrate(t1, t2 float64) (float64, error) {
	if t1 < seg.t0 || t1 > seg.t1 || t2 < seg.t0 || t2 > seg.t1 {
		return 0, fmt.Errorf("%w: integration bounds [%g, %g] outside segment [%g, %g]", ErrOutOfRange, t1, t2, seg.t0, seg.t1)
	}
	return seg.integrate(t1, t2), nil
}

func (seg Segment) integrate(t1, t2 float64) float64 {
	if t1 == t2 {
		return 0
	}
	dur := seg.t1 - seg.t0
	u1 := (t1 - seg.t0) / dur
	u2 := (t2 - seg.t0) / dur
	if isLinear(seg.s) {
		y1 := (1-u1)*seg.l0 + u1*seg.l1
		y2 := (1-u2)*seg.l0 + u2*seg.l1
		return (t2 - t1) * (y1 + y2) / 2
	}
	return dur * (seg.antiderivative(u2) - seg.antiderivative(u1))
}

// SplitAt splits the segment at t, which must lie strictly inside it. The
// receiver becomes the part before t and the part after t is returned. Both
// parts together describe exactly the same function as the original.
func (seg *Segment) SplitAt(t float64) (Segment, error) {
	if !(seg.t0 < t && t < seg.t1) {
		return Segment{}, fmt.Errorf("%w: cannot split segment [%g, %g] at %g", ErrOutOfRange, seg.t0, seg.t1, t)
	}
	mid := seg.ValueAt(t)
	// S measures how much of e^x the segment traverses, so it divides
	// proportionally.
	s1 := (t - seg.t0) / (seg.t1 - seg.t0) * seg.s
	second := newSegment(t, seg.t1, mid, seg.l1, seg.s-s1)

	seg.t1 = t
	seg.l1 = mid
	seg.s = s1
	seg.updateCoefficients()
	return second, nil
}

// ShiftVertical adds d to both levels.
func (seg *Segment) ShiftVertical(d float64) {
	seg.l0 += d
	seg.l1 += d
	seg.updateCoefficients()
}

// ScaleVertical multiplies both levels by k.
func (seg *Segment) ScaleVertical(k float64) {
	seg.l0 *= k
	seg.l1 *= k
	seg.updateCoefficients()
}

func (seg *Segment) setEndLevel(l float64) {
	seg.l1 = l
	seg.updateCoefficients()
}

func (seg *Segment) setShape(s float64) {
	seg.s = s
	seg.updateCoefficients()
}

// Shifted returns a copy of the segment with d added to both levels.
func (seg Segment) Shifted(d float64) Segment {
	seg.ShiftVertical(d)
	return seg
}

// Scaled returns a copy of the segment with both levels multiplied by k.
func (seg Segment) Scaled(k float64) Segment {
	seg.ScaleVertical(k)
	return seg
}

// Negated returns the segment mirrored around level 0. The shape is unchanged.
func (seg Segment) Negated() Segment {
	return newSegment(seg.t0, seg.t1, -seg.l0, -seg.l1, seg.s)
}

// MaxLevel returns the larger of the two levels. Segments are monotonic, so
// this is the maximum over the whole segment.
func (seg Segment) MaxLevel() float64 { return max(seg.l0, seg.l1) }

// MinLevel returns the smaller of the two levels.
func (seg Segment) MinLevel() float64 { return min(seg.l0, seg.l1) }

// AverageLevel returns the mean level over the segment. Jumps report their
// end level.
func (seg Segment) AverageLevel() float64 {
	if seg.t1 == seg.t0 {
		return seg.l1
	}
	return seg.integrate(seg.t0, seg.t1) / (seg.t1 - seg.t0)
}

// MaxAbsSlope returns the largest absolute rate of change within the segment.
// Jumps are discontinuities and report 0.
func (seg Segment) MaxAbsSlope() float64 {
	dur := seg.t1 - seg.t0
	if dur == 0 {
		return 0
	}
	avg := math.Abs(seg.l1-seg.l0) / dur
	if isLinear(seg.s) {
		return avg
	}
	// The steepest point of e^x over [0, |S|] is e^|S|; scale it by the
	// ratio of our average slope to that of e^x.
	s := math.Abs(seg.s)
	return math.Exp(s) * avg * s / math.Expm1(s)
}

// IsShiftedVersionOf reports whether seg equals o moved vertically by some
// constant.
func (seg Segment) IsShiftedVersionOf(o Segment) bool {
	return seg.t0 == o.t0 && seg.t1 == o.t1 &&
		seg.l0-o.l0 == seg.l1-o.l1 &&
		seg.s == o.s
}

// Samples returns n evenly spaced samples of the segment, plus the end point
// if endpoint is true.
func (seg Segment) Samples(n int, endpoint bool) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if n <= 0 {
			return
		}
		if seg.t1 == seg.t0 {
			// A jump is drawn as a vertical step.
			_ = yield(Pt(seg.t0, seg.l0)) && yield(Pt(seg.t1, seg.l1))
			return
		}
		last := n
		if !endpoint {
			last--
		}
		dur := seg.t1 - seg.t0
		for i := 0; i <= last; i++ {
			t := seg.t0 + float64(i)/float64(n)*dur
			if !yield(Pt(t, seg.ValueAt(t))) {
				return
			}
		}
	}
}
