package envelope

import (
	"fmt"
	"iter"
	"math"
	"slices"
)

// Curve is a time-varying level made of contiguous segments covering
// [0, Length()].
//
// The segments are sorted, the first one starts at time 0, each one starts
// where the previous one ends, and there is always at least one. Levels
// before time 0 and after Length() are the start and end levels.
//
// The zero value is a zero-length curve at level 0.
//
// A Curve must not be mutated concurrently with any other use. Concurrent
// reads are safe.
type Curve struct {
	segs []Segment
}

// New returns the curve passing through levels, spending durations[i] going
// from levels[i] to levels[i+1] with shape shapes[i]. shapes may be nil, in
// which case all segments are linear.
//
// A single level with no durations yields a zero-length curve at that level.
func New(levels, durations []float64, shapes []Shape) (*Curve, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	if len(levels) == 1 {
		levels = []float64{levels[0], levels[0]}
		if len(durations) == 0 {
			durations = []float64{0}
		}
	}
	n := len(levels) - 1
	if len(durations) != n {
		return nil, fmt.Errorf("%w: %d levels and %d durations", ErrCountMismatch, len(levels), len(durations))
	}
	if shapes != nil && len(shapes) != n {
		return nil, fmt.Errorf("%w: %d levels and %d shapes", ErrCountMismatch, len(levels), len(shapes))
	}

	segs := make([]Segment, n)
	t := 0.0
	for i := range n {
		shape := Linear
		if shapes != nil {
			shape = shapes[i]
		}
		if durations[i] < 0 {
			return nil, fmt.Errorf("%w: duration %d is %g", ErrNegativeDuration, i, durations[i])
		}
		seg, err := NewSegment(t, t+durations[i], levels[i], levels[i+1], shape)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segs[i] = seg
		t += durations[i]
	}
	return &Curve{segs: segs}, nil
}

// FromLevels returns the linear curve through levels, evenly spaced over
// [0, length].
func FromLevels(levels []float64, length float64) (*Curve, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	if len(levels) == 1 {
		levels = []float64{levels[0], levels[0]}
	}
	durations := make([]float64, len(levels)-1)
	for i := range durations {
		durations[i] = length / float64(len(durations))
	}
	return New(levels, durations, nil)
}

// Constant returns the zero-length curve at level.
func Constant(level float64) *Curve {
	return &Curve{segs: []Segment{newSegment(0, 0, level, level, 0)}}
}

// NewCurveFromSegments returns the curve made of segs, which must be
// contiguous. The first segment may start at any time; the curve is moved so
// that it starts at 0. This is how the pieces returned by [Segment.Add] and
// friends become a curve.
func NewCurveFromSegments(segs []Segment) (*Curve, error) {
	if len(segs) == 0 {
		return nil, ErrNoLevels
	}
	out := slices.Clone(segs)
	off := out[0].t0
	for i := range out {
		if i > 0 && out[i].t0 != segs[i-1].t1 {
			return nil, fmt.Errorf("%w: segment %d starts at %g but the previous one ends at %g",
				ErrRangeMismatch, i, out[i].t0, segs[i-1].t1)
		}
		out[i].t0 -= off
		out[i].t1 -= off
	}
	return &Curve{segs: out}, nil
}

// Clone returns a deep copy of the curve.
func (c *Curve) Clone() *Curve {
	return &Curve{segs: slices.Clone(c.view())}
}

// emptyCurve is what the zero Curve reads as. It must never be written.
var emptyCurve = []Segment{{}}

// view returns the segments of c. The zero Curve has none and reads as a
// zero-length curve at level 0.
func (c *Curve) view() []Segment {
	if len(c.segs) == 0 {
		return emptyCurve
	}
	return c.segs
}

// init gives the zero Curve its segment before it is mutated.
func (c *Curve) init() {
	if len(c.segs) == 0 {
		c.segs = []Segment{{}}
	}
}

func (c *Curve) last() *Segment {
	segs := c.view()
	return &segs[len(segs)-1]
}

// Length returns the end time of the curve.
func (c *Curve) Length() float64 { return c.last().t1 }

func (c *Curve) StartLevel() float64 { return c.view()[0].l0 }
func (c *Curve) EndLevel() float64   { return c.last().l1 }

// NumSegments returns the number of segments.
func (c *Curve) NumSegments() int { return len(c.view()) }

// Segment returns a copy of the i-th segment.
func (c *Curve) Segment(i int) Segment { return c.view()[i] }

// Segments returns an iterator over copies of the segments.
func (c *Curve) Segments() iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for _, seg := range c.view() {
			if !yield(seg) {
				return
			}
		}
	}
}

// Levels returns the start level of every segment followed by the end level.
func (c *Curve) Levels() []float64 {
	out := make([]float64, 0, len(c.view())+1)
	for _, seg := range c.view() {
		out = append(out, seg.l0)
	}
	return append(out, c.EndLevel())
}

// Durations returns the duration of every segment.
func (c *Curve) Durations() []float64 {
	out := make([]float64, len(c.view()))
	for i, seg := range c.view() {
		out[i] = seg.Duration()
	}
	return out
}

// Shapes returns the resolved shape parameter of every segment.
func (c *Curve) Shapes() []float64 {
	out := make([]float64, len(c.view()))
	for i, seg := range c.view() {
		out[i] = seg.s
	}
	return out
}

func (c *Curve) String() string {
	return fmt.Sprintf("Curve(%v, %v, %v)", c.Levels(), c.Durations(), c.Shapes())
}

// Insert adds a point at time t with the given level. in is the shape of the
// segment ending at t and out that of the segment starting at t.
//
// Past the end of the curve this appends a segment. Inside a segment it
// splits that segment in two. On an existing boundary it only updates the
// adjoining levels and shapes.
func (c *Curve) Insert(t, level float64, in, out Shape) error {
	c.init()
	if t < 0 {
		return fmt.Errorf("%w: insert at %g", ErrNegativeTime, t)
	}
	if l := c.Length(); t > l {
		return c.AppendSegment(level, t-l, in, 0)
	}

	segs := slices.Clone(c.segs)
	for i := range segs {
		seg := &segs[i]
		if seg.t0 < t && t < seg.t1 {
			first, err := NewSegment(seg.t0, t, seg.l0, level, in)
			if err != nil {
				return err
			}
			second, err := NewSegment(t, seg.t1, level, seg.l1, out)
			if err != nil {
				return err
			}
			segs[i] = first
			segs = slices.Insert(segs, i+1, second)
			break
		}
		if t == seg.t0 {
			s, err := out.Resolve(level, seg.l1)
			if err != nil {
				return err
			}
			seg.l0 = level
			seg.setShape(s)
		}
		if t == seg.t1 {
			s, err := in.Resolve(seg.l0, level)
			if err != nil {
				return err
			}
			seg.l1 = level
			seg.setShape(s)
		}
	}
	c.segs = segs
	return nil
}

// InsertInterpolated adds a boundary at t without changing the value of the
// curve anywhere.
func (c *Curve) InsertInterpolated(t float64) error {
	c.init()
	if t < 0 || t > c.Length() {
		return fmt.Errorf("%w: cannot interpolate at %g in [0, %g]", ErrOutOfRange, t, c.Length())
	}
	for i := range c.segs {
		seg := &c.segs[i]
		if t == seg.t0 {
			return nil
		}
		if seg.t0 < t && t < seg.t1 {
			second, err := seg.SplitAt(t)
			if err != nil {
				panic("unreachable")
			}
			c.segs = slices.Insert(c.segs, i+1, second)
			return nil
		}
	}
	return nil
}

// AppendSegment extends the curve by a segment of the given duration ending
// at level.
//
// A trailing zero-length segment is replaced or turned into the new segment
// rather than kept. When both the trailing segment and the new one are
// linear and the trailing one, extended to the new end time, lands within
// tolerance of level, the trailing segment is stretched instead of adding a
// new one.
func (c *Curve) AppendSegment(level, duration float64, shape Shape, tolerance float64) error {
	c.init()
	if duration < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeDuration, duration)
	}
	end := c.Length() + duration
	last := c.last()
	s, err := shape.Resolve(c.EndLevel(), level)
	if err != nil {
		return err
	}

	switch {
	case last.Duration() == 0:
		if duration == 0 {
			last.setEndLevel(level)
			return nil
		}
		if last.l1 == last.l0 {
			last.t1 = end
			last.l1 = level
			last.setShape(s)
			return nil
		}
	case last.s == 0 && s == 0 && math.Abs(last.Extrapolate(end)-level) <= tolerance:
		last.t1 = end
		last.setEndLevel(level)
		return nil
	}
	c.segs = append(c.segs, newSegment(c.Length(), end, c.EndLevel(), level, s))
	return nil
}

// PopSegment removes the last segment and returns it. A curve is never
// empty: popping its only segment collapses it to zero length at its start
// level, and popping that fails with [ErrEmpty].
func (c *Curve) PopSegment() (Segment, error) {
	c.init()
	if len(c.segs) == 1 {
		seg := &c.segs[0]
		if seg.t1 == seg.t0 && seg.l1 == seg.l0 {
			return Segment{}, ErrEmpty
		}
		popped := *seg
		seg.t1 = seg.t0
		seg.setEndLevel(seg.l0)
		return popped, nil
	}
	popped := *c.last()
	c.segs = c.segs[:len(c.segs)-1]
	return popped, nil
}

// RemoveSegmentsAfter truncates the curve at t. A negative t removes
// everything that can be removed.
func (c *Curve) RemoveSegmentsAfter(t float64) {
	c.init()
	if t < 0 {
		for {
			if _, err := c.PopSegment(); err != nil {
				return
			}
		}
	}
	for _, seg := range c.segs {
		if t == seg.t0 || (seg.t0 < t && t < seg.t1) {
			if err := c.InsertInterpolated(t); err != nil {
				panic("unreachable")
			}
			for c.Length() > t {
				if _, err := c.PopSegment(); err != nil {
					return
				}
			}
			return
		}
	}
}

// ValueAt returns the level of the curve at time t. Before 0 and after the
// end the curve is flat.
func (c *Curve) ValueAt(t float64) float64 {
	if t < 0 {
		return c.StartLevel()
	}
	// Search backwards so that a jump reports the level after it.
	for i := len(c.view()) - 1; i >= 0; i-- {
		if c.view()[i].contains(t) {
			return c.view()[i].ValueAt(t)
		}
	}
	return c.EndLevel()
}

// Integrate returns the definite integral of the curve from t1 to t2. It is
// antisymmetric in its bounds, and the parts of [t1, t2] outside the curve
// are integrated at the start or end level.
func (c *Curve) Integrate(t1, t2 float64) float64 {
	if t1 == t2 {
		return 0
	}
	if t2 < t1 {
		return -c.Integrate(t2, t1)
	}
	if t1 < 0 {
		return -t1*c.StartLevel() + c.Integrate(0, t2)
	}
	if l := c.Length(); t2 > l {
		return (t2-l)*c.EndLevel() + c.Integrate(t1, l)
	}

	var area float64
	for i := c.searchStart(t1); i < len(c.view()); i++ {
		seg := &c.view()[i]
		if seg.t1 <= t1 {
			continue
		}
		if seg.t0 >= t2 {
			break
		}
		area += seg.integrate(max(t1, seg.t0), min(t2, seg.t1))
	}
	return area
}

// searchStart returns an index at or before the first segment that can
// contain t, narrowing long segment lists by bisection.
func (c *Curve) searchStart(t float64) int {
	start := 0
	for {
		next := start + (len(c.view())-start)/2
		if c.view()[next].t1 < t && len(c.view())-next > 3 {
			start = next
		} else {
			return start
		}
	}
}

// DefaultAccuracy is a default value for the maxError argument of
// [Curve.UpperIntegrationBound].
const DefaultAccuracy = 1e-6

// maxBoundIterations bounds the steps of [Curve.UpperIntegrationBound].
const maxBoundIterations = 10000

// UpperIntegrationBound returns a t2 such that Integrate(t1, t2) equals area
// to within maxError, never overshooting by more than rounding error. A
// maxError of 0 asks for an exact answer, which is found when the curve is
// flat where the search lands and may otherwise end in [ErrNoConvergence].
//
// Each step assumes the level stays at its value at the current position.
// When that undershoots, the search continues from the guess with the
// remaining area. When it overshoots, it backs off to the guess the maximum
// level over the stretch would give, which is sure to undershoot.
func (c *Curve) UpperIntegrationBound(t1, area, maxError float64) (float64, error) {
	for range maxBoundIterations {
		if area <= maxError {
			return t1, nil
		}
		level := c.ValueAt(t1)
		if !(level > 0) {
			return 0, fmt.Errorf("%w: level %g at %g", ErrNonPositiveLevel, level, t1)
		}
		guess := t1 + area/level
		got := c.Integrate(t1, guess)
		if got <= area {
			if area-got <= maxError {
				return guess, nil
			}
			t1, area = guess, area-got
			continue
		}
		conservative := t1 + level/c.MaxLevelIn(t1, guess)*(guess-t1)
		area -= c.Integrate(t1, conservative)
		t1 = conservative
	}
	return 0, ErrNoConvergence
}

// MaxLevel returns the highest level anywhere on the curve.
func (c *Curve) MaxLevel() float64 {
	m := math.Inf(-1)
	for _, seg := range c.view() {
		m = max(m, seg.MaxLevel())
	}
	return m
}

// MinLevel returns the lowest level anywhere on the curve.
func (c *Curve) MinLevel() float64 {
	m := math.Inf(1)
	for _, seg := range c.view() {
		m = min(m, seg.MinLevel())
	}
	return m
}

// MaxLevelIn returns the highest level over [t1, t2].
func (c *Curve) MaxLevelIn(t1, t2 float64) float64 {
	if t2 < t1 {
		t1, t2 = t2, t1
	}
	m := max(c.ValueAt(t1), c.ValueAt(t2))
	for _, seg := range c.view() {
		if t1 <= seg.t0 && seg.t0 <= t2 {
			m = max(m, seg.l0)
		}
		if t1 <= seg.t1 && seg.t1 <= t2 {
			m = max(m, seg.l1)
		}
	}
	return m
}

// AverageLevel returns the mean level over [0, Length()]. A zero-length
// curve reports its end level.
func (c *Curve) AverageLevel() float64 {
	l := c.Length()
	if l == 0 {
		return c.EndLevel()
	}
	return c.Integrate(0, l) / l
}

// MaxAbsSlope returns the largest absolute rate of change on the curve,
// ignoring jumps.
func (c *Curve) MaxAbsSlope() float64 {
	var m float64
	for _, seg := range c.view() {
		m = max(m, seg.MaxAbsSlope())
	}
	return m
}

// InflectionPoints returns the boundary times at which the curve changes
// direction. Flat segments keep the direction of the segment before them.
func (c *Curve) InflectionPoints() []float64 {
	var out []float64
	var last int
	for _, seg := range c.view() {
		dir := last
		switch {
		case seg.l1 > seg.l0:
			dir = 1
		case seg.l1 < seg.l0:
			dir = -1
		}
		if last*dir < 0 {
			out = append(out, seg.t0)
		}
		last = dir
	}
	return out
}

// NormalizeToDuration stretches the curve in time so that its length is d.
func (c *Curve) NormalizeToDuration(d float64) error {
	c.init()
	l := c.Length()
	if l == 0 || d < 0 {
		return fmt.Errorf("%w: cannot stretch length %g to %g", ErrOutOfRange, l, d)
	}
	if l == d {
		return nil
	}
	ratio := d / l
	for i := range c.segs {
		c.segs[i].t0 *= ratio
		c.segs[i].t1 *= ratio
	}
	return nil
}

// IsShiftedVersionOf reports whether c equals o moved vertically, segment by
// segment.
func (c *Curve) IsShiftedVersionOf(o *Curve) bool {
	if len(c.view()) != len(o.view()) {
		return false
	}
	for i := range c.view() {
		if !c.view()[i].IsShiftedVersionOf(o.view()[i]) {
			return false
		}
	}
	return true
}

// ShiftVertical adds d to every level.
func (c *Curve) ShiftVertical(d float64) {
	c.init()
	for i := range c.segs {
		c.segs[i].ShiftVertical(d)
	}
}

// ScaleVertical multiplies every level by k.
func (c *Curve) ScaleVertical(k float64) {
	c.init()
	for i := range c.segs {
		c.segs[i].ScaleVertical(k)
	}
}

// Samples returns n evenly spaced samples of every segment followed by the
// end point of the curve.
func (c *Curve) Samples(n int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for i, seg := range c.view() {
			for pt := range seg.Samples(n, i == len(c.view())-1) {
				if !yield(pt) {
					return
				}
			}
		}
	}
}

// BoundingBox returns the rectangle spanning [0, Length()] horizontally and
// the range of levels vertically.
func (c *Curve) BoundingBox() Rect {
	return NewRectFromPoints(Pt(0, c.MinLevel()), Pt(c.Length(), c.MaxLevel()))
}
