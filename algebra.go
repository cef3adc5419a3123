package envelope

import "fmt"

// Shifted returns a copy of the curve with d added to every level.
// Subtracting a constant is shifting by its negation.
func (c *Curve) Shifted(d float64) *Curve {
	out := c.Clone()
	out.ShiftVertical(d)
	return out
}

// Scaled returns a copy of the curve with every level multiplied by k.
// Dividing by a constant is scaling by its reciprocal.
func (c *Curve) Scaled(k float64) *Curve {
	out := c.Clone()
	out.ScaleVertical(k)
	return out
}

// Negated returns the curve mirrored around level 0.
func (c *Curve) Negated() *Curve {
	out := &Curve{segs: make([]Segment, len(c.view()))}
	for i, seg := range c.view() {
		out.segs[i] = seg.Negated()
	}
	return out
}

// Add returns the pointwise sum of c and o.
//
// Both curves must have identical segment boundaries; use [AlignGrids] to
// give them a common grid first. Pairs of segments whose sum is not a single
// segment are replaced by several, see [Segment.Add].
func (c *Curve) Add(o *Curve, opts ...CombineOption) (*Curve, error) {
	return c.combine(o, Segment.Add, opts)
}

// Sub returns the pointwise difference of c and o. See [Curve.Add].
func (c *Curve) Sub(o *Curve, opts ...CombineOption) (*Curve, error) {
	return c.combine(o, Segment.Sub, opts)
}

// Mul returns the pointwise product of c and o. See [Curve.Add].
func (c *Curve) Mul(o *Curve, opts ...CombineOption) (*Curve, error) {
	return c.combine(o, Segment.Mul, opts)
}

// Div returns the pointwise quotient of c and o. o must not reach zero. See
// [Curve.Add].
func (c *Curve) Div(o *Curve, opts ...CombineOption) (*Curve, error) {
	return c.combine(o, Segment.Div, opts)
}

func (c *Curve) combine(o *Curve, fn func(Segment, Segment, ...CombineOption) ([]Segment, error), opts []CombineOption) (*Curve, error) {
	xs, ys := c.view(), o.view()
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d and %d segments", ErrRangeMismatch, len(xs), len(ys))
	}
	out := make([]Segment, 0, len(xs))
	for i := range xs {
		pieces, err := fn(xs[i], ys[i], opts...)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		out = append(out, pieces...)
	}
	return &Curve{segs: out}, nil
}

// AlignGrids returns copies of a and b that share all of their segment
// boundaries, so that they can be combined with [Curve.Add] and friends.
// Neither curve changes value anywhere. Both curves must have the same
// length.
func AlignGrids(a, b *Curve) (*Curve, *Curve, error) {
	if a.Length() != b.Length() {
		return nil, nil, fmt.Errorf("%w: lengths %g and %g", ErrRangeMismatch, a.Length(), b.Length())
	}
	a, b = a.Clone(), b.Clone()
	ta := boundaries(a)
	tb := boundaries(b)
	for _, t := range tb {
		if err := a.InsertInterpolated(t); err != nil {
			return nil, nil, err
		}
	}
	for _, t := range ta {
		if err := b.InsertInterpolated(t); err != nil {
			return nil, nil, err
		}
	}
	if len(a.segs) != len(b.segs) {
		// One curve has a jump where the other is continuous; pad the
		// other with a zero-length segment at the same time.
		a.segs, b.segs = padJumps(a.segs, b.segs)
	}
	return a, b, nil
}

func boundaries(c *Curve) []float64 {
	var out []float64
	for _, seg := range c.view()[1:] {
		if len(out) == 0 || out[len(out)-1] != seg.t0 {
			out = append(out, seg.t0)
		}
	}
	return out
}

// padJumps inserts zero-length segments so that a and b, which share their
// boundary times, also agree on where the jumps are.
func padJumps(a, b []Segment) ([]Segment, []Segment) {
	var outA, outB []Segment
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i].t0 == b[j].t0 && a[i].t1 == b[j].t1:
			outA = append(outA, a[i])
			outB = append(outB, b[j])
			i++
			j++
		case i < len(a) && a[i].Duration() == 0:
			outA = append(outA, a[i])
			outB = append(outB, jumpAt(b, j, a[i].t0))
			i++
		default:
			outA = append(outA, jumpAt(a, i, b[j].t0))
			outB = append(outB, b[j])
			j++
		}
	}
	return outA, outB
}

// jumpAt returns a zero-length segment at t that holds the level the
// segments in segs have at t, given that segs[i] is the next one to emit.
func jumpAt(segs []Segment, i int, t float64) Segment {
	var l float64
	if i < len(segs) {
		l = segs[i].l0
	} else {
		l = segs[len(segs)-1].l1
	}
	return newSegment(t, t, l, l, 0)
}
