package envelope

import (
	"slices"
)

// SplitAt splits a copy of the curve at the given times and returns the
// pieces in order. Every piece starts at time 0. Times outside (0, Length())
// and repeated times are ignored, so the result has one more piece than
// there are distinct usable times. c is not modified.
func (c *Curve) SplitAt(ts ...float64) []*Curve {
	return c.Clone().SplitAtInPlace(ts...)
}

// SplitAtInPlace is like [Curve.SplitAt], but c itself becomes the first
// piece.
func (c *Curve) SplitAtInPlace(ts ...float64) []*Curve {
	l := c.Length()
	var cuts []float64
	for _, t := range ts {
		if 0 < t && t < l {
			cuts = append(cuts, t)
		}
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	out := []*Curve{c}
	cur := c
	var off float64
	for _, t := range cuts {
		rest := cur.splitOff(t - off)
		if rest == nil {
			continue
		}
		out = append(out, rest)
		cur = rest
		off = t
	}
	return out
}

// splitOff truncates c at t and returns the remainder, moved to start at 0.
// It returns nil if t is not strictly inside the curve.
func (c *Curve) splitOff(t float64) *Curve {
	if !(0 < t && t < c.Length()) {
		return nil
	}
	if err := c.InsertInterpolated(t); err != nil {
		panic("unreachable")
	}
	i := slices.IndexFunc(c.segs, func(seg Segment) bool { return seg.t0 == t })
	if i <= 0 {
		panic("unreachable")
	}
	rest := &Curve{segs: slices.Clone(c.segs[i:])}
	c.segs = slices.Clip(c.segs[:i])
	for j := range rest.segs {
		rest.segs[j].t0 -= t
		rest.segs[j].t1 -= t
	}
	return rest
}
