package envelope

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// DefaultResolution is the number of samples used to locate extrema and
// inflection points when combining two segments.
const DefaultResolution = 60

const (
	// maxBisections bounds how often an interval without a usable midpoint
	// is halved before it is approximated by a straight line.
	maxBisections = 16
	// maxFitShape bounds the shape of fitted segments; beyond it e^S
	// overflows long before the curve is evaluated.
	maxFitShape = 500
)

type combineConfig struct {
	resolution int
}

// CombineOption configures the combination of two segments or curves.
type CombineOption func(*combineConfig)

// WithResolution sets the number of samples per segment used to locate
// extrema and inflection points. Values below 3 are ignored.
func WithResolution(n int) CombineOption {
	return func(cfg *combineConfig) {
		if n >= 3 {
			cfg.resolution = n
		}
	}
}

func applyCombineOptions(opts []CombineOption) combineConfig {
	cfg := combineConfig{resolution: DefaultResolution}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// binaryOp is a pointwise operation, with a block form for sampled data.
type binaryOp struct {
	scalar func(a, b float64) float64
	block  func(dst, a, b []float64)
}

var (
	opAdd = binaryOp{
		scalar: func(a, b float64) float64 { return a + b },
		block:  vecmath.AddBlock,
	}
	opMul = binaryOp{
		scalar: func(a, b float64) float64 { return a * b },
		block:  vecmath.MulBlock,
	}
	opDiv = binaryOp{
		scalar: func(a, b float64) float64 { return a / b },
		block: func(dst, a, b []float64) {
			for i := range dst {
				dst[i] = a[i] / b[i]
			}
		},
	}
)

// Add returns the pointwise sum of two segments covering identical time
// ranges.
//
// The sum of two segments is generally not a segment. The result is one
// segment when a single one approximates the sum, and otherwise the
// consecutive pieces of a curve, split at the extrema and inflection points
// of the sum. See [NewCurveFromSegments].
func (seg Segment) Add(o Segment, opts ...CombineOption) ([]Segment, error) {
	return combine(seg, o, opAdd, opts)
}

// Sub returns the pointwise difference of two segments. See [Segment.Add].
func (seg Segment) Sub(o Segment, opts ...CombineOption) ([]Segment, error) {
	return combine(seg, o.Negated(), opAdd, opts)
}

// Mul returns the pointwise product of two segments. See [Segment.Add].
func (seg Segment) Mul(o Segment, opts ...CombineOption) ([]Segment, error) {
	return combine(seg, o, opMul, opts)
}

// Div returns the pointwise quotient of two segments. The divisor must not
// reach zero. See [Segment.Add].
func (seg Segment) Div(o Segment, opts ...CombineOption) ([]Segment, error) {
	if !(o.l0*o.l1 > 0) {
		return nil, fmt.Errorf("%w: divisor runs from %g to %g", ErrDivideByZero, o.l0, o.l1)
	}
	return combine(seg, o, opDiv, opts)
}

func combine(x, y Segment, op binaryOp, opts []CombineOption) ([]Segment, error) {
	if x.t0 != y.t0 || x.t1 != y.t1 {
		return nil, fmt.Errorf("%w: [%g, %g] and [%g, %g]", ErrRangeMismatch, x.t0, x.t1, y.t0, y.t1)
	}
	if x.t0 == x.t1 {
		return []Segment{newSegment(x.t0, x.t1, op.scalar(x.l0, y.l0), op.scalar(x.l1, y.l1), 0)}, nil
	}
	cfg := applyCombineOptions(opts)

	n := cfg.resolution
	dur := x.t1 - x.t0
	ts := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	vs := make([]float64, n)
	for i := range n {
		t := x.t0 + float64(i)/float64(n)*dur
		ts[i] = t
		xs[i] = x.ValueAt(t)
		ys[i] = y.ValueAt(t)
	}
	op.block(vs, xs, ys)

	f := func(t float64) float64 {
		return op.scalar(x.ValueAt(t), y.ValueAt(t))
	}
	keys := append([]float64{x.t0}, splitPoints(ts, vs)...)
	keys = append(keys, x.t1)

	out := make([]Segment, 0, len(keys)-1)
	fa := op.scalar(x.l0, y.l0)
	for i := 1; i < len(keys); i++ {
		var fb float64
		if i == len(keys)-1 {
			fb = op.scalar(x.l1, y.l1)
		} else {
			fb = f(keys[i])
		}
		out = fitPieces(out, f, keys[i-1], keys[i], fa, fb, 0)
		fa = fb
	}
	return out, nil
}

// splitPoints returns the sample times at which the first differences of vs
// change sign (local extrema) or the second differences do (inflection
// points). Differences within the noise floor carry no sign.
func splitPoints(ts, vs []float64) []float64 {
	floor := 1e-9 * (vecmath.MaxAbs(vs) + 1)
	sign := func(d float64) int {
		switch {
		case d > floor:
			return 1
		case d < -floor:
			return -1
		default:
			return 0
		}
	}

	var out []float64
	mark := func(t float64) {
		if len(out) == 0 || out[len(out)-1] < t {
			out = append(out, t)
		}
	}
	var lastD, lastDD int
	for i := 1; i < len(vs); i++ {
		if d := sign(vs[i] - vs[i-1]); d != 0 {
			if lastD != 0 && d != lastD {
				// vs[i-1] is the extreme sample.
				mark(ts[i-1])
			}
			lastD = d
		}
		if i < 2 {
			continue
		}
		if dd := sign(vs[i] - 2*vs[i-1] + vs[i-2]); dd != 0 {
			if lastDD != 0 && dd != lastDD {
				mark(ts[i-1])
			}
			lastDD = dd
		}
	}
	return out
}

// fitPieces appends segments approximating f over [a, b], given fa = f(a) and
// fb = f(b). The interval is halved while its midpoint level isn't strictly
// between fa and fb.
func fitPieces(out []Segment, f func(float64) float64, a, b, fa, fb float64, depth int) []Segment {
	m := (a + b) / 2
	fm := f(m)
	if fa == fb && fm == fa {
		return append(out, newSegment(a, b, fa, fb, 0))
	}
	if min(fa, fb) < fm && fm < max(fa, fb) {
		seg, err := NewSegmentFromMidpoint(a, b, fa, fb, fm)
		if err == nil && math.Abs(seg.s) <= maxFitShape {
			return append(out, seg)
		}
	}
	if depth >= maxBisections || !(a < m && m < b) {
		return append(out, newSegment(a, b, fa, fb, 0))
	}
	out = fitPieces(out, f, a, m, fa, fm, depth+1)
	return fitPieces(out, f, m, b, fm, fb, depth+1)
}
