package envelope

import (
	"fmt"
	"math"
)

// linearEpsilon is the magnitude below which a shape parameter is treated as
// exactly linear. The exponential closed forms divide by e^S - 1 and must not
// be used that close to zero.
const linearEpsilon = 1e-6

// Shape describes how a segment moves from its start level to its end level.
//
// A shape is either a plain number S, where 0 is linear, positive values
// concentrate the change late in the segment and negative values concentrate
// it early, or the named variant [ProportionalRate], which stands for the
// number that produces a constant ratio of change per unit time.
type Shape struct {
	s            float64
	proportional bool
}

// Linear is the shape of a straight segment.
var Linear = Shape{}

// ProportionalRate is the shape that makes a segment change by a constant
// ratio per unit time. It resolves to ln(end/start) and is only defined when
// both levels are non-zero and share a sign.
var ProportionalRate = Shape{proportional: true}

// ShapeOf returns the numeric shape s.
func ShapeOf(s float64) Shape {
	return Shape{s: s}
}

// IsProportionalRate reports whether sh is [ProportionalRate].
func (sh Shape) IsProportionalRate() bool { return sh.proportional }

// Resolve returns the numeric shape parameter for a segment running from
// start to end.
func (sh Shape) Resolve(start, end float64) (float64, error) {
	if !sh.proportional {
		return sh.s, nil
	}
	if r := end / start; !(r > 0) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("%w: no proportional rate between %g and %g", ErrDomain, start, end)
	}
	return math.Log(end / start), nil
}

func (sh Shape) String() string {
	if sh.proportional {
		return "exp"
	}
	return fmt.Sprintf("%g", sh.s)
}

func isLinear(s float64) bool {
	return math.Abs(s) < linearEpsilon
}
