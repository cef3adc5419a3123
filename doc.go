// Package envelope models time-varying scalar quantities, such as pitch
// bends, volume envelopes and tempo changes, as sequences of contiguous
// piecewise-exponential segments.
//
// # Segments
//
// A [Segment] moves from a start level to an end level over a time interval.
// A single shape parameter S selects where the change happens: 0 is linear,
// positive values change late, negative values change early, and
// [ProportionalRate] produces a constant ratio of change per unit time. The
// family is closed under splitting, so a segment can be cut anywhere without
// changing the function it describes, and it integrates in closed form.
//
// # Curves
//
// A [Curve] is a gap-free sequence of segments covering [0, Length()]. Curves
// are built with [New], [FromLevels] or [Constant], or incrementally with
// [Curve.AppendSegment] and [Curve.Insert]. They are evaluated with
// [Curve.ValueAt], integrated with [Curve.Integrate], and the inverse problem
// (how far until a given area has accumulated, for example converting elapsed
// beats into time under a tempo curve) is solved by
// [Curve.UpperIntegrationBound].
//
// Zero-length segments represent jumps. Outside of [0, Length()] a curve is
// flat at its start or end level.
//
// # Algebra
//
// Curves can be shifted and scaled by constants, and added, subtracted,
// multiplied and divided pointwise. The sum or product of two segments is in
// general not a segment; [Segment.Add] and friends sample the combined
// function, split it at its extrema and inflection points, and fit one
// segment to each monotonic piece. This is a heuristic: features narrower
// than the sampling resolution (see [WithResolution]) can be missed.
//
// Combining two curves requires that they share their segment boundaries.
// [AlignGrids] produces such copies.
//
// # Compact form
//
// Curves encode to JSON in the shortest of four forms, see [Curve.Compact].
// [Param] holds a value that is either a plain number or a curve and uses the
// same encoding.
//
// # Plotting
//
// [Plot] renders a curve into an image, for inspecting envelopes by eye.
package envelope
