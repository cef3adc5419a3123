package envelope

// Rect is an axis-aligned rectangle. For curves, X spans time and Y spans
// levels.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// NewRectFromPoints returns the rectangle with the two points as opposite
// corners.
func NewRectFromPoints(p0, p1 Point) Rect {
	return Rect{
		X0: p0.X,
		Y0: p0.Y,
		X1: p1.X,
		Y1: p1.Y,
	}.Abs()
}

// Abs returns the rectangle with X0 <= X1 and Y0 <= Y1.
func (r Rect) Abs() Rect {
	return Rect{
		X0: min(r.X0, r.X1),
		Y0: min(r.Y0, r.Y1),
		X1: max(r.X0, r.X1),
		Y1: max(r.Y0, r.Y1),
	}
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Inflate grows the rectangle by width on the left and right and by height
// on the top and bottom.
func (r Rect) Inflate(width, height float64) Rect {
	return Rect{
		X0: r.X0 - width,
		Y0: r.Y0 - height,
		X1: r.X1 + width,
		Y1: r.Y1 + height,
	}
}
