package envelope

// Affine describes an affine transform via coefficients.
//
// If the coefficients are (a, b, c, d, e, f), then the resulting
// transformation represents this augmented matrix:
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// so that (A * B) * v == A * (B * v). [Plot] uses it to map curve space
// (time, level) to pixel space.
type Affine struct {
	N0, N1, N2, N3, N4, N5 float64
}

// FlipY flips the y axis, converting between level-up and pixel-down spaces.
var FlipY = Affine{1, 0, 0, -1, 0, 0}

// Scale creates an affine transform representing non-uniform scaling with
// different scale values for x and y.
func Scale(x, y float64) Affine {
	return Affine{x, 0, 0, y, 0, 0}
}

// Translate creates an affine transform representing translation.
func Translate(x, y float64) Affine {
	return Affine{1, 0, 0, 1, x, y}
}

func (aff Affine) Mul(o Affine) Affine {
	return Affine{
		N0: aff.N0*o.N0 + aff.N2*o.N1,
		N1: aff.N1*o.N0 + aff.N3*o.N1,
		N2: aff.N0*o.N2 + aff.N2*o.N3,
		N3: aff.N1*o.N2 + aff.N3*o.N3,
		N4: aff.N0*o.N4 + aff.N2*o.N5 + aff.N4,
		N5: aff.N1*o.N4 + aff.N3*o.N5 + aff.N5,
	}
}

// Then returns the transform that applies aff first and o second.
func (aff Affine) Then(o Affine) Affine {
	return o.Mul(aff)
}

func (aff Affine) ThenScale(x, y float64) Affine {
	return aff.Then(Scale(x, y))
}

func (aff Affine) ThenTranslate(x, y float64) Affine {
	return aff.Then(Translate(x, y))
}

// Determinant computes the determinant of the linear part of the transform.
func (aff Affine) Determinant() float64 {
	return aff.N0*aff.N3 - aff.N1*aff.N2
}

// Invert computes the inverse transform.
//
// Produces NaN values when the determinant is zero.
func (aff Affine) Invert() Affine {
	invDet := 1 / aff.Determinant()
	return Affine{
		N0: invDet * aff.N3,
		N1: invDet * -aff.N1,
		N2: invDet * -aff.N2,
		N3: invDet * aff.N0,
		N4: invDet * (aff.N2*aff.N5 - aff.N3*aff.N4),
		N5: invDet * (aff.N1*aff.N4 - aff.N0*aff.N5),
	}
}
