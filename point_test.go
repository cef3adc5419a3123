package envelope

import (
	"testing"
)

func TestPointString(t *testing.T) {
	if s := Pt(0.5, 3).String(); s != "(0.5, 3)" {
		t.Errorf("got %q", s)
	}
	if s := Pt(-7, 2).Transform(FlipY).String(); s != "(-7, -2)" {
		t.Errorf("got %q", s)
	}
}
