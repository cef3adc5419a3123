package envelope

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestCompactForms(t *testing.T) {
	mustLevels := func(levels []float64, length float64) *Curve {
		c, err := FromLevels(levels, length)
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	tests := []struct {
		name  string
		curve *Curve
		want  any
		json  string
	}{
		{
			"levels",
			mustLevels([]float64{0, 1, 0.5}, 1),
			[]float64{0, 1, 0.5},
			`[0,1,0.5]`,
		},
		{
			"levels and length",
			mustLevels([]float64{0, 1}, 3),
			[]any{[]float64{0, 1}, 3.0},
			`[[0,1],3]`,
		},
		{
			"levels and durations",
			mustCurve(t, []float64{0, 1, 2}, []float64{1, 2}, nil),
			[]any{[]float64{0, 1, 2}, []float64{1, 2}},
			`[[0,1,2],[1,2]]`,
		},
		{
			"full",
			mustCurve(t, []float64{0, 1}, []float64{1}, []Shape{ShapeOf(2)}),
			[]any{[]float64{0, 1}, []float64{1}, []float64{2}},
			`[[0,1],[1],[2]]`,
		},
		{
			"constant",
			Constant(3),
			[]any{[]float64{3, 3}, 0.0},
			`[[3,3],0]`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			diff(t, tc.want, tc.curve.Compact())

			b, err := json.Marshal(tc.curve)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != tc.json {
				t.Errorf("got JSON %s, expected %s", b, tc.json)
			}

			var dec Curve
			if err := json.Unmarshal(b, &dec); err != nil {
				t.Fatal(err)
			}
			diff(t, tc.curve.Levels(), dec.Levels())
			diff(t, tc.curve.Durations(), dec.Durations())
			diff(t, tc.curve.Shapes(), dec.Shapes())

			fromGo, err := FromCompact(tc.want)
			if err != nil {
				t.Fatal(err)
			}
			diff(t, tc.curve.Levels(), fromGo.Levels())
		})
	}
}

func TestCompactRoundTrip(t *testing.T) {
	c := sampleCurve(t)
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var dec Curve
	if err := json.Unmarshal(b, &dec); err != nil {
		t.Fatal(err)
	}
	for i := 0; i <= 50; i++ {
		x := float64(i) / 10
		assertNearFloat(t, dec.ValueAt(x), c.ValueAt(x), 1e-12)
	}
}

func TestCompactProportionalRate(t *testing.T) {
	var c Curve
	if err := json.Unmarshal([]byte(`[[1,2,8],[1,1],["exp",0]]`), &c); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{math.Log(2), 0}, c.Shapes())
	assertNearFloat(t, c.ValueAt(0.5), math.Sqrt2, 1e-12)
}

func TestCompactLenient(t *testing.T) {
	var c Curve
	if err := json.Unmarshal([]byte(`[[1,2],[3],[0],"extra",[4]]`), &c); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{1, 2}, c.Levels())
	diff(t, []float64{3}, c.Durations())

	for _, v := range []any{
		[]any{[]float64{0, 1}, 3},
		[]any{[]any{0, 1.0}, int64(3)},
		[]any{[]int{0, 1}, float32(3)},
	} {
		got, err := FromCompact(v)
		if err != nil {
			t.Fatalf("%v: %v", v, err)
		}
		diff(t, []float64{0, 1}, got.Levels())
		diff(t, []float64{3}, got.Durations())
	}

	got, err := FromCompact([]any{[]float64{1, 2, 4}, []int{2, 2}, []any{1, "exp"}})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{2, 2}, got.Durations())
	diff(t, []float64{1, math.Log(2)}, got.Shapes(), approx)
}

func TestCompactErrors(t *testing.T) {
	for _, in := range []string{
		`"foo"`,
		`[]`,
		`[1,"a"]`,
		`[[1,2],[1],["lin"]]`,
		`[[1,2],[1],[true]]`,
		`[[1,2],[1],3]`,
		`[[1,2]]`,
		`[[1,2],"x"]`,
	} {
		var c Curve
		if err := json.Unmarshal([]byte(in), &c); !errors.Is(err, ErrCompactForm) {
			t.Errorf("%s: got error %v, expected ErrCompactForm", in, err)
		}
	}

	var c Curve
	if err := json.Unmarshal([]byte(`[[1,2],[1,2]]`), &c); !errors.Is(err, ErrCountMismatch) {
		t.Errorf("got error %v, expected ErrCountMismatch", err)
	}
}

func TestParam(t *testing.T) {
	type note struct {
		Pitch  Param `json:"pitch"`
		Volume Param `json:"volume"`
	}
	in := note{
		Pitch:  ParamOf(60),
		Volume: CurveParam(mustCurve(t, []float64{0, 1, 0.5}, []float64{0.5, 0.5}, nil)),
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"pitch":60,"volume":[0,1,0.5]}`; string(b) != want {
		t.Errorf("got %s, expected %s", b, want)
	}

	var out note
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Pitch.IsConstant() || out.Pitch.ValueAt(3) != 60 {
		t.Errorf("got pitch %+v", out.Pitch)
	}
	if out.Volume.IsConstant() {
		t.Fatal("volume lost its curve")
	}
	assertNearFloat(t, out.Volume.ValueAt(0.25), 0.5, 1e-15)
	diff(t, 60.0, out.Pitch.Compact())
}
