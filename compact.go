package envelope

import (
	"encoding/json"
	"fmt"
)

// Compacter describes values that have a compact, JSON-friendly
// representation.
type Compacter interface {
	// Compact returns the shortest representation of the value, built from
	// float64, []float64 and []any.
	Compact() any
}

var (
	_ Compacter        = (*Curve)(nil)
	_ Compacter        = Param{}
	_ json.Marshaler   = (*Curve)(nil)
	_ json.Unmarshaler = (*Curve)(nil)
)

// Compact returns the curve in the shortest of four forms:
//
//   - levels, when all segments are linear, equally long, and the curve
//     has length 1;
//   - [levels, length], when all segments are linear and equally long;
//   - [levels, durations], when all segments are linear;
//   - [levels, durations, shapes] otherwise.
func (c *Curve) Compact() any {
	levels := c.Levels()
	durations := c.Durations()
	shapes := c.Shapes()

	even := true
	for _, d := range durations {
		if d != durations[0] {
			even = false
			break
		}
	}
	linear := true
	for _, s := range shapes {
		if s != 0 {
			linear = false
			break
		}
	}
	switch {
	case even && linear && c.Length() == 1:
		return levels
	case even && linear:
		return []any{levels, c.Length()}
	case linear:
		return []any{levels, durations}
	default:
		return []any{levels, durations, shapes}
	}
}

// FromCompact builds a curve from any of the forms produced by
// [Curve.Compact], as Go values or as decoded by encoding/json. Numbers may
// be any float or int type. Shapes may also be given as the string "exp",
// which stands for [ProportionalRate]. Elements after the shapes are
// ignored.
func FromCompact(v any) (*Curve, error) {
	list, ok := v.([]any)
	if !ok {
		levels, ok := toFloats(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrCompactForm, v)
		}
		return FromLevels(levels, 1)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrCompactForm)
	}
	if _, nested := toFloats(list[0]); !nested {
		levels, ok := toFloats(list)
		if !ok {
			return nil, fmt.Errorf("%w: levels must be numbers", ErrCompactForm)
		}
		return FromLevels(levels, 1)
	}

	levels, _ := toFloats(list[0])
	if len(list) == 1 {
		return nil, fmt.Errorf("%w: levels without durations", ErrCompactForm)
	}
	if len(list) == 2 {
		if length, ok := toFloat(list[1]); ok {
			return FromLevels(levels, length)
		}
		durations, ok := toFloats(list[1])
		if !ok {
			return nil, fmt.Errorf("%w: second element must be a length or durations", ErrCompactForm)
		}
		return New(levels, durations, nil)
	}
	durations, ok := toFloats(list[1])
	if !ok {
		return nil, fmt.Errorf("%w: durations must be numbers", ErrCompactForm)
	}
	shapes, err := toShapes(list[2])
	if err != nil {
		return nil, err
	}
	return New(levels, durations, shapes)
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func toFloats(v any) ([]float64, bool) {
	switch v := v.(type) {
	case []float64:
		return v, true
	case []int:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, true
	case []any:
		out := make([]float64, len(v))
		for i, x := range v {
			f, ok := toFloat(x)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	default:
		return nil, false
	}
}

func toShapes(v any) ([]Shape, error) {
	switch v := v.(type) {
	case []float64:
		out := make([]Shape, len(v))
		for i, s := range v {
			out[i] = ShapeOf(s)
		}
		return out, nil
	case []Shape:
		return v, nil
	case []any:
		out := make([]Shape, len(v))
		for i, x := range v {
			if s, ok := toFloat(x); ok {
				out[i] = ShapeOf(s)
				continue
			}
			switch x := x.(type) {
			case string:
				if x != "exp" {
					return nil, fmt.Errorf("%w: unknown shape %q", ErrCompactForm, x)
				}
				out[i] = ProportionalRate
			default:
				return nil, fmt.Errorf("%w: shape %v", ErrCompactForm, x)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: shapes must be a list", ErrCompactForm)
	}
}

// MarshalJSON encodes the curve in its compact form.
func (c *Curve) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Compact())
}

// UnmarshalJSON decodes any of the compact forms.
func (c *Curve) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	dec, err := FromCompact(v)
	if err != nil {
		return err
	}
	*c = *dec
	return nil
}

// Param is a parameter that is either a fixed value or a curve, such as the
// pitch or volume of a note. Its JSON form is a bare number when Curve is
// nil and the curve's compact form otherwise.
type Param struct {
	Value float64
	Curve *Curve
}

// ParamOf returns the constant parameter v.
func ParamOf(v float64) Param { return Param{Value: v} }

// CurveParam returns the parameter following c.
func CurveParam(c *Curve) Param { return Param{Curve: c} }

// ValueAt returns the parameter's value at time t.
func (p Param) ValueAt(t float64) float64 {
	if p.Curve == nil {
		return p.Value
	}
	return p.Curve.ValueAt(t)
}

// IsConstant reports whether p has no curve.
func (p Param) IsConstant() bool { return p.Curve == nil }

func (p Param) Compact() any {
	if p.Curve == nil {
		return p.Value
	}
	return p.Curve.Compact()
}

func (p Param) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Compact())
}

func (p *Param) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if f, ok := v.(float64); ok {
		*p = Param{Value: f}
		return nil
	}
	c, err := FromCompact(v)
	if err != nil {
		return err
	}
	*p = Param{Curve: c}
	return nil
}
