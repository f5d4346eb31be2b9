package anim

import "github.com/ivlev/wrapped2video/internal/draw"

// LerpColor blends every channel of a toward b by t. t is not clamped.
func LerpColor(a, b draw.Color, t float64) draw.Color {
	return draw.Color{
		R: lerp(a.R, b.R, t),
		G: lerp(a.G, b.G, t),
		B: lerp(a.B, b.B, t),
		A: lerp(a.A, b.A, t),
	}
}

// ColorCurve maps an input scalar to a color, one Curve per channel.
type ColorCurve struct {
	r, g, b, a *Curve
}

// NewColorCurve builds a ColorCurve over the same breakpoints for each color
// stop. Extrapolation options apply to all channels.
func NewColorCurve(in []float64, stops []draw.Color, opts ...Option) (*ColorCurve, error) {
	ch := func(pick func(draw.Color) float64) []float64 {
		out := make([]float64, len(stops))
		for i, c := range stops {
			out[i] = pick(c)
		}
		return out
	}

	var cc ColorCurve
	var err error
	if cc.r, err = NewCurve(in, ch(func(c draw.Color) float64 { return c.R }), opts...); err != nil {
		return nil, err
	}
	if cc.g, err = NewCurve(in, ch(func(c draw.Color) float64 { return c.G }), opts...); err != nil {
		return nil, err
	}
	if cc.b, err = NewCurve(in, ch(func(c draw.Color) float64 { return c.B }), opts...); err != nil {
		return nil, err
	}
	if cc.a, err = NewCurve(in, ch(func(c draw.Color) float64 { return c.A }), opts...); err != nil {
		return nil, err
	}
	return &cc, nil
}

// MustColorCurve panics where NewColorCurve would return an error.
func MustColorCurve(in []float64, stops []draw.Color, opts ...Option) *ColorCurve {
	cc, err := NewColorCurve(in, stops, opts...)
	if err != nil {
		panic(err)
	}
	return cc
}

// At evaluates the color at x.
func (c *ColorCurve) At(x float64) draw.Color {
	return draw.Color{R: c.r.At(x), G: c.g.At(x), B: c.b.At(x), A: c.a.At(x)}
}
