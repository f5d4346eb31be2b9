package draw

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB triple on the 0..255 scale plus alpha in 0..1. Channels are
// float64 so interpolated values are kept exactly until rasterization.
type Color struct {
	R, G, B float64
	A       float64
}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// White is opaque white.
var White = RGB(255, 255, 255)

// MustHex parses "#rrggbb". It panics on malformed input and is meant for
// package-level palette tables.
func MustHex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("draw: bad hex color %q: %v", s, err))
	}
	r, g, b := c.RGB255()
	return RGB(float64(r), float64(g), float64(b))
}

// Mul multiplies the RGB channels by k, keeping alpha.
func (c Color) Mul(k float64) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}

// WithAlpha returns c with alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// NRGBA clamps and rounds c to 8-bit non-premultiplied channels.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channel8(c.R),
		G: channel8(c.G),
		B: channel8(c.B),
		A: channel8(c.A * 255),
	}
}

// CSS formats the RGB part as "rgb(r, g, b)".
func (c Color) CSS() string {
	n := c.NRGBA()
	return fmt.Sprintf("rgb(%d, %d, %d)", n.R, n.G, n.B)
}

func channel8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Gradient is a vertical two-stop linear gradient spanning the bounding box of
// the filled shape.
type Gradient struct {
	Top, Bottom Color
}

// Paint is either a solid color or, when Gradient is set, a vertical gradient.
type Paint struct {
	Color    Color
	Gradient *Gradient
}

// Solid returns a solid paint.
func Solid(c Color) Paint {
	return Paint{Color: c}
}

// Vertical returns a top-to-bottom gradient paint.
func Vertical(top, bottom Color) Paint {
	return Paint{Color: top, Gradient: &Gradient{Top: top, Bottom: bottom}}
}
