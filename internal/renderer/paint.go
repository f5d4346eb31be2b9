package renderer

import (
	"image"
	"image/color"

	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/draw"
)

// source returns the fill image for p at the given opacity. Gradients run
// from the top to the bottom of the shape's local bounding box, mapped to
// device space through the shape's transform.
func source(p draw.Paint, opacity float64, top, bottom pt) image.Image {
	if p.Gradient == nil {
		c := p.Color
		c.A *= opacity
		return image.NewUniform(c.NRGBA())
	}
	d := pt{bottom.x - top.x, bottom.y - top.y}
	return &gradient{
		from:    p.Gradient.Top,
		to:      p.Gradient.Bottom,
		origin:  top,
		axis:    d,
		norm:    d.x*d.x + d.y*d.y,
		opacity: opacity,
	}
}

// gradient is an unbounded linear gradient image along axis.
type gradient struct {
	from, to draw.Color
	origin   pt
	axis     pt
	norm     float64
	opacity  float64
}

var everywhere = image.Rect(-1<<30, -1<<30, 1<<30, 1<<30)

func (g *gradient) ColorModel() color.Model { return color.NRGBAModel }

func (g *gradient) Bounds() image.Rectangle { return everywhere }

func (g *gradient) At(x, y int) color.Color {
	t := 0.0
	if g.norm > 0 {
		px, py := float64(x)+0.5-g.origin.x, float64(y)+0.5-g.origin.y
		t = (px*g.axis.x + py*g.axis.y) / g.norm
	}
	t = min(max(t, 0), 1)
	c := anim.LerpColor(g.from, g.to, t)
	c.A *= g.opacity
	return c.NRGBA()
}
