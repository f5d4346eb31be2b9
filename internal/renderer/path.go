package renderer

import (
	"math"

	"github.com/ivlev/wrapped2video/internal/draw"
)

type pt struct{ x, y float64 }

// contour is one closed polygon in device space.
type contour []pt

// flattener turns curves into device-space polygons.
type flattener struct {
	m        draw.Affine
	contours []contour
	cur      contour
	pen      pt
}

func (f *flattener) reset(m draw.Affine) {
	f.m = m
	f.contours = f.contours[:0]
	f.cur = nil
}

func (f *flattener) device(x, y float64) pt {
	dx, dy := f.m.Apply(x, y)
	return pt{dx, dy}
}

func (f *flattener) moveTo(p pt) {
	f.closePath()
	f.cur = contour{p}
	f.pen = p
}

func (f *flattener) lineTo(p pt) {
	if f.cur == nil {
		f.cur = contour{f.pen}
	}
	f.cur = append(f.cur, p)
	f.pen = p
}

func (f *flattener) quadTo(c, p pt) {
	p0 := f.pen
	n := steps(dist(p0, c) + dist(c, p))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		f.lineTo(pt{
			u*u*p0.x + 2*u*t*c.x + t*t*p.x,
			u*u*p0.y + 2*u*t*c.y + t*t*p.y,
		})
	}
}

func (f *flattener) cubeTo(c1, c2, p pt) {
	p0 := f.pen
	n := steps(dist(p0, c1) + dist(c1, c2) + dist(c2, p))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		f.lineTo(pt{
			u*u*u*p0.x + 3*u*u*t*c1.x + 3*u*t*t*c2.x + t*t*t*p.x,
			u*u*u*p0.y + 3*u*u*t*c1.y + 3*u*t*t*c2.y + t*t*t*p.y,
		})
	}
}

func (f *flattener) closePath() {
	if len(f.cur) >= 3 {
		f.contours = append(f.contours, f.cur)
	}
	f.cur = nil
}

// segments feeds a draw path through the transform.
func (f *flattener) segments(segs []draw.Segment) {
	for _, s := range segs {
		switch s.Op {
		case draw.OpMoveTo:
			f.moveTo(f.device(s.Pts[0].X, s.Pts[0].Y))
		case draw.OpLineTo:
			f.lineTo(f.device(s.Pts[0].X, s.Pts[0].Y))
		case draw.OpCubeTo:
			f.cubeTo(
				f.device(s.Pts[0].X, s.Pts[0].Y),
				f.device(s.Pts[1].X, s.Pts[1].Y),
				f.device(s.Pts[2].X, s.Pts[2].Y),
			)
		case draw.OpClose:
			f.closePath()
		}
	}
	f.closePath()
}

// steps picks a subdivision count from the control polygon length in pixels.
func steps(length float64) int {
	n := int(math.Ceil(math.Sqrt(length) * 1.5))
	if n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}

func dist(a, b pt) float64 { return math.Hypot(b.x-a.x, b.y-a.y) }

// clip cuts c to the rectangle [0,w]x[0,h] (Sutherland-Hodgman).
func clip(c contour, w, h float64) contour {
	c = clipEdge(c, func(p pt) bool { return p.x >= 0 }, func(a, b pt) pt { return atX(a, b, 0) })
	c = clipEdge(c, func(p pt) bool { return p.x <= w }, func(a, b pt) pt { return atX(a, b, w) })
	c = clipEdge(c, func(p pt) bool { return p.y >= 0 }, func(a, b pt) pt { return atY(a, b, 0) })
	c = clipEdge(c, func(p pt) bool { return p.y <= h }, func(a, b pt) pt { return atY(a, b, h) })
	return c
}

func clipEdge(in contour, inside func(pt) bool, cross func(a, b pt) pt) contour {
	if len(in) == 0 {
		return in
	}
	out := make(contour, 0, len(in)+4)
	prev := in[len(in)-1]
	for _, p := range in {
		switch {
		case inside(p) && inside(prev):
			out = append(out, p)
		case inside(p):
			out = append(out, cross(prev, p), p)
		case inside(prev):
			out = append(out, cross(prev, p))
		}
		prev = p
	}
	return out
}

func atX(a, b pt, x float64) pt {
	t := (x - a.x) / (b.x - a.x)
	return pt{x, a.y + t*(b.y-a.y)}
}

func atY(a, b pt, y float64) pt {
	t := (y - a.y) / (b.y - a.y)
	return pt{a.x + t*(b.x-a.x), y}
}
