package draw

// Op is a path segment operation.
type Op uint8

const (
	OpMoveTo Op = iota
	OpLineTo
	OpCubeTo
	OpClose
)

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Segment is one path command. MoveTo and LineTo use Pts[0]; CubeTo uses
// Pts[0] and Pts[1] as control points and Pts[2] as the end point.
type Segment struct {
	Op  Op
	Pts [3]Point
}

// PathBuilder accumulates segments.
type PathBuilder struct {
	segs []Segment
}

func (b *PathBuilder) MoveTo(x, y float64) *PathBuilder {
	b.segs = append(b.segs, Segment{Op: OpMoveTo, Pts: [3]Point{{x, y}}})
	return b
}

func (b *PathBuilder) LineTo(x, y float64) *PathBuilder {
	b.segs = append(b.segs, Segment{Op: OpLineTo, Pts: [3]Point{{x, y}}})
	return b
}

func (b *PathBuilder) CubeTo(c1x, c1y, c2x, c2y, x, y float64) *PathBuilder {
	b.segs = append(b.segs, Segment{Op: OpCubeTo, Pts: [3]Point{{c1x, c1y}, {c2x, c2y}, {x, y}}})
	return b
}

func (b *PathBuilder) Close() *PathBuilder {
	b.segs = append(b.segs, Segment{Op: OpClose})
	return b
}

// Segments returns the accumulated segments.
func (b *PathBuilder) Segments() []Segment {
	return b.segs
}

// kappa is the cubic Bézier handle length for a quarter circle.
const kappa = 0.5522847498307936

// EllipseSegments approximates an ellipse with four cubic segments.
func EllipseSegments(cx, cy, rx, ry float64) []Segment {
	kx, ky := rx*kappa, ry*kappa
	var b PathBuilder
	b.MoveTo(cx+rx, cy).
		CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry).
		CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy).
		CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry).
		CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy).
		Close()
	return b.Segments()
}

// RoundedRectSegments outlines a rectangle with corner radius r.
func RoundedRectSegments(x, y, w, h, r float64) []Segment {
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	var b PathBuilder
	if r <= 0 {
		b.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
		return b.Segments()
	}
	k := r * (1 - kappa)
	b.MoveTo(x+r, y).
		LineTo(x+w-r, y).
		CubeTo(x+w-k, y, x+w, y+k, x+w, y+r).
		LineTo(x+w, y+h-r).
		CubeTo(x+w, y+h-k, x+w-k, y+h, x+w-r, y+h).
		LineTo(x+r, y+h).
		CubeTo(x+k, y+h, x, y+h-k, x, y+h-r).
		LineTo(x, y+r).
		CubeTo(x, y+k, x+k, y, x+r, y).
		Close()
	return b.Segments()
}
