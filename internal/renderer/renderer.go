// Package renderer rasterizes frame trees into RGBA images with the
// x/image vector rasterizer and the bundled Go fonts.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	imgdraw "image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/reveal"
)

// Renderer draws trees onto a fixed-size canvas. It keeps scratch state and
// must not be shared between goroutines; make one per worker.
type Renderer struct {
	w, h  int
	fonts *Fonts
	ras   *vector.Rasterizer
	flat  flattener
	buf   sfnt.Buffer

	// Clear is painted under every frame.
	Clear color.Color
}

// New returns a renderer for a w x h canvas.
func New(w, h int, fonts *Fonts) *Renderer {
	return &Renderer{
		w:     w,
		h:     h,
		fonts: fonts,
		ras:   vector.NewRasterizer(w, h),
		Clear: color.Black,
	}
}

// Bounds is the canvas rectangle.
func (r *Renderer) Bounds() image.Rectangle { return image.Rect(0, 0, r.w, r.h) }

// NewImage allocates a canvas-sized image.
func (r *Renderer) NewImage() *image.RGBA { return image.NewRGBA(r.Bounds()) }

// Render paints root over a cleared dst.
func (r *Renderer) Render(dst *image.RGBA, root *draw.Node) error {
	if dst.Bounds() != r.Bounds() {
		return fmt.Errorf("destination is %v, renderer is %v", dst.Bounds(), r.Bounds())
	}
	imgdraw.Draw(dst, dst.Bounds(), image.NewUniform(r.Clear), image.Point{}, imgdraw.Src)
	if root != nil {
		r.node(dst, root, draw.Identity, 1)
	}
	return nil
}

// Image renders root into a new image.
func (r *Renderer) Image(root *draw.Node) *image.RGBA {
	img := r.NewImage()
	_ = r.Render(img, root)
	return img
}

func (r *Renderer) node(dst *image.RGBA, n *draw.Node, m draw.Affine, opacity float64) {
	op := opacity * n.Opacity
	if op <= 0 {
		return
	}

	switch n.Kind {
	case draw.KindGroup:
		if n.Scale == 0 {
			return
		}
		local := m.Mul(draw.Local(n))
		for _, c := range n.Children {
			r.node(dst, c, local, op)
		}
	case draw.KindRect:
		segs := draw.RoundedRectSegments(n.X, n.Y, n.W, n.H, n.CornerRadius)
		r.fill(dst, m, segs, n.Fill, op, n.X+n.W/2, n.Y, n.Y+n.H)
	case draw.KindCircle:
		if n.Radius <= 0 {
			return
		}
		segs := draw.EllipseSegments(n.X, n.Y, n.Radius, n.Radius)
		r.fill(dst, m, segs, n.Fill, op, n.X, n.Y-n.Radius, n.Y+n.Radius)
	case draw.KindPath:
		minX, minY, maxX, maxY := pathBounds(n.Segments)
		r.fill(dst, m, n.Segments, n.Fill, op, (minX+maxX)/2, minY, maxY)
	case draw.KindText:
		r.text(dst, n, m, op)
	}
}

// fill rasterizes segs through m. x, top and bottom place the gradient axis
// in local coordinates.
func (r *Renderer) fill(dst *image.RGBA, m draw.Affine, segs []draw.Segment, p draw.Paint, op, x, top, bottom float64) {
	r.flat.reset(m)
	r.flat.segments(segs)
	r.paint(dst, source(p, op, r.flat.device(x, top), r.flat.device(x, bottom)))
}

// paint fills the flattened contours with src.
func (r *Renderer) paint(dst *image.RGBA, src image.Image) {
	r.ras.Reset(r.w, r.h)
	drawn := false
	for _, c := range r.flat.contours {
		c = clip(c, float64(r.w), float64(r.h))
		if len(c) < 3 {
			continue
		}
		r.ras.MoveTo(float32(c[0].x), float32(c[0].y))
		for _, p := range c[1:] {
			r.ras.LineTo(float32(p.x), float32(p.y))
		}
		r.ras.ClosePath()
		drawn = true
	}
	if drawn {
		r.ras.Draw(dst, dst.Bounds(), src, image.Point{})
	}
}

func (r *Renderer) text(dst *image.RGBA, n *draw.Node, m draw.Affine, op float64) {
	if n.Text == "" || n.FontSize*m.ScaleFactor() < 0.5 {
		return
	}
	face := r.fonts.Face(n.Weight, n.Italic)
	ppem := fixed.Int26_6(math.Round(n.FontSize * 64))

	x := n.X
	if n.Anchor == draw.AnchorMiddle {
		x -= r.measure(face, n.Text, ppem) / 2
	}

	r.flat.reset(m)
	var prev sfnt.GlyphIndex
	for i, ch := range glyphRunes(n.Text) {
		idx, err := face.GlyphIndex(&r.buf, ch)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := face.Kern(&r.buf, prev, idx, ppem, font.HintingNone); err == nil {
				x += unfix(k)
			}
		}
		segs, err := face.LoadGlyph(&r.buf, idx, ppem, nil)
		if err == nil {
			r.glyph(segs, x, n.Y)
		}
		if adv, err := face.GlyphAdvance(&r.buf, idx, ppem, font.HintingNone); err == nil {
			x += unfix(adv)
		}
		prev = idx
	}
	r.flat.closePath()

	src := source(n.Fill, op, r.flat.device(n.X, n.Y-n.FontSize), r.flat.device(n.X, n.Y))
	r.paint(dst, src)
}

// glyph appends one outline with its origin at (ox, oy).
func (r *Renderer) glyph(segs sfnt.Segments, ox, oy float64) {
	at := func(p fixed.Point26_6) pt {
		return r.flat.device(ox+unfix(p.X), oy+unfix(p.Y))
	}
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			r.flat.moveTo(at(s.Args[0]))
		case sfnt.SegmentOpLineTo:
			r.flat.lineTo(at(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			r.flat.quadTo(at(s.Args[0]), at(s.Args[1]))
		case sfnt.SegmentOpCubeTo:
			r.flat.cubeTo(at(s.Args[0]), at(s.Args[1]), at(s.Args[2]))
		}
	}
	r.flat.closePath()
}

// Measure returns the advance width of s in pixels.
func (r *Renderer) Measure(s string, size float64, weight int, italic bool) float64 {
	return r.measure(r.fonts.Face(weight, italic), s, fixed.Int26_6(math.Round(size*64)))
}

func (r *Renderer) measure(face *sfnt.Font, s string, ppem fixed.Int26_6) float64 {
	w := 0.0
	var prev sfnt.GlyphIndex
	for i, ch := range glyphRunes(s) {
		idx, err := face.GlyphIndex(&r.buf, ch)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := face.Kern(&r.buf, prev, idx, ppem, font.HintingNone); err == nil {
				w += unfix(k)
			}
		}
		if adv, err := face.GlyphAdvance(&r.buf, idx, ppem, font.HintingNone); err == nil {
			w += unfix(adv)
		}
		prev = idx
	}
	return w
}

// glyphRunes maps non-breaking spaces to plain spaces for glyph lookup.
func glyphRunes(s string) []rune {
	rs := []rune(s)
	for i, c := range rs {
		if c == reveal.NBSP {
			rs[i] = ' '
		}
	}
	return rs
}

func unfix(v fixed.Int26_6) float64 { return float64(v) / 64 }

func pathBounds(segs []draw.Segment) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range segs {
		n := 1
		switch s.Op {
		case draw.OpCubeTo:
			n = 3
		case draw.OpClose:
			n = 0
		}
		for _, p := range s.Pts[:n] {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}
