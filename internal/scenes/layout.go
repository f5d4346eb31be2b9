package scenes

import (
	"fmt"
	"math"

	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/reveal"
)

// Type scale in pixels on a 1080 px wide canvas.
const (
	sizeXL  = 20.0
	size2XL = 24.0
	size3XL = 30.0
	size4XL = 36.0
	size5XL = 48.0
	size6XL = 60.0
	size7XL = 72.0
	size9XL = 128.0
)

const (
	weightBold      = 700
	weightExtraBold = 800
	weightBlack     = 900
)

// line is one revealed text row.
type line struct {
	text   string
	size   float64
	weight int
	italic bool
	// gap is the margin below the row.
	gap float64
}

var panelFill = draw.Solid(draw.White.WithAlpha(0.2))

func (e *env) px(v float64) float64 { return v * e.unit }

func (e *env) lineHeight(size float64) float64 { return e.px(size) * 1.25 }

// text reveals l centered on cx with its line box starting at top.
func (e *env) text(name string, l line, cx, top float64, local int) *draw.Node {
	s := e.px(l.size)
	weight := l.weight
	if weight == 0 {
		weight = weightExtraBold
	}
	return e.reveal.Render(l.text, local, reveal.Style{
		Name:   name,
		X:      cx,
		Y:      top + s*1.0,
		Size:   s,
		Weight: weight,
		Italic: l.italic,
		Fill:   draw.White,
	})
}

func (e *env) linesHeight(lines []line) float64 {
	h := 0.0
	for i, l := range lines {
		h += e.lineHeight(l.size)
		if i < len(lines)-1 {
			h += e.px(l.gap)
		}
	}
	return h
}

func (e *env) cardHeight(lines []line, pad float64) float64 {
	return e.linesHeight(lines) + 2*e.px(pad)
}

// cardWidth fits the widest row plus padding, between 60% and 90% of the
// canvas width.
func (e *env) cardWidth(lines []line, pad float64) float64 {
	w := 0.0
	for _, l := range lines {
		weight := l.weight
		if weight == 0 {
			weight = weightExtraBold
		}
		w = math.Max(w, reveal.Width(l.text, e.px(l.size), weight))
	}
	w += 2 * e.px(pad)
	return math.Min(math.Max(w, e.size.W*0.6), e.size.W*0.9)
}

// card draws a translucent rounded panel of size w x h whose top edge is at
// top, centered on cx, and runs the idx-th card entrance on it.
func (e *env) card(idx int, name string, lines []line, cx, top, w, h, pad float64, local int) *draw.Node {
	g := draw.Group(name).Translate(cx, top+h/2)
	panel := draw.Rect("panel", -w/2, -h/2, w, h, panelFill)
	panel.CornerRadius = e.px(8)
	g.Add(panel)

	y := -h/2 + e.px(pad)
	for i, l := range lines {
		g.Add(e.text(fmt.Sprintf("%s-line-%d", name, i), l, 0, y, local))
		y += e.lineHeight(l.size) + e.px(l.gap)
	}
	if idx >= len(e.cards) {
		idx = len(e.cards) - 1
	}
	return e.cards[idx].Apply(g, local)
}

// piece is one vertically stacked element of a scene.
type piece struct {
	height float64
	gap    float64
	draw   func(top float64) *draw.Node
}

// column stacks pieces and centers the stack vertically on the canvas.
func (e *env) column(name string, pieces ...piece) *draw.Node {
	total := 0.0
	for i, p := range pieces {
		total += p.height
		if i < len(pieces)-1 {
			total += p.gap
		}
	}
	top := e.size.H/2 - total/2
	g := draw.Group(name)
	for _, p := range pieces {
		g.Add(p.draw(top))
		top += p.height + p.gap
	}
	return g
}

// heading is the scene title revealed at the top of the column.
func (e *env) heading(text string, local int) piece {
	l := line{text: text, size: size6XL, weight: weightBlack}
	return piece{
		height: e.lineHeight(l.size),
		gap:    e.px(32),
		draw: func(top float64) *draw.Node {
			return e.text("title", l, e.size.W/2, top, local)
		},
	}
}

// single is one full-width card.
func (e *env) single(idx int, lines []line, pad, gap float64, local int) piece {
	w := e.cardWidth(lines, pad)
	h := e.cardHeight(lines, pad)
	return piece{
		height: h,
		gap:    gap,
		draw: func(top float64) *draw.Node {
			return e.card(idx, fmt.Sprintf("card-%d", idx), lines, e.size.W/2, top, w, h, pad, local)
		},
	}
}

// grid is a row of two equal cards.
func (e *env) grid(left, right []line, pad float64, local int) piece {
	gutter := e.px(24)
	span := math.Min(e.size.W*0.9, e.px(960))
	w := (span - gutter) / 2
	h := math.Max(e.cardHeight(left, pad), e.cardHeight(right, pad))
	x0 := e.size.W/2 - gutter/2 - w/2
	x1 := e.size.W/2 + gutter/2 + w/2
	return piece{
		height: h,
		draw: func(top float64) *draw.Node {
			return draw.Group("grid",
				e.card(0, "card-0", left, x0, top, w, h, pad, local),
				e.card(1, "card-1", right, x1, top, w, h, pad, local),
			)
		},
	}
}
