package scenes

import (
	"fmt"

	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/stats"
)

// introSpring is the soft, slightly heavy pop of the title lines.
var introSpring = anim.SpringConfig{Mass: 0.5, Stiffness: 100, Damping: 15}

var (
	titleRise = anim.MustCurve([]float64{0, 1}, []float64{20, 0}, anim.WithExtrapolation(anim.Extend, anim.Extend))
	yearGrow  = anim.MustCurve([]float64{0, 1}, []float64{0.5, 1}, anim.WithExtrapolation(anim.Extend, anim.Extend))
)

// puff is one cluster-of-circles cloud crossing the intro sky.
type puff struct {
	frames   float64
	from, to float64 // fractions of width
	y        float64 // fraction of height
	scale    float64
	big      float64
	small    float64
	dy       float64
}

var puffs = []puff{
	{frames: 200, from: -0.6, to: 0.3, y: 0.2, scale: 1, big: 25, small: 20, dy: 10},
	{frames: 220, from: -0.4, to: 0.5, y: 0.15, scale: 1.2, big: 30, small: 25, dy: 15},
	{frames: 180, from: -0.2, to: 0.7, y: 0.25, scale: 0.8, big: 20, small: 15, dy: 8},
	{frames: 190, from: 0, to: 0.9, y: 0.1, scale: 1.1, big: 28, small: 22, dy: 12},
}

func renderIntro(e *env, local int, _ stats.Wrapped) *draw.Node {
	root := draw.Group("content")
	root.Add(e.puffClouds(local))

	title := anim.Spring(float64(local)-0.5*e.fps, e.fps, introSpring)
	year := anim.Spring(float64(local)-0.75*e.fps, e.fps, introSpring)

	cx, cy := e.size.W/2, e.size.H/2

	t := draw.Text("glyphs", "Your Solana Year", 0, 0, e.px(size7XL), draw.Solid(draw.White))
	t.Weight = weightExtraBold
	t.Anchor = draw.AnchorMiddle
	root.Add(draw.Group("title", t).
		Translate(cx, cy-e.px(40)+titleRise.At(title)).
		Faded(clamp01(title)))

	y := draw.Text("glyphs", "Wrapped", 0, 0, e.px(size9XL), draw.Solid(draw.White))
	y.Weight = weightBlack
	y.Anchor = draw.AnchorMiddle
	root.Add(draw.Group("year", y).
		Translate(cx, cy+e.px(size9XL)).
		Scaled(yearGrow.At(year)).
		Faded(clamp01(year)))

	return root
}

// puffClouds drift in from the left and stop once their own clamp is hit.
func (e *env) puffClouds(local int) *draw.Node {
	g := draw.Group("puffs")
	fpsScale := e.fps / 60
	for i, p := range puffs {
		progress := anim.MustCurve([]float64{0, p.frames * fpsScale}, []float64{0, 1.5},
			anim.WithExtrapolation(anim.Extend, anim.Clamp)).At(float64(local))
		x := anim.MustCurve([]float64{0, 1}, []float64{e.size.W * p.from, e.size.W * p.to},
			anim.WithExtrapolation(anim.Extend, anim.Extend)).At(progress)

		white := draw.Solid(draw.White)
		g.Add(draw.Group(fmt.Sprintf("puff-%d", i),
			draw.Circle("a", 0, 0, p.big, white),
			draw.Circle("b", p.big, -p.dy, p.small, white),
			draw.Circle("c", 2*p.big, 0, p.big, white),
			draw.Circle("d", p.big, p.dy, p.small, white),
		).Translate(x, e.size.H*p.y).Scaled(p.scale*e.unit))
	}
	return g
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
