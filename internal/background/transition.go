package background

import (
	"fmt"

	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/draw"
)

// Shade multiplies a mountain color for the top and bottom gradient stops.
type Shade struct {
	Top, Bottom float64
}

// Transition is a continuous background that blends from a dawn palette
// (progress 0) to a daylight palette (progress 1). Each color pair is
// {dawn, day}.
type Transition struct {
	Name      string
	SkyTop    [2]draw.Color
	SkyBottom [2]draw.Color
	Mountains [3][2]draw.Color
	Shades    [3]Shade
	Sun       [2]draw.Color
	SunRadius float64

	// Progress is Spring(frame * Rate, fps, Spring).
	Spring anim.SpringConfig
	Rate   float64

	Stars  int
	Clouds int
	// CloudDriftSeconds is how long clouds take to cross 1.5 canvas widths
	// when the total video length is unknown.
	CloudDriftSeconds float64
}

// Sunrise is the light-blue sky with a rising golden sun used behind each
// scene of the main composition.
var Sunrise = Transition{
	Name:      "sunrise",
	SkyTop:    [2]draw.Color{draw.RGB(173, 216, 230), draw.RGB(135, 206, 235)},
	SkyBottom: [2]draw.Color{draw.RGB(0, 206, 209), draw.RGB(0, 206, 209)},
	Mountains: [3][2]draw.Color{
		{draw.RGB(32, 178, 170), draw.RGB(60, 179, 113)},
		{draw.RGB(32, 178, 170), draw.RGB(60, 179, 113)},
		{draw.RGB(32, 178, 170), draw.RGB(60, 179, 113)},
	},
	Shades:    [3]Shade{{1, 0.8}, {1.1, 0.9}, {1.2, 1}},
	Sun:       [2]draw.Color{draw.MustHex("#FFD700"), draw.MustHex("#FFD700")},
	SunRadius: 70,
	Spring:    anim.SpringConfig{Mass: 1, Stiffness: 100, Damping: 20},
	Rate:      0.5,
}

// DawnToNoon starts from a purple night sky with stars and ends in daylight,
// with clouds drifting across the whole video.
var DawnToNoon = Transition{
	Name:      "dawn-to-noon",
	SkyTop:    [2]draw.Color{draw.RGB(0, 0, 100), draw.RGB(135, 206, 235)},
	SkyBottom: [2]draw.Color{draw.RGB(128, 100, 100), draw.RGB(0, 206, 209)},
	Mountains: [3][2]draw.Color{
		{draw.RGB(50, 0, 50), draw.RGB(60, 179, 113)},
		{draw.RGB(70, 10, 70), draw.RGB(80, 200, 120)},
		{draw.RGB(90, 20, 90), draw.RGB(100, 220, 130)},
	},
	Shades:            [3]Shade{{1, 0.8}, {1, 0.8}, {1, 0.8}},
	Sun:               [2]draw.Color{draw.RGB(255, 50, 0), draw.RGB(255, 215, 0)},
	SunRadius:         70,
	Spring:            anim.SpringConfig{Mass: 1, Stiffness: 50, Damping: 30},
	Rate:              0.25,
	Stars:             StarCount,
	Clouds:            10,
	CloudDriftSeconds: 10,
}

// TransitionByName resolves "sunrise" or "dawn-to-noon".
func TransitionByName(name string) (Transition, error) {
	switch name {
	case Sunrise.Name:
		return Sunrise, nil
	case DawnToNoon.Name:
		return DawnToNoon, nil
	default:
		return Transition{}, fmt.Errorf("unknown background transition %q", name)
	}
}

// Progress is the transition progress at frame. It may overshoot 1 slightly
// for underdamped springs.
func (t Transition) Progress(frame int, fps float64) float64 {
	return anim.Spring(float64(frame)*t.Rate, fps, t.Spring)
}

// State is the input to Transition.Render.
type State struct {
	// Progress drives colors, sun height and star fade.
	Progress float64
	// Frame is the global frame; it drives cloud drift only.
	Frame int
	FPS   float64
	// Total is the video length in frames. Clouds finish their drift at
	// Total and hold; zero falls back to CloudDriftSeconds.
	Total int
}

// unit is the progress domain of every transition curve.
var unit = []float64{0, 1}

// Render builds the background at the given state. Colors are clamped to
// the dawn..day range; the sun height extends so spring overshoot stays
// visible as motion.
func (t Transition) Render(st State, size Size) *draw.Node {
	p := st.Progress
	root := draw.Group("background")

	skyTop := blend(t.SkyTop, p)
	skyBottom := blend(t.SkyBottom, p)
	root.Add(draw.Rect("sky", 0, 0, size.W, size.H, draw.Vertical(skyTop, skyBottom)))

	if t.Stars > 0 {
		root.Add(t.stars(p, size))
	}

	sunY := anim.MustCurve(unit, []float64{size.H, size.H * 0.2}, anim.WithExtrapolation(anim.Extend, anim.Extend)).At(p)
	sun := blend(t.Sun, p)
	root.Add(draw.Circle("sun", size.W/2, sunY, t.SunRadius, draw.Solid(sun)))

	if t.Clouds > 0 {
		root.Add(t.clouds(st, size))
	}

	for i, path := range Ridges(size) {
		base := blend(t.Mountains[i], p)
		sh := t.Shades[i]
		root.Add(draw.Path(fmt.Sprintf("mountain-%d", i+1), path, draw.Vertical(base.Mul(sh.Top), base.Mul(sh.Bottom))))
	}
	return root
}

// blend evaluates a dawn..day color pair at progress p, clamped at both ends.
func blend(pair [2]draw.Color, p float64) draw.Color {
	return anim.MustColorCurve(unit, pair[:]).At(p)
}

// Ridges returns the three rolling hill silhouettes shared by the continuous
// backgrounds, back to front.
func Ridges(size Size) [3][]draw.Segment {
	w, h := size.W, size.H
	hill := func(x0, c1x, c1y, c2x, c2y, x1 float64) []draw.Segment {
		var b draw.PathBuilder
		b.MoveTo(x0, h).CubeTo(c1x, c1y, c2x, c2y, x1, h).Close()
		return b.Segments()
	}
	return [3][]draw.Segment{
		hill(0, w*0.2, h*0.7, w*0.4, h*0.8, w*0.5),
		hill(w*0.3, w*0.5, h*0.75, w*0.7, h*0.85, w*0.8),
		hill(w*0.6, w*0.8, h*0.8, w*0.9, h*0.9, w),
	}
}

var starFade = anim.MustCurve([]float64{0, 0.3}, []float64{1, 0})

func (t Transition) stars(progress float64, size Size) *draw.Node {
	g := draw.Group("stars").Faded(starFade.At(progress))
	for _, s := range StarField(t.Stars, size) {
		g.Add(draw.Circle(s.Name, s.X, s.Y, s.R, draw.Solid(draw.White)))
	}
	return g
}

// Star is one procedurally placed star.
type Star struct {
	Name    string
	X, Y, R float64
}

// StarField places n stars in the top 60% of the canvas. Placement depends
// only on the index and canvas size.
func StarField(n int, size Size) []Star {
	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			Name: fmt.Sprintf("star-%d", i),
			X:    anim.Random(fmt.Sprintf("star-%d-x", i)) * size.W,
			Y:    anim.Random(fmt.Sprintf("star-%d-y", i)) * size.H * 0.6,
			R:    anim.Random(fmt.Sprintf("star-%d-size", i))*2 + 1,
		}
	}
	return stars
}

// Cloud is one drifting cloud at frame zero.
type Cloud struct {
	Name     string
	BaseX, Y float64
	Scale    float64
}

// CloudField places n clouds left of the canvas, staggered by index.
func CloudField(n int, size Size) []Cloud {
	clouds := make([]Cloud, n)
	for i := range clouds {
		clouds[i] = Cloud{
			Name:  fmt.Sprintf("cloud-%d", i),
			BaseX: float64(i-n/2)*(size.W/float64(n)) - size.W*0.5,
			Y:     (0.2*anim.Random(fmt.Sprintf("cloud-%d-y", i)) + 0.2) * size.H,
			Scale: anim.Random(fmt.Sprintf("cloud-%d-scale", i))*0.5 + 0.5,
		}
	}
	return clouds
}

var cloudFade = anim.MustCurve([]float64{0, 0.5}, []float64{0.2, 0.8})

// CloudDrift is the horizontal offset of every cloud at the given state.
func (t Transition) CloudDrift(st State, size Size) float64 {
	span := st.Total
	if span <= 0 {
		span = anim.Seconds(t.CloudDriftSeconds, st.FPS)
	}
	if span <= 0 {
		return 0
	}
	return anim.MustCurve([]float64{0, float64(span)}, []float64{0, size.W * 1.5}).At(float64(st.Frame))
}

func (t Transition) clouds(st State, size Size) *draw.Node {
	drift := t.CloudDrift(st, size)
	g := draw.Group("clouds").Faded(cloudFade.At(st.Progress))
	for _, c := range CloudField(t.Clouds, size) {
		g.Add(draw.Group(c.Name, draw.Path("puff", capsule(), draw.Solid(draw.White))).
			Translate(c.BaseX+drift, c.Y).
			Scaled(c.Scale))
	}
	return g
}

// capsule is a 90x40 cloud with rounded ends, spanning x 5..95 and y 20..60.
func capsule() []draw.Segment {
	const r = 20.0
	k := r * 0.5522847498307936
	var b draw.PathBuilder
	b.MoveTo(25, 60).
		CubeTo(25-k, 60, 5, 40+k, 5, 40).
		CubeTo(5, 40-k, 25-k, 20, 25, 20).
		LineTo(75, 20).
		CubeTo(75+k, 20, 95, 40-k, 95, 40).
		CubeTo(95, 40+k, 75+k, 60, 75, 60).
		Close()
	return b.Segments()
}
