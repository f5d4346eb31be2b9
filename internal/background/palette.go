// Package background builds the sky, celestial body, mountains and decorative
// elements behind every scene, either from a fixed mood palette or as a
// continuous dawn to daylight transition.
package background

import (
	"fmt"
	"sort"

	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/draw"
)

// Size is the canvas size in pixels.
type Size struct {
	W, H float64
}

// Variant names a discrete mood palette.
type Variant string

const (
	Dark          Variant = "dark"
	Light         Variant = "light"
	Dusk          Variant = "dusk"
	Twilight      Variant = "twilight"
	BlackAndWhite Variant = "blackAndWhite"
)

// Palette is the fixed set of gradients for one variant: sky and three
// mountain layers, back to front.
type Palette struct {
	Sky       draw.Gradient
	Mountains [3]draw.Gradient
}

func grad(top, bottom string) draw.Gradient {
	return draw.Gradient{Top: draw.MustHex(top), Bottom: draw.MustHex(bottom)}
}

var palettes = map[Variant]Palette{
	Dark: {
		Sky:       grad("#140318", "#2a0f24"),
		Mountains: [3]draw.Gradient{grad("#ff6b6b", "#cc2e5d"), grad("#ff8e3c", "#ff5733"), grad("#ff9966", "#ff5e62")},
	},
	Light: {
		Sky:       grad("#87CEEB", "#E0F6FF"),
		Mountains: [3]draw.Gradient{grad("#FFB347", "#FF8C00"), grad("#FFA07A", "#FF6347"), grad("#FF7F50", "#FF4500")},
	},
	Dusk: {
		Sky:       grad("#4A0E2E", "#7A1E3D"),
		Mountains: [3]draw.Gradient{grad("#3B0058", "#6B0058"), grad("#2E1F5B", "#4A3B8C"), grad("#0E0E46", "#1A1A5A")},
	},
	Twilight: {
		Sky:       grad("#1C1C3C", "#2E2E5C"),
		Mountains: [3]draw.Gradient{grad("#2B0F3A", "#3D1C5A"), grad("#1E1E3F", "#2D2D5F"), grad("#0F0F2F", "#1E1E4F")},
	},
	BlackAndWhite: {
		Sky:       grad("#FFFFFF", "#FFFFFF"),
		Mountains: [3]draw.Gradient{grad("#1A1A1A", "#2A2A2A"), grad("#2A2A2A", "#3A3A3A"), grad("#3A3A3A", "#4A4A4A")},
	},
}

// Variants lists every known variant in name order.
func Variants() []Variant {
	out := make([]Variant, 0, len(palettes))
	for v := range palettes {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if _, ok := palettes[v]; !ok {
		return "", fmt.Errorf("unknown background variant %q (known: %v)", s, Variants())
	}
	return v, nil
}

// Night-like variants get a star field.
func (v Variant) starry() bool {
	return v == Dark || v == Twilight || v == Dusk
}

// Celestial radii are given for a 1200 px wide canvas.
const refWidth = 1200.0

// Static renders the discrete palette background for v. Unknown variants
// fall back to Dark so a render never fails.
func Static(v Variant, size Size) *draw.Node {
	p, ok := palettes[v]
	if !ok {
		v, p = Dark, palettes[Dark]
	}
	root := draw.Group("background")
	root.Add(draw.Rect("sky", 0, 0, size.W, size.H, draw.Vertical(p.Sky.Top, p.Sky.Bottom)))
	if v.starry() {
		root.Add(paletteStars(size))
	}
	root.Add(celestial(v, size))

	for i, ridge := range Ridges(size) {
		g := p.Mountains[i]
		root.Add(draw.Path(fmt.Sprintf("mountain-%d", i+1), ridge, draw.Vertical(g.Top, g.Bottom)))
	}
	return root
}

// StarCount is the size of every star field.
const StarCount = 100

func paletteStars(size Size) *draw.Node {
	g := draw.Group("stars")
	for i := 0; i < StarCount; i++ {
		x := anim.Random(fmt.Sprintf("star-%d-x", i)) * size.W
		y := anim.Random(fmt.Sprintf("star-%d-y", i)) * size.H
		r := anim.Random(fmt.Sprintf("star-%d-size", i))*1.5 + 0.5
		op := anim.Random(fmt.Sprintf("star-%d-opacity", i))*0.7 + 0.3
		g.Add(draw.Circle(fmt.Sprintf("star-%d", i), x, y, r, draw.Solid(draw.White)).Faded(op))
	}
	return g
}

func celestial(v Variant, size Size) *draw.Node {
	u := size.W / refWidth
	cx, cy := size.W*0.85, size.H*0.15
	g := draw.Group("celestial")

	switch v {
	case Dark:
		crater := draw.MustHex("#e6e6c3")
		g.Add(
			draw.Circle("moon", cx, cy, 60*u, draw.Solid(draw.MustHex("#fff6a6"))),
			draw.Circle("crater-1", size.W*0.83, size.H*0.13, 15*u, draw.Solid(crater)).Faded(0.4),
			draw.Circle("crater-2", size.W*0.87, size.H*0.16, 10*u, draw.Solid(crater)).Faded(0.3),
			draw.Circle("crater-3", size.W*0.85, size.H*0.18, 8*u, draw.Solid(crater)).Faded(0.2),
		)
	case Light:
		g.Add(draw.Circle("sun", cx, cy, 60*u, draw.Solid(draw.MustHex("#FFD700"))))
	case Dusk:
		g.Add(draw.Circle("sun", cx, cy, 80*u, draw.Solid(draw.MustHex("#FF2400"))))
	case Twilight:
		g.Add(draw.Circle("moon", cx, cy, 70*u, draw.Solid(draw.MustHex("#E6E6FA"))).Faded(0.7))
	case BlackAndWhite:
		g.Add(draw.Circle("sun", cx, cy, 60*u, draw.Solid(draw.MustHex("#000000"))))
	}
	return g
}
