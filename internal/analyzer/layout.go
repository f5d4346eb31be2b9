package analyzer

import (
	"fmt"
	"image"
	"math"

	"github.com/ivlev/wrapped2video/internal/background"
	"github.com/ivlev/wrapped2video/internal/director"
	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/renderer"
)

// SafeArea insets bounds on every side by margin times the shorter side.
func SafeArea(bounds image.Rectangle, margin float64) image.Rectangle {
	d := int(math.Round(float64(min(bounds.Dx(), bounds.Dy())) * margin))
	return bounds.Inset(d)
}

// Overflow returns the blocks that leave safe.
func Overflow(blocks []Block, safe image.Rectangle) []Block {
	var out []Block
	for _, b := range blocks {
		if !b.Rect.In(safe) {
			out = append(out, b)
		}
	}
	return out
}

// LayoutOptions configures CheckLayout.
type LayoutOptions struct {
	Size     background.Size // Canvas the timeline was built for
	Scale    float64         // Render scale for detection, 0 means 0.25
	Margin   float64         // Safe margin as a fraction of the shorter side
	Detector Detector        // nil means the edge detector
}

// Finding is the settled layout of one scene. Rectangles are in canvas
// pixels.
type Finding struct {
	Scene    string
	Frame    int // Local frame that was checked
	Blocks   []Block
	Overflow []Block
}

// CheckLayout renders the last frame of every scene without its background
// or decorations and reports content outside the safe area.
func CheckLayout(tl *director.Timeline, opts LayoutOptions) ([]Finding, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 0.25
	}
	det := opts.Detector
	if det == nil {
		det = NewEdgeDetector()
	}
	w, h := int(opts.Size.W*scale), int(opts.Size.H*scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas %gx%g too small at scale %g", opts.Size.W, opts.Size.H, scale)
	}

	fonts, err := renderer.DefaultFonts()
	if err != nil {
		return nil, err
	}
	r := renderer.New(w, h, fonts)
	safe := SafeArea(r.Bounds(), opts.Margin)

	var findings []Finding
	for _, sp := range tl.Scenes() {
		local := sp.Duration - 1
		content := contentOnly(sp.Render(local, tl.Stats()))
		if content == nil {
			continue
		}
		blocks, err := det.Detect(r.Image(draw.Group("layout", content).Scaled(scale)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sp.ID, err)
		}
		findings = append(findings, Finding{
			Scene:    sp.ID,
			Frame:    local,
			Blocks:   unscale(blocks, scale),
			Overflow: unscale(Overflow(blocks, safe), scale),
		})
	}
	return findings, nil
}

// contentOnly returns a copy of the scene's content group without drifting
// decorations.
func contentOnly(tree *draw.Node) *draw.Node {
	n := draw.Find(tree, "content")
	if n == nil {
		return nil
	}
	c := *n
	c.Children = nil
	for _, ch := range n.Children {
		if ch.Name != "puffs" {
			c.Children = append(c.Children, ch)
		}
	}
	return &c
}

func unscale(blocks []Block, scale float64) []Block {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		r := b.Rect
		out[i] = Block{
			Rect: image.Rect(
				int(math.Floor(float64(r.Min.X)/scale)), int(math.Floor(float64(r.Min.Y)/scale)),
				int(math.Ceil(float64(r.Max.X)/scale)), int(math.Ceil(float64(r.Max.Y)/scale)),
			),
			Pixels: b.Pixels,
		}
	}
	return out
}
