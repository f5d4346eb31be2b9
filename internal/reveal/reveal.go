// Package reveal animates text one character at a time: every character
// fades in, rises and grows after a per-index delay.
package reveal

import (
	"fmt"

	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/draw"
)

// NBSP replaces spaces so they keep their advance in every renderer.
const NBSP = '\u00a0'

// Options controls the timing and motion of a reveal. Frame values are in
// frames of the scene clock.
type Options struct {
	DelayPerChar int
	// Window is the length of the pop-in ramp.
	Window int
	// Rise is the initial downward offset in pixels.
	Rise float64
	// FromScale is the initial scale.
	FromScale float64
	FPS       float64
}

// DefaultOptions is a 3-frame stagger with a 15-frame pop-in.
func DefaultOptions(fps float64) Options {
	return Options{DelayPerChar: 3, Window: 15, Rise: 50, FromScale: 0.5, FPS: fps}
}

// Animator evaluates reveal curves. It holds no per-frame state.
type Animator struct {
	opts    Options
	opacity *anim.Curve
	rise    *anim.Curve
	scale   *anim.Curve
}

// New validates opts and builds the shared curves.
func New(opts Options) (*Animator, error) {
	if opts.DelayPerChar < 0 {
		return nil, fmt.Errorf("reveal delay per char must be >= 0, got %d", opts.DelayPerChar)
	}
	if opts.Window <= 0 {
		return nil, fmt.Errorf("reveal window must be > 0, got %d", opts.Window)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("reveal fps must be > 0, got %g", opts.FPS)
	}

	w := float64(opts.Window)
	// Opacity holds at 1 through a ten second tail.
	opIn, opOut := []float64{0, w}, []float64{0, 1}
	if hold := opts.FPS * 10; hold > 2*w {
		opIn, opOut = []float64{0, w, 2 * w, hold}, []float64{0, 1, 1, 1}
	}

	a := &Animator{opts: opts}
	var err error
	if a.opacity, err = anim.NewCurve(opIn, opOut); err != nil {
		return nil, fmt.Errorf("opacity: %w", err)
	}
	if a.rise, err = anim.NewCurve([]float64{0, w}, []float64{opts.Rise, 0}); err != nil {
		return nil, fmt.Errorf("rise: %w", err)
	}
	if a.scale, err = anim.NewCurve([]float64{0, w}, []float64{opts.FromScale, 1}); err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	return a, nil
}

// Options returns the animator's settings.
func (a *Animator) Options() Options { return a.opts }

// CharState is the animated state of one character.
type CharState struct {
	Opacity float64
	OffsetY float64
	Scale   float64
}

// Char returns the state of the character at index i at the given local
// frame. All three ramps share the same clamped window.
func (a *Animator) Char(i, local int) CharState {
	f := float64(local - i*a.opts.DelayPerChar)
	return CharState{
		Opacity: a.opacity.At(f),
		OffsetY: a.rise.At(f),
		Scale:   a.scale.At(f),
	}
}

// Done is the first local frame at which every character of an n-rune
// string is fully shown.
func (a *Animator) Done(n int) int {
	if n <= 0 {
		return 0
	}
	return (n-1)*a.opts.DelayPerChar + a.opts.Window
}

// Align positions a line relative to Style.X.
type Align uint8

const (
	AlignCenter Align = iota
	AlignStart
)

// Style places and paints a revealed line.
type Style struct {
	Name   string
	X, Y   float64
	Size   float64
	Weight int
	Italic bool
	Fill   draw.Color
	Align  Align
}

// Render lays out text on one baseline and animates each character. The
// returned group has one child group per rune.
func (a *Animator) Render(text string, local int, st Style) *draw.Node {
	runes := []rune(text)
	for i, r := range runes {
		if r == ' ' {
			runes[i] = NBSP
		}
	}

	weight := st.Weight
	if weight == 0 {
		weight = 800
	}
	width := Width(string(runes), st.Size, weight)
	x := st.X
	if st.Align == AlignCenter {
		x -= width / 2
	}

	name := st.Name
	if name == "" {
		name = "reveal"
	}
	line := draw.Group(name)
	for i, r := range runes {
		adv := Advance(r, st.Size, weight)
		cs := a.Char(i, local)

		glyph := draw.Text("glyph", string(r), 0, 0, st.Size, draw.Solid(st.Fill))
		glyph.Weight = weight
		glyph.Italic = st.Italic
		glyph.Anchor = draw.AnchorMiddle

		line.Add(draw.Group(fmt.Sprintf("%s-%d", name, i), glyph).
			Translate(x+adv/2, st.Y+cs.OffsetY).
			Scaled(cs.Scale).
			Faded(cs.Opacity))
		x += adv
	}
	return line
}

// Reveal renders white centered text at the origin with default timing and
// the given stagger.
func Reveal(text string, delayPerChar, local int, fps float64) (*draw.Node, error) {
	opts := DefaultOptions(fps)
	opts.DelayPerChar = delayPerChar
	a, err := New(opts)
	if err != nil {
		return nil, err
	}
	return a.Render(text, local, Style{Size: 60, Fill: draw.White}), nil
}
