// Package effects holds the entrance motions applied to stat cards.
package effects

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"

	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/draw"
)

// Effect animates a card group into place. Apply is called once per frame on
// a freshly built group whose X, Y hold its resting position.
type Effect interface {
	Apply(card *draw.Node, local int) *draw.Node
	Name() string
}

// Modes lists the supported entrance modes.
var Modes = []string{"fade", "slide-left", "slide-right", "slide-up", "rotate", "scale"}

// Params configures an entrance.
type Params struct {
	Mode string
	// Offset is the local frame at which the entrance starts.
	Offset int
	// Duration is the entrance length in frames.
	Duration int
	// Distance is the travel of slide modes in pixels.
	Distance float64
	// Easing shapes the progress; nil means out-cubic.
	Easing ease.TweenFunc
	// Seed picks the mode when Mode is "random".
	Seed string
}

// DefaultParams is a 30 frame entrance travelling 200 px.
func DefaultParams(mode string) Params {
	return Params{Mode: mode, Duration: 30, Distance: 200}
}

// Entrance is the standard card effect.
type Entrance struct {
	mode     string
	offset   int
	distance float64
	progress *anim.Curve
}

// NewEffect validates p and builds the effect.
func NewEffect(p Params) (Effect, error) {
	mode := strings.ToLower(p.Mode)
	if mode == "" {
		mode = "fade"
	}
	if mode == "random" {
		mode = Modes[int(anim.Random("effect-"+p.Seed)*float64(len(Modes)))]
	}
	if !known(mode) {
		return nil, fmt.Errorf("unknown card effect %q (known: %s, random)", p.Mode, strings.Join(Modes, ", "))
	}
	if p.Duration <= 0 {
		return nil, fmt.Errorf("card effect %q: duration must be > 0, got %d", mode, p.Duration)
	}

	fn := p.Easing
	if fn == nil {
		fn = ease.OutCubic
	}
	curve, err := anim.NewCurve(
		[]float64{float64(p.Offset), float64(p.Offset + p.Duration)},
		[]float64{0, 1},
		anim.WithEasing(fn),
	)
	if err != nil {
		return nil, fmt.Errorf("card effect %q: %w", mode, err)
	}

	return &Entrance{mode: mode, offset: p.Offset, distance: p.Distance, progress: curve}, nil
}

func known(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Name returns the resolved mode.
func (e *Entrance) Name() string { return e.mode }

// Progress is the eased entrance progress at the local frame, clamped to [0, 1].
func (e *Entrance) Progress(local int) float64 {
	return e.progress.At(float64(local))
}

// Apply moves, scales, rotates and fades card according to the mode.
func (e *Entrance) Apply(card *draw.Node, local int) *draw.Node {
	if card == nil {
		return nil
	}
	p := e.Progress(local)
	rest := 1 - p
	card.Opacity *= p

	switch e.mode {
	case "slide-left":
		card.X -= e.distance * rest
	case "slide-right":
		card.X += e.distance * rest
	case "slide-up":
		card.Y += e.distance * rest
	case "rotate":
		card.Rotation += -90 * rest
		card.Scale *= 0.5 + 0.5*p
	case "scale":
		card.Scale *= p
	}
	return card
}
