package background

import (
	"fmt"

	"github.com/ivlev/wrapped2video/internal/draw"
)

// Mode selects how a background is parameterized.
type Mode uint8

const (
	// ModeTransition blends dawn to day by progress.
	ModeTransition Mode = iota
	// ModePalette draws a static mood palette.
	ModePalette
)

// Params selects and parameterizes one background.
type Params struct {
	Mode       Mode
	Variant    Variant
	Transition Transition
	State      State
}

// Render draws the background described by p.
func Render(p Params, size Size) *draw.Node {
	if p.Mode == ModePalette {
		return Static(p.Variant, size)
	}
	return p.Transition.Render(p.State, size)
}

// Style is a reusable background choice resolved once from configuration.
// Scenes call At with their local frame.
type Style struct {
	Mode       Mode
	Variant    Variant
	Transition Transition
	FPS        float64
}

// NewStyle resolves a style from a transition name ("sunrise",
// "dawn-to-noon") or "palette" plus a variant name.
func NewStyle(kind, variant string, fps float64) (Style, error) {
	if fps <= 0 {
		return Style{}, fmt.Errorf("background fps must be > 0, got %g", fps)
	}
	if kind == "palette" {
		v, err := ParseVariant(variant)
		if err != nil {
			return Style{}, err
		}
		return Style{Mode: ModePalette, Variant: v, FPS: fps}, nil
	}
	t, err := TransitionByName(kind)
	if err != nil {
		return Style{}, err
	}
	return Style{Mode: ModeTransition, Transition: t, FPS: fps}, nil
}

// At renders the style for frame. total bounds cloud drift and may be zero.
func (s Style) At(frame, total int, size Size) *draw.Node {
	return Render(Params{
		Mode:       s.Mode,
		Variant:    s.Variant,
		Transition: s.Transition,
		State: State{
			Progress: s.Transition.Progress(frame, s.FPS),
			Frame:    frame,
			FPS:      s.FPS,
			Total:    total,
		},
	}, size)
}
