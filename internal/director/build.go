package director

import (
	"fmt"

	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/background"
	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/scenes"
	"github.com/ivlev/wrapped2video/internal/stats"
)

// Composition variants
const (
	VariantSunrise    = "sunrise"      // Each scene draws its own sunrise
	VariantDawnToNoon = "dawn-to-noon" // One backdrop across the whole video
	VariantPalette    = "palette"      // Static mood palette behind each scene
)

// Variants lists the supported composition variants
var Variants = []string{VariantSunrise, VariantDawnToNoon, VariantPalette}

// BuildOptions controls how a timeline file becomes a Timeline
type BuildOptions struct {
	FPS     float64
	Size    background.Size
	Variant string
	// Palette names the static palette for VariantPalette
	Palette    string
	CardEffect string
	ShareURL   string
	// FadeSeconds overrides the file's crossfade when positive
	FadeSeconds float64
}

// Build resolves every entry of f into a scene and lays them out back to
// back. With a crossfade each scene after the first starts that many frames
// before the previous one ends; the crossfade must be shorter than both
// scenes it joins.
func Build(f *File, s stats.Wrapped, opts BuildOptions) (*Timeline, error) {
	if f == nil || len(f.Scenes) == 0 {
		return nil, ErrEmptyTimeline
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("fps must be > 0, got %g", opts.FPS)
	}

	var (
		sceneBg  *background.Style
		timeOpts []Option
	)
	switch opts.Variant {
	case VariantSunrise, "":
		st, err := background.NewStyle(background.Sunrise.Name, "", opts.FPS)
		if err != nil {
			return nil, err
		}
		sceneBg = &st
	case VariantPalette:
		st, err := background.NewStyle("palette", opts.Palette, opts.FPS)
		if err != nil {
			return nil, err
		}
		sceneBg = &st
	case VariantDawnToNoon:
		st, err := background.NewStyle(background.DawnToNoon.Name, "", opts.FPS)
		if err != nil {
			return nil, err
		}
		size := opts.Size
		timeOpts = append(timeOpts, WithBackdrop(func(global, total int) *draw.Node {
			return st.At(global, total, size)
		}))
	default:
		return nil, fmt.Errorf("unknown composition variant %q (known: %v)", opts.Variant, Variants)
	}

	fadeSeconds := f.FadeSeconds
	if opts.FadeSeconds > 0 {
		fadeSeconds = opts.FadeSeconds
	}
	fade := anim.Seconds(fadeSeconds, opts.FPS)

	specs := make([]SceneSpec, 0, len(f.Scenes))
	start := 0
	for i, e := range f.Scenes {
		dur := anim.Seconds(e.Seconds, opts.FPS)
		if dur <= 0 {
			return nil, fmt.Errorf("%w: %s: seconds must be > 0, got %g", ErrInvalidScene, e.ID, e.Seconds)
		}

		so := scenes.DefaultOptions(opts.FPS)
		so.Size = opts.Size
		so.Background = sceneBg
		so.ShareURL = opts.ShareURL
		if opts.CardEffect != "" {
			so.CardEffect = opts.CardEffect
		}
		if e.Effect != "" {
			so.CardEffect = e.Effect
		}
		so.CardEasing = e.Easing
		sc, err := scenes.New(e.ID, so)
		if err != nil {
			return nil, err
		}

		spec := SceneSpec{ID: e.ID, Start: start, Duration: dur, Render: sc.Render}
		if i > 0 && fade > 0 {
			prev := specs[i-1]
			if limit := min(dur, prev.Duration); fade >= limit {
				return nil, fmt.Errorf("%w: %s: crossfade of %d frames must be shorter than %d frames (this scene and %s)",
					ErrInvalidScene, e.ID, fade, limit, prev.ID)
			}
			spec.Start -= fade
			spec.FadeIn = fade
		}
		specs = append(specs, spec)
		start = spec.End()
	}

	return NewTimeline(specs, s, timeOpts...)
}
