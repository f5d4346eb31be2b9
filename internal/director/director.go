package director

import (
	"errors"
	"fmt"

	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/stats"
)

var (
	// ErrEmptyTimeline is returned when a timeline has no scenes
	ErrEmptyTimeline = errors.New("timeline has no scenes")
	// ErrInvalidScene wraps every per-scene construction error
	ErrInvalidScene = errors.New("invalid scene")
)

// RenderFunc draws a scene at a local frame
type RenderFunc func(local int, s stats.Wrapped) *draw.Node

// SceneSpec places one scene on the timeline
type SceneSpec struct {
	ID       string
	Start    int // First global frame
	Duration int // Frames
	// FadeIn ramps the scene's opacity from 0 to 1 over its first frames
	FadeIn int
	Render RenderFunc
}

// End is the first global frame after the scene
func (s SceneSpec) End() int { return s.Start + s.Duration }

// Backdrop draws a layer under all scenes from the global frame
type Backdrop func(global, total int) *draw.Node

// Timeline composes scenes into one tree per global frame. It is immutable
// after construction and safe for concurrent ComposeAt calls.
type Timeline struct {
	specs    []SceneSpec
	stats    stats.Wrapped
	backdrop Backdrop
	total    int
	fades    []*anim.Curve
}

// Option configures a Timeline
type Option func(*Timeline)

// WithBackdrop draws b under every frame
func WithBackdrop(b Backdrop) Option {
	return func(t *Timeline) {
		t.backdrop = b
	}
}

// NewTimeline validates the scene table and binds it to the stats
func NewTimeline(specs []SceneSpec, s stats.Wrapped, opts ...Option) (*Timeline, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyTimeline
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(specs))
	t := &Timeline{
		specs: append([]SceneSpec(nil), specs...),
		stats: s,
		fades: make([]*anim.Curve, len(specs)),
	}
	for i, sp := range specs {
		switch {
		case sp.ID == "":
			return nil, fmt.Errorf("%w: scene %d has no id", ErrInvalidScene, i)
		case seen[sp.ID]:
			return nil, fmt.Errorf("%w: duplicate scene id %q", ErrInvalidScene, sp.ID)
		case sp.Start < 0:
			return nil, fmt.Errorf("%w: %s: start must be >= 0, got %d", ErrInvalidScene, sp.ID, sp.Start)
		case sp.Duration <= 0:
			return nil, fmt.Errorf("%w: %s: duration must be > 0, got %d", ErrInvalidScene, sp.ID, sp.Duration)
		case sp.FadeIn < 0 || sp.FadeIn > sp.Duration:
			return nil, fmt.Errorf("%w: %s: fade-in must be within the duration, got %d", ErrInvalidScene, sp.ID, sp.FadeIn)
		case sp.Render == nil:
			return nil, fmt.Errorf("%w: %s: no render function", ErrInvalidScene, sp.ID)
		}
		seen[sp.ID] = true

		if sp.End() > t.total {
			t.total = sp.End()
		}
		if sp.FadeIn > 0 {
			t.fades[i] = anim.MustCurve([]float64{0, float64(sp.FadeIn)}, []float64{0, 1})
		}
	}

	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Total is the number of frames in the timeline: the end of the last scene.
// For back-to-back scenes it equals the sum of durations.
func (t *Timeline) Total() int { return t.total }

// Scenes returns a copy of the scene table
func (t *Timeline) Scenes() []SceneSpec {
	return append([]SceneSpec(nil), t.specs...)
}

// Stats returns the bound stats
func (t *Timeline) Stats() stats.Wrapped { return t.stats }

// Dispatch is one scene evaluation for a global frame
type Dispatch struct {
	Index   int
	ID      string
	Local   int
	Opacity float64
}

// Dispatches resolves which scenes draw at global and with which local frame,
// in paint order.
//
// Inside the timeline every scene whose window contains global is active.
// Frames with no active scene hold a neighbour: before the first scene it is
// shown at local 0, after the end or inside a gap the most recently ended
// scene is frozen on its last frame.
func (t *Timeline) Dispatches(global int) []Dispatch {
	var out []Dispatch
	for i, sp := range t.specs {
		if global >= sp.Start && global < sp.End() {
			local := anim.ToLocal(global, sp.Start)
			op := 1.0
			if t.fades[i] != nil {
				op = t.fades[i].At(float64(local))
			}
			out = append(out, Dispatch{Index: i, ID: sp.ID, Local: local, Opacity: op})
		}
	}
	if len(out) > 0 {
		return out
	}

	// Most recently ended scene, later declarations win ties.
	held := -1
	for i, sp := range t.specs {
		if sp.End() <= global && (held < 0 || sp.End() >= t.specs[held].End()) {
			held = i
		}
	}
	if held >= 0 {
		sp := t.specs[held]
		return []Dispatch{{Index: held, ID: sp.ID, Local: sp.Duration - 1, Opacity: 1}}
	}

	// Before everything: earliest scene at its first frame.
	first := 0
	for i, sp := range t.specs {
		if sp.Start < t.specs[first].Start {
			first = i
		}
	}
	return []Dispatch{{Index: first, ID: t.specs[first].ID, Local: 0, Opacity: 1}}
}

// ComposeAt renders the full frame at global. It never fails.
func (t *Timeline) ComposeAt(global int) *draw.Node {
	root := draw.Group("frame")
	if t.backdrop != nil {
		root.Add(t.backdrop(clampFrame(global, t.total), t.total))
	}
	for _, d := range t.Dispatches(global) {
		n := t.specs[d.Index].Render(d.Local, t.stats)
		if n == nil {
			continue
		}
		if d.Opacity != 1 {
			n.Opacity *= d.Opacity
		}
		root.Add(n)
	}
	return root
}

// clampFrame keeps backdrop queries inside [0, total-1]
func clampFrame(global, total int) int {
	if global < 0 {
		return 0
	}
	if total > 0 && global >= total {
		return total - 1
	}
	return global
}
