// Package scenes holds the six sections of the video. Each scene is a pure
// function of its local frame and the wallet stats; none of them sees the
// global frame.
package scenes

import (
	"fmt"

	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/background"
	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/effects"
	"github.com/ivlev/wrapped2video/internal/reveal"
	"github.com/ivlev/wrapped2video/internal/share"
	"github.com/ivlev/wrapped2video/internal/stats"
)

// Scene ids in default running order.
const (
	Intro          = "intro"
	Summary        = "summary"
	NFTHighlights  = "nft-highlights"
	TokenActivity  = "token-activity"
	DeFiInsights   = "defi-insights"
	NewConnections = "new-connections"
)

// IDs lists every scene in default order.
var IDs = []string{Intro, Summary, NFTHighlights, TokenActivity, DeFiInsights, NewConnections}

// Options configures a scene.
type Options struct {
	Size background.Size
	FPS  float64
	// Background is drawn under the scene content. Nil leaves the scene
	// transparent so a timeline backdrop shows through.
	Background *background.Style
	// CardEffect is the entrance mode of stat cards.
	CardEffect string
	// CardEasing names the easing of card entrances; empty means out-cubic.
	CardEasing string
	// CardStagger is the delay between consecutive card entrances in frames.
	CardStagger int
	// ShareURL adds a QR card to the closing scene when set.
	ShareURL string
}

// DefaultOptions renders portrait scenes with the sunrise background.
func DefaultOptions(fps float64) Options {
	bg := background.Style{Mode: background.ModeTransition, Transition: background.Sunrise, FPS: fps}
	return Options{
		Size:        background.Size{W: 1080, H: 1920},
		FPS:         fps,
		Background:  &bg,
		CardEffect:  "slide-up",
		CardStagger: 15,
	}
}

// Scene is a built, immutable scene.
type Scene struct {
	id    string
	env   *env
	build func(e *env, local int, s stats.Wrapped) *draw.Node
}

// ID returns the scene id.
func (s *Scene) ID() string { return s.id }

// Render draws the scene at a local frame. Frames outside the scene window
// are valid: before 0 everything is hidden, long after the end everything
// is settled.
func (s *Scene) Render(local int, w stats.Wrapped) *draw.Node {
	root := draw.Group(s.id)
	if s.env.bg != nil {
		root.Add(s.env.bg.At(local, 0, s.env.size))
	}
	root.Add(s.build(s.env, local, w))
	return root
}

// New builds the scene with the given id.
func New(id string, opts Options) (*Scene, error) {
	build, ok := builders[id]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (known: %v)", id, IDs)
	}
	e, err := newEnv(id, opts)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", id, err)
	}
	return &Scene{id: id, env: e, build: build}, nil
}

var builders = map[string]func(e *env, local int, s stats.Wrapped) *draw.Node{
	Intro:          renderIntro,
	Summary:        renderSummary,
	NFTHighlights:  renderNFTHighlights,
	TokenActivity:  renderTokenActivity,
	DeFiInsights:   renderDeFiInsights,
	NewConnections: renderNewConnections,
}

// maxCards bounds the number of cards a scene can stagger.
const maxCards = 3

// env is the resolved per-scene state shared by every frame.
type env struct {
	id     string
	size   background.Size
	fps    float64
	unit   float64
	bg     *background.Style
	reveal *reveal.Animator
	cards  []effects.Effect
	share  *share.Code
}

func newEnv(id string, opts Options) (*env, error) {
	if opts.Size.W <= 0 || opts.Size.H <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %gx%g", opts.Size.W, opts.Size.H)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("fps must be > 0, got %g", opts.FPS)
	}
	if opts.CardStagger < 0 {
		return nil, fmt.Errorf("card stagger must be >= 0, got %d", opts.CardStagger)
	}

	easing, err := anim.EasingByName(opts.CardEasing)
	if err != nil {
		return nil, err
	}

	ra, err := reveal.New(reveal.DefaultOptions(opts.FPS))
	if err != nil {
		return nil, err
	}

	e := &env{
		id:     id,
		size:   opts.Size,
		fps:    opts.FPS,
		unit:   opts.Size.W / 1080,
		bg:     opts.Background,
		reveal: ra,
	}

	for i := 0; i < maxCards; i++ {
		p := effects.DefaultParams(opts.CardEffect)
		p.Offset = i * opts.CardStagger
		p.Seed = fmt.Sprintf("%s-card-%d", id, i)
		p.Easing = easing
		eff, err := effects.NewEffect(p)
		if err != nil {
			return nil, err
		}
		e.cards = append(e.cards, eff)
	}

	if opts.ShareURL != "" && id == NewConnections {
		if e.share, err = share.NewCode(opts.ShareURL); err != nil {
			return nil, err
		}
	}
	return e, nil
}
