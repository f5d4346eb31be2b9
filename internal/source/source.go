package source

import (
	"fmt"
	"image"
	"sync"

	"github.com/ivlev/wrapped2video/internal/director"
	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/renderer"
)

// Source produces numbered frames. RenderFrame must be safe for concurrent
// calls with distinct destinations.
type Source interface {
	FrameCount() int
	Bounds() image.Rectangle
	RenderFrame(index int, dst *image.RGBA) error
	Close() error
}

// TimelineSource rasterizes a timeline. Renderers are pooled so each
// concurrent caller gets its own scratch state.
type TimelineSource struct {
	timeline *director.Timeline
	w, h     int
	pool     sync.Pool
}

// NewTimelineSource renders tl on a w x h canvas with the Go fonts.
func NewTimelineSource(tl *director.Timeline, w, h int) (*TimelineSource, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", w, h)
	}
	fonts, err := renderer.DefaultFonts()
	if err != nil {
		return nil, err
	}
	s := &TimelineSource{timeline: tl, w: w, h: h}
	s.pool.New = func() any {
		return renderer.New(w, h, fonts)
	}
	return s, nil
}

func (s *TimelineSource) FrameCount() int { return s.timeline.Total() }

func (s *TimelineSource) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }

// Tree composes the frame without rasterizing it.
func (s *TimelineSource) Tree(index int) *draw.Node { return s.timeline.ComposeAt(index) }

func (s *TimelineSource) RenderFrame(index int, dst *image.RGBA) error {
	r := s.pool.Get().(*renderer.Renderer)
	defer s.pool.Put(r)
	return r.Render(dst, s.timeline.ComposeAt(index))
}

func (s *TimelineSource) Close() error { return nil }
