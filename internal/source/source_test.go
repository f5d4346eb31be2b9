package source

import (
	"bytes"
	"image"
	"testing"

	"github.com/ivlev/wrapped2video/internal/background"
	"github.com/ivlev/wrapped2video/internal/director"
	"github.com/ivlev/wrapped2video/internal/stats"
)

func smallTimeline(t *testing.T) *director.Timeline {
	t.Helper()
	f := &director.File{Scenes: []director.Entry{{ID: "intro", Seconds: 1}, {ID: "summary", Seconds: 1}}}
	tl, err := director.Build(f, stats.Defaults(), director.BuildOptions{FPS: 10, Size: background.Size{W: 54, H: 96}})
	if err != nil {
		t.Fatal(err)
	}
	return tl
}

func TestTimelineSource(t *testing.T) {
	src, err := NewTimelineSource(smallTimeline(t), 54, 96)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if src.FrameCount() != 20 {
		t.Errorf("FrameCount = %d, want 20", src.FrameCount())
	}

	a, b := newImage(src), newImage(src)
	if err := src.RenderFrame(12, a); err != nil {
		t.Fatal(err)
	}
	if err := src.RenderFrame(12, b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same frame rendered differently")
	}
	if src.Tree(12) == nil {
		t.Error("Tree returned nil")
	}
}

func TestNewTimelineSourceRejectsEmptyCanvas(t *testing.T) {
	if _, err := NewTimelineSource(smallTimeline(t), 0, 10); err == nil {
		t.Error("expected error")
	}
}

func newImage(s *TimelineSource) *image.RGBA { return image.NewRGBA(s.Bounds()) }
