package director

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ivlev/wrapped2video/internal/background"
	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/scenes"
	"github.com/ivlev/wrapped2video/internal/stats"
)

// marker renders a group named after the scene carrying the local frame in X.
func marker(id string) RenderFunc {
	return func(local int, _ stats.Wrapped) *draw.Node {
		return draw.Group(id).Translate(float64(local), 0)
	}
}

func twoScenes(t *testing.T) *Timeline {
	t.Helper()
	tl, err := NewTimeline([]SceneSpec{
		{ID: "a", Start: 0, Duration: 10, Render: marker("a")},
		{ID: "b", Start: 10, Duration: 10, Render: marker("b")},
	}, stats.Defaults())
	if err != nil {
		t.Fatalf("NewTimeline: %v", err)
	}
	return tl
}

func TestDispatches(t *testing.T) {
	tl := twoScenes(t)

	if tl.Total() != 20 {
		t.Fatalf("Total = %d, want 20", tl.Total())
	}

	tests := []struct {
		global int
		id     string
		local  int
	}{
		{0, "a", 0},
		{9, "a", 9},
		{10, "b", 0},
		{19, "b", 9},
		{25, "b", 9},
		{-5, "a", 0},
	}

	for _, tt := range tests {
		d := tl.Dispatches(tt.global)
		if len(d) != 1 {
			t.Fatalf("frame %d: %d active scenes, want 1", tt.global, len(d))
		}
		if d[0].ID != tt.id || d[0].Local != tt.local || d[0].Opacity != 1 {
			t.Errorf("frame %d: got %+v, want %s@%d", tt.global, d[0], tt.id, tt.local)
		}
	}
}

func TestComposeAtUsesLocalFrames(t *testing.T) {
	tl := twoScenes(t)

	frame := tl.ComposeAt(12)
	if frame.Name != "frame" || len(frame.Children) != 1 {
		t.Fatalf("unexpected frame %+v", frame)
	}
	b := draw.Find(frame, "b")
	if b == nil || b.X != 2 {
		t.Errorf("scene b should render local frame 2, got %+v", b)
	}
	if draw.Find(frame, "a") != nil {
		t.Error("scene a must not draw after its window")
	}
}

func TestGapHoldsPreviousScene(t *testing.T) {
	tl, err := NewTimeline([]SceneSpec{
		{ID: "a", Start: 5, Duration: 10, Render: marker("a")},
		{ID: "b", Start: 30, Duration: 10, Render: marker("b")},
	}, stats.Defaults())
	if err != nil {
		t.Fatal(err)
	}

	d := tl.Dispatches(20)
	if len(d) != 1 || d[0].ID != "a" || d[0].Local != 9 {
		t.Errorf("gap should freeze a on its last frame, got %+v", d)
	}
	d = tl.Dispatches(2)
	if len(d) != 1 || d[0].ID != "a" || d[0].Local != 0 {
		t.Errorf("lead-in should hold a at 0, got %+v", d)
	}
}

func TestCrossfade(t *testing.T) {
	tl, err := NewTimeline([]SceneSpec{
		{ID: "a", Start: 0, Duration: 20, Render: marker("a")},
		{ID: "b", Start: 15, Duration: 20, FadeIn: 5, Render: marker("b")},
	}, stats.Defaults())
	if err != nil {
		t.Fatal(err)
	}

	prev := -1.0
	for g := 15; g < 20; g++ {
		d := tl.Dispatches(g)
		if len(d) != 2 || d[0].ID != "a" || d[1].ID != "b" {
			t.Fatalf("frame %d: both scenes should draw in order, got %+v", g, d)
		}
		if d[1].Opacity <= prev {
			t.Errorf("frame %d: entering opacity %g not above %g", g, d[1].Opacity, prev)
		}
		prev = d[1].Opacity

		n := draw.Find(tl.ComposeAt(g), "b")
		if n.Opacity != d[1].Opacity {
			t.Errorf("frame %d: composed opacity %g, want %g", g, n.Opacity, d[1].Opacity)
		}
	}

	if d := tl.Dispatches(20); len(d) != 1 || d[0].Opacity != 1 {
		t.Errorf("after the overlap only b draws at full opacity, got %+v", d)
	}
}

func TestBackdrop(t *testing.T) {
	var got []int
	tl, err := NewTimeline([]SceneSpec{
		{ID: "a", Duration: 10, Render: marker("a")},
	}, stats.Defaults(), WithBackdrop(func(global, total int) *draw.Node {
		got = append(got, global)
		return draw.Group("backdrop")
	}))
	if err != nil {
		t.Fatal(err)
	}

	frame := tl.ComposeAt(50)
	if frame.Children[0].Name != "backdrop" {
		t.Error("backdrop must be painted first")
	}
	if got[0] != 9 {
		t.Errorf("backdrop frame should clamp to 9, got %d", got[0])
	}
}

func TestNewTimelineErrors(t *testing.T) {
	r := marker("x")
	tests := []struct {
		name  string
		specs []SceneSpec
	}{
		{"no id", []SceneSpec{{Duration: 1, Render: r}}},
		{"duplicate", []SceneSpec{{ID: "a", Duration: 1, Render: r}, {ID: "a", Duration: 1, Render: r}}},
		{"negative start", []SceneSpec{{ID: "a", Start: -1, Duration: 1, Render: r}}},
		{"zero duration", []SceneSpec{{ID: "a", Render: r}}},
		{"long fade", []SceneSpec{{ID: "a", Duration: 2, FadeIn: 3, Render: r}}},
		{"no render", []SceneSpec{{ID: "a", Duration: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeline(tt.specs, stats.Defaults())
			if !errors.Is(err, ErrInvalidScene) {
				t.Errorf("expected ErrInvalidScene, got %v", err)
			}
		})
	}

	if _, err := NewTimeline(nil, stats.Defaults()); !errors.Is(err, ErrEmptyTimeline) {
		t.Errorf("expected ErrEmptyTimeline, got %v", err)
	}
}

func TestBuildDefaultFile(t *testing.T) {
	f := DefaultFile(6, 10)
	tl, err := Build(f, stats.Defaults(), BuildOptions{
		FPS:  30,
		Size: background.Size{W: 540, H: 960},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if tl.Total() != 30*(6+5*10) {
		t.Errorf("Total = %d, want %d", tl.Total(), 30*56)
	}
	specs := tl.Scenes()
	for i, id := range scenes.IDs {
		if specs[i].ID != id {
			t.Errorf("scene %d: got %s, want %s", i, specs[i].ID, id)
		}
	}
	if specs[1].Start != 180 {
		t.Errorf("summary should start at 180, got %d", specs[1].Start)
	}

	frame := tl.ComposeAt(200)
	if draw.Find(frame, scenes.Summary) == nil || draw.Find(frame, "background") == nil {
		t.Error("summary should draw with its own background")
	}
}

func TestBuildVariants(t *testing.T) {
	f := &File{Scenes: []Entry{{ID: scenes.Intro, Seconds: 1}, {ID: scenes.Summary, Seconds: 1}}}
	base := BuildOptions{FPS: 10, Size: background.Size{W: 108, H: 192}}

	dawn := base
	dawn.Variant = VariantDawnToNoon
	tl, err := Build(f, stats.Defaults(), dawn)
	if err != nil {
		t.Fatal(err)
	}
	frame := tl.ComposeAt(3)
	if frame.Children[0].Name != "background" {
		t.Error("dawn-to-noon draws one backdrop under the scenes")
	}
	if draw.Find(frame.Children[1], "background") != nil {
		t.Error("scenes must stay transparent over the backdrop")
	}

	pal := base
	pal.Variant = VariantPalette
	pal.Palette = "dusk"
	if _, err := Build(f, stats.Defaults(), pal); err != nil {
		t.Errorf("palette variant: %v", err)
	}
	pal.Palette = "neon"
	if _, err := Build(f, stats.Defaults(), pal); err == nil {
		t.Error("expected error for unknown palette")
	}

	bad := base
	bad.Variant = "sunset"
	if _, err := Build(f, stats.Defaults(), bad); err == nil {
		t.Error("expected error for unknown variant")
	}
}

func TestBuildCrossfade(t *testing.T) {
	f := &File{FadeSeconds: 0.5, Scenes: []Entry{
		{ID: scenes.Summary, Seconds: 2},
		{ID: scenes.TokenActivity, Seconds: 2, Effect: "fade"},
	}}
	tl, err := Build(f, stats.Defaults(), BuildOptions{FPS: 10, Size: background.Size{W: 108, H: 192}})
	if err != nil {
		t.Fatal(err)
	}
	specs := tl.Scenes()
	if specs[1].Start != 15 || specs[1].FadeIn != 5 {
		t.Errorf("second scene should overlap by 5 frames, got %+v", specs[1])
	}
	if tl.Total() != 35 {
		t.Errorf("Total = %d, want 35", tl.Total())
	}
}

func TestBuildErrors(t *testing.T) {
	opts := BuildOptions{FPS: 30, Size: background.Size{W: 108, H: 192}}
	tests := []struct {
		name string
		file *File
	}{
		{"empty", &File{}},
		{"unknown scene", &File{Scenes: []Entry{{ID: "outro", Seconds: 1}}}},
		{"zero seconds", &File{Scenes: []Entry{{ID: scenes.Intro}}}},
		{"bad effect", &File{Scenes: []Entry{{ID: scenes.Intro, Seconds: 1, Effect: "spin"}}}},
		{"bad easing", &File{Scenes: []Entry{{ID: scenes.Intro, Seconds: 1, Easing: "wobble"}}}},
		{"fade as long as a scene", &File{FadeSeconds: 1, Scenes: []Entry{
			{ID: scenes.Intro, Seconds: 1},
			{ID: scenes.Summary, Seconds: 3},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.file, stats.Defaults(), opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBuildRejectsFadeLongerThanScenes(t *testing.T) {
	opts := BuildOptions{FPS: 60, Size: background.Size{W: 108, H: 192}, FadeSeconds: 10}
	_, err := Build(DefaultFile(6, 10), stats.Defaults(), opts)
	if !errors.Is(err, ErrInvalidScene) {
		t.Fatalf("expected ErrInvalidScene, got %v", err)
	}

	// Just under the shortest scene still builds and keeps scenes in order.
	opts.FadeSeconds = 5.9
	tl, err := Build(DefaultFile(6, 10), stats.Defaults(), opts)
	if err != nil {
		t.Fatal(err)
	}
	specs := tl.Scenes()
	for i := 1; i < len(specs); i++ {
		if specs[i].Start <= specs[i-1].Start {
			t.Errorf("%s starts at %d, not after %s at %d", specs[i].ID, specs[i].Start, specs[i-1].ID, specs[i-1].Start)
		}
	}
	if got := len(tl.Dispatches(tl.Total() - 1)); got != 1 {
		t.Errorf("last frame draws %d scenes, want 1", got)
	}
}

func TestTimelineFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.yaml")
	f := DefaultFile(6, 10)
	f.FadeSeconds = 0.25
	f.Scenes[2].Effect = "rotate"
	f.Scenes[2].Easing = "out-back"

	if err := WriteTimeline(f, path); err != nil {
		t.Fatalf("WriteTimeline: %v", err)
	}
	got, err := ReadTimeline(path)
	if err != nil {
		t.Fatalf("ReadTimeline: %v", err)
	}

	if got.Version != FileVersion || got.FadeSeconds != 0.25 || len(got.Scenes) != len(f.Scenes) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Scenes[2] != f.Scenes[2] {
		t.Errorf("entry mismatch: %+v vs %+v", got.Scenes[2], f.Scenes[2])
	}
}
