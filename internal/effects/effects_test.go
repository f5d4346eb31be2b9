package effects

import (
	"testing"

	"github.com/ivlev/wrapped2video/internal/draw"
)

func card() *draw.Node {
	return draw.Group("card").Translate(100, 200)
}

func TestEntranceModes(t *testing.T) {
	tests := []struct {
		mode     string
		check    func(n *draw.Node) bool
		startMsg string
	}{
		{"fade", func(n *draw.Node) bool { return n.X == 100 && n.Y == 200 && n.Scale == 1 }, "fade should not move"},
		{"slide-left", func(n *draw.Node) bool { return n.X == -100 }, "slide-left should start 200px left"},
		{"slide-right", func(n *draw.Node) bool { return n.X == 300 }, "slide-right should start 200px right"},
		{"slide-up", func(n *draw.Node) bool { return n.Y == 400 }, "slide-up should start 200px low"},
		{"rotate", func(n *draw.Node) bool { return n.Rotation == -90 && n.Scale == 0.5 }, "rotate should start turned and small"},
		{"scale", func(n *draw.Node) bool { return n.Scale == 0 }, "scale should start at 0"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			p := DefaultParams(tt.mode)
			p.Offset = 10
			e, err := NewEffect(p)
			if err != nil {
				t.Fatal(err)
			}

			start := e.Apply(card(), 0)
			if start.Opacity != 0 {
				t.Errorf("card should be hidden before its offset, opacity %g", start.Opacity)
			}
			if !tt.check(start) {
				t.Errorf("%s: got %+v", tt.startMsg, *start)
			}

			end := e.Apply(card(), 40)
			if end.Opacity != 1 || end.X != 100 || end.Y != 200 || end.Scale != 1 || end.Rotation != 0 {
				t.Errorf("card should rest in place after the entrance, got %+v", *end)
			}
		})
	}
}

func TestEntranceProgressMonotonic(t *testing.T) {
	e, err := NewEffect(DefaultParams("slide-up"))
	if err != nil {
		t.Fatal(err)
	}
	en := e.(*Entrance)
	prev := -1.0
	for f := -5; f <= 40; f++ {
		p := en.Progress(f)
		if p < prev || p < 0 || p > 1 {
			t.Fatalf("frame %d: progress %g after %g", f, p, prev)
		}
		prev = p
	}
}

func TestNewEffectErrors(t *testing.T) {
	if _, err := NewEffect(Params{Mode: "spin", Duration: 10}); err == nil {
		t.Error("expected error for unknown mode")
	}
	if _, err := NewEffect(Params{Mode: "fade"}); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestRandomModeIsSeeded(t *testing.T) {
	a, err := NewEffect(Params{Mode: "random", Duration: 10, Seed: "summary-card-0"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewEffect(Params{Mode: "random", Duration: 10, Seed: "summary-card-0"})
	if a.Name() != b.Name() {
		t.Errorf("same seed picked %s and %s", a.Name(), b.Name())
	}
	if !known(a.Name()) {
		t.Errorf("random picked unknown mode %q", a.Name())
	}
}
