package scenes

import (
	"math"
	"strings"
	"testing"

	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/reveal"
	"github.com/ivlev/wrapped2video/internal/stats"
)

func build(t *testing.T, id string, mutate func(*Options)) *Scene {
	t.Helper()
	opts := DefaultOptions(60)
	if mutate != nil {
		mutate(&opts)
	}
	s, err := New(id, opts)
	if err != nil {
		t.Fatalf("New(%s): %v", id, err)
	}
	return s
}

// lineText joins the glyphs of a revealed line back into a string.
func lineText(n *draw.Node) string {
	var b strings.Builder
	draw.Walk(n, func(c *draw.Node, _ int) bool {
		if c.Kind == draw.KindText {
			b.WriteString(c.Text)
		}
		return true
	})
	return strings.ReplaceAll(b.String(), string(reveal.NBSP), " ")
}

func TestScenesShowStats(t *testing.T) {
	w := stats.Defaults()
	w.WalletOverview = 1234.5

	tests := []struct {
		id    string
		lines map[string]string
	}{
		{Summary, map[string]string{
			"title":         "Summary",
			"card-0-line-0": "Total Transactions: 1000",
			"card-0-line-1": "Wallet Overview: $1234.5",
			"card-0-line-2": "Total SOL Spent on Fees: 10 SOL",
		}},
		{NFTHighlights, map[string]string{
			"title":         "NFT Highlights",
			"card-0-line-1": "DeGods, y00ts, ABC",
			"card-1-line-1": "DeGod #1234",
		}},
		{TokenActivity, map[string]string{
			"card-0-line-1": "USDC, USDT, SOL",
			"card-1-line-0": "SOL Price Change vs Jan 1st:",
			"card-1-line-1": "+50%",
		}},
		{DeFiInsights, map[string]string{
			"card-0-line-1": "1000 SOL",
			"card-1-line-1": "Orca, Raydium, Marinade",
		}},
		{NewConnections, map[string]string{
			"card-0-line-1": "100",
			"footer":        "Your network is growing!",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			tree := build(t, tt.id, nil).Render(120, w)
			for name, want := range tt.lines {
				n := draw.Find(tree, name)
				if n == nil {
					t.Fatalf("line %q not found", name)
				}
				if got := lineText(n); got != want {
					t.Errorf("%s: got %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestScenesAreDeterministic(t *testing.T) {
	w := stats.Defaults()
	for _, id := range IDs {
		s := build(t, id, func(o *Options) { o.ShareURL = "https://example.com/w" })
		for _, f := range []int{-20, 0, 7, 45, 300, 5000} {
			if !draw.Equal(s.Render(f, w), s.Render(f, w)) {
				t.Errorf("%s frame %d: renders differ", id, f)
			}
		}
	}
}

func TestOutOfWindowFrames(t *testing.T) {
	w := stats.Defaults()
	s := build(t, Summary, nil)

	before := s.Render(-10, w)
	card := draw.Find(before, "card-0")
	if card.Opacity != 0 {
		t.Errorf("card should be hidden before the scene, opacity %g", card.Opacity)
	}
	title := draw.Find(before, "title")
	for _, ch := range title.Children {
		if ch.Opacity != 0 {
			t.Fatalf("title glyph %s visible before the scene", ch.Name)
		}
	}

	after := s.Render(10000, w)
	card = draw.Find(after, "card-0")
	if card.Opacity != 1 || card.Scale != 1 || card.Rotation != 0 {
		t.Errorf("card should be settled long after, got %+v", *card)
	}
	for _, ch := range draw.Find(after, "title").Children {
		if ch.Opacity != 1 || ch.Scale != 1 {
			t.Fatalf("title glyph %s not settled", ch.Name)
		}
	}
}

func TestCardsStagger(t *testing.T) {
	s := build(t, TokenActivity, func(o *Options) { o.CardEffect = "fade" })
	tree := s.Render(10, stats.Defaults())
	first := draw.Find(tree, "card-0").Opacity
	second := draw.Find(tree, "card-1").Opacity
	if !(first > second) {
		t.Errorf("second card should trail the first: %g vs %g", first, second)
	}
}

func TestCardEasing(t *testing.T) {
	fade := func(easing string) float64 {
		s := build(t, Summary, func(o *Options) {
			o.CardEffect = "fade"
			o.CardEasing = easing
		})
		return draw.Find(s.Render(15, stats.Defaults()), "card-0").Opacity
	}
	if got := fade("linear"); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("linear card opacity halfway = %g, want 0.5", got)
	}
	if got := fade(""); math.Abs(got-0.875) > 1e-6 {
		t.Errorf("default card opacity halfway = %g, want 0.875", got)
	}
}

func TestIntro(t *testing.T) {
	s := build(t, Intro, nil)
	w := stats.Defaults()

	start := s.Render(0, w)
	if draw.Find(start, "title").Opacity != 0 || draw.Find(start, "year").Opacity != 0 {
		t.Error("title and year must be hidden at frame 0")
	}
	if draw.Find(start, "puff-3") == nil {
		t.Error("intro should draw puff clouds")
	}

	// The year pops after the title.
	mid := s.Render(50, w)
	if draw.Find(mid, "title").Opacity <= draw.Find(mid, "year").Opacity {
		t.Error("title should lead the year")
	}

	end := s.Render(600, w)
	if op := draw.Find(end, "year").Opacity; op < 0.999 {
		t.Errorf("year should be visible at the end, opacity %g", op)
	}
	p0 := draw.Find(s.Render(1000, w), "puff-0").X
	p1 := draw.Find(s.Render(2000, w), "puff-0").X
	if p0 != p1 {
		t.Errorf("puff clouds should stop after their drift, %f vs %f", p0, p1)
	}
}

func TestBackgroundOption(t *testing.T) {
	with := build(t, Summary, nil).Render(0, stats.Defaults())
	if draw.Find(with, "background") == nil {
		t.Error("expected scene background")
	}
	without := build(t, Summary, func(o *Options) { o.Background = nil }).Render(0, stats.Defaults())
	if draw.Find(without, "background") != nil {
		t.Error("scene should be transparent without a background")
	}
}

func TestShareCode(t *testing.T) {
	withURL := func(o *Options) { o.ShareURL = "https://example.com/w/1" }
	if draw.Find(build(t, NewConnections, withURL).Render(600, stats.Defaults()), "share-qr") == nil {
		t.Error("closing scene should carry the share code")
	}
	if draw.Find(build(t, Summary, withURL).Render(600, stats.Defaults()), "share-qr") != nil {
		t.Error("only the closing scene carries the share code")
	}
	if draw.Find(build(t, NewConnections, nil).Render(600, stats.Defaults()), "share-qr") != nil {
		t.Error("no share code without a url")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New("outro", DefaultOptions(60)); err == nil {
		t.Error("expected error for unknown scene")
	}
	bad := []func(*Options){
		func(o *Options) { o.FPS = 0 },
		func(o *Options) { o.Size.W = 0 },
		func(o *Options) { o.CardEffect = "spin" },
		func(o *Options) { o.CardStagger = -1 },
		func(o *Options) { o.CardEasing = "wobble" },
	}
	for i, m := range bad {
		opts := DefaultOptions(60)
		m(&opts)
		if _, err := New(Summary, opts); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}
