package share

import (
	"testing"

	"github.com/ivlev/wrapped2video/internal/draw"
)

func TestNewCode(t *testing.T) {
	c, err := NewCode("https://example.com/wrapped/abc")
	if err != nil {
		t.Fatal(err)
	}
	// Version 1 is 21 modules plus a 4 module quiet zone on each side.
	if c.Size() < 29 {
		t.Errorf("unexpected symbol size %d", c.Size())
	}
	if c.Dark(0, 0) {
		t.Error("quiet zone must be light")
	}
	if !c.Dark(4, 4) {
		t.Error("finder pattern corner must be dark")
	}
	if c.Dark(-1, 3) || c.Dark(3, 10000) {
		t.Error("out of range modules read as light")
	}

	if _, err := NewCode(""); err == nil {
		t.Error("expected error for empty url")
	}
}

func TestNodeCoversDarkModules(t *testing.T) {
	c, err := NewCode("https://example.com")
	if err != nil {
		t.Fatal(err)
	}
	side := float64(c.Size()) * 10
	n := c.Node(side, draw.RGB(0, 0, 0), draw.White)

	dark := 0
	for r := 0; r < c.Size(); r++ {
		for col := 0; col < c.Size(); col++ {
			if c.Dark(r, col) {
				dark++
			}
		}
	}

	covered := 0.0
	for _, child := range n.Children[1:] {
		covered += child.W * child.H
		if child.H != 10 {
			t.Fatalf("runs are one module tall, got %f", child.H)
		}
	}
	if covered != float64(dark)*100 {
		t.Errorf("rects cover %f px², want %d modules", covered, dark)
	}
	if !draw.Equal(n, c.Node(side, draw.RGB(0, 0, 0), draw.White)) {
		t.Error("node must be deterministic")
	}
}
