// Package share turns a share link into a QR code drawn with rect nodes.
package share

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/wrapped2video/internal/draw"
)

// Code is an encoded QR symbol. It is built once and drawn every frame.
type Code struct {
	URL     string
	modules [][]bool
}

// NewCode encodes url at medium error correction. The quiet zone is kept.
func NewCode(url string) (*Code, error) {
	if url == "" {
		return nil, fmt.Errorf("share url is empty")
	}
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode share url: %w", err)
	}
	return &Code{URL: url, modules: q.Bitmap()}, nil
}

// Size is the number of modules per side, quiet zone included.
func (c *Code) Size() int {
	return len(c.modules)
}

// Dark reports whether the module at row, col is dark.
func (c *Code) Dark(row, col int) bool {
	if row < 0 || row >= len(c.modules) || col < 0 || col >= len(c.modules[row]) {
		return false
	}
	return c.modules[row][col]
}

// Node draws the code as a side x side square centered on (0, 0) on a
// rounded light card. Horizontal runs of dark modules are merged into one
// rect.
func (c *Code) Node(side float64, dark, light draw.Color) *draw.Node {
	n := float64(c.Size())
	cell := side / n
	half := side / 2

	g := draw.Group("share-qr")
	bg := draw.Rect("qr-card", -half, -half, side, side, draw.Solid(light))
	bg.CornerRadius = cell * 2
	g.Add(bg)

	for row := range c.modules {
		for col := 0; col < len(c.modules[row]); {
			if !c.modules[row][col] {
				col++
				continue
			}
			start := col
			for col < len(c.modules[row]) && c.modules[row][col] {
				col++
			}
			g.Add(draw.Rect(
				fmt.Sprintf("qr-%d-%d", row, start),
				-half+float64(start)*cell, -half+float64(row)*cell,
				float64(col-start)*cell, cell,
				draw.Solid(dark),
			))
		}
	}
	return g
}
