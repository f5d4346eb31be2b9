// Package svg serializes frame trees as standalone SVG documents.
package svg

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/wrapped2video/internal/draw"
)

// FontFamily is written on every text element.
const FontFamily = "Go, sans-serif"

// Encode writes root as an SVG document of the given size. Output depends
// only on the tree, so equal trees encode to equal bytes.
func Encode(w io.Writer, root *draw.Node, width, height int) error {
	e := &encoder{w: bufio.NewWriter(w)}
	e.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	if root != nil {
		e.node(root, 1)
	}
	e.printf("</svg>\n")
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// String encodes root into a string.
func String(root *draw.Node, width, height int) string {
	var b strings.Builder
	_ = Encode(&b, root, width, height)
	return b.String()
}

type encoder struct {
	w     *bufio.Writer
	err   error
	grads int
}

func (e *encoder) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *encoder) indent(depth int) {
	e.printf("%s", strings.Repeat("  ", depth))
}

func (e *encoder) node(n *draw.Node, depth int) {
	switch n.Kind {
	case draw.KindGroup:
		e.indent(depth)
		e.printf(`<g id="%s"%s%s>`+"\n", escape(n.Name), transform(n), opacity(n.Opacity))
		for _, c := range n.Children {
			e.node(c, depth+1)
		}
		e.indent(depth)
		e.printf("</g>\n")
	case draw.KindRect:
		fill := e.fill(n.Fill, depth)
		e.indent(depth)
		e.printf(`<rect x="%s" y="%s" width="%s" height="%s"`, num(n.X), num(n.Y), num(n.W), num(n.H))
		if n.CornerRadius > 0 {
			e.printf(` rx="%s"`, num(n.CornerRadius))
		}
		e.printf("%s%s/>\n", fill, opacity(n.Opacity))
	case draw.KindCircle:
		fill := e.fill(n.Fill, depth)
		e.indent(depth)
		e.printf(`<circle cx="%s" cy="%s" r="%s"%s%s/>`+"\n", num(n.X), num(n.Y), num(n.Radius), fill, opacity(n.Opacity))
	case draw.KindPath:
		fill := e.fill(n.Fill, depth)
		e.indent(depth)
		e.printf(`<path d="%s"%s%s/>`+"\n", pathData(n.Segments), fill, opacity(n.Opacity))
	case draw.KindText:
		fill := e.fill(n.Fill, depth)
		e.indent(depth)
		e.printf(`<text x="%s" y="%s" font-family="%s" font-size="%s" font-weight="%d"`,
			num(n.X), num(n.Y), FontFamily, num(n.FontSize), n.Weight)
		if n.Italic {
			e.printf(` font-style="italic"`)
		}
		if n.Anchor == draw.AnchorMiddle {
			e.printf(` text-anchor="middle"`)
		}
		e.printf("%s%s>%s</text>\n", fill, opacity(n.Opacity), escape(n.Text))
	}
}

// fill returns the fill attributes for p, emitting a gradient definition
// first when needed.
func (e *encoder) fill(p draw.Paint, depth int) string {
	if p.Gradient == nil {
		return colorAttrs("fill", p.Color)
	}
	id := fmt.Sprintf("grad%d", e.grads)
	e.grads++
	e.indent(depth)
	e.printf(`<defs><linearGradient id="%s" x1="0" y1="0" x2="0" y2="1">`, id)
	e.printf(`<stop offset="0"%s/>`, colorAttrs("stop-color", p.Gradient.Top))
	e.printf(`<stop offset="1"%s/>`, colorAttrs("stop-color", p.Gradient.Bottom))
	e.printf("</linearGradient></defs>\n")
	return fmt.Sprintf(` fill="url(#%s)"`, id)
}

func colorAttrs(attr string, c draw.Color) string {
	s := fmt.Sprintf(` %s="%s"`, attr, c.CSS())
	if c.A < 1 {
		op := "fill-opacity"
		if attr == "stop-color" {
			op = "stop-opacity"
		}
		s += fmt.Sprintf(` %s="%s"`, op, num(math.Max(c.A, 0)))
	}
	return s
}

func transform(n *draw.Node) string {
	var parts []string
	if n.X != 0 || n.Y != 0 {
		parts = append(parts, fmt.Sprintf("translate(%s %s)", num(n.X), num(n.Y)))
	}
	if n.Rotation != 0 {
		parts = append(parts, fmt.Sprintf("rotate(%s)", num(n.Rotation)))
	}
	if n.Scale != 1 {
		parts = append(parts, fmt.Sprintf("scale(%s)", num(n.Scale)))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(` transform="%s"`, strings.Join(parts, " "))
}

func opacity(o float64) string {
	if o >= 1 {
		return ""
	}
	return fmt.Sprintf(` opacity="%s"`, num(math.Max(o, 0)))
}

func pathData(segs []draw.Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if i > 0 {
			b.WriteByte(' ')
		}
		p := s.Pts
		switch s.Op {
		case draw.OpMoveTo:
			fmt.Fprintf(&b, "M%s %s", num(p[0].X), num(p[0].Y))
		case draw.OpLineTo:
			fmt.Fprintf(&b, "L%s %s", num(p[0].X), num(p[0].Y))
		case draw.OpCubeTo:
			fmt.Fprintf(&b, "C%s %s %s %s %s %s",
				num(p[0].X), num(p[0].Y), num(p[1].X), num(p[1].Y), num(p[2].X), num(p[2].Y))
		case draw.OpClose:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

// num prints v with at most three decimals.
func num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
