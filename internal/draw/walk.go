package draw

import "math"

// Walk visits n and its descendants depth-first in paint order. Returning
// false from fn skips the node's children.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Count returns the number of nodes in the tree.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// Find returns the first node with the given name, or nil.
func Find(n *Node, name string) *Node {
	var found *Node
	Walk(n, func(c *Node, _ int) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Equal reports whether two trees are identical down to the bit pattern of
// every numeric attribute.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Name != b.Name || a.Text != b.Text ||
		a.Weight != b.Weight || a.Italic != b.Italic || a.Anchor != b.Anchor {
		return false
	}
	if !same(a.X, b.X) || !same(a.Y, b.Y) || !same(a.Scale, b.Scale) ||
		!same(a.Rotation, b.Rotation) || !same(a.Opacity, b.Opacity) ||
		!same(a.W, b.W) || !same(a.H, b.H) || !same(a.CornerRadius, b.CornerRadius) ||
		!same(a.Radius, b.Radius) || !same(a.FontSize, b.FontSize) {
		return false
	}
	if !samePaint(a.Fill, b.Fill) {
		return false
	}
	if len(a.Segments) != len(b.Segments) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Segments {
		sa, sb := a.Segments[i], b.Segments[i]
		if sa.Op != sb.Op {
			return false
		}
		for j := range sa.Pts {
			if !same(sa.Pts[j].X, sb.Pts[j].X) || !same(sa.Pts[j].Y, sb.Pts[j].Y) {
				return false
			}
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func same(x, y float64) bool {
	return math.Float64bits(x) == math.Float64bits(y)
}

func sameColor(x, y Color) bool {
	return same(x.R, y.R) && same(x.G, y.G) && same(x.B, y.B) && same(x.A, y.A)
}

func samePaint(x, y Paint) bool {
	if !sameColor(x.Color, y.Color) {
		return false
	}
	if x.Gradient == nil || y.Gradient == nil {
		return x.Gradient == y.Gradient
	}
	return sameColor(x.Gradient.Top, y.Gradient.Top) && sameColor(x.Gradient.Bottom, y.Gradient.Bottom)
}
