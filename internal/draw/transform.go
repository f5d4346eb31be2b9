package draw

import "math"

// Affine is a 2D affine matrix laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// Identity is the identity transform.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Local returns the node's own transform: translate(X, Y) * rotate * scale.
// Only groups carry a transform; leaves return Identity.
func Local(n *Node) Affine {
	if n.Kind != KindGroup {
		return Identity
	}
	sin, cos := math.Sincos(n.Rotation * math.Pi / 180)
	s := n.Scale
	return Affine{cos * s, sin * s, -sin * s, cos * s, n.X, n.Y}
}

// Mul returns m * c (c is applied first).
func (m Affine) Mul(c Affine) Affine {
	return Affine{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Apply maps a point through m.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ScaleFactor is the uniform scale encoded in m, used to size strokes and
// glyphs under a transform.
func (m Affine) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}
