// Package draw holds the renderer-agnostic frame tree produced by the scene
// and timeline packages. A tree describes exactly one frame with every style
// attribute already resolved to a number; it is built fresh per frame and
// never mutated afterwards.
package draw

// Kind identifies what a Node draws.
type Kind uint8

const (
	KindGroup Kind = iota
	KindRect
	KindCircle
	KindPath
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	case KindPath:
		return "path"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Anchor is the horizontal alignment of a text run relative to its X.
type Anchor uint8

const (
	AnchorStart Anchor = iota
	AnchorMiddle
)

// Node is the single element type of a frame tree. One flat struct is used
// for all kinds; fields that do not apply to a kind stay zero.
//
// Position semantics per kind:
//
//	group  - X, Y translate the children, then Rotation (degrees) and Scale apply
//	rect   - X, Y is the top-left corner, W x H the size
//	circle - X, Y is the center, Radius the radius
//	path   - Segments are in parent coordinates, X and Y are unused
//	text   - X, Y is the baseline anchor point
//
// Opacity multiplies into everything below the node.
type Node struct {
	Kind Kind
	Name string

	X, Y     float64
	Scale    float64
	Rotation float64
	Opacity  float64

	W, H         float64
	CornerRadius float64
	Radius       float64

	Segments []Segment

	Text     string
	FontSize float64
	Weight   int
	Italic   bool
	Anchor   Anchor

	Fill Paint

	Children []*Node
}

// Group returns a group with an identity transform.
func Group(name string, children ...*Node) *Node {
	return &Node{
		Kind:     KindGroup,
		Name:     name,
		Scale:    1,
		Opacity:  1,
		Children: children,
	}
}

// Rect returns a filled rectangle.
func Rect(name string, x, y, w, h float64, fill Paint) *Node {
	return &Node{Kind: KindRect, Name: name, X: x, Y: y, W: w, H: h, Scale: 1, Opacity: 1, Fill: fill}
}

// Circle returns a filled circle.
func Circle(name string, cx, cy, r float64, fill Paint) *Node {
	return &Node{Kind: KindCircle, Name: name, X: cx, Y: cy, Radius: r, Scale: 1, Opacity: 1, Fill: fill}
}

// Path returns a filled path.
func Path(name string, segs []Segment, fill Paint) *Node {
	return &Node{Kind: KindPath, Name: name, Segments: segs, Scale: 1, Opacity: 1, Fill: fill}
}

// Text returns a text run anchored at (x, y) on its baseline.
func Text(name, s string, x, y, size float64, fill Paint) *Node {
	return &Node{
		Kind:     KindText,
		Name:     name,
		Text:     s,
		X:        x,
		Y:        y,
		FontSize: size,
		Weight:   400,
		Scale:    1,
		Opacity:  1,
		Fill:     fill,
	}
}

// Add appends children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Translate sets the position and returns n.
func (n *Node) Translate(x, y float64) *Node {
	n.X, n.Y = x, y
	return n
}

// Scaled sets the scale and returns n.
func (n *Node) Scaled(s float64) *Node {
	n.Scale = s
	return n
}

// Rotated sets the rotation in degrees and returns n.
func (n *Node) Rotated(deg float64) *Node {
	n.Rotation = deg
	return n
}

// Faded sets the opacity and returns n.
func (n *Node) Faded(o float64) *Node {
	n.Opacity = o
	return n
}
