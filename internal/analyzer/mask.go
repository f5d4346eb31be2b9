package analyzer

import (
	"image"
	"image/color"
)

// plane is a grayscale copy of an image in float luma.
type plane struct {
	w, h int
	v    []float64
}

func luma(img image.Image) plane {
	b := img.Bounds()
	p := plane{w: b.Dx(), h: b.Dy(), v: make([]float64, b.Dx()*b.Dy())}
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < p.h; y++ {
			row := rgba.Pix[rgba.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < p.w; x++ {
				px := row[4*x : 4*x+3]
				p.v[y*p.w+x] = 0.299*float64(px[0]) + 0.587*float64(px[1]) + 0.114*float64(px[2])
			}
		}
		return p
	}
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			p.v[y*p.w+x] = float64(g.Y)
		}
	}
	return p
}

func (p plane) at(x, y int) float64 { return p.v[y*p.w+x] }

// mask marks content pixels.
type mask struct {
	w, h int
	on   []bool
}

func newMask(w, h int) mask { return mask{w: w, h: h, on: make([]bool, w*h)} }

// sobel marks pixels whose gradient magnitude exceeds threshold. The border
// row and column are never marked.
func (p plane) sobel(threshold float64) mask {
	m := newMask(p.w, p.h)
	t2 := threshold * threshold
	for y := 1; y < p.h-1; y++ {
		for x := 1; x < p.w-1; x++ {
			gx := p.at(x+1, y-1) + 2*p.at(x+1, y) + p.at(x+1, y+1) -
				p.at(x-1, y-1) - 2*p.at(x-1, y) - p.at(x-1, y+1)
			gy := p.at(x-1, y+1) + 2*p.at(x, y+1) + p.at(x+1, y+1) -
				p.at(x-1, y-1) - 2*p.at(x, y-1) - p.at(x+1, y-1)
			m.on[y*p.w+x] = gx*gx+gy*gy > t2
		}
	}
	return m
}

// above marks pixels brighter than threshold.
func (p plane) above(threshold float64) mask {
	m := newMask(p.w, p.h)
	for i, v := range p.v {
		m.on[i] = v > threshold
	}
	return m
}

// dilate grows marked pixels by r in both axes, joining nearby strokes into
// one block. Separable: a row pass then a column pass.
func (m mask) dilate(r int) mask {
	if r <= 0 {
		return m
	}
	rows := newMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
		last := -r - 1
		for x := 0; x < m.w+r; x++ {
			if x < m.w && m.on[y*m.w+x] {
				last = x
			}
			if c := x - r; c >= 0 && c < m.w && (x-last <= 2*r) {
				rows.on[y*m.w+c] = true
			}
		}
	}
	out := newMask(m.w, m.h)
	for x := 0; x < m.w; x++ {
		last := -r - 1
		for y := 0; y < m.h+r; y++ {
			if y < m.h && rows.on[y*m.w+x] {
				last = y
			}
			if c := y - r; c >= 0 && c < m.h && (y-last <= 2*r) {
				out.on[c*m.w+x] = true
			}
		}
	}
	return out
}

// components returns the bounding boxes of 4-connected marked regions with
// at least minArea box area, in scan order.
func (m mask) components(origin image.Point, minArea int) []Block {
	seen := make([]bool, len(m.on))
	var blocks []Block
	var stack []int
	for start, on := range m.on {
		if !on || seen[start] {
			continue
		}
		minX, minY := m.w, m.h
		maxX, maxY := -1, -1
		pixels := 0

		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%m.w, i/m.w
			pixels++
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for _, n := range [4][2]int{{x + 1, y}, {x - 1, y}, {x, y + 1}, {x, y - 1}} {
				if n[0] < 0 || n[0] >= m.w || n[1] < 0 || n[1] >= m.h {
					continue
				}
				j := n[1]*m.w + n[0]
				if m.on[j] && !seen[j] {
					seen[j] = true
					stack = append(stack, j)
				}
			}
		}

		r := image.Rect(minX, minY, maxX+1, maxY+1).Add(origin)
		if r.Dx()*r.Dy() >= minArea {
			blocks = append(blocks, Block{Rect: r, Pixels: pixels})
		}
	}
	return blocks
}
