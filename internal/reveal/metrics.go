package reveal

import "unicode"

// Advance approximates the horizontal advance of r in a sans-serif face at
// the given pixel size. Layout only needs to be stable and roughly right;
// the rasterizer centers each glyph on its slot.
func Advance(r rune, size float64, weight int) float64 {
	var em float64
	switch {
	case r == ' ' || r == NBSP:
		em = 0.28
	case r == 'i' || r == 'l' || r == 'j' || r == '.' || r == ',' || r == ':' ||
		r == ';' || r == '\'' || r == '!' || r == '|' || r == 'I':
		em = 0.3
	case r == 'f' || r == 't' || r == 'r' || r == '(' || r == ')':
		em = 0.4
	case r == 'M' || r == 'W' || r == 'm' || r == 'w' || r == '%' || r == '@':
		em = 0.88
	case unicode.IsDigit(r):
		em = 0.6
	case unicode.IsUpper(r):
		em = 0.7
	default:
		em = 0.58
	}
	if weight >= 700 {
		em *= 1.06
	}
	return em * size
}

// Width is the sum of advances of s.
func Width(s string, size float64, weight int) float64 {
	w := 0.0
	for _, r := range s {
		w += Advance(r, size, weight)
	}
	return w
}
