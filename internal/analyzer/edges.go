package analyzer

import "image"

// EdgeDetector finds content by Sobel gradient, so it works on any
// background that is smoother than the text and shapes drawn over it.
type EdgeDetector struct {
	MinArea   int     // Smallest reported box area in pixels²
	Threshold float64 // Gradient magnitude threshold
	Gap       int     // Strokes closer than this many pixels merge
}

func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{MinArea: 64, Threshold: 48, Gap: 3}
}

func (d *EdgeDetector) Detect(img image.Image) ([]Block, error) {
	return luma(img).sobel(d.Threshold).dilate(d.Gap).components(img.Bounds().Min, d.MinArea), nil
}

// LumaDetector treats every pixel brighter than Threshold as content. It
// suits light text on a cleared dark canvas.
type LumaDetector struct {
	MinArea   int
	Threshold float64 // 0..255
	Gap       int
}

func NewLumaDetector() *LumaDetector {
	return &LumaDetector{MinArea: 64, Threshold: 96, Gap: 3}
}

func (d *LumaDetector) Detect(img image.Image) ([]Block, error) {
	return luma(img).above(d.Threshold).dilate(d.Gap).components(img.Bounds().Min, d.MinArea), nil
}
