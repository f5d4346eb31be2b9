// Package analyzer finds content regions in rendered frames and checks them
// against the safe area of the canvas.
package analyzer

import "image"

// Block is a connected region of content.
type Block struct {
	Rect   image.Rectangle
	Pixels int // Pixels marked as content inside Rect
}

// Detector finds content blocks in an image.
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}
