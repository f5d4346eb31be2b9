package analyzer

import "fmt"

// Detectors lists the names NewDetector accepts.
var Detectors = []string{"edge", "luma"}

// NewDetector creates a detector by name. Empty selects edge detection.
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "edge", "":
		return NewEdgeDetector(), nil
	case "luma":
		return NewLumaDetector(), nil
	default:
		return nil, fmt.Errorf("unknown detector variant %q (known: %v)", variant, Detectors)
	}
}
