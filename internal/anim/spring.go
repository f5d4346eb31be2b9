package anim

import (
	"fmt"
	"math"
)

// SpringConfig describes a damped harmonic oscillator pulled from 0 to 1.
type SpringConfig struct {
	Mass      float64 `yaml:"mass"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	// OvershootClamping caps progress at 1 once the target is passed.
	OvershootClamping bool `yaml:"overshoot_clamping"`
}

// DefaultSpring is a slightly underdamped spring that settles in about a second.
var DefaultSpring = SpringConfig{Mass: 1, Stiffness: 100, Damping: 10}

// Validate rejects configurations with no defined motion.
func (c SpringConfig) Validate() error {
	if !(c.Mass > 0) {
		return fmt.Errorf("%w: spring mass must be > 0, got %g", ErrBadCurve, c.Mass)
	}
	if !(c.Stiffness > 0) {
		return fmt.Errorf("%w: spring stiffness must be > 0, got %g", ErrBadCurve, c.Stiffness)
	}
	if c.Damping < 0 || math.IsNaN(c.Damping) {
		return fmt.Errorf("%w: spring damping must be >= 0, got %g", ErrBadCurve, c.Damping)
	}
	return nil
}

// Spring returns the spring's progress at frame. It is the analytic solution
// of m*x'' + c*x' + k*(x-1) = 0 with x(0) = 0 and x'(0) = 0, so the result
// depends on frame alone. Frames at or before zero return 0. Invalid configs
// and fps <= 0 return 1 (already settled).
func Spring(frame, fps float64, cfg SpringConfig) float64 {
	if frame <= 0 || math.IsNaN(frame) {
		return 0
	}
	if fps <= 0 || cfg.Validate() != nil {
		return 1
	}

	t := frame / fps
	w0 := math.Sqrt(cfg.Stiffness / cfg.Mass)
	zeta := cfg.Damping / (2 * math.Sqrt(cfg.Stiffness*cfg.Mass))

	var x float64
	switch {
	case zeta < 1:
		wd := w0 * math.Sqrt(1-zeta*zeta)
		env := math.Exp(-zeta * w0 * t)
		x = 1 - env*(math.Cos(wd*t)+(zeta*w0/wd)*math.Sin(wd*t))
	case zeta == 1:
		x = 1 - math.Exp(-w0*t)*(1+w0*t)
	default:
		s := math.Sqrt(zeta*zeta - 1)
		r1 := -w0 * (zeta - s)
		r2 := -w0 * (zeta + s)
		x = 1 - (r2*math.Exp(r1*t)-r1*math.Exp(r2*t))/(r2-r1)
	}

	if cfg.OvershootClamping && x > 1 {
		return 1
	}
	return x
}
