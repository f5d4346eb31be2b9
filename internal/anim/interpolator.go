package anim

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"
)

// ErrBadCurve is wrapped by every curve construction error
var ErrBadCurve = errors.New("invalid interpolation curve")

// Extrapolation decides what a curve returns outside its breakpoint range
type Extrapolation uint8

const (
	// Clamp holds the boundary output value
	Clamp Extrapolation = iota
	// Extend continues the slope of the nearest segment
	Extend
)

func (e Extrapolation) String() string {
	if e == Extend {
		return "extend"
	}
	return "clamp"
}

// Curve is a validated piecewise-linear mapping from input breakpoints to
// output breakpoints. It is immutable and safe for concurrent use.
type Curve struct {
	in, out     []float64
	left, right Extrapolation
	easing      ease.TweenFunc
}

// Option configures a Curve
type Option func(*Curve)

// WithExtrapolation sets the policy below the first and above the last breakpoint
func WithExtrapolation(left, right Extrapolation) Option {
	return func(c *Curve) {
		c.left, c.right = left, right
	}
}

// WithEasing shapes the progress inside every segment. Extrapolated regions
// stay linear.
func WithEasing(fn ease.TweenFunc) Option {
	return func(c *Curve) {
		c.easing = fn
	}
}

// NewCurve validates the breakpoints and builds a curve. Both sides clamp
// unless WithExtrapolation says otherwise.
func NewCurve(in, out []float64, opts ...Option) (*Curve, error) {
	if len(in) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 breakpoints, got %d", ErrBadCurve, len(in))
	}
	if len(in) != len(out) {
		return nil, fmt.Errorf("%w: %d input breakpoints but %d outputs", ErrBadCurve, len(in), len(out))
	}
	for i := range in {
		if math.IsNaN(in[i]) || math.IsNaN(out[i]) {
			return nil, fmt.Errorf("%w: NaN at breakpoint %d", ErrBadCurve, i)
		}
		if i > 0 && in[i] <= in[i-1] {
			return nil, fmt.Errorf("%w: input breakpoints must be strictly increasing (%g after %g at index %d)",
				ErrBadCurve, in[i], in[i-1], i)
		}
	}

	c := &Curve{
		in:  append([]float64(nil), in...),
		out: append([]float64(nil), out...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustCurve is NewCurve for fixed tables built during package or scene
// construction. It panics on invalid breakpoints.
func MustCurve(in, out []float64, opts ...Option) *Curve {
	c, err := NewCurve(in, out, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// At evaluates the curve at x
func (c *Curve) At(x float64) float64 {
	n := len(c.in)
	if math.IsNaN(x) {
		return c.out[0]
	}

	// Before first breakpoint
	if x < c.in[0] {
		if c.left == Clamp {
			return c.out[0]
		}
		return c.extend(0, x)
	}

	// After last breakpoint
	if x > c.in[n-1] {
		if c.right == Clamp {
			return c.out[n-1]
		}
		return c.extend(n-2, x)
	}

	// Find surrounding breakpoints
	i := sort.SearchFloat64s(c.in, x)
	if c.in[i] == x {
		return c.out[i]
	}
	seg := i - 1

	// Interpolation factor (0.0 to 1.0)
	t := (x - c.in[seg]) / (c.in[seg+1] - c.in[seg])
	if c.easing != nil {
		t = float64(c.easing(float32(t), 0, 1, 1))
	}
	return lerp(c.out[seg], c.out[seg+1], t)
}

// extend continues segment seg linearly past the breakpoint range
func (c *Curve) extend(seg int, x float64) float64 {
	slope := (c.out[seg+1] - c.out[seg]) / (c.in[seg+1] - c.in[seg])
	return c.out[seg] + (x-c.in[seg])*slope
}

// Interpolate is the one-shot form of NewCurve(...).At(x) with the same
// policy on both sides.
func Interpolate(x float64, in, out []float64, ext Extrapolation) (float64, error) {
	c, err := NewCurve(in, out, WithExtrapolation(ext, ext))
	if err != nil {
		return 0, err
	}
	return c.At(x), nil
}

// lerp interpolates between a and b; exact at t == 0 and t == 1
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// EasingByName resolves the easing names accepted in timeline files. An
// empty name returns nil so callers keep their own default.
func EasingByName(name string) (ease.TweenFunc, error) {
	switch strings.ToLower(name) {
	case "":
		return nil, nil
	case "linear":
		return ease.Linear, nil
	case "in-quad":
		return ease.InQuad, nil
	case "out-quad":
		return ease.OutQuad, nil
	case "in-out-quad":
		return ease.InOutQuad, nil
	case "out-cubic":
		return ease.OutCubic, nil
	case "in-out-cubic":
		return ease.InOutCubic, nil
	case "in-out-sine":
		return ease.InOutSine, nil
	case "out-back":
		return ease.OutBack, nil
	case "out-elastic":
		return ease.OutElastic, nil
	case "out-bounce":
		return ease.OutBounce, nil
	default:
		return nil, fmt.Errorf("unknown easing %q", name)
	}
}
