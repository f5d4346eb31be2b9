package anim

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/ivlev/wrapped2video/internal/draw"
)

func TestCurveAt(t *testing.T) {
	clamped := MustCurve([]float64{0, 10, 20}, []float64{0, 100, 50})
	extended := MustCurve([]float64{0, 10, 20}, []float64{0, 100, 50}, WithExtrapolation(Extend, Extend))

	tests := []struct {
		name  string
		curve *Curve
		x     float64
		want  float64
	}{
		{"first breakpoint", clamped, 0, 0},
		{"inside first segment", clamped, 5, 50},
		{"middle breakpoint", clamped, 10, 100},
		{"inside second segment", clamped, 15, 75},
		{"last breakpoint", clamped, 20, 50},
		{"clamp below", clamped, -5, 0},
		{"clamp above", clamped, 100, 50},
		{"extend below", extended, -5, -50},
		{"extend above", extended, 30, 0},
		{"extend inside", extended, 5, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.curve.At(tt.x); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("At(%g): expected %g, got %g", tt.x, tt.want, got)
			}
		})
	}
}

func TestCurveMixedExtrapolation(t *testing.T) {
	c := MustCurve([]float64{0, 1}, []float64{20, 0}, WithExtrapolation(Clamp, Extend))
	if got := c.At(-3); got != 20 {
		t.Errorf("left side should clamp to 20, got %g", got)
	}
	if got := c.At(2); got != -20 {
		t.Errorf("right side should extend to -20, got %g", got)
	}
}

// Clamped output never leaves [min(out), max(out)] and equals the boundary
// values outside the input range.
func TestClampStaysInRange(t *testing.T) {
	in := []float64{0, 15, 30, 600}
	out := []float64{0, 1, 1, 1}
	c := MustCurve(in, out)

	for x := -100.0; x <= 1000; x += 0.5 {
		v := c.At(x)
		if v < 0 || v > 1 {
			t.Fatalf("At(%g) = %g escapes [0, 1]", x, v)
		}
		if x <= 0 && v != 0 {
			t.Fatalf("At(%g) = %g, want 0 before the first breakpoint", x, v)
		}
		if x >= 600 && v != 1 {
			t.Fatalf("At(%g) = %g, want 1 after the last breakpoint", x, v)
		}
	}
}

func TestExtendContinuesSlope(t *testing.T) {
	c := MustCurve([]float64{0, 10}, []float64{5, 25}, WithExtrapolation(Extend, Extend))
	for _, x := range []float64{-40, -1, 11, 250} {
		want := 5 + 2*x
		if got := c.At(x); math.Abs(got-want) > 1e-9 {
			t.Errorf("At(%g): expected %g, got %g", x, want, got)
		}
	}
}

func TestNewCurveErrors(t *testing.T) {
	tests := []struct {
		name    string
		in, out []float64
	}{
		{"single breakpoint", []float64{0}, []float64{1}},
		{"empty", nil, nil},
		{"mismatched lengths", []float64{0, 1, 2}, []float64{0, 1}},
		{"equal inputs", []float64{0, 1, 1}, []float64{0, 1, 2}},
		{"decreasing inputs", []float64{0, 2, 1}, []float64{0, 1, 2}},
		{"nan output", []float64{0, 1}, []float64{0, math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCurve(tt.in, tt.out)
			if !errors.Is(err, ErrBadCurve) {
				t.Errorf("expected ErrBadCurve, got %v", err)
			}
		})
	}

	if _, err := Interpolate(1, []float64{0, 1}, []float64{0}, Clamp); err == nil {
		t.Error("Interpolate should surface construction errors")
	}
}

func TestCurveCopiesInputs(t *testing.T) {
	in := []float64{0, 10}
	out := []float64{0, 1}
	c := MustCurve(in, out)
	in[1], out[1] = 1000, 1000
	if got := c.At(5); got != 0.5 {
		t.Errorf("curve should not alias caller slices, got %g", got)
	}
}

func TestEasing(t *testing.T) {
	fn, err := EasingByName("in-out-cubic")
	if err != nil {
		t.Fatal(err)
	}
	c := MustCurve([]float64{0, 10}, []float64{0, 100}, WithEasing(fn))

	if got := c.At(0); got != 0 {
		t.Errorf("eased start should be exact, got %g", got)
	}
	if got := c.At(10); got != 100 {
		t.Errorf("eased end should be exact, got %g", got)
	}
	if got := c.At(5); math.Abs(got-50) > 1e-4 {
		t.Errorf("in-out-cubic midpoint should be 50, got %g", got)
	}
	if got := c.At(2.5); math.Abs(got-6.25) > 1e-4 {
		t.Errorf("in-out-cubic quarter should be 6.25, got %g", got)
	}

	if fn, err := EasingByName(""); err != nil || fn != nil {
		t.Errorf("empty name should map to nil easing (err %v)", err)
	}
	if fn, err := EasingByName("linear"); err != nil || fn == nil || fn(0.25, 0, 1, 1) != 0.25 {
		t.Errorf("linear should map to a linear easing (err %v)", err)
	}
	if _, err := EasingByName("wobble"); err == nil {
		t.Error("expected error for unknown easing")
	}
}

func TestSpringStartsAtZero(t *testing.T) {
	for _, f := range []float64{-30, -1, 0} {
		if got := Spring(f, 60, DefaultSpring); got != 0 {
			t.Errorf("Spring(%g) = %g, want 0", f, got)
		}
	}
}

func TestSpringIsPure(t *testing.T) {
	cfg := SpringConfig{Mass: 0.5, Stiffness: 100, Damping: 15}
	frames := []float64{12, 3, 90, 3, 45, 12, 0.5}

	first := make(map[float64]float64)
	for _, f := range frames {
		v := Spring(f, 60, cfg)
		if prev, ok := first[f]; ok && math.Float64bits(prev) != math.Float64bits(v) {
			t.Errorf("Spring(%g) changed between calls: %g then %g", f, prev, v)
		}
		first[f] = v
	}
}

func TestSpringSettles(t *testing.T) {
	tests := []struct {
		name string
		cfg  SpringConfig
	}{
		{"underdamped", DefaultSpring},
		{"critical", SpringConfig{Mass: 1, Stiffness: 100, Damping: 20}},
		{"overdamped", SpringConfig{Mass: 1, Stiffness: 100, Damping: 30}},
		{"intro", SpringConfig{Mass: 0.5, Stiffness: 100, Damping: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Spring(600, 60, tt.cfg); math.Abs(got-1) > 1e-6 {
				t.Errorf("expected settled progress ~1 after 10s, got %g", got)
			}
		})
	}
}

func TestSpringDampingRegimes(t *testing.T) {
	maxOf := func(cfg SpringConfig) float64 {
		m := 0.0
		for f := 0.0; f <= 300; f++ {
			m = math.Max(m, Spring(f, 60, cfg))
		}
		return m
	}

	if peak := maxOf(DefaultSpring); peak <= 1 {
		t.Errorf("underdamped spring should overshoot, peak %g", peak)
	}

	clamped := DefaultSpring
	clamped.OvershootClamping = true
	if peak := maxOf(clamped); peak > 1 {
		t.Errorf("overshoot clamping should cap at 1, peak %g", peak)
	}

	for _, cfg := range []SpringConfig{
		{Mass: 1, Stiffness: 100, Damping: 20},
		{Mass: 1, Stiffness: 100, Damping: 30},
	} {
		prev := 0.0
		for f := 1.0; f <= 300; f++ {
			v := Spring(f, 60, cfg)
			if v < prev || v > 1 {
				t.Fatalf("damping %g: progress not monotonic at frame %g (%g after %g)", cfg.Damping, f, v, prev)
			}
			prev = v
		}
	}
}

func TestSpringConfigValidate(t *testing.T) {
	bad := []SpringConfig{
		{Mass: 0, Stiffness: 100, Damping: 10},
		{Mass: 1, Stiffness: -1, Damping: 10},
		{Mass: 1, Stiffness: 100, Damping: -2},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); !errors.Is(err, ErrBadCurve) {
			t.Errorf("%+v: expected ErrBadCurve, got %v", cfg, err)
		}
	}
	if err := DefaultSpring.Validate(); err != nil {
		t.Errorf("default spring should be valid: %v", err)
	}
}

func TestToLocal(t *testing.T) {
	tests := []struct{ global, start, want int }{
		{0, 0, 0},
		{100, 60, 40},
		{10, 60, -50},
		{2000, 60, 1940},
	}
	for _, tt := range tests {
		if got := ToLocal(tt.global, tt.start); got != tt.want {
			t.Errorf("ToLocal(%d, %d) = %d, want %d", tt.global, tt.start, got, tt.want)
		}
	}
	if got := Seconds(2.5, 60); got != 150 {
		t.Errorf("Seconds(2.5, 60) = %d, want 150", got)
	}
}

func TestRandom(t *testing.T) {
	if Random("star-1-x") != Random("star-1-x") {
		t.Fatal("same seed must give same value")
	}
	if Random("star-1-x") == Random("star-1-y") {
		t.Error("different seeds should give different values")
	}

	sum := 0.0
	for i := 0; i < 2000; i++ {
		v := Random("cloud-" + strconv.Itoa(i) + "-y")
		if v < 0 || v >= 1 {
			t.Fatalf("value %g out of [0, 1)", v)
		}
		sum += v
	}
	if mean := sum / 2000; mean < 0.4 || mean > 0.6 {
		t.Errorf("mean %g is far from 0.5", mean)
	}
}

func TestColorCurve(t *testing.T) {
	dawn := draw.RGB(0, 0, 100)
	noon := draw.RGB(135, 206, 235)
	cc := MustColorCurve([]float64{0, 1}, []draw.Color{dawn, noon})

	if got := cc.At(0); got != dawn {
		t.Errorf("expected dawn at 0, got %+v", got)
	}
	if got := cc.At(1); got != noon {
		t.Errorf("expected noon at 1, got %+v", got)
	}
	if got := cc.At(2); got != noon {
		t.Errorf("expected clamp to noon, got %+v", got)
	}
	mid := cc.At(0.5)
	if math.Abs(mid.R-67.5) > 1e-9 || math.Abs(mid.G-103) > 1e-9 || math.Abs(mid.B-167.5) > 1e-9 {
		t.Errorf("unexpected midpoint %+v", mid)
	}
	if LerpColor(dawn, noon, 0.5) != mid {
		t.Error("LerpColor should match the curve midpoint")
	}

	if _, err := NewColorCurve([]float64{0, 1}, []draw.Color{dawn}); err == nil {
		t.Error("expected error for stop count mismatch")
	}
}
