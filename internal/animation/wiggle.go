package animation

import (
	"math"
	"time"
)

// DefaultWiggleLeg is the time the wiggle takes between two extremes.
const DefaultWiggleLeg = 100 * time.Millisecond

// Wiggle is the idle edit-mode oscillation at elapsed. It runs the
// triangular cycle 0 -> 1 -> 0 -> -1 -> 0, spending leg on each step.
func Wiggle(elapsed, leg time.Duration) float64 {
	if leg <= 0 {
		leg = DefaultWiggleLeg
	}
	if elapsed < 0 {
		elapsed = -elapsed
	}
	period := 4 * leg
	p := float64(elapsed%period) / float64(leg)

	switch {
	case p < 1:
		return p
	case p < 2:
		return 2 - p
	case p < 3:
		return -(p - 2)
	default:
		return p - 4
	}
}

// wiggleInputs are the wiggle values each rotation row is keyed on.
var wiggleInputs = []float64{-1, -0.5, 0, 0.5, 1}

// rotations gives neighbouring icons different swings, in degrees.
var rotations = [][]float64{
	{-3, -1.5, 0, 1.5, 3},
	{-1.5, 0, 1.5, 3, 1.5},
	{3, 1.5, 0, -1.5, -3},
	{0, 3, 1.5, 0, -1.5},
	{-1.5, 0, 1.5, 3, 1.5},
}

// Rotation maps a wiggle value to the tilt of the icon at idx, in degrees.
func Rotation(idx int, wiggle float64) float64 {
	if idx < 0 {
		idx = -idx
	}
	return Interpolate(wiggle, wiggleInputs, rotations[idx%len(rotations)])
}

// Interpolate maps v through the piecewise linear curve given by in and
// out. in must be ascending. Values outside the range clamp to the ends.
func Interpolate(v float64, in, out []float64) float64 {
	n := len(in)
	if n == 0 || len(out) != n {
		return 0
	}
	if v <= in[0] {
		return out[0]
	}
	if v >= in[n-1] {
		return out[n-1]
	}
	for i := 1; i < n; i++ {
		if v <= in[i] {
			span := in[i] - in[i-1]
			if span == 0 {
				return out[i]
			}
			t := (v - in[i-1]) / span
			return Lerp(out[i-1], out[i], t)
		}
	}
	return out[n-1]
}

// Lerp blends a toward b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Scale is the size multiplier of the active icon for a pressing value.
func Scale(pressing float64) float64 {
	return Lerp(1, 1.15, clamp01(pressing))
}

// Opacity is the opacity of the active icon for a pressing value.
func Opacity(pressing float64) float64 {
	return Lerp(1, 0.7, clamp01(pressing))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
