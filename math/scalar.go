package math

import "math"

// Epsilon is the tolerance used by the approximate comparisons in this package.
const Epsilon = 1e-5

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 {
	return rad * 180 / math.Pi
}

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// WrapDegrees maps an angle into [0, 360).
func WrapDegrees(deg float32) float32 {
	w := float32(math.Mod(float64(deg), 360))
	if w < 0 {
		w += 360
	}
	// float rounding of a tiny negative value can land exactly on 360
	if w >= 360 {
		w = 0
	}
	return w
}

// ApproxEqual reports whether a and b differ by at most Epsilon.
func ApproxEqual(a, b float32) bool {
	return float32(math.Abs(float64(a-b))) <= Epsilon
}

func Fract(v float32) float32 {
	return v - float32(math.Floor(float64(v)))
}

func Sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func Tan(rad float32) float32 {
	return float32(math.Tan(float64(rad)))
}
