package mapper

import "math"

// normalize maps a raw 0-255 axis sample to -1..1 with 128 at rest.
func normalize(v uint8) float64 {
	n := (float64(v) - 128) / 127
	if n < -1 {
		n = -1
	}
	return n
}

// shape applies the dead zone and sensitivity curve to a normalized sample.
// Values inside the dead zone collapse to zero; the remainder is rescaled so
// output still spans the full -1..1 range, then curved.
func shape(n, deadzone, curve float64) float64 {
	mag := math.Abs(n)
	if mag <= deadzone {
		return 0
	}
	mag = (mag - deadzone) / (1 - deadzone)
	mag = math.Pow(mag, curve)
	if n < 0 {
		return -mag
	}
	return mag
}

// accumulator converts a stream of fractional per-cycle deltas into whole
// units, carrying the remainder so slow deflections still move eventually.
type accumulator struct {
	frac float64
}

// Add folds in one cycle's delta and returns the whole units now available.
func (a *accumulator) Add(delta float64) int {
	a.frac += delta
	whole := math.Trunc(a.frac)
	a.frac -= whole
	return int(whole)
}

// Reset drops the carried remainder.
func (a *accumulator) Reset() {
	a.frac = 0
}
