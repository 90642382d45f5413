package stats

import "math"

// Cents computes the logarithmic pitch distance from ref to freq in cents
// (100 cents = one semitone, 1200 cents = one octave). Both frequencies
// must be positive; a non-positive input yields NaN.
func Cents(freq, ref float64) float64 {
	if freq <= 0 || ref <= 0 {
		return math.NaN()
	}
	return 1200.0 * math.Log2(freq/ref)
}

// CentsDeviations computes per-element cents deviations of freqs from ref
func CentsDeviations(freqs []float64, ref float64) []float64 {
	devs := make([]float64, len(freqs))
	for i, f := range freqs {
		devs[i] = Cents(f, ref)
	}
	return devs
}
