package detect

import "math"

// DetectPeaks returns the sample indices whose amplitude strictly exceeds
// threshold, in ascending order. No debouncing happens here: spacing
// depends on which peaks the spectral check accepts, so the validator owns
// it.
func DetectPeaks(samples []float64, threshold float64) []int {
	var peaks []int
	for i, s := range samples {
		if math.Abs(s) > threshold {
			peaks = append(peaks, i)
		}
	}
	return peaks
}
