package detect

import "math"

// Synthetic waveform helpers shared by the detect tests.

// silence returns a zero waveform of the given duration.
func silence(duration float64, sampleRate int) []float64 {
	return make([]float64, int(duration*float64(sampleRate)))
}

// addTone mixes a sine burst into samples starting at `at` seconds.
func addTone(samples []float64, sampleRate int, at, duration, freq, amplitude float64) {
	start := int(at * float64(sampleRate))
	n := int(duration * float64(sampleRate))
	for i := 0; i < n && start+i < len(samples); i++ {
		samples[start+i] += amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
}
