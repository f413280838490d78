package detect

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Hamming returns an n-point Hamming window.
func Hamming(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// magnitudeSpectrum keeps the lower half of an FFT result; the input is
// real, so the upper half mirrors it.
func magnitudeSpectrum(spectrum []complex128) []float64 {
	half := len(spectrum) / 2
	mag := make([]float64, half)
	for i := 0; i < half; i++ {
		mag[i] = cmplx.Abs(spectrum[i])
	}
	return mag
}

// STFT computes Hamming-windowed magnitude frames over samples. Returns nil
// when the input is shorter than one window.
func STFT(samples []float64, windowSize, hopSize int) [][]float64 {
	if len(samples) < windowSize {
		return nil
	}
	win := Hamming(windowSize)
	frames := make([][]float64, 0, (len(samples)-windowSize)/hopSize+1)
	for start := 0; start+windowSize <= len(samples); start += hopSize {
		frame := make([]float64, windowSize)
		for i := 0; i < windowSize; i++ {
			frame[i] = samples[start+i] * win[i]
		}
		frames = append(frames, magnitudeSpectrum(fft.FFTReal(frame)))
	}
	return frames
}

// averagedProfile reduces a window to one magnitude-per-bin profile by
// averaging STFT frames across time.
func averagedProfile(window []float64, windowSize, hopSize int) []float64 {
	frames := STFT(window, windowSize, hopSize)
	if len(frames) == 0 {
		return nil
	}
	profile := make([]float64, len(frames[0]))
	for _, frame := range frames {
		for i, m := range frame {
			profile[i] += m
		}
	}
	inv := 1.0 / float64(len(frames))
	for i := range profile {
		profile[i] *= inv
	}
	return profile
}

// Validate debounces candidates and accepts those whose short-window
// spectrum concentrates energy in the profile's bands.
//
// Debouncing skips every candidate closer than sampleRate*windowDuration
// samples to the last tested one, so at most one FFT pass runs per
// windowDuration-wide stretch of signal regardless of how dense the raw
// candidates are.
//
// The per-bin profile is L1-normalized before the band sum, making the
// acceptance ratio independent of absolute loudness. A window with zero
// total energy has no defined ratio and is rejected outright; a window with
// all of its energy in-band is accepted outright.
//
// Accepted and rejected windows are the extracted time-domain sub-signals,
// returned for diagnostics; len(accepted) always equals
// len(acceptedWindows).
func Validate(samples []float64, candidates []int, sampleRate int, windowDuration float64, profile SpectralProfile) (accepted []int, acceptedWindows, rejectedWindows [][]float64) {
	spacing := int(float64(sampleRate) * windowDuration)
	lastTested := -spacing // first candidate is always eligible

	for _, c := range candidates {
		if c < lastTested+spacing {
			continue
		}
		lastTested = c

		lo := c - spacing
		if lo < 0 {
			lo = 0
		}
		hi := c + spacing
		if hi > len(samples) {
			hi = len(samples)
		}
		window := samples[lo:hi]

		if bandRatioAccepts(window, profile) {
			accepted = append(accepted, c)
			acceptedWindows = append(acceptedWindows, window)
		} else {
			rejectedWindows = append(rejectedWindows, window)
		}
	}
	return accepted, acceptedWindows, rejectedWindows
}

// bandRatioAccepts decides one window: bandEnergy/(total-bandEnergy) must
// exceed the profile's acceptance ratio.
func bandRatioAccepts(window []float64, profile SpectralProfile) bool {
	bins := averagedProfile(window, profile.WindowSize, profile.HopSize)
	if bins == nil {
		return false
	}

	var total float64
	for _, m := range bins {
		total += m
	}
	if total == 0 {
		// Silence: the ratio is undefined, never a crash.
		return false
	}
	for i := range bins {
		bins[i] /= total
	}

	var bandEnergy float64
	for _, b := range profile.Bands {
		hi := b.Hi
		if hi > len(bins) {
			hi = len(bins)
		}
		for i := b.Lo; i < hi; i++ {
			bandEnergy += bins[i]
		}
	}

	rest := 1.0 - bandEnergy
	if rest <= 0 {
		return true
	}
	return bandEnergy/rest > profile.AcceptanceRatio
}
