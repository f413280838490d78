package detect

// BandRange is a half-open [Lo, Hi) range of frequency bins.
type BandRange struct {
	Lo int
	Hi int
}

// SpectralProfile configures the short-time transform and the acceptance
// bands for one target vocalization. Bin indices are tied to WindowSize:
// bin k covers frequencies around k*sampleRate/WindowSize Hz, so a profile
// only transfers between sample rates if its bands are recomputed.
type SpectralProfile struct {
	WindowSize      int
	HopSize         int
	Bands           []BandRange
	AcceptanceRatio float64
}

// DefaultProfile matches an adult dog bark in 16 kHz recordings: with a
// 256-sample window the bands cover roughly 1.25-5 kHz and 5.9-7.8 kHz,
// where the bark formants sit.
func DefaultProfile() SpectralProfile {
	return SpectralProfile{
		WindowSize:      256,
		HopSize:         64,
		Bands:           []BandRange{{Lo: 20, Hi: 80}, {Lo: 95, Hi: 125}},
		AcceptanceRatio: 0.5,
	}
}
