package detect

// Detector runs the full detection pipeline over one decoded waveform:
// threshold scan, spectral validation with debounce, then segmentation.
// Detectors hold no per-run state; one instance may serve concurrent Run
// calls as long as the callers do not share a waveform they mutate.
type Detector struct {
	Threshold      float64
	WindowDuration float64
	MaxInterval    float64
	Profile        SpectralProfile
}

// NewDetector returns a detector with the operator defaults: threshold 0.3,
// 0.25 s validation windows, events merged within 10 s, and the dog-bark
// spectral profile.
func NewDetector() *Detector {
	return &Detector{
		Threshold:      0.3,
		WindowDuration: 0.25,
		MaxInterval:    10.0,
		Profile:        DefaultProfile(),
	}
}

// Run detects bark events in samples, resolving event times from sourceID
// under the given recording convention. An empty waveform, a waveform with
// no threshold crossings, or one where every candidate fails validation all
// yield an empty result, not an error; only timestamp resolution can fail.
func (d *Detector) Run(samples []float64, sampleRate int, sourceID string, conv Convention) ([]BarkEvent, error) {
	if len(samples) == 0 {
		return nil, nil
	}

	candidates := DetectPeaks(samples, d.Threshold)
	if len(candidates) == 0 {
		return nil, nil
	}

	accepted, _, _ := Validate(samples, candidates, sampleRate, d.WindowDuration, d.Profile)
	if len(accepted) == 0 {
		return nil, nil
	}

	return Segment(accepted, sampleRate, d.MaxInterval, sourceID, conv)
}
