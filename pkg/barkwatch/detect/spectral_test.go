package detect

import (
	"math"
	"testing"
)

const testRate = 16000

// With the default profile (window 256) at 16 kHz, bin k sits at k*62.5 Hz:
// 2 kHz lands in the 20-80 band, 100 Hz in neither band.

func TestValidateAcceptsInBandTone(t *testing.T) {
	samples := silence(3.0, testRate)
	addTone(samples, testRate, 1.0, 0.05, 2000, 0.9)

	candidates := DetectPeaks(samples, 0.3)
	if len(candidates) == 0 {
		t.Fatal("no candidates from tone burst")
	}

	accepted, acceptedWindows, rejected := Validate(samples, candidates, testRate, 0.25, DefaultProfile())

	if len(accepted) != 1 {
		t.Fatalf("expected one accepted peak, got %d", len(accepted))
	}
	if len(acceptedWindows) != len(accepted) {
		t.Errorf("accepted windows out of sync: %d windows for %d peaks", len(acceptedWindows), len(accepted))
	}
	if len(rejected) != 0 {
		t.Errorf("expected no rejections, got %d", len(rejected))
	}
	if at := float64(accepted[0]) / testRate; math.Abs(at-1.0) > 0.01 {
		t.Errorf("accepted peak at %.3fs, want ~1.0s", at)
	}
}

func TestValidateRejectsOutOfBandTone(t *testing.T) {
	samples := silence(3.0, testRate)
	addTone(samples, testRate, 1.0, 0.05, 100, 0.9) // below both bands

	candidates := DetectPeaks(samples, 0.3)
	if len(candidates) == 0 {
		t.Fatal("no candidates from tone burst")
	}

	accepted, _, rejected := Validate(samples, candidates, testRate, 0.25, DefaultProfile())

	if len(accepted) != 0 {
		t.Errorf("low-frequency tone should be rejected, got %d accepted", len(accepted))
	}
	if len(rejected) == 0 {
		t.Error("expected the tested window among the rejections")
	}
}

func TestValidateZeroEnergyWindowRejected(t *testing.T) {
	// A fabricated candidate inside pure silence must reject cleanly, never
	// divide by zero.
	samples := silence(2.0, testRate)

	accepted, _, rejected := Validate(samples, []int{testRate}, testRate, 0.25, DefaultProfile())

	if len(accepted) != 0 {
		t.Errorf("silent window accepted: %v", accepted)
	}
	if len(rejected) != 1 {
		t.Errorf("expected one rejected window, got %d", len(rejected))
	}
}

func TestValidateDebounceSpacing(t *testing.T) {
	// A continuous loud in-band tone makes nearly every sample a candidate;
	// accepted peaks must still be at least sampleRate*windowDuration apart.
	samples := silence(2.0, testRate)
	addTone(samples, testRate, 0.0, 2.0, 2000, 0.9)

	candidates := DetectPeaks(samples, 0.3)
	accepted, _, _ := Validate(samples, candidates, testRate, 0.25, DefaultProfile())

	if len(accepted) < 2 {
		t.Fatalf("expected several accepted peaks over 2s, got %d", len(accepted))
	}
	minSpacing := int(testRate * 0.25)
	for i := 1; i < len(accepted); i++ {
		if gap := accepted[i] - accepted[i-1]; gap < minSpacing {
			t.Errorf("accepted peaks %d and %d only %d samples apart, want >= %d", i-1, i, gap, minSpacing)
		}
	}
}

func TestValidateDebouncesCloseBursts(t *testing.T) {
	// Two bursts 50 ms apart fall inside one 0.25 s debounce region: only
	// the first is tested.
	samples := silence(3.0, testRate)
	addTone(samples, testRate, 1.0, 0.04, 2000, 0.9)
	addTone(samples, testRate, 1.05, 0.04, 2000, 0.9)

	candidates := DetectPeaks(samples, 0.3)
	accepted, _, _ := Validate(samples, candidates, testRate, 0.25, DefaultProfile())

	if len(accepted) != 1 {
		t.Fatalf("expected the second burst debounced, got %d accepted", len(accepted))
	}
}

func TestValidateWindowClippedAtSignalEdges(t *testing.T) {
	// A burst right at the start: the extraction window clips at sample 0
	// instead of indexing out of bounds.
	samples := silence(1.0, testRate)
	addTone(samples, testRate, 0.0, 0.05, 2000, 0.9)

	candidates := DetectPeaks(samples, 0.3)
	accepted, windows, _ := Validate(samples, candidates, testRate, 0.25, DefaultProfile())

	if len(accepted) != 1 {
		t.Fatalf("expected one accepted peak at signal edge, got %d", len(accepted))
	}
	maxLen := 2 * int(testRate*0.25)
	if len(windows[0]) > maxLen {
		t.Errorf("window length %d exceeds full span %d", len(windows[0]), maxLen)
	}
}

func TestSTFTFrameShape(t *testing.T) {
	p := DefaultProfile()
	samples := silence(0.5, testRate)
	addTone(samples, testRate, 0.0, 0.5, 2000, 0.5)

	frames := STFT(samples, p.WindowSize, p.HopSize)
	if len(frames) == 0 {
		t.Fatal("no frames")
	}
	for _, f := range frames {
		if len(f) != p.WindowSize/2 {
			t.Fatalf("frame has %d bins, want %d", len(f), p.WindowSize/2)
		}
	}

	// Peak bin of a steady 2 kHz tone should be 2000/62.5 = 32.
	mid := frames[len(frames)/2]
	best := 0
	for i, m := range mid {
		if m > mid[best] {
			best = i
		}
	}
	if best < 30 || best > 34 {
		t.Errorf("2 kHz tone peaked at bin %d, want ~32", best)
	}
}

func TestSTFTShortInput(t *testing.T) {
	p := DefaultProfile()
	if frames := STFT(make([]float64, p.WindowSize-1), p.WindowSize, p.HopSize); frames != nil {
		t.Errorf("input shorter than one window should produce no frames, got %d", len(frames))
	}
}
