package audio

import (
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV encodes int samples as a 16-bit PCM WAV file.
func writeTestWAV(t *testing.T, path string, data []int, sampleRate, channels int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encoding WAV: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing encoder: %v", err)
	}
}

func TestReadWAVMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")

	// One second of a 440 Hz tone at half scale.
	rate := 16000
	data := make([]int, rate)
	for i := range data {
		data[i] = int(16384 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	writeTestWAV(t, path, data, rate, 1)

	samples, gotRate, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV failed: %v", err)
	}
	if gotRate != rate {
		t.Errorf("sample rate = %d, want %d", gotRate, rate)
	}
	if len(samples) != rate {
		t.Fatalf("got %d samples, want %d", len(samples), rate)
	}

	var peak float64
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
		if s < -1.0 || s > 1.0 {
			t.Fatalf("sample %f outside [-1, 1]", s)
		}
	}
	if peak < 0.45 || peak > 0.55 {
		t.Errorf("peak amplitude = %f, want ~0.5", peak)
	}
}

func TestReadWAVStereoDownmix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")

	// Left at +8192, right at -8192: the downmix averages to zero.
	frames := 1000
	data := make([]int, 2*frames)
	for i := 0; i < frames; i++ {
		data[2*i] = 8192
		data[2*i+1] = -8192
	}
	writeTestWAV(t, path, data, 16000, 2)

	samples, _, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV failed: %v", err)
	}
	if len(samples) != frames {
		t.Fatalf("got %d samples, want %d frames", len(samples), frames)
	}
	for i, s := range samples {
		if math.Abs(s) > 1e-9 {
			t.Fatalf("frame %d: downmix = %f, want 0", i, s)
		}
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.wav")
	if err := os.WriteFile(path, []byte("definitely not RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadWAV(path); err == nil {
		t.Error("expected an error for a non-WAV file")
	}
}

func TestExtractAudioRoundTrip(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "20240115083000.wav")

	rate := 44100
	data := make([]int, rate)
	for i := range data {
		data[i] = int(16384 * math.Sin(2*math.Pi*2000*float64(i)/float64(rate)))
	}
	writeTestWAV(t, src, data, rate, 1)

	out, err := ExtractAudio(context.Background(), src, filepath.Join(dir, "out"), ExtractConfig{SampleRate: 16000})
	if err != nil {
		t.Fatalf("ExtractAudio failed: %v", err)
	}

	samples, gotRate, err := ReadWAV(out)
	if err != nil {
		t.Fatalf("reading extracted WAV: %v", err)
	}
	if gotRate != 16000 {
		t.Errorf("resampled rate = %d, want 16000", gotRate)
	}
	if len(samples) == 0 {
		t.Error("extracted WAV has no samples")
	}
}
