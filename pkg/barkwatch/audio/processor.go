package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ExtractConfig controls the ffmpeg extraction.
type ExtractConfig struct {
	SampleRate  int // output sample rate, defaults to 16000
	StreamIndex int // which audio stream of the container to take
}

// ExtractAudio pulls one audio stream out of a container file (mkv, mp4,
// ...) and writes it to outputDir as 16-bit mono PCM WAV, returning the
// output path. Conversion goes through a temp file and a rename so a killed
// ffmpeg never leaves a half-written WAV behind.
func ExtractAudio(ctx context.Context, inputPath, outputDir string, cfg ExtractConfig) (string, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}

	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outputPath := filepath.Join(outputDir, stem+".wav")

	tmpPath := outputPath + ".tmp.wav"
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-y",
		"-v", "quiet",
		"-i", inputPath,
		"-vn",
		"-map", fmt.Sprintf("0:a:%d", cfg.StreamIndex),
		"-ac", "1", // mono
		"-ar", fmt.Sprintf("%d", cfg.SampleRate),
		"-c:a", "pcm_s16le",
		"-f", "wav",
		tmpPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("ffmpeg failed: %v (%s)", err, out)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return "", fmt.Errorf("failed to move %s to %s: %w", tmpPath, outputPath, err)
	}

	return outputPath, nil
}
