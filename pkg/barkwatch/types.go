package barkwatch

import "github.com/barkwatch/barkwatch/pkg/barkwatch/detect"

// FileReport summarizes the processing of one source file.
type FileReport struct {
	Path      string             // original container file
	MD5       string             // checksum of the container
	SizeBytes int64              // container size
	AudioPath string             // extracted WAV, if extraction ran
	Events    []detect.BarkEvent // detected bark events
	Err       error              // set when a batch skipped this file
}
