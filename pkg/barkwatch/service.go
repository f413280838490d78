package barkwatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/barkwatch/barkwatch/pkg/barkwatch/audio"
	"github.com/barkwatch/barkwatch/pkg/barkwatch/detect"
	"github.com/barkwatch/barkwatch/pkg/barkwatch/notify"
	"github.com/barkwatch/barkwatch/pkg/barkwatch/scan"
	"github.com/barkwatch/barkwatch/pkg/barkwatch/storage"
	"github.com/barkwatch/barkwatch/pkg/logger"
)

// barkService is the default implementation of the Service interface.
type barkService struct {
	store    Storage
	log      Logger
	notifier notify.Notifier
	eventLog *storage.EventLog
	detector *detect.Detector
	config   *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	var store Storage
	if cfg.Storage != nil {
		store = cfg.Storage
	} else {
		client, err := storage.NewDBClient(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
		store = client
	}

	return &barkService{
		store:    store,
		log:      cfg.Logger,
		notifier: cfg.Notifier,
		eventLog: storage.NewEventLog(cfg.LogPath),
		detector: &detect.Detector{
			Threshold:      cfg.Threshold,
			WindowDuration: cfg.WindowDuration,
			MaxInterval:    cfg.MaxInterval,
			Profile:        cfg.Profile,
		},
		config: cfg,
	}, nil
}

// ProcessFile runs the whole pipeline over one container file: checksum,
// sidecar, audio extraction, detection, then persistence to the TSV log and
// the database.
func (s *barkService) ProcessFile(ctx context.Context, path string) (*FileReport, error) {
	s.log.Infof("Processing file: %s", path)
	report := &FileReport{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return report, fmt.Errorf("stat %s: %w", path, err)
	}
	report.SizeBytes = info.Size()

	sum, err := scan.ChecksumMD5(path)
	if err != nil {
		return report, fmt.Errorf("checksum of %s: %w", path, err)
	}
	report.MD5 = sum
	s.log.Infof("MD5 for %s is %s", path, sum)

	if err := scan.WriteChecksum(path, sum); err != nil {
		return report, fmt.Errorf("writing md5 sidecar for %s: %w", path, err)
	}

	// Containers go through ffmpeg; plain WAV input is decoded directly.
	wavPath := path
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		wavPath, err = audio.ExtractAudio(ctx, path, s.config.TempDir, audio.ExtractConfig{
			SampleRate:  s.config.SampleRate,
			StreamIndex: s.config.StreamIndex,
		})
		if err != nil {
			return report, fmt.Errorf("audio extraction failed: %w", err)
		}
		s.log.Infof("Extracted audio to %s", wavPath)
	}
	report.AudioPath = wavPath

	events, err := s.DetectFile(ctx, wavPath)
	if err != nil {
		return report, err
	}
	report.Events = events
	s.log.Infof("Detected %d bark events in %s", len(events), path)

	if err := s.eventLog.Append(events); err != nil {
		return report, err
	}
	source := filepath.Base(path)
	if err := s.store.SaveEvents(source, events); err != nil {
		return report, err
	}
	if err := s.store.RecordProcessedFile(path, sum, report.SizeBytes, len(events)); err != nil {
		return report, err
	}

	return report, nil
}

// ProcessDirectory handles every new recording in dir: files without an
// ".md5" sidecar are processed one by one, and a single notification
// summarizing checksums and bark counts goes out at the end. A file that
// fails (unreadable, bad timestamp stem) is reported in its FileReport and
// the batch continues.
func (s *barkService) ProcessDirectory(ctx context.Context, dir string) ([]FileReport, error) {
	files, err := scan.FindNewFiles(dir, s.config.FileExt)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(files) == 0 {
		s.log.Infof("No new files found.")
		return nil, nil
	}
	s.log.Infof("Found %d files", len(files))

	var reports []FileReport
	var mailLines []string
	for _, f := range files {
		report, err := s.ProcessFile(ctx, f)
		if err != nil {
			s.log.Warnf("Failed to process %s: %v", f, err)
			report.Err = err
			reports = append(reports, *report)
			continue
		}
		mailLines = append(mailLines, fmt.Sprintf("MD5 for %s: %s", f, report.MD5))
		if n := len(report.Events); n > 0 {
			mailLines = append(mailLines, fmt.Sprintf("%d bark events in %s", n, f))
		}
		reports = append(reports, *report)
	}

	if s.notifier != nil && len(mailLines) > 0 {
		if err := s.notifier.Notify(ctx, "MD5 Checksums", strings.Join(mailLines, "\n")); err != nil {
			s.log.Warnf("Failed to send notification: %v", err)
		}
	}

	s.log.Infof("Pipeline processing complete.")
	return reports, nil
}

// Watch processes new recordings as they settle in dir, until ctx is done.
func (s *barkService) Watch(ctx context.Context, dir string) error {
	w, err := scan.NewWatcher(dir, s.config.FileExt, 0)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	s.log.Infof("Watching %s for new *.%s files", dir, s.config.FileExt)
	for {
		select {
		case path := <-w.Files():
			if _, err := s.ProcessFile(ctx, path); err != nil {
				s.log.Warnf("Failed to process %s: %v", path, err)
			}
		case err := <-errCh:
			return err
		}
	}
}

// DetectFile decodes a WAV file and runs detection only; nothing is
// persisted. The filename stem must match the configured recording
// convention, since event times are resolved from it.
func (s *barkService) DetectFile(ctx context.Context, wavPath string) ([]detect.BarkEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samples, rate, err := audio.ReadWAV(wavPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV file: %w", err)
	}
	s.log.Debugf("Decoded %d samples at %d Hz from %s", len(samples), rate, wavPath)

	return s.detector.Run(samples, rate, filepath.Base(wavPath), s.config.Convention)
}

func (s *barkService) ListEvents(limit int) ([]storage.BarkEventRecord, error) {
	return s.store.ListEvents(limit)
}

func (s *barkService) Close() error {
	return s.store.Close()
}
