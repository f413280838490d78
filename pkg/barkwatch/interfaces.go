package barkwatch

import (
	"context"

	"github.com/barkwatch/barkwatch/pkg/barkwatch/detect"
	"github.com/barkwatch/barkwatch/pkg/barkwatch/storage"
)

// Service is the file-to-events pipeline surface.
type Service interface {
	ProcessFile(ctx context.Context, path string) (*FileReport, error)
	ProcessDirectory(ctx context.Context, dir string) ([]FileReport, error)
	Watch(ctx context.Context, dir string) error
	DetectFile(ctx context.Context, wavPath string) ([]detect.BarkEvent, error)
	ListEvents(limit int) ([]storage.BarkEventRecord, error)
	Close() error
}

// Storage persists detected events and processed-file records.
type Storage interface {
	SaveEvents(source string, events []detect.BarkEvent) error
	ListEvents(limit int) ([]storage.BarkEventRecord, error)
	ListEventsBySource(source string) ([]storage.BarkEventRecord, error)
	RecordProcessedFile(path, md5sum string, size int64, numEvents int) error
	IsProcessed(path string) (bool, error)
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
