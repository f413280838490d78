package barkwatch

import (
	"github.com/barkwatch/barkwatch/pkg/barkwatch/detect"
	"github.com/barkwatch/barkwatch/pkg/barkwatch/notify"
)

type Config struct {
	DBPath      string
	LogPath     string
	TempDir     string
	FileExt     string
	SampleRate  int
	StreamIndex int

	Threshold      float64
	WindowDuration float64
	MaxInterval    float64
	Profile        detect.SpectralProfile
	Convention     detect.Convention

	Logger   Logger
	Storage  Storage
	Notifier notify.Notifier
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) { c.DBPath = path }
}

func WithLogPath(path string) Option {
	return func(c *Config) { c.LogPath = path }
}

func WithTempDir(dir string) Option {
	return func(c *Config) { c.TempDir = dir }
}

func WithFileExt(ext string) Option {
	return func(c *Config) { c.FileExt = ext }
}

func WithSampleRate(rate int) Option {
	return func(c *Config) { c.SampleRate = rate }
}

func WithStreamIndex(index int) Option {
	return func(c *Config) { c.StreamIndex = index }
}

func WithThreshold(threshold float64) Option {
	return func(c *Config) { c.Threshold = threshold }
}

func WithWindowDuration(seconds float64) Option {
	return func(c *Config) { c.WindowDuration = seconds }
}

func WithMaxInterval(seconds float64) Option {
	return func(c *Config) { c.MaxInterval = seconds }
}

func WithProfile(profile detect.SpectralProfile) Option {
	return func(c *Config) { c.Profile = profile }
}

func WithConvention(conv detect.Convention) Option {
	return func(c *Config) { c.Convention = conv }
}

func WithLogger(log Logger) Option {
	return func(c *Config) { c.Logger = log }
}

func WithStorage(storage Storage) Option {
	return func(c *Config) { c.Storage = storage }
}

func WithNotifier(n notify.Notifier) Option {
	return func(c *Config) { c.Notifier = n }
}

func defaultConfig() *Config {
	return &Config{
		DBPath:         "barkwatch.sqlite3",
		LogPath:        "barks.tsv",
		TempDir:        "/tmp/barkwatch",
		FileExt:        "mkv",
		SampleRate:     16000,
		Threshold:      0.3,
		WindowDuration: 0.25,
		MaxInterval:    10.0,
		Profile:        detect.DefaultProfile(),
		Convention:     detect.ConventionTimestamp,
	}
}
