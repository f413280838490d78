package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/barkwatch/barkwatch/pkg/barkwatch"
	"github.com/barkwatch/barkwatch/pkg/barkwatch/detect"
	"github.com/barkwatch/barkwatch/pkg/barkwatch/notify"
	"github.com/barkwatch/barkwatch/pkg/logger"
)

// Global flags
var (
	dbPath     string
	logPath    string
	tempDir    string
	fileExt    string
	sampleRate int
	streamIdx  int
	convention string
	notifyURLs string
)

func registerGlobalFlags(fs *flag.FlagSet) {
	fs.StringVar(&dbPath, "db", getEnvOrDefault("BARKWATCH_DB_PATH", "barkwatch.sqlite3"), "Path to the SQLite database file")
	fs.StringVar(&logPath, "log", getEnvOrDefault("BARKWATCH_LOG_PATH", "barks.tsv"), "Path to the tab-separated bark event log")
	fs.StringVar(&tempDir, "temp", getEnvOrDefault("BARKWATCH_TEMP_DIR", "/tmp/barkwatch"), "Directory for extracted audio files")
	fs.StringVar(&fileExt, "ext", "mkv", "Extension of the recordings to pick up")
	fs.IntVar(&sampleRate, "rate", 16000, "Sample rate for extracted audio")
	fs.IntVar(&streamIdx, "stream", 0, "Audio stream index to extract from containers")
	fs.StringVar(&convention, "convention", "timestamp", "Recording time convention: timestamp or timestamp-end")
	fs.StringVar(&notifyURLs, "notify", getEnvOrDefault("BARKWATCH_NOTIFY_URLS", ""), "Comma-separated shoutrrr URLs for notifications (smtp://... for email)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// createService builds a service from the parsed global flags.
func createService() (barkwatch.Service, error) {
	conv, err := detect.ParseConvention(convention)
	if err != nil {
		return nil, err
	}

	opts := []barkwatch.Option{
		barkwatch.WithDBPath(dbPath),
		barkwatch.WithLogPath(logPath),
		barkwatch.WithTempDir(tempDir),
		barkwatch.WithFileExt(fileExt),
		barkwatch.WithSampleRate(sampleRate),
		barkwatch.WithStreamIndex(streamIdx),
		barkwatch.WithConvention(conv),
	}

	if notifyURLs != "" {
		notifier, err := notify.NewShoutrrrNotifier(notify.Config{
			URLs:    strings.Split(notifyURLs, ","),
			Timeout: 30 * time.Second,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, barkwatch.WithNotifier(notifier))
	}

	return barkwatch.NewService(opts...)
}

func main() {
	log := logger.GetLogger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	log.Infof("Executing command: %s", command)

	switch command {
	case "scan":
		handleScan()
	case "watch":
		handleWatch()
	case "detect":
		handleDetect()
	case "events":
		handleEvents()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`barkwatch - bark detection over camera recordings

Usage:
  cli scan   [flags] <dir>   Process every new recording in a directory once
  cli watch  [flags] <dir>   Keep processing recordings as they appear
  cli detect [flags] <wav>   Detect barks in one WAV file and print them
  cli events [flags] [-n N]  List stored bark events

Run any command with -h for its flags.`)
}

func handleScan() {
	log := logger.GetLogger()

	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	registerGlobalFlags(fs)
	fs.Parse(os.Args[2:])
	if fs.NArg() != 1 {
		fmt.Println("Usage: cli scan [flags] <dir>")
		os.Exit(1)
	}

	svc, err := createService()
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer svc.Close()

	reports, err := svc.ProcessDirectory(context.Background(), fs.Arg(0))
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	for _, r := range reports {
		if r.Err != nil {
			fmt.Printf("FAILED  %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Printf("OK      %s  md5=%s  events=%d\n", r.Path, r.MD5, len(r.Events))
	}
}

func handleWatch() {
	log := logger.GetLogger()

	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	registerGlobalFlags(fs)
	fs.Parse(os.Args[2:])
	if fs.NArg() != 1 {
		fmt.Println("Usage: cli watch [flags] <dir>")
		os.Exit(1)
	}

	svc, err := createService()
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Watch(ctx, fs.Arg(0)); err != nil && err != context.Canceled {
		log.Fatalf("Watch failed: %v", err)
	}
}

func handleDetect() {
	log := logger.GetLogger()

	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	registerGlobalFlags(fs)
	fs.Parse(os.Args[2:])
	if fs.NArg() != 1 {
		fmt.Println("Usage: cli detect [flags] <wav>")
		os.Exit(1)
	}

	svc, err := createService()
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer svc.Close()

	events, err := svc.DetectFile(context.Background(), fs.Arg(0))
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}

	if len(events) == 0 {
		fmt.Println("No bark events detected.")
		return
	}
	for i, ev := range events {
		fmt.Printf("#%d  %s - %s  barks=%d  duration=%.1fs\n",
			i+1,
			ev.StartTime.Format(time.RFC3339),
			ev.EndTime.Format(time.RFC3339),
			ev.NumBarks,
			ev.Duration.Seconds(),
		)
	}
}

func handleEvents() {
	log := logger.GetLogger()

	fs := flag.NewFlagSet("events", flag.ExitOnError)
	registerGlobalFlags(fs)
	limit := fs.Int("n", 20, "Maximum number of events to list (0 for all)")
	fs.Parse(os.Args[2:])

	svc, err := createService()
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer svc.Close()

	records, err := svc.ListEvents(*limit)
	if err != nil {
		log.Fatalf("Listing events failed: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("No stored bark events.")
		return
	}
	for _, rec := range records {
		fmt.Printf("%s  %s  barks=%d  duration=%.1fs  source=%s\n",
			rec.Date,
			rec.StartTime.Format("15:04:05"),
			rec.NumBarks,
			float64(rec.DurationMs)/1000.0,
			rec.Source,
		)
	}
}
