package storage

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/barkwatch/barkwatch/pkg/barkwatch/detect"
)

// eventLogHeader matches the historical bark log layout.
const eventLogHeader = "start_samples\tend_samples\tstart_time\tend_time\tduration\tnum_barks\tdate\n"

// EventLog appends bark events to a tab-separated log file. The header is
// written only when the log is created empty; appends to an existing log
// never repeat it.
type EventLog struct {
	path string
}

func NewEventLog(path string) *EventLog {
	return &EventLog{path: path}
}

// Path returns the log file location.
func (l *EventLog) Path() string { return l.path }

// Append writes events to the log, creating it (with header) on first use.
// Appending no events touches nothing.
func (l *EventLog) Append(events []detect.BarkEvent) error {
	if len(events) == 0 {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening event log %s: %w", l.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat on event log %s: %w", l.path, err)
	}

	var b strings.Builder
	if info.Size() == 0 {
		b.WriteString(eventLogHeader)
	}
	for _, ev := range events {
		fmt.Fprintf(&b, "%d\t%d\t%s\t%s\t%.3f\t%d\t%s\n",
			ev.StartSample,
			ev.EndSample,
			ev.StartTime.Format(time.RFC3339),
			ev.EndTime.Format(time.RFC3339),
			ev.Duration.Seconds(),
			ev.NumBarks,
			ev.Date.Format("2006-01-02"),
		)
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("appending to event log %s: %w", l.path, err)
	}
	return nil
}
