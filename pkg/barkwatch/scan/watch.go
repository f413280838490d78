package scan

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher emits recordings appearing in a directory once they have settled.
// Recorders write a file over many minutes, so a file only counts as ready
// after no write has touched it for the settle window.
type Watcher struct {
	dir    string
	ext    string
	settle time.Duration
	fw     *fsnotify.Watcher
	out    chan string
}

// NewWatcher watches dir for files with the given extension (without the
// dot). A settle of zero defaults to 2s.
func NewWatcher(dir, ext string, settle time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	if settle <= 0 {
		settle = 2 * time.Second
	}
	return &Watcher{
		dir:    dir,
		ext:    ext,
		settle: settle,
		fw:     fw,
		out:    make(chan string, 16),
	}, nil
}

// Files yields settled, non-empty, not-yet-processed recordings.
func (w *Watcher) Files() <-chan string { return w.out }

// Run drives the watcher until ctx is done or the underlying watch fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(ev.Name, "."+w.ext) {
				continue
			}
			pending[ev.Name] = time.Now()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			return err

		case now := <-ticker.C:
			for path, touched := range pending {
				if now.Sub(touched) < w.settle {
					continue
				}
				delete(pending, path)

				info, err := os.Stat(path)
				if err != nil || info.Size() == 0 {
					continue
				}
				if _, err := os.Stat(path + ".md5"); err == nil {
					continue
				}

				select {
				case w.out <- path:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}
