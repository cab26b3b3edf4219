package trigger

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/raoulx24/tilder/internal/fsprobe"
	"github.com/raoulx24/tilder/internal/logging"
	"github.com/raoulx24/tilder/internal/mailbox"
)

// Watch modes.
const (
	ModeAuto     = "auto"
	ModeFsnotify = "fsnotify"
	ModePoll     = "poll"
)

// Watcher posts an Event when one of its files is written or replaced.
type Watcher struct {
	files    map[string]struct{} // absolute, cleaned
	dirs     []string
	mode     string
	debounce time.Duration
	interval time.Duration
	seen     map[string]stamp

	log logging.Logger
	mb  *mailbox.Mailbox[Event]
}

// NewWatcher watches files, one parent directory watch per distinct directory.
func NewWatcher(files []string, mode string, debounce, interval time.Duration, log logging.Logger, mb *mailbox.Mailbox[Event]) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]struct{}, len(files)),
		mode:     mode,
		debounce: debounce,
		interval: interval,
		log:      log,
		mb:       mb,
	}

	seenDir := map[string]struct{}{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		w.files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := seenDir[dir]; !ok {
			seenDir[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	w.seen = w.stamps()
	return w, nil
}

// Start blocks until ctx is done, using the strategy picked by mode.
func (w *Watcher) Start(ctx context.Context) error {
	switch w.mode {
	case ModeFsnotify:
		return w.StartFsNotify(ctx)

	case ModePoll:
		w.StartPolling(ctx)
		return nil

	case ModeAuto, "":
		for _, dir := range w.dirs {
			if res := fsprobe.Probe(dir, fsprobe.DefaultWait); !res.FsnotifySupported {
				w.log.Warn("fsnotify disabled, polling instead", "dir", dir, "reason", res.Reason)
				w.StartPolling(ctx)
				return nil
			}
		}
		return w.StartFsNotify(ctx)

	default:
		return fmt.Errorf("unknown watch mode %q", w.mode)
	}
}

func (w *Watcher) watched(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
