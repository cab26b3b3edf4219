package trigger

import (
	"context"
	"os"
	"time"
)

type stamp struct {
	mod  time.Time
	size int64
}

// StartPolling compares modification time and size of every watched file
// on a fixed interval and posts an Event when any of them changed. The
// baseline is taken when the Watcher is created.
func (w *Watcher) StartPolling(ctx context.Context) {
	seen := w.seen

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := w.stamps()
			for path, st := range now {
				if prev, ok := seen[path]; !ok || prev != st {
					w.log.Debug("change detected", "path", path)
					w.mb.Put(Event{Reason: "change", Path: path, At: time.Now()})
					break
				}
			}
			seen = now
		}
	}
}

func (w *Watcher) stamps() map[string]stamp {
	out := make(map[string]stamp, len(w.files))
	for path := range w.files {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		out[path] = stamp{mod: info.ModTime(), size: info.Size()}
	}
	return out
}
