// Package retention prunes older timestamped copies from backup directories.
package retention

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/raoulx24/tilder/internal/fs"
	"github.com/raoulx24/tilder/internal/logging"
	"github.com/raoulx24/tilder/internal/naming"
)

type Engine struct {
	keep int
	fs   fs.FS
	log  logging.Logger
}

// New returns an engine keeping the newest keep copies; keep <= 0 disables pruning.
func New(keep int, filesystem fs.FS, log logging.Logger) *Engine {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Engine{keep: keep, fs: filesystem, log: log}
}

// Copy is a timestamped backup found in a backup directory.
type Copy struct {
	Path      string
	Timestamp time.Time
	MTime     time.Time
}

// Apply removes all but the newest copies of target's original. The file
// just written is always kept. It returns the paths removed.
func (e *Engine) Apply(target naming.Target) ([]string, error) {
	if e.keep <= 0 {
		return nil, nil
	}

	copies, err := e.scan(target)
	if err != nil {
		return nil, err
	}
	if len(copies) <= e.keep {
		return nil, nil
	}

	// Newest first
	sort.SliceStable(copies, func(i, j int) bool {
		if !copies[i].Timestamp.Equal(copies[j].Timestamp) {
			return copies[i].Timestamp.After(copies[j].Timestamp)
		}
		return copies[i].MTime.After(copies[j].MTime)
	})

	current := filepath.Clean(target.File)
	kept := 0
	var removed []string
	for _, c := range copies {
		if filepath.Clean(c.Path) == current || kept < e.keep {
			kept++
			continue
		}
		if err := e.fs.Remove(c.Path); err != nil {
			e.log.Warn("retention: could not remove old copy", "path", c.Path, "error", err)
			continue
		}
		e.log.Debug("retention: removed old copy", "path", c.Path)
		removed = append(removed, c.Path)
	}
	return removed, nil
}

// scan lists the timestamped copies of target's original in its directory.
func (e *Engine) scan(target naming.Target) ([]Copy, error) {
	entries, err := e.fs.ReadDir(target.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading backup dir: %w", err)
	}

	re := naming.Pattern(filepath.Base(target.Original))
	var copies []Copy
	for _, ent := range entries {
		if !ent.IsRegular() {
			continue
		}
		m := re.FindStringSubmatch(filepath.Base(ent.Path))
		if m == nil {
			continue
		}
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		ts, err := naming.ParseTimestamp(raw)
		if err != nil {
			continue
		}
		copies = append(copies, Copy{Path: ent.Path, Timestamp: ts, MTime: ent.MTime})
	}
	return copies, nil
}
