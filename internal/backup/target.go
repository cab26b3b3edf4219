package backup

import (
	"github.com/raoulx24/tilder/internal/naming"
)

// Plan resolves the inputs that can be backed up into targets, in input
// order. Missing paths, directories and repeats are dropped silently.
func (e *Executor) Plan(paths []string, ts string, pos naming.Position) []naming.Target {
	seen := make(map[string]struct{}, len(paths))
	targets := make([]naming.Target, 0, len(paths))

	for _, p := range paths {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		info, err := e.fs.Stat(p)
		if err != nil {
			e.log.Debug("skipping input", "path", p, "reason", err)
			continue
		}
		if info.IsDir() {
			e.log.Debug("skipping input", "path", p, "reason", "is a directory")
			continue
		}

		targets = append(targets, naming.Compute(p, ts, pos))
	}
	return targets
}
