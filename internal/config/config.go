// Package config holds the resolved options of one tilder run and the
// optional YAML file that supplies their defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/tilder/internal/logging"
	"github.com/raoulx24/tilder/internal/naming"
)

// ErrInvalidOption wraps every validation failure.
var ErrInvalidOption = errors.New("invalid option")

// Options is the configuration of a run. It is built once from the
// command line (and config file) and passed by value afterwards.
type Options struct {
	Level    naming.Level
	Position naming.Position
	NoBanner bool
	NoPause  bool
	Files    []string

	// Keep is how many timestamped copies survive per original; 0 keeps all.
	Keep int

	// Schedule is a cron expression; the tool re-runs on each firing.
	Schedule string
	// Watch re-runs the backup whenever an input file changes.
	Watch        bool
	WatchMode    string // auto, fsnotify or poll
	Debounce     time.Duration
	PollInterval time.Duration

	LogLevel string
}

// Default returns the options used when nothing is configured.
func Default() Options {
	return Options{
		Level:        naming.LevelDate,
		Position:     naming.After,
		WatchMode:    "auto",
		Debounce:     500 * time.Millisecond,
		PollInterval: 5 * time.Second,
		LogLevel:     "warn",
	}
}

// Repeating reports whether the run continues after the first backup.
func (o Options) Repeating() bool {
	return o.Schedule != "" || o.Watch
}

// Validate checks option values and combinations.
func (o Options) Validate() error {
	if _, err := naming.ParseLevel(string(o.Level)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	if _, err := naming.ParsePosition(string(o.Position)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	if o.Keep < 0 {
		return fmt.Errorf("%w: keep must be >= 0, got %d", ErrInvalidOption, o.Keep)
	}
	if o.Schedule != "" && o.Watch {
		return fmt.Errorf("%w: --schedule and --watch cannot be combined", ErrInvalidOption)
	}
	if o.Schedule != "" {
		if _, err := cron.ParseStandard(o.Schedule); err != nil {
			return fmt.Errorf("%w: schedule %q: %v", ErrInvalidOption, o.Schedule, err)
		}
	}
	if o.Watch && (o.Debounce < 0 || o.PollInterval <= 0) {
		return fmt.Errorf("%w: debounce must be >= 0 and poll interval > 0", ErrInvalidOption)
	}
	switch o.WatchMode {
	case "auto", "fsnotify", "poll":
	default:
		return fmt.Errorf("%w: unknown watch mode %q", ErrInvalidOption, o.WatchMode)
	}
	if _, err := logging.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return nil
}
