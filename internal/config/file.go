package config

import (
	"time"

	"github.com/raoulx24/tilder/internal/naming"
)

// File is the YAML defaults file. Unset fields leave the built-in
// defaults alone.
type File struct {
	TSLevel    string `yaml:"tsLevel"`
	TSPosition string `yaml:"tsPosition"`
	NoBanner   *bool  `yaml:"noBanner"`
	NoPause    *bool  `yaml:"noPause"`
	Keep       *int   `yaml:"keep"`
	LogLevel   string `yaml:"logLevel"`
	Repeat     Repeat `yaml:"repeat"`
}

type Repeat struct {
	Schedule     string        `yaml:"schedule"`
	Watch        *bool         `yaml:"watch"`
	WatchMode    string        `yaml:"watchMode"`
	Debounce     time.Duration `yaml:"debounce"`     // e.g. 500ms
	PollInterval time.Duration `yaml:"pollInterval"` // e.g. 5s
}

// Apply overlays the file onto o.
func (f *File) Apply(o Options) (Options, error) {
	if f.TSLevel != "" {
		lvl, err := naming.ParseLevel(f.TSLevel)
		if err != nil {
			return o, err
		}
		o.Level = lvl
	}
	if f.TSPosition != "" {
		pos, err := naming.ParsePosition(f.TSPosition)
		if err != nil {
			return o, err
		}
		o.Position = pos
	}
	if f.NoBanner != nil {
		o.NoBanner = *f.NoBanner
	}
	if f.NoPause != nil {
		o.NoPause = *f.NoPause
	}
	if f.Keep != nil {
		o.Keep = *f.Keep
	}
	if f.LogLevel != "" {
		o.LogLevel = f.LogLevel
	}
	if f.Repeat.Schedule != "" {
		o.Schedule = f.Repeat.Schedule
	}
	if f.Repeat.Watch != nil {
		o.Watch = *f.Repeat.Watch
	}
	if f.Repeat.WatchMode != "" {
		o.WatchMode = f.Repeat.WatchMode
	}
	if f.Repeat.Debounce != 0 {
		o.Debounce = f.Repeat.Debounce
	}
	if f.Repeat.PollInterval != 0 {
		o.PollInterval = f.Repeat.PollInterval
	}
	return o, nil
}
