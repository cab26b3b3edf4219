// Package naming computes where a backup copy goes and what it is called.
// Everything here is pure: the only input from the outside world is the
// time value the caller passes in.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Flag marks a directory as the backup container of one original file.
const Flag = "~"

const (
	dateLayout     = "20060102"
	dateTimeLayout = "20060102_1504"
)

// Level is the timestamp granularity embedded in backup filenames.
type Level string

const (
	LevelDate     Level = "d"
	LevelDateTime Level = "dt"
	LevelNone     Level = "none"
)

// Position places the timestamp relative to the base name.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
)

// ParseLevel accepts d, dt or none in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d":
		return LevelDate, nil
	case "dt":
		return LevelDateTime, nil
	case "none":
		return LevelNone, nil
	}
	return "", fmt.Errorf("unknown timestamp level %q (want d, dt or none)", s)
}

// ParsePosition accepts before/after and the older bef, aft and rear spellings.
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before", "bef":
		return Before, nil
	case "after", "aft", "rear":
		return After, nil
	}
	return "", fmt.Errorf("unknown timestamp position %q (want before or after)", s)
}

// Timestamp renders t at the given granularity. LevelNone yields "".
func Timestamp(level Level, t time.Time) string {
	switch level {
	case LevelDate:
		return t.Format(dateLayout)
	case LevelDateTime:
		return t.Format(dateTimeLayout)
	default:
		return ""
	}
}

// ParseTimestamp is the inverse of Timestamp for both non-empty levels.
func ParseTimestamp(ts string) (time.Time, error) {
	if len(ts) == len(dateTimeLayout) {
		return time.ParseInLocation(dateTimeLayout, ts, time.Local)
	}
	return time.ParseInLocation(dateLayout, ts, time.Local)
}

// extPattern matches a trailing ".word" run. \w in Go is ASCII only, so
// letters and digits are spelled out to keep non-ASCII extensions intact.
var extPattern = regexp.MustCompile(`^(.*)(\.[\p{L}\p{N}_]+)$`)

// SplitExt splits a file name into its base name and extension.
// Names without an extension, and dotfiles such as ".bashrc" whose whole
// name is the match, come back with an empty extension.
func SplitExt(name string) (base, ext string) {
	m := extPattern.FindStringSubmatch(name)
	if m == nil || m[1] == "" {
		return name, ""
	}
	return m[1], m[2]
}

// Target is where one original file gets backed up to.
type Target struct {
	Original string
	Dir      string
	File     string
}

// Name returns the backup file name for an original file name.
func Name(name, ts string, pos Position) string {
	base, ext := SplitExt(name)

	joined := base
	if ts != "" {
		if pos == Before {
			joined = ts + "_" + base
		} else {
			joined = base + "_" + ts
		}
	}
	return joined + ext
}

// Dir returns the backup directory for an original path: the path itself
// with the backup flag appended, rooted at "." for relative paths.
func Dir(original string) string {
	if filepath.IsAbs(original) {
		return original + Flag
	}
	return "." + string(filepath.Separator) + original + Flag
}

// Compute builds the Target for original given a rendered timestamp.
func Compute(original, ts string, pos Position) Target {
	dir := Dir(original)
	return Target{
		Original: original,
		Dir:      dir,
		File:     dir + string(filepath.Separator) + Name(filepath.Base(original), ts, pos),
	}
}

// Pattern matches timestamped backup names of one original file name, at
// either position. The first submatch is the timestamp.
func Pattern(name string) *regexp.Regexp {
	base, ext := SplitExt(name)
	b := regexp.QuoteMeta(base)
	e := regexp.QuoteMeta(ext)
	ts := `(\d{8}(?:_\d{4})?)`
	return regexp.MustCompile(`^(?:` + b + `_` + ts + `|` + ts + `_` + b + `)` + e + `$`)
}
