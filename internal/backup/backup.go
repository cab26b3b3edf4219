// Package backup copies input files into their per-file backup directories
// and reports the outcome as an aligned table.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/raoulx24/tilder/internal/config"
	"github.com/raoulx24/tilder/internal/fs"
	"github.com/raoulx24/tilder/internal/logging"
	"github.com/raoulx24/tilder/internal/naming"
	"github.com/raoulx24/tilder/internal/retention"
)

const ruleWidth = 70

// Executor runs one backup pass at a time.
type Executor struct {
	out       io.Writer
	fs        fs.FS
	log       logging.Logger
	retention *retention.Engine
	now       func() time.Time
}

// New creates an executor writing its report to out. A nil filesystem
// means the OS one; a nil retention engine disables pruning.
func New(out io.Writer, log logging.Logger, r *retention.Engine, filesystem fs.FS) *Executor {
	if out == nil {
		out = os.Stdout
	}
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Executor{
		out:       out,
		fs:        filesystem,
		log:       log,
		retention: r,
		now:       time.Now,
	}
}

// WithClock replaces the wall clock used for timestamps.
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

// Result is the outcome for one target.
type Result struct {
	Target naming.Target
	Err    error
	Pruned []string
}

// Report summarises one pass.
type Report struct {
	Timestamp string
	Results   []Result
}

// Failed counts the targets that were not backed up.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Run backs up opts.Files once. The timestamp is taken at the start of the
// pass. Per-file failures do not stop the pass; they are joined into the
// returned error, which then wraps ErrBackupFailed.
func (e *Executor) Run(ctx context.Context, opts config.Options) (Report, error) {
	ts := naming.Timestamp(opts.Level, e.now())
	report := Report{Timestamp: ts}

	targets := e.Plan(opts.Files, ts, opts.Position)
	if len(targets) == 0 {
		e.log.Info("no designated files found", "inputs", len(opts.Files))
		fmt.Fprintln(e.out, "No designated files found.")
		return report, nil
	}

	width := 0
	for _, t := range targets {
		width = max(width, utf8.RuneCountInString(t.Original))
	}

	rule := strings.Repeat("-", ruleWidth)
	fmt.Fprintln(e.out, rule)

	var errs []error
	for _, t := range targets {
		res := e.backupOne(ctx, t)
		report.Results = append(report.Results, res)

		if res.Err != nil {
			errs = append(errs, res.Err)
			fmt.Fprintf(e.out, "%-*s => FAILED: %v\n", width, t.Original, errors.Unwrap(res.Err))
			continue
		}
		fmt.Fprintf(e.out, "%-*s => %s\n", width, t.Original, t.File)
	}

	fmt.Fprintln(e.out, rule)
	if len(errs) == 0 {
		fmt.Fprintln(e.out, "File backup completed.")
		return report, nil
	}

	fmt.Fprintf(e.out, "File backup finished with %d failure(s).\n", len(errs))
	return report, fmt.Errorf("%w: %w", ErrBackupFailed, errors.Join(errs...))
}

// backupOne creates the backup directory if needed, copies the file and
// applies retention.
func (e *Executor) backupOne(ctx context.Context, t naming.Target) Result {
	res := Result{Target: t}

	if err := e.fs.MkdirAll(t.Dir); err != nil {
		e.log.Error("creating backup dir failed", "path", t.Original, "dir", t.Dir, "error", err)
		res.Err = &FileError{Path: t.Original, Op: "mkdir", Err: err}
		return res
	}

	if err := e.fs.CopyFile(ctx, t.Original, t.File); err != nil {
		e.log.Error("copying file failed", "path", t.Original, "dst", t.File, "error", err)
		res.Err = &FileError{Path: t.Original, Op: "copy", Err: err}
		return res
	}
	e.log.Info("backed up", "path", t.Original, "dst", t.File)

	if e.retention != nil {
		pruned, err := e.retention.Apply(t)
		if err != nil {
			e.log.Warn("retention failed", "path", t.Original, "error", err)
		}
		res.Pruned = pruned
	}
	return res
}
