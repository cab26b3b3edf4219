package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/tilder/internal/backup"
	"github.com/raoulx24/tilder/internal/config"
	"github.com/raoulx24/tilder/internal/fs"
	"github.com/raoulx24/tilder/internal/logging"
	"github.com/raoulx24/tilder/internal/mailbox"
	"github.com/raoulx24/tilder/internal/retention"
	"github.com/raoulx24/tilder/internal/shell"
	"github.com/raoulx24/tilder/internal/trigger"
)

var info = shell.Info{
	Name:        "tilder",
	Description: "File backup assistant: copies files into <file>~ directories with a date suffix.",
	Author:      "raoulx24",
}

// app carries the process-level dependencies so tests can swap them.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	fs     fs.FS
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
}

// flagValues holds raw flag values; only flags set on the command line
// override the config file.
type flagValues struct {
	opts       config.Options
	configPath string
}

// execute runs the command line and returns the process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	if args == nil {
		// cobra falls back to os.Args when given nil
		args = []string{}
	}
	cmd := a.newRootCmd()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "tilder: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(a.stderr, "Run 'tilder --help' for usage.")
		}
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

func (a *app) newRootCmd() *cobra.Command {
	fv := &flagValues{opts: config.Default()}

	cmd := &cobra.Command{
		Use:   "tilder [flags] FILE...",
		Short: "Copy files into per-file backup directories with a timestamped name",
		Long: `tilder copies each FILE into a directory named FILE~ next to it.
The copy is named after the original with the current date (or date and time)
appended or prepended, e.g. report.csv -> ./report.csv~/report_20240101.csv.

A relative FILE is backed up under ./FILE~; an absolute FILE under FILE~ itself.

Missing files and directories are skipped.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, fv, args)
		},
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	f := cmd.Flags()
	f.SetNormalizeFunc(normalizeFlag)
	f.Var(levelValue{&fv.opts.Level}, "ts-level", "backup filename timestamp: d (date), dt (date and time) or none")
	f.Var(positionValue{&fv.opts.Position}, "ts-position", "place the timestamp before or after the base filename")
	f.BoolVar(&fv.opts.NoBanner, "no-banner", false, "do not print the startup banner")
	f.BoolVar(&fv.opts.NoPause, "no-pause", false, "exit without waiting for enter")
	f.IntVar(&fv.opts.Keep, "keep", 0, "keep only the newest N timestamped copies per file (0 keeps all)")
	f.StringVar(&fv.opts.Schedule, "schedule", "", "keep running and back up on this cron schedule, e.g. \"@hourly\"")
	f.BoolVar(&fv.opts.Watch, "watch", false, "keep running and back up whenever a file changes")
	f.StringVar(&fv.opts.WatchMode, "watch-mode", fv.opts.WatchMode, "change detection for --watch: auto, fsnotify or poll")
	f.DurationVar(&fv.opts.Debounce, "debounce", fv.opts.Debounce, "quiet period after a change before --watch backs up")
	f.DurationVar(&fv.opts.PollInterval, "poll-interval", fv.opts.PollInterval, "polling interval when --watch cannot use fsnotify")
	f.StringVar(&fv.opts.LogLevel, "log-level", fv.opts.LogLevel, "diagnostics on stderr: debug, info, warn or error")
	f.StringVarP(&fv.configPath, "config", "c", "", "YAML file with option defaults; the only input that reads environment variables, via $(VAR) placeholders")

	return cmd
}

// resolveOptions layers defaults, the config file and explicit flags.
func resolveOptions(cmd *cobra.Command, fv *flagValues, files []string) (config.Options, error) {
	opts := config.Default()

	if fv.configPath != "" {
		file, err := config.Load(fv.configPath)
		if err != nil {
			return opts, err
		}
		if opts, err = file.Apply(opts); err != nil {
			return opts, fmt.Errorf("%w: %s: %v", config.ErrInvalidOption, fv.configPath, err)
		}
	}

	changed := cmd.Flags().Changed
	if changed("ts-level") {
		opts.Level = fv.opts.Level
	}
	if changed("ts-position") {
		opts.Position = fv.opts.Position
	}
	if changed("no-banner") {
		opts.NoBanner = fv.opts.NoBanner
	}
	if changed("no-pause") {
		opts.NoPause = fv.opts.NoPause
	}
	if changed("keep") {
		opts.Keep = fv.opts.Keep
	}
	if changed("schedule") {
		opts.Schedule = fv.opts.Schedule
	}
	if changed("watch") {
		opts.Watch = fv.opts.Watch
	}
	if changed("watch-mode") {
		opts.WatchMode = fv.opts.WatchMode
	}
	if changed("debounce") {
		opts.Debounce = fv.opts.Debounce
	}
	if changed("poll-interval") {
		opts.PollInterval = fv.opts.PollInterval
	}
	if changed("log-level") {
		opts.LogLevel = fv.opts.LogLevel
	}
	opts.Files = append([]string(nil), files...)

	return opts, opts.Validate()
}

// run is Start -> [banner] -> backup (repeated in watch/schedule mode) -> [pause].
func (a *app) run(cmd *cobra.Command, fv *flagValues, files []string) (err error) {
	opts, err := resolveOptions(cmd, fv, files)
	if err != nil {
		return err
	}

	log, err := logging.New(a.stderr, opts.LogLevel)
	if err != nil {
		return err
	}

	if !opts.NoBanner {
		shell.Banner(a.stdout, withVersion(info))
	}
	if !opts.NoPause && !opts.Repeating() {
		defer func() {
			if perr := shell.Pause(cmd.Context(), a.stdin, a.stdout); perr != nil {
				log.Debug("pause interrupted", "error", perr)
			}
		}()
	}

	if len(opts.Files) == 0 {
		return cmd.Help()
	}

	exec := backup.New(a.stdout, log, retention.New(opts.Keep, a.fs, log), a.fs).WithClock(a.now)

	if opts.Repeating() {
		return a.repeat(cmd.Context(), opts, exec, log)
	}
	_, err = exec.Run(cmd.Context(), opts)
	return err
}

// repeat runs a first pass, then one more per trigger event until ctx is
// done. The returned error is that of the last pass, or the trigger's own.
func (a *app) repeat(ctx context.Context, opts config.Options, exec *backup.Executor, log logging.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mb := mailbox.New[trigger.Event]()
	start, err := newTrigger(opts, mb, log)
	if err != nil {
		return err
	}

	trigErr := make(chan error, 1)
	go func() {
		trigErr <- start(ctx)
		cancel()
	}()
	mb.Put(trigger.Event{Reason: "start", At: a.now()})

	var lastErr error
	for {
		ev, ok := mb.Take(ctx)
		if !ok {
			break
		}
		log.Info("backup triggered", "reason", ev.Reason, "path", ev.Path)
		if _, lastErr = exec.Run(ctx, opts); lastErr != nil {
			log.Error("backup pass failed", "error", lastErr)
		}
	}

	cancel()
	if err := <-trigErr; err != nil {
		return err
	}
	return lastErr
}

// newTrigger prepares the event source synchronously so that nothing
// changed after the first pass goes unnoticed.
func newTrigger(opts config.Options, mb *mailbox.Mailbox[trigger.Event], log logging.Logger) (func(context.Context) error, error) {
	if opts.Schedule != "" {
		return func(ctx context.Context) error {
			return trigger.Schedule(ctx, opts.Schedule, mb, log)
		}, nil
	}

	w, err := trigger.NewWatcher(opts.Files, opts.WatchMode, opts.Debounce, opts.PollInterval, log, mb)
	if err != nil {
		return nil, err
	}
	return w.Start, nil
}

func withVersion(i shell.Info) shell.Info {
	i.Version = version
	return i
}
