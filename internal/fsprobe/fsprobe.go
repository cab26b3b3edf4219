// Package fsprobe checks whether fsnotify works reliably for a directory.
// Network mounts and some container filesystems accept watches but never
// deliver events; a real create+rename round trip tells them apart.
package fsprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWait is how long Probe waits for the first event.
const DefaultWait = 200 * time.Millisecond

// Result reports whether fsnotify is usable and why.
type Result struct {
	Dir               string
	FsnotifySupported bool   // true if events are delivered
	Reason            string // explanation when unsupported
}

// Probe tests whether fsnotify reports changes made in dir within wait.
func Probe(dir string, wait time.Duration) Result {
	fail := func(format string, args ...any) Result {
		return Result{Dir: dir, Reason: fmt.Sprintf(format, args...)}
	}

	st, err := os.Stat(dir)
	if err != nil {
		return fail("stat failed: %v", err)
	}
	if !st.IsDir() {
		return fail("not a directory")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fail("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fail("cannot watch directory: %v", err)
	}

	tmp, err := os.CreateTemp(dir, ".tilder-probe-*")
	if err != nil {
		return fail("cannot create probe file: %v", err)
	}
	tmp.Close()
	final := filepath.Join(dir, filepath.Base(tmp.Name())+".done")

	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fail("rename failed: %v", err)
	}
	defer os.Remove(final)

	timeout := time.After(wait)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return fail("event channel closed")
			}
			if ev.Op&(fsnotify.Rename|fsnotify.Create|fsnotify.Write) != 0 {
				return Result{Dir: dir, FsnotifySupported: true}
			}
		case err := <-w.Errors:
			return fail("watch error: %v", err)
		case <-timeout:
			return fail("no events received within %s", wait)
		}
	}
}
