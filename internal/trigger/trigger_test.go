package trigger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/tilder/internal/logging"
	"github.com/raoulx24/tilder/internal/mailbox"
)

func waitEvent(t *testing.T, mb *mailbox.Mailbox[Event], timeout time.Duration) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ev, ok := mb.Take(ctx)
	require.True(t, ok, "no event within %s", timeout)
	return ev
}

func TestScheduleFires(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mb := mailbox.New[Event]()

	done := make(chan error, 1)
	go func() { done <- Schedule(ctx, "@every 1s", mb, logging.Nop()) }()

	ev := waitEvent(t, mb, 3*time.Second)
	assert.Equal(t, "schedule", ev.Reason)

	cancel()
	require.NoError(t, <-done)
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	err := Schedule(context.Background(), "not a cron", mailbox.New[Event](), logging.Nop())
	assert.Error(t, err)
}

func newTestWatcher(t *testing.T, mode string, files ...string) (*Watcher, *mailbox.Mailbox[Event]) {
	t.Helper()
	mb := mailbox.New[Event]()
	w, err := NewWatcher(files, mode, 20*time.Millisecond, 20*time.Millisecond, logging.Nop(), mb)
	require.NoError(t, err)
	return w, mb
}

func TestNewWatcherGroupsDirs(t *testing.T) {
	dir := t.TempDir()
	w, _ := newTestWatcher(t, ModePoll,
		filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"), filepath.Join(dir, "sub", "c.txt"))

	assert.Len(t, w.files, 3)
	assert.Len(t, w.dirs, 2)
	assert.True(t, w.watched(filepath.Join(dir, "a.txt")))
	assert.False(t, w.watched(filepath.Join(dir, "other.txt")))
}

func TestUnknownMode(t *testing.T) {
	w, _ := newTestWatcher(t, "inotify2", filepath.Join(t.TempDir(), "a.txt"))
	assert.Error(t, w.Start(context.Background()))
}

func runWatcher(t *testing.T, w *Watcher) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestPollingDetectsChange(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("v1"), 0o644))

	w, mb := newTestWatcher(t, ModePoll, file)
	runWatcher(t, w)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("version 2"), 0o644))

	ev := waitEvent(t, mb, 2*time.Second)
	assert.Equal(t, "change", ev.Reason)
	assert.Equal(t, file, ev.Path)
}

func TestFsnotifyDetectsChangeAndIgnoresOthers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("v1"), 0o644))

	w, mb := newTestWatcher(t, ModeFsnotify, file)
	runWatcher(t, w)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.False(t, mb.HasPending())

	require.NoError(t, os.WriteFile(file, []byte("v2"), 0o644))
	ev := waitEvent(t, mb, 2*time.Second)
	assert.Equal(t, file, ev.Path)
}
