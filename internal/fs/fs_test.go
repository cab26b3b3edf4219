package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastFS() *OSFS {
	return &OSFS{Retry: RetryPolicy{MaxAttempts: 3, Base: time.Millisecond}}
}

func TestCopyFileCopiesBytes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	data := []byte{0x00, 0xff, 'a', '\n', 0x7f}
	require.NoError(t, os.WriteFile(src, data, 0o640))

	require.NoError(t, fastFS().CopyFile(context.Background(), src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	st, err := os.Stat(dst)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0o640), st.Mode().Perm())
	}
}

func TestCopyFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old and longer"), 0o644))

	require.NoError(t, fastFS().CopyFile(context.Background(), src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestCopyFileLeavesNoTempOnFailure(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(dst, []byte("previous"), 0o644))

	err := fastFS().CopyFile(context.Background(), filepath.Join(dir, "missing"), dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(got))
}

// growingFS appends to the file it stats on every second call, so each
// copy attempt sees the source change after reading it.
type growingFS struct {
	*OSFS
	calls int
}

func (g *growingFS) Stat(path string) (FileInfo, error) {
	g.calls++
	if g.calls%2 == 0 {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
		if err != nil {
			return FileInfo{}, err
		}
		_, _ = f.WriteString("MORE")
		_ = f.Close()
	}
	return g.OSFS.Stat(path)
}

func TestCopyFileSourceChangedKeepsPreviousBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("previous good backup"), 0o644))

	g := &growingFS{OSFS: fastFS()}
	err := copyWithRetry(context.Background(), g, RetryPolicy{MaxAttempts: 2, Base: time.Millisecond}, src, dst)

	require.ErrorIs(t, err, ErrSourceChanged)
	assert.Equal(t, 4, g.calls)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "previous good backup", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"src", "dst"}, names)
}

func TestCopyFileMissingDestinationDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	err := fastFS().CopyFile(context.Background(), src, filepath.Join(dir, "nope", "dst"))
	assert.Error(t, err)
}

func TestStatAndReadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), []byte("abc"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d"), 0o755))

	o := New()
	fi, err := o.Stat(filepath.Join(dir, "f"))
	require.NoError(t, err)
	assert.True(t, fi.IsRegular())
	assert.EqualValues(t, 3, fi.Size)

	di, err := o.Stat(filepath.Join(dir, "d"))
	require.NoError(t, err)
	assert.True(t, di.IsDir())

	list, err := o.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestMkdirAllIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a.txt~")
	o := New()

	require.NoError(t, o.MkdirAll(dir))
	require.NoError(t, o.MkdirAll(dir))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.Error(t, o.MkdirAll(file))
}

func TestSourceChanged(t *testing.T) {
	now := time.Now()
	base := FileInfo{Size: 10, MTime: now, Inode: 7}

	assert.False(t, sourceChanged(base, base))
	assert.True(t, sourceChanged(base, FileInfo{Size: 11, MTime: now, Inode: 7}))
	assert.True(t, sourceChanged(base, FileInfo{Size: 10, MTime: now.Add(time.Second), Inode: 7}))
	assert.True(t, sourceChanged(base, FileInfo{Size: 10, MTime: now, Inode: 8}))
	assert.False(t, sourceChanged(base, FileInfo{Size: 10, MTime: now, Inode: 0}))
}

func TestRetryTransientThenSuccess(t *testing.T) {
	calls := 0
	err := retry(context.Background(), RetryPolicy{MaxAttempts: 5, Base: time.Millisecond}, "op", func() error {
		calls++
		if calls < 3 {
			return syscall.EBUSY
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPermanentStopsImmediately(t *testing.T) {
	calls := 0
	err := retry(context.Background(), RetryPolicy{MaxAttempts: 5, Base: time.Millisecond}, "op", func() error {
		calls++
		return os.ErrPermission
	})

	require.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, 1, calls)
}

func TestRetryExhausted(t *testing.T) {
	calls := 0
	err := retry(context.Background(), RetryPolicy{MaxAttempts: 3, Base: time.Millisecond}, "copy", func() error {
		calls++
		return ErrSourceChanged
	})

	require.ErrorIs(t, err, ErrSourceChanged)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry(ctx, DefaultRetry, "op", func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
