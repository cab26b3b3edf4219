package fs

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// OSFS is the FS backed by the local operating system.
// Inode extraction lives in the build-tagged inode_*.go files.
type OSFS struct {
	Retry RetryPolicy
}

// RetryPolicy bounds how often a transient failure is retried.
type RetryPolicy struct {
	MaxAttempts int
	Base        time.Duration
}

// DefaultRetry is five attempts with 100ms exponential backoff.
var DefaultRetry = RetryPolicy{MaxAttempts: 5, Base: 100 * time.Millisecond}

func New() *OSFS {
	return &OSFS{Retry: DefaultRetry}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return infoOf(path, st), nil
}

func (o *OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (o *OSFS) Remove(path string) error {
	return os.Remove(path)
}

// ReadDir lists the entries of a directory, skipping ones that vanish
// between listing and stat.
func (o *OSFS) ReadDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		st, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, infoOf(filepath.Join(path, e.Name()), st))
	}
	return out, nil
}

func (o *OSFS) CopyFile(ctx context.Context, src, dst string) error {
	return copyWithRetry(ctx, o, o.Retry, src, dst)
}

func infoOf(path string, st os.FileInfo) FileInfo {
	return FileInfo{
		Path:  path,
		Size:  st.Size(),
		MTime: st.ModTime(),
		Mode:  st.Mode(),
		Inode: inodeOf(st),
	}
}
