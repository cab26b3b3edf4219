// Package fs is the filesystem layer tilder writes backups through.
// It provides the FS interface, the FileInfo type and an OS-backed
// implementation whose copies are atomic and retried on transient errors.
package fs

import (
	"context"
	"os"
	"time"
)

type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
	Mode  os.FileMode
	Inode uint64
}

// IsDir reports whether the entry is a directory.
func (i FileInfo) IsDir() bool { return i.Mode.IsDir() }

// IsRegular reports whether the entry is a regular file.
func (i FileInfo) IsRegular() bool { return i.Mode.IsRegular() }

type FS interface {
	Stat(path string) (FileInfo, error)
	MkdirAll(path string) error
	CopyFile(ctx context.Context, src, dst string) error
	ReadDir(path string) ([]FileInfo, error)
	Remove(path string) error
}
