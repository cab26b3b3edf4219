package backup

import (
	"errors"
	"fmt"
)

// ErrBackupFailed is returned by Run when at least one file failed.
var ErrBackupFailed = errors.New("backup failed")

// FileError records which step failed for which input.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
