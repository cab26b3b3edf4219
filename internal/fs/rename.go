package fs

import "os"

// replace moves a finished temp file over its destination. os.Rename
// replaces an existing file on every platform Go supports, so readers
// see either the old copy or the new one.
func replace(tmp, dst string) error {
	return os.Rename(tmp, dst)
}
