//go:build windows

package fs

import "os"

// Windows has no POSIX inode in FileInfo.Sys; change detection falls back
// to size and modification time.
func inodeOf(os.FileInfo) uint64 {
	return 0
}
