//go:build unix

package fs

import (
	"os"
	"syscall"
)

// inodeOf reads the inode from syscall.Stat_t. A different inode after a
// copy means the source was replaced while it was read.
func inodeOf(info os.FileInfo) uint64 {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0
	}
	return uint64(st.Ino)
}
