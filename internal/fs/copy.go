package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// copyWithRetry copies src to dst atomically. The data goes to a temp
// file next to dst which replaces dst only once it is complete and synced.
// A source that changes while being read is retried.
func copyWithRetry(ctx context.Context, f FS, p RetryPolicy, src, dst string) error {
	return retry(ctx, p, "copy", func() error {
		return copyOnce(f, src, dst)
	})
}

func sourceChanged(orig, now FileInfo) bool {
	if now.Inode != 0 && orig.Inode != 0 && now.Inode != orig.Inode {
		return true
	}
	if !now.MTime.Equal(orig.MTime) {
		return true
	}
	return now.Size != orig.Size
}

// copyOnce checks the source again after the temp file is complete; dst
// is only replaced when the source did not change in between.
func copyOnce(f FS, src, dst string) (err error) {
	srcInfo, err := f.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, in)
	if err != nil {
		return err
	}
	if n != srcInfo.Size {
		return ErrSourceChanged
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(srcInfo.Mode.Perm()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	after, err := f.Stat(src)
	if err != nil {
		return err
	}
	if sourceChanged(srcInfo, after) {
		return ErrSourceChanged
	}

	if err = replace(tmpName, dst); err != nil {
		return fmt.Errorf("finalizing %s: %w", dst, err)
	}
	return nil
}
