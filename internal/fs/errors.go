package fs

import (
	"errors"
	"syscall"
)

// ErrSourceChanged means the source was modified while it was copied.
var ErrSourceChanged = errors.New("source changed during copy")

// isTransient decides whether an operation is worth another attempt.
func isTransient(err error) bool {
	return errors.Is(err, ErrSourceChanged) ||
		errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETIMEDOUT)
}
