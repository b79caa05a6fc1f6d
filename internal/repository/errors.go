package repository

import "errors"

var (
	// ErrCorruptStore is returned when the backing submission log exists but
	// cannot be decoded. The log is never reset to recover from it.
	ErrCorruptStore = errors.New("submission log is corrupt")

	// ErrPersist is returned when a submission could not be written.
	ErrPersist = errors.New("failed to persist submission")
)
