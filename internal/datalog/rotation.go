package datalog

import (
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/mutker/thermalogd/internal/errors"
)

// FileSet names the active data file and its numbered backups inside one
// directory. Index 0 is the bare base name (the active file); backup i+1
// is strictly older than backup i.
type FileSet struct {
	Dir  string
	Base string
}

// Active returns the path of the file currently receiving writes.
func (fs FileSet) Active() string {
	return filepath.Join(fs.Dir, fs.Base)
}

// Backup returns the path of the i-th rotated backup (i >= 1).
func (fs FileSet) Backup(i int) string {
	return fmt.Sprintf("%s.%d", fs.Active(), i)
}

// RotationPolicy decides when a data file rolls over and performs the
// backup shift. Both bounds are fixed for the lifetime of a Logger unless
// it is explicitly reset.
type RotationPolicy struct {
	MaxFileSizeBytes int64
	MaxFileCount     int
}

func (p RotationPolicy) Validate() error {
	errFactory := errors.New()
	if p.MaxFileSizeBytes <= 0 {
		return errFactory.WithData(ErrInvalidFileSize, p.MaxFileSizeBytes)
	}
	if p.MaxFileCount < 1 {
		return errFactory.WithData(ErrInvalidFileCount, p.MaxFileCount)
	}
	return nil
}

// ShouldRotate reports whether appending pending bytes to a file of
// currentSize would exceed the size bound. Rotation is size-triggered, not
// size-enforcing: a single write larger than the bound still goes into a
// freshly rotated file in full.
func (p RotationPolicy) ShouldRotate(currentSize, pending int64) bool {
	return currentSize+pending > p.MaxFileSizeBytes
}

// Rotate shifts the file set one step: the oldest backup is removed and
// every younger file moves one index up, freeing the active name for a
// fresh file. Missing files along the chain are skipped. With a file count
// of 1 there is nothing to shift; the caller truncates the active file in
// place when it reopens it.
//
// The shift is best effort: a failed remove or rename is reported but does
// not stop the remaining renames, so a write never gets lost because a
// backup could not be moved.
func (p RotationPolicy) Rotate(fs FileSet) error {
	if p.MaxFileCount == 1 {
		return nil
	}

	errFactory := errors.New()
	var firstErr error

	oldest := fs.Backup(p.MaxFileCount - 1)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		firstErr = errFactory.Wrap(ErrRotationFailed, err)
	}

	for i := p.MaxFileCount - 2; i >= 1; i-- {
		src := fs.Backup(i)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := os.Rename(src, fs.Backup(i+1)); err != nil && firstErr == nil {
			firstErr = errFactory.Wrap(ErrRotationFailed, err)
		}
	}

	if _, err := os.Stat(fs.Active()); err == nil {
		if err := os.Rename(fs.Active(), fs.Backup(1)); err != nil && firstErr == nil {
			firstErr = errFactory.Wrap(ErrRotationFailed, err)
		}
	}

	return firstErr
}
