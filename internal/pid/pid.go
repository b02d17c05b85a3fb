// Package pid guards a data directory against a second collector
// process. Rotation is a delete+rename+reopen sequence with no
// cross-process coordination, so at most one writer may own a file set;
// the claim file lives inside the directory it protects.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/thermalogd/internal/errors"
)

const (
	claimFileName = "thermalogd.pid"
	claimFilePerm = 0o600
	dirPerm       = 0o755
)

// Write claims dir for the current process. It fails if a live process
// already holds the claim; a stale claim left by a dead process is
// replaced.
func Write(dir string) error {
	errFactory := errors.New()
	claim := filepath.Join(dir, claimFileName)

	if data, err := os.ReadFile(claim); err == nil {
		owner, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err == nil && alive(owner) {
			return errFactory.WithData(errors.ErrAlreadyRunning, owner)
		}
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}
	if err := os.WriteFile(claim, []byte(strconv.Itoa(os.Getpid())+"\n"), claimFilePerm); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove releases the claim on dir. A missing claim file is not an error.
func Remove(dir string) error {
	if err := os.Remove(filepath.Join(dir, claimFileName)); err != nil && !os.IsNotExist(err) {
		errFactory := errors.New()
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
