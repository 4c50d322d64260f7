package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// lockFilePermissions matches the cookie file: owner only.
const lockFilePermissions = 0o600

// lockDirPermissions matches the data directory created for the cookie file.
const lockDirPermissions = 0o700

// lockSuffix is appended to the cookie file path to name its lock file.
const lockSuffix = ".lock"

// lockSession takes an exclusive flock on tokenPath+".lock" and records the
// current PID in it. The returned release function drops the lock and
// removes the file. A second process using the same cookie file fails fast
// instead of racing on the login write.
func lockSession(tokenPath string) (release func(), err error) {
	if tokenPath == "" {
		return nil, fmt.Errorf("cookie file path is empty: cannot determine data directory")
	}

	path := tokenPath + lockSuffix

	if mkdirErr := os.MkdirAll(filepath.Dir(path), lockDirPermissions); mkdirErr != nil {
		return nil, fmt.Errorf("creating lock directory: %w", mkdirErr)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	// Non-blocking exclusive lock: fails immediately if another process holds it.
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()

		return nil, fmt.Errorf("another nookvault process is using %s (could not lock %s)", tokenPath, path)
	}

	if err := f.Truncate(0); err != nil {
		f.Close()

		return nil, fmt.Errorf("truncating lock file: %w", err)
	}

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		f.Close()

		return nil, fmt.Errorf("writing lock file: %w", err)
	}

	return func() {
		os.Remove(path)
		f.Close()
	}, nil
}
