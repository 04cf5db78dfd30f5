package main

import (
	"fmt"
	"os"
)

// EnsureTaskFile creates an empty task file at path if nothing exists there.
func EnsureTaskFile(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err == nil {
		if fi.IsDir() {
			return false, fmt.Errorf("task file %s is a directory", path)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return false, fmt.Errorf("couldn't create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return true, fmt.Errorf("couldn't create %s: %w", path, err)
	}
	return true, nil
}
