// Package fileutils provides the file operations shared by the flat stores.
// All store writes go through WriteFileAtomic so a crash mid-write leaves
// either the previous file or the new one, never a torn file.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// ReadFile reads the entire contents of a file and returns it as a byte slice
func ReadFile(filePath string) ([]byte, error) {
	if !FileExists(filePath) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- store paths come from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

// WriteFileAtomic writes data to filePath through a temporary file in the
// same directory followed by a rename. The rename is atomic on POSIX
// filesystems, so readers observe either the old content or the new content.
func WriteFileAtomic(filePath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filePath)
	if err := EnsureDirectoryExists(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temp file on any failure path so partial writes never
	// accumulate next to the store.
	cleanup := func(cause error) error {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Warn("Failed to remove temp file")
		}
		return cause
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return cleanup(fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return cleanup(fmt.Errorf("failed to sync temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return cleanup(fmt.Errorf("failed to close temp file: %w", err))
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return cleanup(fmt.Errorf("failed to chmod temp file: %w", err))
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		return cleanup(fmt.Errorf("failed to rename temp file: %w", err))
	}

	return nil
}
