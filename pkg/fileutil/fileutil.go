// Package fileutil provides file system utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrFileNotFound is returned when no file matches, even ignoring case.
var ErrFileNotFound = errors.New("file not found")

// FindFileCaseInsensitive searches for a file with the given name in the specified directory.
// The search is case-insensitive, which helps with files copied from
// case-insensitive file systems (e.g. "SONG.MID" vs "song.mid").
//
// Parameters:
//   - dir: The directory to search in
//   - filename: The filename to search for (case-insensitive)
//
// Returns:
//   - string: The actual path to the file if found
//   - error: Error if the file is not found or if there's an I/O error
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	// Normalize the search filename to lowercase for comparison
	searchName := strings.ToLower(filename)

	// Read directory entries
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	// Search for matching file (case-insensitive)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Compare lowercase versions
		if strings.ToLower(entry.Name()) == searchName {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("%w: %s (searched in %s)", ErrFileNotFound, filename, dir)
}

// ResolvePath returns path itself when it exists, otherwise the entry in the
// same directory whose name matches ignoring case.
func ResolvePath(path string) (string, error) {
	// First try exact match (fast path)
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("%s is a directory", path)
		}
		return path, nil
	}

	return FindFileCaseInsensitive(filepath.Dir(path), filepath.Base(path))
}

// ReadFile reads the whole file at path into memory, resolving the name
// case-insensitively when there is no exact match.
func ReadFile(path string) ([]byte, error) {
	actualPath, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(actualPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", actualPath, err)
	}
	return data, nil
}
