// Package archive moves or removes the cached frequency snapshots and
// translations kept under the cache root.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Subdirectories of the cache root holding cached data
var cacheDirs = []string{"frequency", "translations"}

// ArchiveCache moves the cached data under cacheDir into
// cacheDir/archive/cache-<timestamp> and returns that path
func ArchiveCache(cacheDir string, now time.Time) (string, error) {
	present := existing(cacheDir)
	if len(present) == 0 {
		return "", fmt.Errorf("nothing to archive in %s", cacheDir)
	}

	archiveDir := filepath.Join(cacheDir, "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := filepath.Join(archiveDir, "cache-"+now.Format("20060102-150405"))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, "cache-"+now.Format("20060102-150405.000000"))
	}
	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	for _, name := range present {
		if err := os.Rename(filepath.Join(cacheDir, name), filepath.Join(archivePath, name)); err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", name, err)
		}
	}

	return archivePath, nil
}

// ClearCache deletes the cached data under cacheDir, leaving archives
// alone. It returns the names of the removed directories.
func ClearCache(cacheDir string) ([]string, error) {
	present := existing(cacheDir)
	for _, name := range present {
		if err := os.RemoveAll(filepath.Join(cacheDir, name)); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return present, nil
}

func existing(cacheDir string) []string {
	var present []string
	for _, name := range cacheDirs {
		info, err := os.Stat(filepath.Join(cacheDir, name))
		if err != nil || !info.IsDir() {
			continue
		}
		present = append(present, name)
	}
	return present
}
