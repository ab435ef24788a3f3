package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultDBFile = "goobcms.db"
)

// CheckExists verifies if the datastore exists at the given path.
// Returns true if the store exists, false otherwise.
func CheckExists(storePath string) (bool, error) {
	dbPath := filepath.Join(storePath, DefaultDBFile)
	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check store existence: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("datastore path is a directory, expected file: %s", dbPath)
	}
	return true, nil
}

// GetDBPath returns the full path to the database file.
func GetDBPath(storePath string) string {
	return filepath.Join(storePath, DefaultDBFile)
}

// SameRelease reports whether two versions name the same release. Build
// metadata after "+" is ignored, so rebuilds of a release compare equal.
func SameRelease(a, b string) bool {
	return ReleaseVersion(a) == ReleaseVersion(b)
}

// ReleaseVersion returns v without its build metadata.
func ReleaseVersion(v string) string {
	core, _, _ := strings.Cut(strings.TrimSpace(v), "+")
	return core
}
