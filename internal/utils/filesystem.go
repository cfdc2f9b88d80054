package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindConfigRoot walks up from startDir looking for the first of names present
// as a regular file. It returns the directory and the name that matched, or
// two empty strings when nothing is found. The search stops above the user's
// home directory.
func FindConfigRoot(startDir string, names ...string) (string, string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	stopDir := filepath.Dir(homeDir)

	for {
		if currentDir == stopDir {
			return "", "", nil
		}

		for _, name := range names {
			info, err := os.Stat(filepath.Join(currentDir, name))
			if err == nil {
				if info.Mode().IsRegular() {
					return currentDir, name, nil
				}
				continue
			}
			if !os.IsNotExist(err) {
				// Permission problems and the like should surface.
				return "", "", fmt.Errorf("error checking for %s in %s: %w", name, currentDir, err)
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", "", nil
		}
		currentDir = parentDir
	}
}

// FileExists reports whether path exists. Errors other than "not found" are
// returned.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
