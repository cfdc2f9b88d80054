package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
	"github.com/bmatcuk/doublestar/v4"
)

// EncryptedSuffix is appended to files by `files encrypt`.
const EncryptedSuffix = ".enc"

// stateDir holds the audit log and is never encrypted.
const stateDir = ".envelope"

// EncryptedName returns the output path for encrypting path.
func EncryptedName(path string) string {
	return path + EncryptedSuffix
}

// DecryptedName returns the output path for decrypting path.
func DecryptedName(path string) string {
	return strings.TrimSuffix(path, EncryptedSuffix)
}

// IsEncryptedFile reports whether path carries the encrypted suffix.
func IsEncryptedFile(path string) bool {
	return strings.HasSuffix(path, EncryptedSuffix) && len(filepath.Base(path)) > len(EncryptedSuffix)
}

// ResolveFiles expands user-provided paths, directories and globs (with **
// support) relative to baseDir. forEncryption selects plaintext files,
// otherwise only *.enc files are returned. Files listed in exclude (typically
// the key files) and anything under .envelope/ are skipped. Results are
// absolute and deduplicated in input order.
func ResolveFiles(patterns []string, baseDir string, forEncryption bool, exclude ...string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		if e != "" {
			skip[filepath.Clean(e)] = true
		}
	}

	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, baseDir, forEncryption)
		if err != nil {
			return nil, err
		}

		for _, f := range resolved {
			f = filepath.Clean(f)
			if seen[f] || skip[f] {
				continue
			}
			seen[f] = true
			files = append(files, f)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNoFilesFound, strings.Join(patterns, ", "))
	}

	return files, nil
}

func resolvePattern(pattern string, baseDir string, forEncryption bool) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(baseDir, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return findFilesInDir(absPattern, forEncryption)
	}

	if strings.ContainsAny(pattern, "*?[{") {
		return expandGlob(absPattern, pattern, forEncryption)
	}

	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, pattern)
		}
		return nil, err
	}

	// An explicitly named file must still fit the direction.
	if forEncryption && IsEncryptedFile(absPattern) {
		return nil, fmt.Errorf("file is already encrypted: %s", pattern)
	}
	if !forEncryption && !IsEncryptedFile(absPattern) {
		return nil, fmt.Errorf("file is not an encrypted %s file: %s", EncryptedSuffix, pattern)
	}

	return []string{absPattern}, nil
}

func expandGlob(absPattern, pattern string, forEncryption bool) ([]string, error) {
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var filtered []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if isInStateDir(m) {
			continue
		}
		if forEncryption != IsEncryptedFile(m) {
			filtered = append(filtered, m)
		}
	}

	return filtered, nil
}

func findFilesInDir(dir string, forEncryption bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == stateDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if forEncryption != IsEncryptedFile(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func isInStateDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == stateDir {
			return true
		}
	}
	return false
}
