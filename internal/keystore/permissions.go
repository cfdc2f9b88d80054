package keystore

import (
	"io/fs"
	"os"
	"runtime"
)

// PrivateKeyMode is the only mode private key files should have.
const PrivateKeyMode fs.FileMode = 0600

// CheckPrivateKeyPermissions reports whether the file at path is accessible
// to anyone but its owner. It always returns false on Windows, where Unix
// modes do not apply, and for missing files.
func CheckPrivateKeyPermissions(path string) (mode fs.FileMode, tooOpen bool, err error) {
	if path == "" || runtime.GOOS == "windows" {
		return 0, false, nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	mode = info.Mode().Perm()
	return mode, mode&^PrivateKeyMode != 0, nil
}
