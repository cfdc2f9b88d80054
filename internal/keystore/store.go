package keystore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/envelope/internal/configs"
	kerrors "github.com/PolarWolf314/envelope/internal/errors"
)

// Paths names the file behind each key slot. An empty path means the slot is
// not configured.
type Paths struct {
	SymmetricKey string
	PublicKey    string
	PrivateKey   string
	WrappedKey   string
	UnwrappedKey string
}

// PathsFromConfig resolves the key paths of cfg against its directory.
func PathsFromConfig(cfg *configs.Config) Paths {
	resolved := cfg.Resolved()
	return Paths{
		SymmetricKey: resolved.SymmetricKey,
		PublicKey:    resolved.PublicKey,
		PrivateKey:   resolved.PrivateKey,
		WrappedKey:   resolved.EncryptedKey,
		UnwrappedKey: resolved.DecryptedKey,
	}
}

// All returns the configured key paths in a fixed order.
func (p Paths) All() []string {
	var all []string
	for _, path := range []string{p.SymmetricKey, p.PublicKey, p.PrivateKey, p.WrappedKey, p.UnwrappedKey} {
		if path != "" {
			all = append(all, path)
		}
	}
	return all
}

// FileStore keeps each key in its own file. It satisfies envelope.KeyStore.
type FileStore struct {
	paths Paths
}

func NewFileStore(paths Paths) *FileStore {
	return &FileStore{paths: paths}
}

func (s *FileStore) Paths() Paths {
	return s.paths
}

func (s *FileStore) SaveSymmetricKey(key []byte) error {
	return writeKeyFile("symmetric_key", s.paths.SymmetricKey, key, 0600)
}

func (s *FileStore) LoadSymmetricKey() ([]byte, error) {
	return readKeyFile("symmetric_key", s.paths.SymmetricKey)
}

func (s *FileStore) SavePublicKey(pemData []byte) error {
	// #nosec G306 -- public keys are meant to be shared.
	return writeKeyFile("public_key", s.paths.PublicKey, pemData, 0644)
}

func (s *FileStore) LoadPublicKey() ([]byte, error) {
	return readKeyFile("public_key", s.paths.PublicKey)
}

func (s *FileStore) SavePrivateKey(pemData []byte) error {
	return writeKeyFile("private_key", s.paths.PrivateKey, pemData, 0600)
}

func (s *FileStore) LoadPrivateKey() ([]byte, error) {
	return readKeyFile("private_key", s.paths.PrivateKey)
}

func (s *FileStore) SaveWrappedKey(wrapped []byte) error {
	// #nosec G306 -- only the private key holder can open it.
	return writeKeyFile("encrypted_key", s.paths.WrappedKey, wrapped, 0644)
}

func (s *FileStore) LoadWrappedKey() ([]byte, error) {
	return readKeyFile("encrypted_key", s.paths.WrappedKey)
}

func (s *FileStore) SaveUnwrappedKey(key []byte) error {
	return writeKeyFile("decrypted_key", s.paths.UnwrappedKey, key, 0600)
}

// RemoveKey deletes the file behind slot. A missing file is not an error.
func (s *FileStore) RemoveKey(slot string) error {
	var path string
	switch slot {
	case "symmetric_key":
		path = s.paths.SymmetricKey
	case "public_key":
		path = s.paths.PublicKey
	case "private_key":
		path = s.paths.PrivateKey
	case "encrypted_key":
		path = s.paths.WrappedKey
	case "decrypted_key":
		path = s.paths.UnwrappedKey
	default:
		return fmt.Errorf("unknown key slot %q", slot)
	}
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// ExistingKeys returns the generated key files (symmetric, public, private)
// that are already on disk.
func (s *FileStore) ExistingKeys() ([]string, error) {
	var existing []string
	for _, path := range []string{s.paths.SymmetricKey, s.paths.PublicKey, s.paths.PrivateKey} {
		if path == "" {
			continue
		}
		_, err := os.Stat(path)
		if err == nil {
			existing = append(existing, path)
			continue
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to check %s: %w", path, err)
		}
	}
	return existing, nil
}

func writeKeyFile(slot, path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return fmt.Errorf("%w: paths.%s", kerrors.ErrPathNotConfigured, slot)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return nil
}

func readKeyFile(slot, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: paths.%s: %w", kerrors.ErrPathNotConfigured, slot, fs.ErrNotExist)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}
