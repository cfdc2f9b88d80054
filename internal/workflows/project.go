package workflows

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/envelope/internal/configs"
	"github.com/PolarWolf314/envelope/internal/envelope"
	"github.com/PolarWolf314/envelope/internal/keystore"
	"github.com/PolarWolf314/envelope/internal/utils"
)

// openProject loads the config named by configPath (or discovered from the
// working directory) and builds the key store it describes.
func openProject(configPath string) (*configs.Config, *keystore.FileStore, error) {
	if err := configs.InitProjectSettings(configPath); err != nil {
		return nil, nil, err
	}
	cfg := configs.ProjectEnvelopeSettings.Config
	return cfg, keystore.NewFileStore(keystore.PathsFromConfig(cfg)), nil
}

// privateKeyOverride serves the private key from memory, e.g. when it was
// piped on stdin, and every other slot from the wrapped store.
type privateKeyOverride struct {
	envelope.KeyStore
	privateKey []byte
}

func (p privateKeyOverride) LoadPrivateKey() ([]byte, error) {
	return append([]byte(nil), p.privateKey...), nil
}

// findExistingFiles returns which of the given paths already exist on disk.
func findExistingFiles(paths []string) []string {
	var existing []string
	for _, path := range paths {
		if exists, _ := utils.FileExists(path); exists {
			existing = append(existing, path)
		}
	}
	return existing
}

// writeOutput writes data to path, creating the parent directory.
func writeOutput(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, perm)
}

// excludedFiles lists files pattern expansion must never pick up: the key
// files and the project config, in both its current and legacy names.
func excludedFiles(cfg *configs.Config, store *keystore.FileStore) []string {
	exclude := store.Paths().All()
	exclude = append(exclude,
		filepath.Join(cfg.Dir(), configs.ConfigFileName),
		filepath.Join(cfg.Dir(), configs.LegacyConfigFileName),
	)
	if path := configs.ProjectEnvelopeSettings.ConfigPath; path != "" {
		exclude = append(exclude, path)
	}
	return exclude
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
