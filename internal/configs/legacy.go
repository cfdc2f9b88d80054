package configs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LegacyConfig is the flat path.json layout used by earlier releases.
type LegacyConfig struct {
	SymmetricKeyPath  string `json:"symmetric_key_path"`
	PublicKeyPath     string `json:"public_key_path"`
	SecretKeyPath     string `json:"secret_key_path"`
	InitialFilePath   string `json:"initial_file_path"`
	EncryptedFilePath string `json:"encrypted_file_path"`
	DecryptedFilePath string `json:"decrypted_file_path"`
	EncryptedKeyPath  string `json:"encrypted_key_path"`
	DecryptedKeyPath  string `json:"decrypted_key_path"`
}

// MigrationResult describes a path.json to envelope.toml conversion.
type MigrationResult struct {
	ConfigPath string
	BackupPath string
	Config     *Config
}

// LoadLegacyConfig reads a path.json file. Keys not present in the file keep
// their zero value; the key size always takes the default.
func LoadLegacyConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var legacy LegacyConfig
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	return legacy.toConfig(), nil
}

func (l LegacyConfig) toConfig() *Config {
	return &Config{
		Keys: KeysConfig{SymmetricBits: DefaultSymmetricBits},
		Paths: PathsConfig{
			SymmetricKey:  l.SymmetricKeyPath,
			PublicKey:     l.PublicKeyPath,
			PrivateKey:    l.SecretKeyPath,
			InitialFile:   l.InitialFilePath,
			EncryptedFile: l.EncryptedFilePath,
			DecryptedFile: l.DecryptedFilePath,
			EncryptedKey:  l.EncryptedKeyPath,
			DecryptedKey:  l.DecryptedKeyPath,
		},
	}
}

// IsLegacyProject reports whether dir has a path.json and no envelope.toml.
func IsLegacyProject(dir string) bool {
	if dir == "" {
		return false
	}
	if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, LegacyConfigFileName))
	return err == nil && info.Mode().IsRegular()
}

// MigrateProject converts dir/path.json into dir/envelope.toml. The old file
// is copied to a timestamped backup first and left in place; envelope.toml
// takes precedence once it exists.
func MigrateProject(dir string) (*MigrationResult, error) {
	if dir == "" {
		return nil, fmt.Errorf("project path is empty")
	}
	if !IsLegacyProject(dir) {
		return nil, fmt.Errorf("%s has no %s to migrate", dir, LegacyConfigFileName)
	}

	legacyPath := filepath.Join(dir, LegacyConfigFileName)
	cfg, err := LoadLegacyConfig(legacyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", legacyPath, err)
	}

	backupPath := legacyPath + ".backup-" + time.Now().Format("20060102-150405")
	if err := copyFile(legacyPath, backupPath); err != nil {
		return nil, fmt.Errorf("failed to create backup: %w", err)
	}

	// Keep the audit log next to the new config so `envelope log` works.
	cfg.Paths.AuditLog = DefaultConfig().Paths.AuditLog

	configPath := filepath.Join(dir, ConfigFileName)
	if err := SaveConfig(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	cfg.dir = dir

	return &MigrationResult{
		ConfigPath: configPath,
		BackupPath: backupPath,
		Config:     cfg,
	}, nil
}

func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode().Perm())
}
