package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
)

const (
	ConfigFileName       = "envelope.toml"
	LegacyConfigFileName = "path.json"

	// ConfigEnvVar overrides config discovery when --config is not given.
	ConfigEnvVar = "ENVELOPE_CONFIG"

	DefaultSymmetricBits = 256
)

// Config is the on-disk layout of envelope.toml.
type Config struct {
	Keys  KeysConfig  `toml:"keys"`
	Paths PathsConfig `toml:"paths"`

	// dir is the directory the config was loaded from. Relative paths in
	// Paths resolve against it.
	dir string
}

type KeysConfig struct {
	SymmetricBits int `toml:"symmetric_bits" json:"symmetric_bits"`
}

type PathsConfig struct {
	SymmetricKey  string `toml:"symmetric_key" json:"symmetric_key"`
	PublicKey     string `toml:"public_key" json:"public_key"`
	PrivateKey    string `toml:"private_key" json:"private_key"`
	InitialFile   string `toml:"initial_file" json:"initial_file"`
	EncryptedFile string `toml:"encrypted_file" json:"encrypted_file"`
	DecryptedFile string `toml:"decrypted_file" json:"decrypted_file"`
	EncryptedKey  string `toml:"encrypted_key" json:"encrypted_key"`
	DecryptedKey  string `toml:"decrypted_key" json:"decrypted_key"`
	AuditLog      string `toml:"audit_log,omitempty" json:"audit_log,omitempty"`
}

// DefaultConfig returns the layout written by `envelope config init`.
func DefaultConfig() *Config {
	return &Config{
		Keys: KeysConfig{SymmetricBits: DefaultSymmetricBits},
		Paths: PathsConfig{
			SymmetricKey:  "keys/symmetric.key",
			PublicKey:     "keys/public.pem",
			PrivateKey:    "keys/private.pem",
			InitialFile:   "data/plain.txt",
			EncryptedFile: "data/plain.txt.enc",
			DecryptedFile: "data/plain.dec.txt",
			EncryptedKey:  "keys/symmetric.key.wrapped",
			DecryptedKey:  "keys/symmetric.key.unwrapped",
			AuditLog:      ".envelope/audit.jsonl",
		},
	}
}

// LoadConfig reads a config file. Files ending in .json are read in the
// legacy path.json format, anything else as TOML.
func LoadConfig(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}

	var cfg *Config
	if strings.EqualFold(filepath.Ext(absPath), ".json") {
		cfg, err = LoadLegacyConfig(absPath)
	} else {
		cfg = &Config{}
		err = LoadTOML(absPath, cfg)
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}

	if cfg.Keys.SymmetricBits == 0 {
		cfg.Keys.SymmetricBits = DefaultSymmetricBits
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.dir = filepath.Dir(absPath)
	return cfg, nil
}

// SaveConfig writes cfg as TOML.
func SaveConfig(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return SaveTOML(path, cfg)
}

// Validate checks the key size.
func (c *Config) Validate() error {
	switch c.Keys.SymmetricBits {
	case 128, 192, 256:
		return nil
	default:
		return fmt.Errorf("%w: keys.symmetric_bits must be 128, 192 or 256, got %d",
			kerrors.ErrInvalidConfig, c.Keys.SymmetricBits)
	}
}

// Dir returns the directory relative paths resolve against.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir changes the base directory, e.g. for a config built in memory.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// Resolve returns p made absolute against the config directory. Empty paths
// stay empty so callers can tell a slot is not configured.
func (c *Config) Resolve(p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.dir, p)
}

// Resolved returns a copy of Paths with every entry passed through Resolve.
func (c *Config) Resolved() PathsConfig {
	p := c.Paths
	return PathsConfig{
		SymmetricKey:  c.Resolve(p.SymmetricKey),
		PublicKey:     c.Resolve(p.PublicKey),
		PrivateKey:    c.Resolve(p.PrivateKey),
		InitialFile:   c.Resolve(p.InitialFile),
		EncryptedFile: c.Resolve(p.EncryptedFile),
		DecryptedFile: c.Resolve(p.DecryptedFile),
		EncryptedKey:  c.Resolve(p.EncryptedKey),
		DecryptedKey:  c.Resolve(p.DecryptedKey),
		AuditLog:      c.Resolve(p.AuditLog),
	}
}
