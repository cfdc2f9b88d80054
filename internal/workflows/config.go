package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/envelope/internal/audit"
	"github.com/PolarWolf314/envelope/internal/configs"
	kerrors "github.com/PolarWolf314/envelope/internal/errors"
)

// InitConfigOptions configures the config init workflow.
type InitConfigOptions struct {
	// Dir is where envelope.toml is written. Empty means the working directory.
	Dir string

	// Bits overrides the default symmetric key size when non-zero.
	Bits int

	// Force overwrites an existing envelope.toml.
	Force bool
}

// InitConfigResult contains the outcome of a config init operation.
type InitConfigResult struct {
	ConfigPath string
	Config     *configs.Config
}

// InitConfig writes a default envelope.toml.
//
// Returns ErrInvalidConfig if Bits is not 128, 192 or 256.
// Returns an error wrapping fs.ErrExist if the file exists and Force is not set.
func InitConfig(ctx context.Context, opts InitConfigOptions) (*InitConfigResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	configPath := filepath.Join(dir, configs.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return nil, fmt.Errorf("%s: %w", configPath, os.ErrExist)
	}

	cfg := configs.DefaultConfig()
	if opts.Bits != 0 {
		cfg.Keys.SymmetricBits = opts.Bits
	}
	if err := configs.SaveConfig(configPath, cfg); err != nil {
		return nil, err
	}
	cfg.SetDir(dir)

	return &InitConfigResult{ConfigPath: configPath, Config: cfg}, nil
}

// ShowConfigResult is the resolved view printed by `config show`.
type ShowConfigResult struct {
	ConfigPath string              `json:"config_path"`
	Legacy     bool                `json:"legacy"`
	Bits       int                 `json:"symmetric_bits"`
	Paths      configs.PathsConfig `json:"paths"`
}

// ShowConfig loads the config and resolves every path.
//
// Returns ErrConfigNotFound if no config can be located.
func ShowConfig(ctx context.Context, configPath string) (*ShowConfigResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := configs.InitProjectSettings(configPath); err != nil {
		return nil, err
	}
	settings := configs.ProjectEnvelopeSettings
	return &ShowConfigResult{
		ConfigPath: settings.ConfigPath,
		Legacy:     settings.Legacy,
		Bits:       settings.Config.Keys.SymmetricBits,
		Paths:      settings.Config.Resolved(),
	}, nil
}

// MigrateConfigResult contains the outcome of a legacy config migration.
type MigrateConfigResult struct {
	LegacyPath string
	ConfigPath string
	BackupPath string
}

// MigrateConfig converts the discovered path.json into envelope.toml in the
// same directory.
//
// Returns ErrConfigNotFound if no config can be located.
// Returns ErrInvalidConfig if the discovered config is already envelope.toml.
func MigrateConfig(ctx context.Context, configPath string) (*MigrateConfigResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := configs.InitProjectSettings(configPath); err != nil {
		return nil, err
	}
	settings := configs.ProjectEnvelopeSettings
	if !settings.Legacy {
		return nil, fmt.Errorf("%w: %s is already in the current format", kerrors.ErrInvalidConfig, settings.ConfigPath)
	}

	migration, err := configs.MigrateProject(settings.ProjectPath)
	if err != nil {
		return nil, err
	}

	// Entries go to the audit log the new config enables.
	configs.ProjectEnvelopeSettings = &configs.ProjectSettings{
		ConfigPath:  migration.ConfigPath,
		ProjectPath: settings.ProjectPath,
		Config:      migration.Config,
	}
	entry := audit.NewEntry(audit.OpMigrate)
	entry.OutputPath = migration.ConfigPath
	audit.Log(entry)

	return &MigrateConfigResult{
		LegacyPath: settings.ConfigPath,
		ConfigPath: migration.ConfigPath,
		BackupPath: migration.BackupPath,
	}, nil
}
