package configs

import (
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
	"github.com/PolarWolf314/envelope/internal/utils"
)

// ProjectSettings describes the config the current command runs against.
type ProjectSettings struct {
	ConfigPath  string
	ProjectPath string
	Legacy      bool
	Config      *Config
}

// ProjectEnvelopeSettings is populated by InitProjectSettings. Before that,
// or when no config was found, it is empty and Config is nil.
var ProjectEnvelopeSettings = &ProjectSettings{}

// FindConfig locates the config file to use. An explicit path wins, then
// $ENVELOPE_CONFIG, then the nearest envelope.toml or path.json above
// startDir. An empty string means nothing was found.
func FindConfig(explicit, startDir string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(ConfigEnvVar)
	}
	if explicit != "" {
		return filepath.Abs(explicit)
	}

	dir, name, err := utils.FindConfigRoot(startDir, ConfigFileName, LegacyConfigFileName)
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", nil
	}
	return filepath.Join(dir, name), nil
}

// InitProjectSettings finds and loads the config, then publishes it in
// ProjectEnvelopeSettings. It returns ErrConfigNotFound when there is none.
func InitProjectSettings(explicit string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	configPath, err := FindConfig(explicit, cwd)
	if err != nil {
		ProjectEnvelopeSettings = &ProjectSettings{}
		return fmt.Errorf("error finding config: %w", err)
	}
	if configPath == "" {
		ProjectEnvelopeSettings = &ProjectSettings{}
		return fmt.Errorf("%w: no %s or %s in %s or any parent directory",
			kerrors.ErrConfigNotFound, ConfigFileName, LegacyConfigFileName, cwd)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		ProjectEnvelopeSettings = &ProjectSettings{}
		return err
	}

	ProjectEnvelopeSettings = &ProjectSettings{
		ConfigPath:  configPath,
		ProjectPath: cfg.Dir(),
		Legacy:      filepath.Base(configPath) == LegacyConfigFileName,
		Config:      cfg,
	}
	return nil
}
