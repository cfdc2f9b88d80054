package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(original) })
}

func TestFindConfig_Precedence(t *testing.T) {
	tempDir := t.TempDir()
	nested := filepath.Join(tempDir, "project", "src")
	writeTestFile(t, filepath.Join(tempDir, "project", ConfigFileName), "")
	writeTestFile(t, filepath.Join(tempDir, "other.toml"), "")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	t.Setenv(ConfigEnvVar, "")

	got, err := FindConfig("", nested)
	if err != nil {
		t.Fatalf("FindConfig failed: %v", err)
	}
	if want := filepath.Join(tempDir, "project", ConfigFileName); got != want {
		t.Errorf("Walk-up: expected %s, got %s", want, got)
	}

	t.Setenv(ConfigEnvVar, filepath.Join(tempDir, "other.toml"))
	got, _ = FindConfig("", nested)
	if got != filepath.Join(tempDir, "other.toml") {
		t.Errorf("Env var should win over walk-up, got %s", got)
	}

	explicit := filepath.Join(tempDir, "explicit.toml")
	got, _ = FindConfig(explicit, nested)
	if got != explicit {
		t.Errorf("Explicit path should win, got %s", got)
	}
}

func TestInitProjectSettings(t *testing.T) {
	original := ProjectEnvelopeSettings
	defer func() { ProjectEnvelopeSettings = original }()
	t.Setenv(ConfigEnvVar, "")

	tempDir := t.TempDir()
	chdir(t, tempDir)

	if err := InitProjectSettings(""); !errors.Is(err, kerrors.ErrConfigNotFound) {
		t.Fatalf("Expected ErrConfigNotFound, got %v", err)
	}
	if ProjectEnvelopeSettings.Config != nil {
		t.Error("Settings should be empty when no config is found")
	}

	if err := SaveConfig(filepath.Join(tempDir, ConfigFileName), DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if err := InitProjectSettings(""); err != nil {
		t.Fatalf("InitProjectSettings failed: %v", err)
	}

	// Resolve symlinks so macOS /private/var temp paths compare equal.
	wantDir, _ := filepath.EvalSymlinks(tempDir)
	gotDir, _ := filepath.EvalSymlinks(ProjectEnvelopeSettings.ProjectPath)
	if gotDir != wantDir {
		t.Errorf("Expected project path %s, got %s", wantDir, gotDir)
	}
	if ProjectEnvelopeSettings.Legacy {
		t.Error("envelope.toml should not be flagged legacy")
	}
	if ProjectEnvelopeSettings.Config == nil || ProjectEnvelopeSettings.Config.Keys.SymmetricBits != 256 {
		t.Error("Config was not loaded")
	}
}

func TestInitProjectSettings_InvalidConfigClearsPrevious(t *testing.T) {
	original := ProjectEnvelopeSettings
	defer func() { ProjectEnvelopeSettings = original }()
	t.Setenv(ConfigEnvVar, "")

	good := t.TempDir()
	if err := SaveConfig(filepath.Join(good, ConfigFileName), DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if err := InitProjectSettings(filepath.Join(good, ConfigFileName)); err != nil {
		t.Fatalf("InitProjectSettings failed: %v", err)
	}
	if ProjectEnvelopeSettings.Config == nil {
		t.Fatal("Expected settings to be loaded")
	}

	broken := filepath.Join(t.TempDir(), ConfigFileName)
	writeTestFile(t, broken, "[keys\nsymmetric_bits = ")
	if err := InitProjectSettings(broken); err == nil {
		t.Fatal("Expected an error for a malformed config")
	}
	if ProjectEnvelopeSettings.Config != nil || ProjectEnvelopeSettings.ConfigPath != "" {
		t.Errorf("Settings from the previous project should be cleared, got %+v", ProjectEnvelopeSettings)
	}
}
