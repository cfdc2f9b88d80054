package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadTOML(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.toml")

	original := DefaultConfig()
	if err := SaveTOML(testFile, original); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded := &Config{}
	if err := LoadTOML(testFile, loaded); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}

	if loaded.Keys != original.Keys {
		t.Errorf("Expected keys %+v, got %+v", original.Keys, loaded.Keys)
	}
	if loaded.Paths != original.Paths {
		t.Errorf("Expected paths %+v, got %+v", original.Paths, loaded.Paths)
	}
}

func TestLoadTOMLNonExistent(t *testing.T) {
	err := LoadTOML(filepath.Join(t.TempDir(), "nonexistent.toml"), &Config{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Expected not-exist error, got %v", err)
	}
}

func TestLoadTOMLUnknownKeys(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "typo.toml")
	content := "[paths]\nsymetric_key = \"k\"\n"
	if err := os.WriteFile(testFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	err := LoadTOML(testFile, &Config{})
	var unknown *UnknownKeysError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownKeysError, got %v", err)
	}
	if len(unknown.Keys) != 1 || unknown.Keys[0].String() != "paths.symetric_key" {
		t.Errorf("Unexpected unknown keys: %v", unknown.Keys)
	}
}

func TestSaveTOMLCreatesDirectory(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "subdir", "test.toml")

	if err := SaveTOML(testFile, DefaultConfig()); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}
	if _, err := os.Stat(testFile); os.IsNotExist(err) {
		t.Fatal("File was not created")
	}
}
