package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestFilesIntegration contains integration tests for the `envelope files` commands.
func TestFilesIntegration(t *testing.T) {
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}

	t.Run("EncryptWithoutKeys", func(t *testing.T) {
		testEncryptWithoutKeys(t, originalWd)
	})

	t.Run("EncryptDecryptDefaultPaths", func(t *testing.T) {
		testEncryptDecryptDefaultPaths(t, originalWd)
	})

	t.Run("EncryptDryRun", func(t *testing.T) {
		testEncryptDryRun(t, originalWd)
	})

	t.Run("EncryptGlobFromSubfolder", func(t *testing.T) {
		testEncryptGlobFromSubfolder(t, originalWd)
	})

	t.Run("DecryptWithUnwrappedKey", func(t *testing.T) {
		testDecryptWithUnwrappedKey(t, originalWd)
	})

	t.Run("DecryptCorruptFileFails", func(t *testing.T) {
		testDecryptCorruptFileFails(t, originalWd)
	})

	t.Run("DecryptUnwrappedKeyWithoutPath", func(t *testing.T) {
		testDecryptUnwrappedKeyWithoutPath(t, originalWd)
	})
}

func testEncryptWithoutKeys(t *testing.T, originalWd string) {
	setupTestEnvironment(t, t.TempDir(), originalWd)
	initializeProject(t, testPlaintext)

	output, err := runCommand(t, "files", "encrypt")
	if err == nil {
		t.Errorf("Expected encrypt without keys to fail, output: %s", output)
	}
	if !strings.Contains(output, "A required key is missing") {
		t.Errorf("Expected missing key message not found in output: %s", output)
	}
}

func testEncryptDecryptDefaultPaths(t *testing.T, originalWd string) {
	tempDir := t.TempDir()
	setupTestEnvironment(t, tempDir, originalWd)
	initializeProject(t, testPlaintext)
	generateProjectKeys(t)

	output, err := runCommand(t, "files", "encrypt")
	if err != nil {
		t.Fatalf("Encrypt failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Files encrypted successfully") {
		t.Errorf("Expected encrypt success message not found in output: %s", output)
	}
	if !strings.Contains(output, filepath.Join("data", "plain.txt.enc")) {
		t.Errorf("Expected encrypted file in output: %s", output)
	}

	output, err = runCommand(t, "files", "decrypt")
	if err != nil {
		t.Fatalf("Decrypt failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Files decrypted successfully") {
		t.Errorf("Expected decrypt success message not found in output: %s", output)
	}

	data, err := os.ReadFile(filepath.Join(tempDir, "data", "plain.dec.txt"))
	if err != nil {
		t.Fatalf("Failed to read decrypted file: %v", err)
	}
	if string(data) != testPlaintext {
		t.Errorf("Round trip mismatch: %q", data)
	}
}

func testEncryptDryRun(t *testing.T, originalWd string) {
	tempDir := t.TempDir()
	setupTestEnvironment(t, tempDir, originalWd)
	initializeProject(t, testPlaintext)
	generateProjectKeys(t)

	output, err := runCommand(t, "files", "encrypt", "--dry-run")
	if err != nil {
		t.Fatalf("Dry run failed: %v", err)
	}
	if !strings.Contains(output, "[dry-run]") || !strings.Contains(output, "No changes made") {
		t.Errorf("Expected dry run output, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "data", "plain.txt.enc")); !os.IsNotExist(err) {
		t.Error("Dry run should not create the encrypted file")
	}
}

func testEncryptGlobFromSubfolder(t *testing.T, originalWd string) {
	tempDir := t.TempDir()
	setupTestEnvironment(t, tempDir, originalWd)
	initializeProject(t, testPlaintext)
	generateProjectKeys(t)

	for _, name := range []string{"services/api/.env", "services/web/.env"} {
		path := filepath.Join(tempDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(name), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	// Patterns resolve against the project root, not the working directory.
	if err := os.Chdir(filepath.Join(tempDir, "services")); err != nil {
		t.Fatalf("Failed to change to subfolder: %v", err)
	}

	output, err := runCommand(t, "files", "encrypt", "services/**/.env")
	if err != nil {
		t.Fatalf("Encrypt failed: %v\n%s", err, output)
	}
	for _, name := range []string{"services/api/.env.enc", "services/web/.env.enc"} {
		if _, err := os.Stat(filepath.Join(tempDir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func testDecryptWithUnwrappedKey(t *testing.T, originalWd string) {
	tempDir := t.TempDir()
	setupTestEnvironment(t, tempDir, originalWd)
	initializeProject(t, testPlaintext)
	generateProjectKeys(t)

	for _, args := range [][]string{{"files", "encrypt"}, {"keys", "wrap"}, {"keys", "unwrap"}} {
		if output, err := runCommand(t, args...); err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, output)
		}
	}
	if err := os.Remove(filepath.Join(tempDir, "keys", "symmetric.key")); err != nil {
		t.Fatalf("Failed to remove symmetric key: %v", err)
	}

	output, err := runCommand(t, "files", "decrypt", "--unwrapped-key")
	if err != nil {
		t.Fatalf("Decrypt failed: %v\n%s", err, output)
	}
	data, _ := os.ReadFile(filepath.Join(tempDir, "data", "plain.dec.txt"))
	if string(data) != testPlaintext {
		t.Errorf("Round trip mismatch: %q", data)
	}
}

func testDecryptCorruptFileFails(t *testing.T, originalWd string) {
	tempDir := t.TempDir()
	setupTestEnvironment(t, tempDir, originalWd)
	initializeProject(t, testPlaintext)
	generateProjectKeys(t)

	// 20 bytes is not a whole number of blocks.
	if err := os.WriteFile(filepath.Join(tempDir, "data", "plain.txt.enc"), make([]byte, 20), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	output, err := runCommand(t, "files", "decrypt")
	if err == nil {
		t.Errorf("Expected decrypt to fail, output: %s", output)
	}
	if !strings.Contains(output, "Failed to decrypt") {
		t.Errorf("Expected decrypt failure message not found in output: %s", output)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "data", "plain.dec.txt")); !os.IsNotExist(err) {
		t.Error("Failed decrypt should not create output")
	}
}

func testDecryptUnwrappedKeyWithoutPath(t *testing.T, originalWd string) {
	setupTestEnvironment(t, t.TempDir(), originalWd)
	initializeProject(t, testPlaintext)
	generateProjectKeys(t)

	if output, err := runCommand(t, "files", "encrypt"); err != nil {
		t.Fatalf("Encrypt failed: %v\n%s", err, output)
	}

	data, err := os.ReadFile("envelope.toml")
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "decrypted_key") {
			kept = append(kept, line)
		}
	}
	if err := os.WriteFile("envelope.toml", []byte(strings.Join(kept, "\n")), 0644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}

	output, _ := runCommand(t, "files", "decrypt", "--unwrapped-key")
	if !strings.Contains(output, "paths.decrypted_key") {
		t.Errorf("Expected the unconfigured path to be named, got: %s", output)
	}
	if !strings.Contains(output, "Set it in") {
		t.Errorf("Expected a hint to set the path in envelope.toml, got: %s", output)
	}
}
