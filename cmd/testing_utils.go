// Package cmd contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments,
// capturing output, and running commands through a fresh root command.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/envelope/internal/configs"
	logger "github.com/PolarWolf314/envelope/internal/logging"
	"github.com/spf13/cobra"
)

// setupTestEnvironment changes into tempDir and restores the working
// directory and all command state when the test ends.
func setupTestEnvironment(t *testing.T, tempDir, originalWd string) {
	t.Setenv(configs.ConfigEnvVar, "")

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.ProjectEnvelopeSettings = &configs.ProjectSettings{}
		ResetGlobalState()
		ResetConfigState()
	})

	ResetGlobalState()
	ResetConfigState()
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}

// withStdin runs fn with os.Stdin replaced by a pipe containing data.
func withStdin(t *testing.T, data []byte, fn func() error) error {
	t.Helper()

	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdin pipe: %v", err)
	}
	go func() {
		_, _ = writer.Write(data)
		writer.Close()
	}()

	originalStdin := os.Stdin
	os.Stdin = reader
	defer func() {
		os.Stdin = originalStdin
		reader.Close()
	}()

	return fn()
}

// createTestCLI creates a complete CLI instance for testing that runs args.
func createTestCLI(args []string, stdout, stderr io.Writer) *cobra.Command {
	Logger = logger.Logger{}
	ConfigLogger = logger.Logger{}

	rootCmd := &cobra.Command{
		Use:           "envelope",
		Short:         "envelope - hybrid file encryption",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, c := range []*cobra.Command{KeysCmd, FilesCmd, ConfigCmd, LogCmd, DoctorCmd} {
		rootCmd.AddCommand(c)
		if stdout != nil {
			c.SetOut(stdout)
		}
		if stderr != nil {
			c.SetErr(stderr)
		}
	}
	if stdout != nil {
		rootCmd.SetOut(stdout)
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
	}

	rootCmd.SetArgs(args)
	return rootCmd
}

// runCommand executes args through a fresh CLI and returns the combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureOutput(func() error {
		return createTestCLI(args, nil, nil).Execute()
	})
}

// initializeProject writes envelope.toml and data/plain.txt in the current directory.
func initializeProject(t *testing.T, plaintext string) {
	t.Helper()

	if _, err := runCommand(t, "config", "init"); err != nil {
		t.Fatalf("Failed to initialize project: %v", err)
	}
	if err := os.MkdirAll("data", 0755); err != nil {
		t.Fatalf("Failed to create data directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join("data", "plain.txt"), []byte(plaintext), 0600); err != nil {
		t.Fatalf("Failed to write plaintext: %v", err)
	}
}

// generateProjectKeys runs `keys generate` and fails the test if it does not succeed.
func generateProjectKeys(t *testing.T) {
	t.Helper()

	output, err := runCommand(t, "keys", "generate")
	if err != nil {
		t.Fatalf("Failed to generate keys: %v\n%s", err, output)
	}
}

// verifyKeyFiles verifies that generate created the default key files.
func verifyKeyFiles(t *testing.T, tempDir string) {
	t.Helper()

	for _, name := range []string{"symmetric.key", "public.pem", "private.pem"} {
		path := filepath.Join(tempDir, "keys", name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Key file was not created at %s", path)
		}
	}
}
