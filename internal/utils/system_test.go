package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
)

func TestGetUsername(t *testing.T) {
	username, err := GetUsername()
	if err != nil {
		t.Fatalf("GetUsername failed: %v", err)
	}
	if username == "" {
		t.Fatal("Expected non-empty username")
	}
}

func TestGetHostname(t *testing.T) {
	hostname, err := GetHostname()
	if err != nil {
		t.Fatalf("GetHostname failed: %v", err)
	}
	if hostname == "" {
		t.Fatal("Expected non-empty hostname")
	}
}

func TestFindConfigRoot(t *testing.T) {
	tempDir := t.TempDir()
	nested := filepath.Join(tempDir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}

	t.Run("NotFound", func(t *testing.T) {
		dir, name, err := FindConfigRoot(nested, "envelope-missing.toml")
		if err != nil {
			t.Fatalf("FindConfigRoot failed: %v", err)
		}
		if dir != "" || name != "" {
			t.Errorf("Expected nothing, got %q %q", dir, name)
		}
	})

	// #nosec G306 -- test config.
	if err := os.WriteFile(filepath.Join(tempDir, "a", "path.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write legacy config: %v", err)
	}

	t.Run("FindsInParent", func(t *testing.T) {
		dir, name, err := FindConfigRoot(nested, "envelope.toml", "path.json")
		if err != nil {
			t.Fatalf("FindConfigRoot failed: %v", err)
		}
		if dir != filepath.Join(tempDir, "a") || name != "path.json" {
			t.Errorf("Expected %s/path.json, got %s/%s", filepath.Join(tempDir, "a"), dir, name)
		}
	})

	// #nosec G306 -- test config.
	if err := os.WriteFile(filepath.Join(tempDir, "a", "envelope.toml"), []byte(""), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Run("PrefersEarlierName", func(t *testing.T) {
		_, name, err := FindConfigRoot(nested, "envelope.toml", "path.json")
		if err != nil {
			t.Fatalf("FindConfigRoot failed: %v", err)
		}
		if name != "envelope.toml" {
			t.Errorf("Expected envelope.toml, got %s", name)
		}
	})

	t.Run("IgnoresDirectories", func(t *testing.T) {
		if err := os.MkdirAll(filepath.Join(nested, "envelope.toml"), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		dir, _, err := FindConfigRoot(nested, "envelope.toml")
		if err != nil {
			t.Fatalf("FindConfigRoot failed: %v", err)
		}
		if dir != filepath.Join(tempDir, "a") {
			t.Errorf("Expected %s, got %s", filepath.Join(tempDir, "a"), dir)
		}
	})
}

func TestFileExists(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "key")

	exists, err := FileExists(path)
	if err != nil || exists {
		t.Fatalf("Expected missing file, got exists=%v err=%v", exists, err)
	}

	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	exists, err = FileExists(path)
	if err != nil || !exists {
		t.Fatalf("Expected existing file, got exists=%v err=%v", exists, err)
	}
}

func TestFormatPaths(t *testing.T) {
	color.NoColor = true

	got := FormatPaths([]string{"a.txt.enc", "b.txt.enc"})
	want := "\n    - a.txt.enc\n    - b.txt.enc\n"
	if got != want {
		t.Errorf("FormatPaths() = %q, want %q", got, want)
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 files"},
		{1, "1 file"},
		{12, "12 files"},
	}
	for _, tt := range tests {
		if got := Pluralize(tt.n, "file"); got != tt.want {
			t.Errorf("Pluralize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
