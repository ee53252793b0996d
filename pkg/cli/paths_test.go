package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewPaths(t *testing.T) {
	paths, err := NewPaths()
	if err != nil {
		t.Fatalf("NewPaths error: %v", err)
	}

	if paths.HomeDir == "" {
		t.Error("HomeDir should not be empty")
	}
}

func TestPaths_BaseDir(t *testing.T) {
	tmpDir := t.TempDir()
	paths := &Paths{HomeDir: tmpDir}

	baseDir := paths.BaseDir()
	expected := filepath.Join(tmpDir, DefaultBaseDir)

	if baseDir != expected {
		t.Errorf("BaseDir() = %q, want %q", baseDir, expected)
	}
}

func TestPaths_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	paths := &Paths{HomeDir: tmpDir}

	configFile := paths.ConfigFile()
	expected := filepath.Join(tmpDir, DefaultBaseDir, DefaultConfigFile)

	if configFile != expected {
		t.Errorf("ConfigFile() = %q, want %q", configFile, expected)
	}
}

func TestPaths_CachePath(t *testing.T) {
	tmpDir := t.TempDir()
	paths := &Paths{HomeDir: tmpDir}

	cachePath := paths.CachePath("file.txt")
	expected := filepath.Join(paths.CacheDir(), "file.txt")

	if cachePath != expected {
		t.Errorf("CachePath() = %q, want %q", cachePath, expected)
	}
	if !strings.HasSuffix(paths.CacheDir(), "cache") {
		t.Errorf("CacheDir() = %q, should end with 'cache'", paths.CacheDir())
	}
}

func TestPaths_EnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()
	paths := &Paths{HomeDir: tmpDir}

	if err := paths.EnsureBaseDir(); err != nil {
		t.Fatalf("EnsureBaseDir error: %v", err)
	}
	if err := paths.EnsureCacheDir(); err != nil {
		t.Fatalf("EnsureCacheDir error: %v", err)
	}

	for _, dir := range []string{paths.BaseDir(), paths.CacheDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("%s not created: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s should be a directory", dir)
		}
	}
}
