package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Method != "scan" {
		t.Errorf("Method = %q, want scan", cfg.Method)
	}
	if cfg.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want 1", cfg.MaxDepth)
	}
	if cfg.CaseSensitive {
		t.Error("searches should default to case-insensitive")
	}
	if cfg.MaxLineLength != 10000 {
		t.Errorf("MaxLineLength = %d, want 10000", cfg.MaxLineLength)
	}
	if !cfg.History {
		t.Error("history should default to enabled")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.Method != "scan" {
		t.Errorf("Method = %q, want default scan", cfg.Method)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
method: glob
max_depth: 5
case_sensitive: true
include: "*.go,*.md"
log_level: debug
history: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Method != "glob" {
		t.Errorf("Method = %q, want glob", cfg.Method)
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want 5", cfg.MaxDepth)
	}
	if !cfg.CaseSensitive {
		t.Error("CaseSensitive should be true")
	}
	if cfg.Include != "*.go,*.md" {
		t.Errorf("Include = %q", cfg.Include)
	}
	if cfg.History {
		t.Error("History should be false")
	}
	// Unset keys keep their defaults.
	if cfg.MaxLineLength != 10000 {
		t.Errorf("MaxLineLength = %d, want default 10000", cfg.MaxLineLength)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("method: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("malformed yaml should error")
	}
}

func TestLoadRejectsNegativeDepth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("max_depth: -2"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("negative max_depth should error")
	}
}
