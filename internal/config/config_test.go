package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HistoryFile == "" {
		t.Error("expected a non-empty default HistoryFile")
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	content := "stdlib_path:\n  - ./stdlib\n  - ../shared\nhistory_file: custom_history\n"
	if err := os.WriteFile(filepath.Join(dir, ".noorc.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.StdlibPath) != 2 || cfg.StdlibPath[0] != "./stdlib" || cfg.StdlibPath[1] != "../shared" {
		t.Errorf("unexpected stdlib path: %+v", cfg.StdlibPath)
	}
	if cfg.HistoryFile != "custom_history" {
		t.Errorf("expected custom_history, got %q", cfg.HistoryFile)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".noorc.yaml"), []byte("stdlib_path: [unterminated"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
