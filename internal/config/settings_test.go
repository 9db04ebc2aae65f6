package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	current = nil
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	withTempHome(t)

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.DuplicateDefaults.MinSize != 1024 || s.DuplicateDefaults.IncludeHidden {
		t.Fatalf("expected baked-in defaults, got %+v", s.DuplicateDefaults)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	home := withTempHome(t)

	s := DefaultSettings()
	s.PermanentDelete = true
	s.ScanDefaults.ExcludePatterns = []string{"**/node_modules/**"}

	if err := Save(s); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	current = nil
	loaded, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !loaded.PermanentDelete {
		t.Fatalf("expected PermanentDelete to round-trip true")
	}
	if len(loaded.ScanDefaults.ExcludePatterns) != 1 || loaded.ScanDefaults.ExcludePatterns[0] != "**/node_modules/**" {
		t.Fatalf("expected exclude patterns to round-trip, got %v", loaded.ScanDefaults.ExcludePatterns)
	}

	if _, err := os.Stat(filepath.Join(home, ".config", "diskx", "settings.json")); err != nil {
		t.Fatalf("expected settings file on disk: %v", err)
	}
}

func TestToScanOptionsAndDuplicatesConfig(t *testing.T) {
	s := DefaultSettings()
	s.ScanDefaults.CrossMount = true
	s.DuplicateDefaults.MinSize = 4096

	opts := s.ToScanOptions("/some/root")
	if opts.Root != "/some/root" || !opts.CrossMount {
		t.Fatalf("unexpected scan options: %+v", opts)
	}

	dupCfg := s.ToDuplicatesConfig()
	if dupCfg.MinSize != 4096 {
		t.Fatalf("unexpected duplicates config: %+v", dupCfg)
	}
}
