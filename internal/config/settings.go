// Package config persists user-facing defaults to a JSON settings file
// under ~/.config/diskx, the way the teacher's internal/settings package
// does for its dev-cache toggles — adapted here to hold default scan and
// duplicate-detection options instead.
//
// SSH connection records (spec.md §6 "SSH connection record") are a
// collaborator concern per spec.md §1 ("out of scope ... credential
// storage in the OS keychain"); this package documents their wire shape
// as a type but implements no persistence for it.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/diskx/diskx/internal/duplicates"
	"github.com/diskx/diskx/internal/scanner"
)

// Settings is the persisted set of user defaults.
type Settings struct {
	ScanDefaults       ScanDefaults    `json:"scanDefaults"`
	DuplicateDefaults  DupDefaults     `json:"duplicateDefaults"`
	PermanentDelete    bool            `json:"permanentDelete"`
	DisabledCategories map[string]bool `json:"disabledCategories"`
}

// ScanDefaults mirrors the user-configurable fields of scanner.Options.
type ScanDefaults struct {
	CrossMount      bool     `json:"crossMount"`
	ApparentSize    bool     `json:"apparentSize"`
	ExcludePatterns []string `json:"excludePatterns"`
}

// DupDefaults mirrors the user-configurable fields of duplicates.Config.
type DupDefaults struct {
	MinSize       int64 `json:"minSize"`
	IncludeHidden bool  `json:"includeHidden"`
}

// DefaultSettings returns the baked-in defaults, matching
// scanner.DefaultOptions and duplicates.DefaultConfig.
func DefaultSettings() *Settings {
	return &Settings{
		ScanDefaults: ScanDefaults{
			CrossMount:   false,
			ApparentSize: true,
		},
		DuplicateDefaults: DupDefaults{
			MinSize:       1024,
			IncludeHidden: false,
		},
		DisabledCategories: make(map[string]bool),
	}
}

// ToScanOptions builds a scanner.Options for root using these defaults.
func (s *Settings) ToScanOptions(root string) scanner.Options {
	return scanner.Options{
		Root:            root,
		CrossMount:      s.ScanDefaults.CrossMount,
		ApparentSize:    s.ScanDefaults.ApparentSize,
		ExcludePatterns: s.ScanDefaults.ExcludePatterns,
	}
}

// ToDuplicatesConfig builds a duplicates.Config from these defaults.
func (s *Settings) ToDuplicatesConfig() duplicates.Config {
	return duplicates.Config{
		MinSize:       s.DuplicateDefaults.MinSize,
		IncludeHidden: s.DuplicateDefaults.IncludeHidden,
	}
}

var (
	current *Settings
	mu      sync.RWMutex
)

func settingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "diskx")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.json"), nil
}

// Load reads settings from disk, falling back to DefaultSettings on a
// missing or unreadable file or a parse failure — settings are a
// convenience layer, never a hard dependency.
func Load() (*Settings, error) {
	mu.Lock()
	defer mu.Unlock()

	path, err := settingsPath()
	if err != nil {
		current = DefaultSettings()
		return current, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		current = DefaultSettings()
		return current, nil
	}

	s := DefaultSettings()
	if err := json.Unmarshal(data, s); err != nil {
		current = DefaultSettings()
		return current, nil
	}

	current = s
	return current, nil
}

// Save writes settings to disk and updates the in-memory copy returned by
// Get.
func Save(s *Settings) error {
	mu.Lock()
	defer mu.Unlock()

	path, err := settingsPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	current = s
	return nil
}

// Get returns the current settings, loading them from disk on first use.
func Get() *Settings {
	mu.RLock()
	if current != nil {
		defer mu.RUnlock()
		return current
	}
	mu.RUnlock()

	s, _ := Load()
	return s
}
